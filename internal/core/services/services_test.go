package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/core/services"
	"github.com/ammerola/wms-ledger/test/fakes"
	"github.com/ammerola/wms-ledger/test/helpers"
)

// warehouse is an in-memory ledger with three shelves: S1 and S2 are
// stackable, S3 is not.
type warehouse struct {
	ledger *fakes.Ledger
	user   uuid.UUID
	s1     domain.Shelf
	s2     domain.Shelf
	s3     domain.Shelf
	intake *services.LoadIntake
}

func newWarehouse(t *testing.T) *warehouse {
	t.Helper()
	l := fakes.NewLedger()
	w := &warehouse{
		ledger: l,
		user:   l.AddUser("Dana Operator"),
		s1:     l.AddShelf("A", "01", domain.ShelfType{Name: "standard", Stackable: true}),
		s2:     l.AddShelf("A", "02", domain.ShelfType{Name: "standard", Stackable: true}),
		s3:     l.AddShelf("B", "01", domain.ShelfType{Name: "single", Stackable: false}),
	}
	w.intake = services.NewLoadIntake(w.intakeDeps(nil), services.IntakeConfig{}, helpers.TestLogger())
	return w
}

func (w *warehouse) intakeDeps(cache ports.CacheRepository) services.IntakeDeps {
	return services.IntakeDeps{
		Tx:         w.ledger,
		Loads:      w.ledger.LoadRepository(),
		Packages:   w.ledger.PackageRepository(),
		Placements: w.ledger.PlacementStore(),
		Shelves:    w.ledger.ShelfRepository(),
		Cache:      cache,
	}
}

func (w *warehouse) movementDeps() services.MovementDeps {
	return services.MovementDeps{
		Tx:         w.ledger,
		Placements: w.ledger.PlacementStore(),
		Packages:   w.ledger.PackageRepository(),
		Shelves:    w.ledger.ShelfRepository(),
		History:    w.ledger.TransactionRepository(),
		Sequence:   &fakes.Sequence{},
	}
}

func (w *warehouse) processor(cfg services.MovementConfig) *services.TransactionProcessor {
	return services.NewTransactionProcessor(w.movementDeps(), cfg, helpers.TestLogger())
}

func (w *warehouse) spec(productID uuid.UUID, quantity int, shelf domain.Shelf) domain.PackageSpec {
	return domain.PackageSpec{
		ProductID:     productID,
		Quantity:      quantity,
		Weight:        decimal.NewFromInt(1),
		Stackable:     true,
		Type:          domain.PackageTypeBox,
		TargetShelfID: shelf.ID,
	}
}

// receive stores one package of quantity units of a new product on shelf.
func (w *warehouse) receive(t *testing.T, quantity int, shelf domain.Shelf) domain.Package {
	t.Helper()
	receipt, err := w.intake.ReceiveLoad(context.Background(), domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "DOC-" + uuid.NewString()[:6],
		DeclaredValue:  decimal.NewFromInt(250),
		ActingUserID:   w.user,
		Packages:       []domain.PackageSpec{w.spec(uuid.New(), quantity, shelf)},
	})
	require.NoError(t, err)
	require.Len(t, receipt.PackageIDs, 1)

	pkg, ok := w.ledger.PackageByID(receipt.PackageIDs[0])
	require.True(t, ok)
	return pkg
}

func (w *warehouse) outbound(pkg domain.Package, from domain.Shelf, qty int) domain.MovementRequest {
	return domain.MovementRequest{
		Type:          domain.TransactionOutbound,
		PackageID:     pkg.ID,
		SourceShelfID: from.ID,
		Quantity:      qty,
		ActingUserID:  w.user,
	}
}

func (w *warehouse) transfer(pkg domain.Package, from, to domain.Shelf, qty int) domain.MovementRequest {
	dest := to.ID
	return domain.MovementRequest{
		Type:               domain.TransactionInternalTransfer,
		PackageID:          pkg.ID,
		SourceShelfID:      from.ID,
		DestinationShelfID: &dest,
		Quantity:           qty,
		ActingUserID:       w.user,
	}
}

// requireConserved asserts placed + deducted == original for every package.
func (w *warehouse) requireConserved(t *testing.T) {
	t.Helper()
	for _, c := range w.ledger.Conservation() {
		require.True(t, c.Balanced(), "package %s: placed %d + deducted %d != original %d",
			c.PackageID, c.Placed, c.Deducted, c.Original)
	}
}

var fastRetry = services.MovementConfig{MaxRetries: 3, RetryBackoff: time.Millisecond}
