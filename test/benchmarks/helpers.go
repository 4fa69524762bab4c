// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/services"
	"github.com/ammerola/wms-ledger/test/fakes"
	"github.com/ammerola/wms-ledger/test/helpers"
)

// benchWarehouse is an in-memory warehouse with a row of stackable shelves
type benchWarehouse struct {
	ledger    *fakes.Ledger
	user      uuid.UUID
	shelves   []domain.Shelf
	intake    *services.LoadIntake
	processor *services.TransactionProcessor
	locations *services.LocationQuery
}

func newBenchWarehouse(b *testing.B, shelfCount int) *benchWarehouse {
	b.Helper()
	l := fakes.NewLedger()
	w := &benchWarehouse{ledger: l, user: l.AddUser("Bench Operator")}

	st := domain.ShelfType{Name: "bench", MaxWeight: decimal.NewFromInt(10000), Stackable: true}
	for i := 0; i < shelfCount; i++ {
		w.shelves = append(w.shelves, l.AddShelf("R", fmt.Sprintf("%02d", i+1), st))
	}

	log := helpers.TestLogger()
	w.intake = services.NewLoadIntake(services.IntakeDeps{
		Tx:         l,
		Loads:      l.LoadRepository(),
		Packages:   l.PackageRepository(),
		Placements: l.PlacementStore(),
		Shelves:    l.ShelfRepository(),
	}, services.IntakeConfig{ValidateCapacity: true}, log)
	w.processor = services.NewTransactionProcessor(services.MovementDeps{
		Tx:         l,
		Placements: l.PlacementStore(),
		Packages:   l.PackageRepository(),
		Shelves:    l.ShelfRepository(),
		History:    l.TransactionRepository(),
		Sequence:   &fakes.Sequence{},
	}, services.MovementConfig{MaxRetries: 3}, log)
	w.locations = services.NewLocationQuery(l.PlacementStore(), l.PackageRepository(), nil, 0, log)
	return w
}

// receive stores packages of one product, one per shelf, and returns them
func (w *benchWarehouse) receive(b *testing.B, productID uuid.UUID, quantity int) []uuid.UUID {
	b.Helper()
	req := domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "BENCH-" + uuid.NewString()[:8],
		DeclaredValue:  decimal.NewFromInt(100),
		ActingUserID:   w.user,
	}
	for _, shelf := range w.shelves {
		req.Packages = append(req.Packages, domain.PackageSpec{
			ProductID:     productID,
			Quantity:      quantity,
			Weight:        decimal.NewFromFloat(0.5),
			Stackable:     true,
			Type:          domain.PackageTypeBox,
			TargetShelfID: shelf.ID,
		})
	}
	receipt, err := w.intake.ReceiveLoad(context.Background(), req)
	if err != nil {
		b.Fatalf("failed to receive bench load: %v", err)
	}
	return receipt.PackageIDs
}

func (w *benchWarehouse) transfer(packageID uuid.UUID, from, to domain.Shelf, quantity int) domain.MovementRequest {
	dest := to.ID
	return domain.MovementRequest{
		Type:               domain.TransactionInternalTransfer,
		PackageID:          packageID,
		SourceShelfID:      from.ID,
		DestinationShelfID: &dest,
		Quantity:           quantity,
		ActingUserID:       w.user,
	}
}
