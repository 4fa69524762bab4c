// internal/core/ports/stores.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/wms-ledger/internal/core/domain"
)

// Methods taking a pgx.Tx participate in the caller's transaction and may
// lock rows. Methods without one read committed state from the pool.

// PlacementStore is the authoritative record of package quantities per shelf.
type PlacementStore interface {
	GetPlacementsForProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductLocation, error)
	ListPackagePlacements(ctx context.Context, packageID uuid.UUID) ([]domain.ProductLocation, error)
	GetPlacement(ctx context.Context, packageID, shelfID uuid.UUID) (*domain.Placement, error)

	GetPlacementForUpdate(ctx context.Context, tx pgx.Tx, packageID, shelfID uuid.UUID) (*domain.Placement, error)
	ListShelfOccupants(ctx context.Context, tx pgx.Tx, shelfID uuid.UUID) ([]domain.Placement, error)
	// UpsertPlacement writes p guarded by p.Version. A zero quantity deletes the row.
	UpsertPlacement(ctx context.Context, tx pgx.Tx, p *domain.Placement) error
	CreateInitialPlacement(ctx context.Context, tx pgx.Tx, p *domain.Placement) error
}

// PackageRepository persists packages and their deducted counter.
type PackageRepository interface {
	Create(ctx context.Context, tx pgx.Tx, pkg *domain.Package) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Package, error)
	AddDeducted(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error

	FindByID(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	FindByLoad(ctx context.Context, loadID uuid.UUID) ([]domain.Package, error)
	CheckConservation(ctx context.Context, id uuid.UUID) (*domain.Conservation, error)
	FindConservationViolations(ctx context.Context, limit int) ([]domain.Conservation, error)
}

// ShelfRepository reads shelves together with their rack and shelf type.
type ShelfRepository interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Shelf, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Shelf, error)
}

// LoadRepository persists supplier loads.
type LoadRepository interface {
	Create(ctx context.Context, tx pgx.Tx, load *domain.Load) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Load, error)
	// UpdateStatus moves a load from one status to another, failing when the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.LoadStatus) (*domain.Load, error)
}

// TransactionRepository is the append-only movement history.
type TransactionRepository interface {
	Append(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	ListByPackage(ctx context.Context, packageID uuid.UUID, limit int) ([]domain.Transaction, error)
	ListJournal(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error)
}
