// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/wms-ledger/internal/core/domain"
)

// MovementService processes outbound and internal transfer movements.
type MovementService interface {
	ProcessTransaction(ctx context.Context, req domain.MovementRequest) (*domain.MovementResult, error)
	History(ctx context.Context, packageID uuid.UUID, limit int) ([]domain.Transaction, error)
}

// IntakeService receives loads and manages their workflow status.
type IntakeService interface {
	ReceiveLoad(ctx context.Context, req domain.LoadRequest) (*domain.LoadReceipt, error)
	GetLoad(ctx context.Context, id uuid.UUID) (*domain.Load, error)
	UpdateLoadStatus(ctx context.Context, id uuid.UUID, status domain.LoadStatus) (*domain.Load, error)
}

// LocationService answers where stock is.
type LocationService interface {
	LocationsForProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductLocation, error)
	PackageSummary(ctx context.Context, packageID uuid.UUID) (*domain.PackageSummary, error)
}
