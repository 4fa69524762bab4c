// internal/core/services/intake.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/wms-ledger/internal/core/capacity"
	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
)

// IntakeDeps are the collaborators of the load intake. Cache is optional.
type IntakeDeps struct {
	Tx         ports.Transactor
	Loads      ports.LoadRepository
	Packages   ports.PackageRepository
	Placements ports.PlacementStore
	Shelves    ports.ShelfRepository
	Checker    *capacity.Checker
	Cache      ports.CacheRepository
}

// IntakeConfig tunes load intake.
type IntakeConfig struct {
	// ValidateCapacity runs the shelf capacity check for every initial placement.
	ValidateCapacity bool
}

// LoadIntake creates loads, their packages and the initial placements.
type LoadIntake struct {
	tx         ports.Transactor
	loads      ports.LoadRepository
	packages   ports.PackageRepository
	placements ports.PlacementStore
	shelves    ports.ShelfRepository
	checker    *capacity.Checker
	cache      ports.CacheRepository
	config     IntakeConfig
	logger     *slog.Logger
}

// Statically assert that *LoadIntake implements the IntakeService interface.
var _ ports.IntakeService = (*LoadIntake)(nil)

// NewLoadIntake creates a load intake service
func NewLoadIntake(deps IntakeDeps, config IntakeConfig, logger *slog.Logger) *LoadIntake {
	if deps.Checker == nil {
		deps.Checker = capacity.NewChecker()
	}
	return &LoadIntake{
		tx:         deps.Tx,
		loads:      deps.Loads,
		packages:   deps.Packages,
		placements: deps.Placements,
		shelves:    deps.Shelves,
		checker:    deps.Checker,
		cache:      deps.Cache,
		config:     config,
		logger:     logger.With(slog.String("service", "intake")),
	}
}

// ReceiveLoad persists a load with all of its packages. Each package is
// placed in full on its target shelf. Either everything is stored or nothing.
func (s *LoadIntake) ReceiveLoad(ctx context.Context, req domain.LoadRequest) (*domain.LoadReceipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	load := &domain.Load{
		ID:             uuid.New(),
		SupplierID:     req.SupplierID,
		DocumentNumber: req.DocumentNumber,
		DeclaredValue:  req.DeclaredValue,
		Status:         domain.LoadStatusReceived,
		CreatedBy:      req.ActingUserID,
	}
	receipt := &domain.LoadReceipt{
		LoadID:     load.ID,
		PackageIDs: make([]uuid.UUID, 0, len(req.Packages)),
	}
	products := make(map[uuid.UUID]struct{}, len(req.Packages))

	if err := ctx.Err(); err != nil {
		return nil, timeoutError(err)
	}

	writeCtx := context.WithoutCancel(ctx)
	committing := false

	err := s.tx.Transaction(writeCtx, func(tx pgx.Tx) error {
		committing = true
		if err := s.loads.Create(writeCtx, tx, load); err != nil {
			return err
		}

		for i, spec := range req.Packages {
			pkg := spec.ToPackage(load.ID)

			if s.config.ValidateCapacity {
				if err := s.checkShelf(writeCtx, tx, spec.TargetShelfID, pkg); err != nil {
					var le *domain.Error
					if errors.As(err, &le) {
						return le.With("package_index", i)
					}
					return err
				}
			}

			if err := s.packages.Create(writeCtx, tx, &pkg); err != nil {
				return err
			}

			placement := &domain.Placement{
				PackageID:      pkg.ID,
				ShelfID:        spec.TargetShelfID,
				Quantity:       pkg.OriginalQuantity,
				LastModifiedBy: req.ActingUserID,
			}
			if err := s.placements.CreateInitialPlacement(writeCtx, tx, placement); err != nil {
				return err
			}

			receipt.PackageIDs = append(receipt.PackageIDs, pkg.ID)
			products[pkg.ProductID] = struct{}{}
		}
		return nil
	})
	if err != nil {
		err = mapAttemptError(ctx, err, committing)
		s.logger.WarnContext(ctx, "load intake rejected",
			slog.String("document_number", req.DocumentNumber),
			slog.String("code", string(domain.CodeOf(err))),
			slog.Any("error", err))
		return nil, err
	}

	s.invalidate(ctx, products)

	s.logger.InfoContext(ctx, "load received",
		slog.String("load_id", load.ID.String()),
		slog.String("document_number", load.DocumentNumber),
		slog.Int("packages", len(receipt.PackageIDs)))

	return receipt, nil
}

func (s *LoadIntake) checkShelf(ctx context.Context, tx pgx.Tx, shelfID uuid.UUID, pkg domain.Package) error {
	shelf, err := s.shelves.GetForUpdate(ctx, tx, shelfID)
	if err != nil {
		return err
	}
	occupants, err := s.placements.ListShelfOccupants(ctx, tx, shelfID)
	if err != nil {
		return err
	}
	return s.checker.CanAccept(*shelf, pkg, pkg.OriginalQuantity, occupants).Err()
}

func (s *LoadIntake) invalidate(ctx context.Context, products map[uuid.UUID]struct{}) {
	if s.cache == nil || len(products) == 0 {
		return
	}
	keys := make([]string, 0, len(products))
	for id := range products {
		keys = append(keys, locationsCacheKey(id))
	}
	if err := s.cache.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate locations cache",
			slog.Int("products", len(keys)),
			slog.Any("error", err))
	}
}

// GetLoad returns a load with its packages.
func (s *LoadIntake) GetLoad(ctx context.Context, id uuid.UUID) (*domain.Load, error) {
	load, err := s.loads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	packages, err := s.packages.FindByLoad(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	load.Packages = packages
	return load, nil
}

// UpdateLoadStatus moves a load along its workflow. Status changes never
// touch placements.
func (s *LoadIntake) UpdateLoadStatus(ctx context.Context, id uuid.UUID, status domain.LoadStatus) (*domain.Load, error) {
	if !status.IsValid() {
		return nil, domain.NewError(domain.CodeInvalidRequest, "unknown load status %q", status)
	}

	current, err := s.loads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, domain.NewError(domain.CodeInvalidStatusTransition,
			"load cannot move from %s to %s", current.Status, status).
			With("from", string(current.Status)).
			With("to", string(status))
	}

	updated, err := s.loads.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "load status updated",
		slog.String("load_id", id.String()),
		slog.String("from", string(current.Status)),
		slog.String("to", string(status)))
	return updated, nil
}
