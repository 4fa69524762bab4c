// internal/core/services/locations.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
)

func locationsCacheKey(productID uuid.UUID) string {
	return "loc:product:" + productID.String()
}

// LocationQuery answers where a product is stored. Cache is optional; a TTL
// of zero disables caching.
type LocationQuery struct {
	placements ports.PlacementStore
	packages   ports.PackageRepository
	cache      ports.CacheRepository
	ttl        time.Duration
	logger     *slog.Logger
}

// Statically assert that *LocationQuery implements the LocationService interface.
var _ ports.LocationService = (*LocationQuery)(nil)

// NewLocationQuery creates a location query service
func NewLocationQuery(placements ports.PlacementStore, packages ports.PackageRepository,
	cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *LocationQuery {
	return &LocationQuery{
		placements: placements,
		packages:   packages,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With(slog.String("service", "locations")),
	}
}

// LocationsForProduct lists every shelf holding a positive quantity of the
// product, ordered by rack name then shelf position. The result is never nil.
func (q *LocationQuery) LocationsForProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductLocation, error) {
	if productID == uuid.Nil {
		return nil, domain.NewError(domain.CodeInvalidRequest, "product_id is required")
	}

	if q.cache == nil || q.ttl <= 0 {
		return q.load(ctx, productID)
	}

	var (
		locations []domain.ProductLocation
		fetchErr  error
	)
	err := q.cache.GetOrSet(ctx, locationsCacheKey(productID), &locations, func() (interface{}, error) {
		result, err := q.load(ctx, productID)
		fetchErr = err
		return result, err
	}, q.ttl)
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err != nil {
		q.logger.WarnContext(ctx, "locations cache unavailable, reading store",
			slog.String("product_id", productID.String()),
			slog.Any("error", err))
		return q.load(ctx, productID)
	}
	if locations == nil {
		locations = []domain.ProductLocation{}
	}
	return locations, nil
}

func (q *LocationQuery) load(ctx context.Context, productID uuid.UUID) ([]domain.ProductLocation, error) {
	locations, err := q.placements.GetPlacementsForProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product locations: %w", err)
	}
	if locations == nil {
		locations = []domain.ProductLocation{}
	}
	return locations, nil
}

// PackageSummary returns a package with its placements and conservation state.
func (q *LocationQuery) PackageSummary(ctx context.Context, packageID uuid.UUID) (*domain.PackageSummary, error) {
	pkg, err := q.packages.FindByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	placements, err := q.placements.ListPackagePlacements(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list package placements: %w", err)
	}
	if placements == nil {
		placements = []domain.ProductLocation{}
	}

	cons, err := q.packages.CheckConservation(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to check conservation: %w", err)
	}

	return &domain.PackageSummary{
		Package:      *pkg,
		Placements:   placements,
		Conservation: *cons,
		Balanced:     cons.Balanced(),
	}, nil
}

// InvalidateProducts drops cached locations for the given products.
func (q *LocationQuery) InvalidateProducts(ctx context.Context, productIDs ...uuid.UUID) error {
	if q.cache == nil || len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = locationsCacheKey(id)
	}
	return q.cache.Delete(ctx, keys...)
}
