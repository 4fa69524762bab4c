// internal/adapters/db/placement_store.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
)

type placementStore struct {
	db     *Database
	logger *slog.Logger
}

// NewPlacementStore creates the Postgres-backed placement store
func NewPlacementStore(db *Database, logger *slog.Logger) ports.PlacementStore {
	return &placementStore{
		db:     db,
		logger: logger.With(slog.String("repository", "placement")),
	}
}

const placementColumns = `package_id, shelf_id, quantity, version, last_modified_by, updated_at`

func scanPlacement(row pgx.Row) (domain.Placement, error) {
	var p domain.Placement
	err := row.Scan(&p.PackageID, &p.ShelfID, &p.Quantity, &p.Version, &p.LastModifiedBy, &p.UpdatedAt)
	return p, err
}

// locationQuery selects the read projection of placements, ordered by rack
// then shelf position.
func locationQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"pl.package_id", "p.product_id", "pl.shelf_id", "r.name", "s.position",
		"pl.quantity", "l.document_number", "COALESCE(u.name, '')", "pl.updated_at",
	).From("placements pl").
		Join("packages p ON p.id = pl.package_id").
		Join("loads l ON l.id = p.load_id").
		Join("shelves s ON s.id = pl.shelf_id").
		Join("racks r ON r.id = s.rack_id").
		LeftJoin("users u ON u.id = pl.last_modified_by").
		Where("pl.quantity > 0").
		OrderBy("r.name ASC", "s.position ASC", "pl.package_id ASC").
		PlaceholderFormat(squirrel.Dollar)
}

func scanLocation(rows pgx.Rows) (domain.ProductLocation, error) {
	var loc domain.ProductLocation
	err := rows.Scan(
		&loc.PackageID, &loc.ProductID, &loc.ShelfID, &loc.RackName, &loc.ShelfPosition,
		&loc.Quantity, &loc.LoadDocumentNumber, &loc.LastModifiedByUserName, &loc.UpdatedAt,
	)
	return loc, err
}

func (s *placementStore) queryLocations(ctx context.Context, qb squirrel.SelectBuilder) ([]domain.ProductLocation, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build location query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}

	locations, err := ScanMany(rows, scanLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to scan locations: %w", err)
	}
	return locations, nil
}

// GetPlacementsForProduct lists every shelf holding the product
func (s *placementStore) GetPlacementsForProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductLocation, error) {
	return s.queryLocations(ctx, locationQuery().Where(squirrel.Eq{"p.product_id": productID}))
}

// ListPackagePlacements lists every shelf holding the package
func (s *placementStore) ListPackagePlacements(ctx context.Context, packageID uuid.UUID) ([]domain.ProductLocation, error) {
	return s.queryLocations(ctx, locationQuery().Where(squirrel.Eq{"pl.package_id": packageID}))
}

// GetPlacement reads a committed placement
func (s *placementStore) GetPlacement(ctx context.Context, packageID, shelfID uuid.UUID) (*domain.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM placements WHERE package_id = $1 AND shelf_id = $2`

	p, err := scanPlacement(s.db.QueryRow(ctx, query, packageID, shelfID))
	if err != nil {
		if isNoRows(err) {
			return nil, placementNotFound(packageID, shelfID)
		}
		return nil, fmt.Errorf("failed to get placement: %w", err)
	}
	return &p, nil
}

// GetPlacementForUpdate reads and row-locks a placement until the
// transaction ends
func (s *placementStore) GetPlacementForUpdate(ctx context.Context, tx pgx.Tx, packageID, shelfID uuid.UUID) (*domain.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM placements WHERE package_id = $1 AND shelf_id = $2 FOR UPDATE`

	p, err := scanPlacement(tx.QueryRow(ctx, query, packageID, shelfID))
	if err != nil {
		if isNoRows(err) {
			return nil, placementNotFound(packageID, shelfID)
		}
		return nil, classify(fmt.Errorf("failed to lock placement: %w", err), "lock placement")
	}
	return &p, nil
}

// ListShelfOccupants returns the non-empty placements on a shelf
func (s *placementStore) ListShelfOccupants(ctx context.Context, tx pgx.Tx, shelfID uuid.UUID) ([]domain.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM placements WHERE shelf_id = $1 AND quantity > 0 ORDER BY package_id`

	rows, err := tx.Query(ctx, query, shelfID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query shelf occupants: %w", err), "shelf occupants")
	}

	occupants, err := ScanMany(rows, func(r pgx.Rows) (domain.Placement, error) { return scanPlacement(r) })
	if err != nil {
		return nil, fmt.Errorf("failed to scan shelf occupants: %w", err)
	}
	return occupants, nil
}

// UpsertPlacement writes p if its version still matches the stored row.
// A zero quantity removes the row; version 0 means the row must not exist yet.
func (s *placementStore) UpsertPlacement(ctx context.Context, tx pgx.Tx, p *domain.Placement) error {
	switch {
	case p.Quantity < 0:
		return domain.NewError(domain.CodeInsufficientQuantity, "placement quantity cannot be negative").
			With("available", p.Quantity)

	case p.Quantity == 0 && p.Version == 0:
		return nil

	case p.Quantity == 0:
		tag, err := tx.Exec(ctx,
			`DELETE FROM placements WHERE package_id = $1 AND shelf_id = $2 AND version = $3`,
			p.PackageID, p.ShelfID, p.Version)
		if err != nil {
			return classify(fmt.Errorf("failed to delete placement: %w", err), "delete placement")
		}
		if tag.RowsAffected() == 0 {
			return versionConflict(p)
		}
		p.Version = 0

	case p.Version == 0:
		err := tx.QueryRow(ctx, `
			INSERT INTO placements (package_id, shelf_id, quantity, version, last_modified_by, updated_at)
			VALUES ($1, $2, $3, 1, $4, NOW())
			RETURNING version, updated_at`,
			p.PackageID, p.ShelfID, p.Quantity, p.LastModifiedBy,
		).Scan(&p.Version, &p.UpdatedAt)
		if err != nil {
			if pgCode(err) == PgErrUniqueViolation {
				return versionConflict(p)
			}
			return classify(fmt.Errorf("failed to insert placement: %w", err), "insert placement")
		}

	default:
		err := tx.QueryRow(ctx, `
			UPDATE placements
			SET quantity = $3, version = version + 1, last_modified_by = $4, updated_at = NOW()
			WHERE package_id = $1 AND shelf_id = $2 AND version = $5
			RETURNING version, updated_at`,
			p.PackageID, p.ShelfID, p.Quantity, p.LastModifiedBy, p.Version,
		).Scan(&p.Version, &p.UpdatedAt)
		if err != nil {
			if isNoRows(err) {
				return versionConflict(p)
			}
			return classify(fmt.Errorf("failed to update placement: %w", err), "update placement")
		}
	}

	s.logger.DebugContext(ctx, "placement written",
		slog.String("package_id", p.PackageID.String()),
		slog.String("shelf_id", p.ShelfID.String()),
		slog.Int("quantity", p.Quantity),
		slog.Int64("version", p.Version))

	return nil
}

// CreateInitialPlacement inserts the first placement of a package on a shelf
func (s *placementStore) CreateInitialPlacement(ctx context.Context, tx pgx.Tx, p *domain.Placement) error {
	if p.Quantity <= 0 {
		return domain.NewError(domain.CodeInvalidRequest, "initial placement quantity must be positive")
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO placements (package_id, shelf_id, quantity, version, last_modified_by, updated_at)
		VALUES ($1, $2, $3, 1, $4, NOW())
		RETURNING version, updated_at`,
		p.PackageID, p.ShelfID, p.Quantity, p.LastModifiedBy,
	).Scan(&p.Version, &p.UpdatedAt)
	if err != nil {
		if pgCode(err) == PgErrUniqueViolation {
			return domain.WrapError(domain.CodeDuplicatePlacement, err,
				"package %s is already placed on shelf %s", p.PackageID, p.ShelfID)
		}
		return classify(fmt.Errorf("failed to create placement: %w", err), "create placement")
	}
	return nil
}

func placementNotFound(packageID, shelfID uuid.UUID) error {
	return domain.NewError(domain.CodePlacementNotFound,
		"package %s has no placement on shelf %s", packageID, shelfID).
		With("package_id", packageID.String()).
		With("shelf_id", shelfID.String())
}

func versionConflict(p *domain.Placement) error {
	return domain.NewError(domain.CodeConcurrentModification,
		"placement of package %s on shelf %s changed concurrently", p.PackageID, p.ShelfID).
		With("expected_version", p.Version)
}
