// internal/adapters/db/package_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
)

type packageRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *Database, logger *slog.Logger) ports.PackageRepository {
	return &packageRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "package")),
	}
}

const packageColumns = `id, load_id, product_id, original_quantity, deducted,
	width, height, length, weight, stackable, pack_quantity, package_type, created_at`

func scanPackage(row pgx.Row) (domain.Package, error) {
	var p domain.Package
	err := row.Scan(
		&p.ID, &p.LoadID, &p.ProductID, &p.OriginalQuantity, &p.Deducted,
		&p.Width, &p.Height, &p.Length, &p.Weight, &p.Stackable, &p.PackQuantity, &p.Type, &p.CreatedAt,
	)
	return p, err
}

// Create inserts a package inside the intake transaction
func (r *packageRepository) Create(ctx context.Context, tx pgx.Tx, pkg *domain.Package) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO packages (
			id, load_id, product_id, original_quantity, deducted,
			width, height, length, weight, stackable, pack_quantity, package_type, created_at
		) VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at`,
		pkg.ID, pkg.LoadID, pkg.ProductID, pkg.OriginalQuantity,
		pkg.Width, pkg.Height, pkg.Length, pkg.Weight, pkg.Stackable, pkg.PackQuantity, pkg.Type,
	).Scan(&pkg.CreatedAt)
	if err != nil {
		return classify(fmt.Errorf("failed to insert package: %w", err), "create package")
	}
	pkg.Deducted = 0
	return nil
}

// GetForUpdate reads and row-locks a package. Every movement of the package
// serializes on this lock.
func (r *packageRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Package, error) {
	p, err := scanPackage(tx.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, packageNotFound(id)
		}
		return nil, classify(fmt.Errorf("failed to lock package: %w", err), "lock package")
	}
	return &p, nil
}

// AddDeducted grows the deducted counter, never past the original quantity
func (r *packageRepository) AddDeducted(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error {
	var deducted, original int
	err := tx.QueryRow(ctx, `
		UPDATE packages
		SET deducted = deducted + $2
		WHERE id = $1 AND deducted + $2 <= original_quantity
		RETURNING deducted, original_quantity`,
		id, quantity,
	).Scan(&deducted, &original)
	if err != nil {
		if isNoRows(err) {
			return domain.NewError(domain.CodeInsufficientQuantity,
				"deducting %d would exceed the original quantity of package %s", quantity, id).
				With("requested", quantity).
				With("package_id", id.String())
		}
		return classify(fmt.Errorf("failed to update deducted: %w", err), "deduct package")
	}

	r.logger.DebugContext(ctx, "package deducted",
		slog.String("package_id", id.String()),
		slog.Int("deducted", deducted),
		slog.Int("original", original))
	return nil
}

// FindByID reads a committed package
func (r *packageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	p, err := scanPackage(r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, packageNotFound(id)
		}
		return nil, fmt.Errorf("failed to find package: %w", err)
	}
	return &p, nil
}

// FindByLoad lists the packages of a load in creation order
func (r *packageRepository) FindByLoad(ctx context.Context, loadID uuid.UUID) ([]domain.Package, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE load_id = $1 ORDER BY created_at, id`, loadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}
	packages, err := ScanMany(rows, func(r pgx.Rows) (domain.Package, error) { return scanPackage(r) })
	if err != nil {
		return nil, fmt.Errorf("failed to scan packages: %w", err)
	}
	return packages, nil
}

const conservationQuery = `
	SELECT p.id, p.original_quantity, COALESCE(SUM(pl.quantity), 0)::int, p.deducted
	FROM packages p
	LEFT JOIN placements pl ON pl.package_id = p.id`

func scanConservation(row pgx.Row) (domain.Conservation, error) {
	var c domain.Conservation
	err := row.Scan(&c.PackageID, &c.Original, &c.Placed, &c.Deducted)
	return c, err
}

// CheckConservation reports placed + deducted against original for one package
func (r *packageRepository) CheckConservation(ctx context.Context, id uuid.UUID) (*domain.Conservation, error) {
	c, err := scanConservation(r.db.QueryRow(ctx,
		conservationQuery+` WHERE p.id = $1 GROUP BY p.id`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, packageNotFound(id)
		}
		return nil, fmt.Errorf("failed to check conservation: %w", err)
	}
	return &c, nil
}

// FindConservationViolations lists packages whose quantities do not balance
func (r *packageRepository) FindConservationViolations(ctx context.Context, limit int) ([]domain.Conservation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, conservationQuery+`
		GROUP BY p.id
		HAVING COALESCE(SUM(pl.quantity), 0) + p.deducted <> p.original_quantity
		ORDER BY p.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conservation violations: %w", err)
	}
	violations, err := ScanMany(rows, func(r pgx.Rows) (domain.Conservation, error) { return scanConservation(r) })
	if err != nil {
		return nil, fmt.Errorf("failed to scan conservation violations: %w", err)
	}
	return violations, nil
}

func packageNotFound(id uuid.UUID) error {
	return domain.NewError(domain.CodeNotFound, "package %s not found", id).
		With("package_id", id.String())
}
