// internal/adapters/db/load_repository.go
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

type loadRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewLoadRepository creates a new load repository
func NewLoadRepository(db *Database, logger *slog.Logger) ports.LoadRepository {
	return &loadRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "load")),
	}
}

const loadColumns = `id, supplier_id, document_number, declared_value, status, created_by, created_at, updated_at`

func scanLoad(row pgx.Row) (domain.Load, error) {
	var l domain.Load
	err := row.Scan(&l.ID, &l.SupplierID, &l.DocumentNumber, &l.DeclaredValue,
		&l.Status, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create inserts a load inside the intake transaction
func (r *loadRepository) Create(ctx context.Context, tx pgx.Tx, load *domain.Load) error {
	if load.Status == "" {
		load.Status = domain.LoadStatusReceived
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO loads (id, supplier_id, document_number, declared_value, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`,
		load.ID, load.SupplierID, load.DocumentNumber, load.DeclaredValue, load.Status, load.CreatedBy,
	).Scan(&load.CreatedAt, &load.UpdatedAt)
	if err != nil {
		return classify(fmt.Errorf("failed to insert load: %w", err), "create load")
	}

	r.logger.DebugContext(ctx, "load created",
		slog.String("load_id", load.ID.String()),
		slog.String("document_number", load.DocumentNumber))
	return nil
}

// FindByID reads a load without its packages
func (r *loadRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Load, error) {
	l, err := scanLoad(r.db.QueryRow(ctx, `SELECT `+loadColumns+` FROM loads WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, loadNotFound(id)
		}
		return nil, fmt.Errorf("failed to find load: %w", err)
	}
	return &l, nil
}

// UpdateStatus compares the stored status with from before writing to
func (r *loadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.LoadStatus) (*domain.Load, error) {
	l, err := scanLoad(r.db.QueryRow(ctx, `
		UPDATE loads SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+loadColumns,
		id, from, to))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewError(domain.CodeConcurrentModification,
				"load %s is no longer in status %s", id, from)
		}
		return nil, fmt.Errorf("failed to update load status: %w", err)
	}
	return &l, nil
}

func loadNotFound(id uuid.UUID) error {
	return domain.NewError(domain.CodeNotFound, "load %s not found", id).
		With("load_id", id.String())
}
