// internal/adapters/db/shelf_repository.go
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

type shelfRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewShelfRepository creates a new shelf repository
func NewShelfRepository(db *Database, logger *slog.Logger) ports.ShelfRepository {
	return &shelfRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "shelf")),
	}
}

const shelfQuery = `
	SELECT s.id, s.rack_id, r.name, s.position,
		st.id, st.name, st.max_weight, st.stackable, st.width, st.height, st.depth
	FROM shelves s
	JOIN racks r ON r.id = s.rack_id
	JOIN shelf_types st ON st.id = r.shelf_type_id
	WHERE s.id = $1`

func scanShelf(row pgx.Row) (domain.Shelf, error) {
	var s domain.Shelf
	err := row.Scan(
		&s.ID, &s.RackID, &s.RackName, &s.Position,
		&s.Type.ID, &s.Type.Name, &s.Type.MaxWeight, &s.Type.Stackable,
		&s.Type.Width, &s.Type.Height, &s.Type.Depth,
	)
	return s, err
}

// GetForUpdate reads a shelf and locks its row. Movements into a shelf
// serialize on this lock so capacity checks see a stable occupant set.
func (r *shelfRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Shelf, error) {
	s, err := scanShelf(tx.QueryRow(ctx, shelfQuery+` FOR UPDATE OF s`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, shelfNotFound(id)
		}
		return nil, classify(fmt.Errorf("failed to lock shelf: %w", err), "lock shelf")
	}
	return &s, nil
}

// FindByID reads a shelf with its rack and shelf type
func (r *shelfRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Shelf, error) {
	s, err := scanShelf(r.db.QueryRow(ctx, shelfQuery, id))
	if err != nil {
		if isNoRows(err) {
			return nil, shelfNotFound(id)
		}
		return nil, fmt.Errorf("failed to find shelf: %w", err)
	}
	return &s, nil
}

func shelfNotFound(id uuid.UUID) error {
	return domain.NewError(domain.CodeNotFound, "shelf %s not found", id).
		With("shelf_id", id.String())
}
