// internal/adapters/db/transaction_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
)

type transactionRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewTransactionRepository creates the append-only movement history
func NewTransactionRepository(db *Database, logger *slog.Logger) ports.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "transaction")),
	}
}

// Append records a committed movement. Rows are never updated or deleted.
func (r *transactionRepository) Append(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO ledger_transactions (
			id, sequence, transaction_type, package_id, quantity,
			source_shelf_id, destination_shelf_id, acting_user_id, committed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, clock_timestamp())
		RETURNING committed_at`,
		t.ID, t.Sequence, t.Type, t.PackageID, t.Quantity,
		t.SourceShelfID, t.DestinationShelfID, t.ActingUserID,
	).Scan(&t.CommittedAt)
	if err != nil {
		return classify(fmt.Errorf("failed to append transaction: %w", err), "append transaction")
	}
	return nil
}

func transactionSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"t.id", "t.sequence", "t.transaction_type", "t.package_id", "t.quantity",
		"t.source_shelf_id", "t.destination_shelf_id", "t.acting_user_id", "t.committed_at",
	).From("ledger_transactions t").PlaceholderFormat(squirrel.Dollar)
}

func scanTransaction(row pgx.Row, extra ...any) (domain.Transaction, error) {
	var t domain.Transaction
	dest := []any{
		&t.ID, &t.Sequence, &t.Type, &t.PackageID, &t.Quantity,
		&t.SourceShelfID, &t.DestinationShelfID, &t.ActingUserID, &t.CommittedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return t, err
}

// ListByPackage returns a package's movements, newest first
func (r *transactionRepository) ListByPackage(ctx context.Context, packageID uuid.UUID, limit int) ([]domain.Transaction, error) {
	qb := transactionSelect().
		Where(squirrel.Eq{"t.package_id": packageID}).
		OrderBy("t.sequence DESC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	history, err := ScanMany(rows, func(rows pgx.Rows) (domain.Transaction, error) {
		return scanTransaction(rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return history, nil
}

// ListJournal returns movements committed in [from, to) with display names,
// oldest first
func (r *transactionRepository) ListJournal(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	query, args, err := transactionSelect().
		Columns(
			"p.product_id",
			"sr.name || '/' || ss.position",
			"COALESCE(dr.name || '/' || ds.position, '')",
			"COALESCE(u.name, '')",
		).
		Join("packages p ON p.id = t.package_id").
		Join("shelves ss ON ss.id = t.source_shelf_id").
		Join("racks sr ON sr.id = ss.rack_id").
		LeftJoin("shelves ds ON ds.id = t.destination_shelf_id").
		LeftJoin("racks dr ON dr.id = ds.rack_id").
		LeftJoin("users u ON u.id = t.acting_user_id").
		Where(squirrel.GtOrEq{"t.committed_at": from}).
		Where(squirrel.Lt{"t.committed_at": to}).
		OrderBy("t.sequence ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build journal query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}

	entries, err := ScanMany(rows, func(rows pgx.Rows) (domain.JournalEntry, error) {
		var e domain.JournalEntry
		t, err := scanTransaction(rows, &e.ProductID, &e.SourceLocation, &e.DestinationLabel, &e.ActingUserName)
		e.Transaction = t
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal: %w", err)
	}

	r.logger.DebugContext(ctx, "journal loaded",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.Int("entries", len(entries)))
	return entries, nil
}
