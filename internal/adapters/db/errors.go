// internal/adapters/db/errors.go
package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/wms-ledger/internal/core/domain"
)

// PostgreSQL SQLSTATE codes the ledger reacts to.
const (
	PgErrNumericOutOfRange    = "22003"
	PgErrUniqueViolation      = "23505"
	PgErrForeignKeyViolation  = "23503"
	PgErrCheckViolation       = "23514"
	PgErrSerializationFailure = "40001"
	PgErrDeadlockDetected     = "40P01"
	PgErrLockNotAvailable     = "55P03"
	PgErrQueryCanceled        = "57014"
)

// pgCode returns the SQLSTATE of err, or "" for non-Postgres errors.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// classify translates contention and constraint failures into ledger errors
// and returns anything else unchanged.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	var le *domain.Error
	if errors.As(err, &le) {
		return err
	}

	switch pgCode(err) {
	case PgErrSerializationFailure, PgErrDeadlockDetected, PgErrLockNotAvailable:
		return domain.WrapError(domain.CodeConcurrentModification, err, "%s: lost a race with a concurrent writer", op)
	case PgErrForeignKeyViolation:
		return domain.WrapError(domain.CodeNotFound, err, "%s: referenced row does not exist", op)
	case PgErrNumericOutOfRange:
		return domain.WrapError(domain.CodeInvalidRequest, err, "%s: value out of range", op)
	case PgErrCheckViolation:
		return domain.WrapError(domain.CodeInsufficientQuantity, err, "%s: quantity constraint violated", op)
	}
	return err
}
