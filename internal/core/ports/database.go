// internal/core/ports/database.go
package ports

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Database defines the port for pool level operations used by health checks
// and process lifecycle.
type Database interface {
	Close()
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
}

// Transactor runs fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}
