// internal/core/ports/storage.go
package ports

import (
	"context"
	"io"
)

// ArchiveStorage stores immutable archive objects such as journal exports.
type ArchiveStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}
