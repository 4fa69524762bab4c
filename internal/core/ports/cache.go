// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"
)

// CacheRepository is the read-through cache in front of location queries
type CacheRepository interface {
	// GetOrSet reads key into dest, calling fetch and storing its result on a miss.
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	// Delete invalidates keys. A value fetched before the invalidation is not cached.
	Delete(ctx context.Context, keys ...string) error
}
