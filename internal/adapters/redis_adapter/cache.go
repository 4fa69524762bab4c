// internal/adapters/redis/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/wms-ledger/internal/core/ports"
)

// generationTTL bounds how long an invalidation marker outlives its key.
const generationTTL = 24 * time.Hour

// Cache is a read-through cache for location projections. Every key has a
// generation counter that Delete bumps, and a fetched value is only stored
// when the generation it was read under is still current. A read racing a
// committed movement therefore cannot put the pre-commit snapshot back.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert that *Cache implements the CacheRepository interface.
var _ ports.CacheRepository = (*Cache)(nil)

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = errors.New("cache miss")

// errStaleGeneration aborts a store whose key was invalidated mid-fetch.
var errStaleGeneration = errors.New("cache generation changed")

// NewCache creates a new cache instance. ttl is used when GetOrSet is
// called without one.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

func generationKey(key string) string {
	return "gen:" + key
}

// GetOrSet reads key into dest. On a miss it calls fetch and copies the
// result into dest; the result is cached unless key was invalidated while
// fetch ran. Failing to write the cache does not fail the call.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {

	err := c.get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	gen, err := c.generation(ctx, c.client, key)
	if err != nil {
		return &CacheError{Op: "generation", Key: key, Err: err}
	}

	value, err := fetch()
	if err != nil {
		return fmt.Errorf("fetch error: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return &CacheError{Op: "marshal", Key: key, Err: err}
	}

	if ttl <= 0 {
		ttl = c.ttl
	}
	c.storeIfCurrent(ctx, key, data, gen, ttl)

	if err := json.Unmarshal(data, dest); err != nil {
		return &CacheError{Op: "unmarshal", Key: key, Err: err}
	}
	return nil
}

// Delete invalidates keys and bumps their generations in one MULTI block
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
			pipe.Expire(ctx, generationKey(key), generationTTL)
		}
		return nil
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to invalidate cache",
			slog.Any("keys", keys),
			slog.Any("error", err))
		return &CacheError{Op: "del", Key: keys[0], Err: err}
	}

	c.logger.DebugContext(ctx, "cache invalidated", slog.Any("keys", keys))
	return nil
}

func (c *Cache) get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
			return ErrCacheMiss
		}
		c.logger.ErrorContext(ctx, "failed to get cache",
			slog.String("key", key),
			slog.Any("error", err))
		return &CacheError{Op: "get", Key: key, Err: err}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return &CacheError{Op: "unmarshal", Key: key, Err: err}
	}

	c.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	return nil
}

func (c *Cache) generation(ctx context.Context, r redis.Cmdable, key string) (int64, error) {
	gen, err := r.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// storeIfCurrent writes data under WATCH on the generation key so a Delete
// landing between the check and the write aborts the transaction.
func (c *Cache) storeIfCurrent(ctx context.Context, key string, data []byte, gen int64, ttl time.Duration) {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, generationKey(key))

	switch {
	case err == nil:
		c.logger.DebugContext(ctx, "cache set",
			slog.String("key", key),
			slog.Duration("ttl", ttl))
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.DebugContext(ctx, "skipped caching invalidated value", slog.String("key", key))
	default:
		c.logger.WarnContext(ctx, "failed to cache value after fetch",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// CacheError represents cache-specific errors
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s operation failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
