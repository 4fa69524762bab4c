package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/wms-ledger/internal/adapters/redis_adapter"
	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/test/helpers"
)

func newTestCache(t *testing.T) (*redis_a.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger()), mr
}

func locationsFetch(count *int, quantity int) func() (interface{}, error) {
	return func() (interface{}, error) {
		*count++
		return []domain.ProductLocation{
			{PackageID: uuid.New(), RackName: "A", ShelfPosition: "01", Quantity: quantity},
		}, nil
	}
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	fetches := 0
	fetch := locationsFetch(&fetches, 3)

	var first []domain.ProductLocation
	require.NoError(t, cache.GetOrSet(ctx, "loc:product:x", &first, fetch, time.Minute))
	require.Len(t, first, 1)
	assert.Equal(t, 3, first[0].Quantity)
	assert.Equal(t, 1, fetches)
	assert.True(t, mr.Exists("loc:product:x"))
	assert.Equal(t, time.Minute, mr.TTL("loc:product:x"))

	var second []domain.ProductLocation
	require.NoError(t, cache.GetOrSet(ctx, "loc:product:x", &second, fetch, time.Minute))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches, "second read is served from the cache")
}

func TestCache_GetOrSetDefaultTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	fetches := 0
	var dest []domain.ProductLocation
	require.NoError(t, cache.GetOrSet(ctx, "loc:product:ttl", &dest, locationsFetch(&fetches, 1), 0))
	assert.Equal(t, 5*time.Minute, mr.TTL("loc:product:ttl"))

	mr.FastForward(6 * time.Minute)
	require.NoError(t, cache.GetOrSet(ctx, "loc:product:ttl", &dest, locationsFetch(&fetches, 1), 0))
	assert.Equal(t, 2, fetches, "expired entry is fetched again")
}

func TestCache_DeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	fetches := 0
	keys := []string{"loc:product:1", "loc:product:2", "loc:product:3"}
	for _, key := range keys {
		var dest []domain.ProductLocation
		require.NoError(t, cache.GetOrSet(ctx, key, &dest, locationsFetch(&fetches, 1), time.Minute))
	}

	require.NoError(t, cache.Delete(ctx, keys[:2]...))

	assert.False(t, mr.Exists(keys[0]))
	assert.False(t, mr.Exists(keys[1]))
	assert.True(t, mr.Exists(keys[2]))
	gen, err := mr.Get("gen:" + keys[0])
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	var dest []domain.ProductLocation
	require.NoError(t, cache.GetOrSet(ctx, keys[0], &dest, locationsFetch(&fetches, 7), time.Minute))
	assert.Equal(t, 7, dest[0].Quantity)
	assert.Equal(t, 4, fetches)

	assert.NoError(t, cache.Delete(ctx))
}

func TestCache_InvalidationDuringFetchIsNotCached(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	var dest []domain.ProductLocation
	err := cache.GetOrSet(ctx, "loc:product:race", &dest, func() (interface{}, error) {
		// a movement commits and invalidates while the store is being read
		require.NoError(t, cache.Delete(ctx, "loc:product:race"))
		return []domain.ProductLocation{{RackName: "A", ShelfPosition: "01", Quantity: 10}}, nil
	}, time.Minute)

	require.NoError(t, err)
	require.Len(t, dest, 1, "the caller still gets the fetched value")
	assert.False(t, mr.Exists("loc:product:race"), "stale snapshot must not be cached")
}

func TestCache_GetOrSetFetchError(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	fetchErr := domain.NewError(domain.CodeNotFound, "missing")
	var dest []domain.ProductLocation
	err := cache.GetOrSet(ctx, "loc:product:err", &dest, func() (interface{}, error) {
		return nil, fetchErr
	}, time.Minute)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists("loc:product:err"), "failed fetch must not populate the cache")
}

func TestCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)
	require.NoError(t, mr.Set("loc:product:bad", "{not json"))

	fetches := 0
	var dest []domain.ProductLocation
	err := cache.GetOrSet(ctx, "loc:product:bad", &dest, locationsFetch(&fetches, 1), time.Minute)

	var cacheErr *redis_a.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, "unmarshal", cacheErr.Op)
	assert.Zero(t, fetches)
}

func TestCache_ConnectionFailure(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)
	mr.Close()

	fetches := 0
	var dest []domain.ProductLocation
	err := cache.GetOrSet(ctx, "any", &dest, locationsFetch(&fetches, 1), time.Minute)
	require.Error(t, err)
	assert.False(t, errors.Is(err, redis_a.ErrCacheMiss))
	assert.Zero(t, fetches, "callers fall back to the store themselves")

	var cacheErr *redis_a.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, "get", cacheErr.Op)

	err = cache.Delete(ctx, "any")
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, "del", cacheErr.Op)
}
