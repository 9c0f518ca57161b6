package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), srv
}

func TestVersionInitialisesToOne(t *testing.T) {
	cache, srv := newTestCache(t)
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), ver)

	stored, err := srv.Get(cacheVersionKey)
	require.NoError(t, err)
	require.Equal(t, "1", stored)

	ver, err = cache.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), ver)
}

func TestBumpIncrementsVersionAndChangesKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "reports", "inventory")
	require.NoError(t, err)
	require.Equal(t, "reports:inventory:1", before)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "reports", "inventory")
	require.NoError(t, err)
	require.Equal(t, "reports:inventory:2", after)
	require.NotEqual(t, before, after)
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return InventoryReport{TotalQuantity: 42}, nil
	}

	key, err := cache.BuildKey(ctx, "reports", "inventory")
	require.NoError(t, err)

	var first InventoryReport
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, 42, first.TotalQuantity)
	require.Equal(t, 1, calls)

	var second InventoryReport
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, 42, second.TotalQuantity)
	require.Equal(t, 1, calls)
}

func TestBumpInvalidatesCachedEntries(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return InventoryReport{TotalQuantity: calls}, nil
	}

	key, err := cache.BuildKey(ctx, "reports", "inventory")
	require.NoError(t, err)
	var report InventoryReport
	require.NoError(t, cache.FetchJSON(ctx, key, &report, loader))
	require.Equal(t, 1, report.TotalQuantity)

	require.NoError(t, cache.Bump(ctx))

	key, err = cache.BuildKey(ctx, "reports", "inventory")
	require.NoError(t, err)
	require.NoError(t, cache.FetchJSON(ctx, key, &report, loader))
	require.Equal(t, 2, report.TotalQuantity)
}

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "reports", "inventory")
	require.NoError(t, err)
	require.Equal(t, "reports:inventory", key)

	calls := 0
	var report InventoryReport
	for i := 0; i < 2; i++ {
		err = cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
			calls++
			return InventoryReport{TotalQuantity: 7}, nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 7, report.TotalQuantity)
	require.Equal(t, 2, calls)
	require.NoError(t, cache.Bump(ctx))
}
