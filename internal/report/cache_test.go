package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewCache(client, time.Minute)
}

func TestCacheVersionInitialises(t *testing.T) {
	cache := testCache(t)

	ver, err := cache.Version(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, ver)
}

func TestCacheBuildKeyCarriesVersion(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, keyYearSummary(2024)...)
	require.NoError(t, err)
	require.Equal(t, "report:year_summary:2024:1", key)

	require.NoError(t, cache.Bump(ctx))

	key, err = cache.BuildKey(ctx, keyYearSummary(2024)...)
	require.NoError(t, err)
	require.Equal(t, "report:year_summary:2024:2", key)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (interface{}, error) {
		loads++
		return []SummaryRow{{YearMonth: "2024-01", CreditSum: 500}}, nil
	}

	key, err := cache.BuildKey(ctx, keyYearSummary(2024)...)
	require.NoError(t, err)

	var first []SummaryRow
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	var second []SummaryRow
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	require.Equal(t, 1, loads, "second fetch must be served from cache")
	require.Len(t, second, 1)
	require.Equal(t, "2024-01", second[0].YearMonth)
	require.EqualValues(t, 500, second[0].CreditSum)
}

func TestCacheBumpInvalidatesOldEntries(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (interface{}, error) {
		loads++
		return []SummaryRow{{YearMonth: "2024-01"}}, nil
	}

	key, err := cache.BuildKey(ctx, keyYearSummary(2024)...)
	require.NoError(t, err)
	var rows []SummaryRow
	require.NoError(t, cache.FetchJSON(ctx, key, &rows, loader))

	require.NoError(t, cache.Bump(ctx))

	key, err = cache.BuildKey(ctx, keyYearSummary(2024)...)
	require.NoError(t, err)
	require.NoError(t, cache.FetchJSON(ctx, key, &rows, loader))
	require.Equal(t, 2, loads, "bump must force a reload")
}

func TestCacheNilClientPassesThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, keyYearSummary(2024)...)
	require.NoError(t, err)
	require.Equal(t, "report:year_summary:2024", key)

	loads := 0
	var rows []SummaryRow
	for i := 0; i < 2; i++ {
		err := cache.FetchJSON(ctx, key, &rows, func(context.Context) (interface{}, error) {
			loads++
			return []SummaryRow{{YearMonth: "2024-02"}}, nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 2, loads, "nil cache always calls the loader")
	require.NoError(t, cache.Bump(ctx))
}
