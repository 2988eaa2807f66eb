package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizedSeriesStore_ReplaceAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNormalizedSeriesStore(pool)
	ctx := context.Background()

	points := []*domain.NormalizedSeriesPoint{
		{SKUID: "SKU-B", CategoryID: "apparel", SeriesDate: day(2024, 1, 2), Quantity: 3, Revenue: 30},
		{SKUID: "SKU-A", CategoryID: "apparel", SeriesDate: day(2024, 1, 1), Quantity: 5, Revenue: 50.5},
		{SKUID: "SKU-A", CategoryID: "apparel", SeriesDate: day(2024, 1, 2), Quantity: 2, Revenue: 20, IsInterpolated: true},
	}

	require.NoError(t, store.ReplaceForStore(ctx, "store1", points))

	got, err := store.GetByStoreID(ctx, "store1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by (sku_id, series_date)
	require.Equal(t, "SKU-A", got[0].SKUID)
	require.True(t, got[0].SeriesDate.Equal(day(2024, 1, 1)))
	require.Equal(t, 50.5, got[0].Revenue)
	require.True(t, got[1].IsInterpolated)
	require.Equal(t, "SKU-B", got[2].SKUID)
}

func TestNormalizedSeriesStore_ReplaceDropsOldRows(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNormalizedSeriesStore(pool)
	ctx := context.Background()

	require.NoError(t, store.ReplaceForStore(ctx, "store1", []*domain.NormalizedSeriesPoint{
		{SKUID: "SKU-A", SeriesDate: day(2024, 1, 1), Quantity: 5, Revenue: 50},
	}))
	require.NoError(t, store.ReplaceForStore(ctx, "store1", []*domain.NormalizedSeriesPoint{
		{SKUID: "SKU-A", SeriesDate: day(2024, 2, 1), Quantity: 7, Revenue: 70},
	}))

	got, err := store.GetByStoreID(ctx, "store1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].SeriesDate.Equal(day(2024, 2, 1)))
}

func TestNormalizedSeriesStore_FailedReplaceKeepsOldRows(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNormalizedSeriesStore(pool)
	ctx := context.Background()

	require.NoError(t, store.ReplaceForStore(ctx, "store1", []*domain.NormalizedSeriesPoint{
		{SKUID: "SKU-A", SeriesDate: day(2024, 1, 1), Quantity: 5, Revenue: 50},
	}))

	// Duplicate (sku, date) in the replacement set violates the primary key,
	// so the whole transaction rolls back.
	err := store.ReplaceForStore(ctx, "store1", []*domain.NormalizedSeriesPoint{
		{SKUID: "SKU-B", SeriesDate: day(2024, 3, 1), Quantity: 1, Revenue: 10},
		{SKUID: "SKU-B", SeriesDate: day(2024, 3, 1), Quantity: 2, Revenue: 20},
	})
	require.True(t, errors.Is(err, storage.ErrDuplicateKey))

	got, err := store.GetByStoreID(ctx, "store1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "SKU-A", got[0].SKUID)
}
