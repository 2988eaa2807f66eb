package clickhouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

func TestForecastResultStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewForecastResultStore(conn)
	ctx := context.Background()

	forecastDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	results := []*domain.ForecastResult{
		{
			StoreID:          "store1",
			SKU:              "SKU-A",
			ForecastDate:     forecastDate,
			HorizonDays:      30,
			PredictedDemand:  42.5,
			PredictedRevenue: ptr(850.0),
			ConfidenceLow:    ptr(30.0),
			ConfidenceHigh:   ptr(55.0),
			ProviderName:     "statistical/holt_winters",
			DaysOfHistory:    60,
			CreatedAt:        time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
		},
		{
			StoreID:         "store1",
			SKU:             "SKU-B",
			ForecastDate:    forecastDate,
			HorizonDays:     30,
			PredictedDemand: 12,
			ProviderName:    "statistical/wma",
			DaysOfHistory:   10,
			CreatedAt:       time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, store.InsertBulk(ctx, results))

	got, err := store.GetByStoreID(ctx, "store1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "SKU-A", got[0].SKU)
	require.Equal(t, 42.5, got[0].PredictedDemand)
	require.NotNil(t, got[0].PredictedRevenue)
	require.Equal(t, 850.0, *got[0].PredictedRevenue)
	require.Equal(t, 30, got[0].HorizonDays)
	require.Equal(t, 60, got[0].DaysOfHistory)

	require.Equal(t, "SKU-B", got[1].SKU)
	require.Nil(t, got[1].ConfidenceLow)
}

func TestForecastResultStore_GetLatestBySKU(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewForecastResultStore(conn)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	results := []*domain.ForecastResult{
		{StoreID: "store1", SKU: "SKU-A", ForecastDate: base, HorizonDays: 30, PredictedDemand: 10, ProviderName: "statistical/wma", CreatedAt: base.Add(1 * time.Hour)},
		{StoreID: "store1", SKU: "SKU-A", ForecastDate: base.AddDate(0, 0, 7), HorizonDays: 30, PredictedDemand: 20, ProviderName: "statistical/wma", CreatedAt: base.Add(48 * time.Hour)},
		{StoreID: "store1", SKU: "SKU-A", ForecastDate: base.AddDate(0, 0, 3), HorizonDays: 30, PredictedDemand: 15, ProviderName: "statistical/wma", CreatedAt: base.Add(24 * time.Hour)},
	}
	require.NoError(t, store.InsertBulk(ctx, results))

	latest, err := store.GetLatestBySKU(ctx, "store1", "SKU-A")
	require.NoError(t, err)
	require.Equal(t, 20.0, latest.PredictedDemand)
}

func TestForecastResultStore_GetLatestBySKU_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewForecastResultStore(conn)

	_, err := store.GetLatestBySKU(context.Background(), "store1", "missing")
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestForecastResultStore_GetLatestBySKU_QueryFailureIsNotNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewForecastResultStore(conn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetLatestBySKU(ctx, "store1", "SKU-A")
	require.Error(t, err)
	require.False(t, errors.Is(err, storage.ErrNotFound),
		"cancelled query must not look like an empty result")
}
