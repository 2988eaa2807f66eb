package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

func TestStoreConfigStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStoreConfigStore(pool)
	ctx := context.Background()

	cfg := &domain.StoreConfig{
		StoreID:      "store1",
		Timezone:     "America/New_York",
		BaseCurrency: "USD",
		ExchangeRates: map[string]float64{
			"EUR": 1.08,
			"GBP": 1.27,
		},
	}
	require.NoError(t, store.Upsert(ctx, cfg))

	got, err := store.GetByStoreID(ctx, "store1")
	require.NoError(t, err)
	require.Equal(t, "America/New_York", got.Timezone)
	require.Equal(t, "USD", got.BaseCurrency)
	require.Equal(t, 1.08, got.ExchangeRates["EUR"])

	// Upsert replaces
	cfg.BaseCurrency = "EUR"
	cfg.ExchangeRates = map[string]float64{"USD": 0.92}
	require.NoError(t, store.Upsert(ctx, cfg))

	got, err = store.GetByStoreID(ctx, "store1")
	require.NoError(t, err)
	require.Equal(t, "EUR", got.BaseCurrency)
	require.Equal(t, 0.92, got.ExchangeRates["USD"])
	require.NotContains(t, got.ExchangeRates, "GBP")
}

func TestStoreConfigStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStoreConfigStore(pool)

	_, err := store.GetByStoreID(context.Background(), "nonexistent")
	require.True(t, errors.Is(err, storage.ErrNotFound))
}
