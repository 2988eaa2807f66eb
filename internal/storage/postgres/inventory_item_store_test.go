package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

func TestInventoryItemStore_UpsertGetAndUpdateDemand(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInventoryItemStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.InventoryItem{
		StoreID:        "store1",
		SKU:            "SKU-A",
		QuantityOnHand: 40,
	}))

	require.NoError(t, store.UpdateProjectedDemand(ctx, "store1", "SKU-A", 27.5))

	got, err := store.GetBySKU(ctx, "store1", "SKU-A")
	require.NoError(t, err)
	require.Equal(t, 40, got.QuantityOnHand)
	require.Equal(t, 27.5, got.ProjectedDemand30d)
}

func TestInventoryItemStore_UpdateProjectedDemand_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInventoryItemStore(pool)

	err := store.UpdateProjectedDemand(context.Background(), "store1", "missing", 1.0)
	require.True(t, errors.Is(err, storage.ErrNotFound))
}
