package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

func TestRawOrderLineStore_InsertBulkAndGet(t *testing.T) {
	store := NewRawOrderLineStore()
	ctx := context.Background()

	lines := []*domain.RawOrderLine{
		{StoreID: "store1", ExternalOrderID: "o2", SKURaw: "sku1", Quantity: 1, UnitPrice: 10, Currency: "USD", OrderTimestamp: time.Unix(2000, 0)},
		{StoreID: "store1", ExternalOrderID: "o1", SKURaw: "sku1", Quantity: 2, UnitPrice: 10, Currency: "USD", OrderTimestamp: time.Unix(1000, 0)},
		{StoreID: "store2", ExternalOrderID: "o3", SKURaw: "sku9", Quantity: 1, UnitPrice: 5, Currency: "EUR", OrderTimestamp: time.Unix(1500, 0)},
	}

	if err := store.InsertBulk(ctx, lines); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByStoreID(ctx, "store1")
	if err != nil {
		t.Fatalf("GetByStoreID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 lines for store1, got %d", len(got))
	}

	// Ordered by order_timestamp ASC
	if got[0].ExternalOrderID != "o1" {
		t.Errorf("Expected o1 first, got %s", got[0].ExternalOrderID)
	}

	// IDs assigned
	if got[0].ID == 0 || got[1].ID == 0 {
		t.Error("Expected IDs to be assigned on insert")
	}
}

func TestRawOrderLineStore_InvalidInput(t *testing.T) {
	store := NewRawOrderLineStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.RawOrderLine{{StoreID: "store1", SKURaw: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
