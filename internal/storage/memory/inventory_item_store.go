package memory

import (
	"context"
	"sync"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// InventoryItemStore is an in-memory implementation of storage.InventoryItemStore.
type InventoryItemStore struct {
	mu   sync.RWMutex
	data map[string]*domain.InventoryItem // keyed by store_id|sku
}

// NewInventoryItemStore creates a new in-memory inventory store.
func NewInventoryItemStore() *InventoryItemStore {
	return &InventoryItemStore{
		data: make(map[string]*domain.InventoryItem),
	}
}

// Compile-time interface check.
var _ storage.InventoryItemStore = (*InventoryItemStore)(nil)

func inventoryKey(storeID, sku string) string {
	return storeID + "|" + sku
}

// Upsert inserts or replaces the item for (store_id, sku).
func (s *InventoryItemStore) Upsert(_ context.Context, item *domain.InventoryItem) error {
	if item == nil || item.StoreID == "" || item.SKU == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *item
	s.data[inventoryKey(item.StoreID, item.SKU)] = &copy
	return nil
}

// GetBySKU retrieves the item for (store_id, sku). Returns ErrNotFound if not exists.
func (s *InventoryItemStore) GetBySKU(_ context.Context, storeID, sku string) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.data[inventoryKey(storeID, sku)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *item
	return &copy, nil
}

// UpdateProjectedDemand sets projected_demand_30d for (store_id, sku).
func (s *InventoryItemStore) UpdateProjectedDemand(_ context.Context, storeID, sku string, demand float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.data[inventoryKey(storeID, sku)]
	if !ok {
		return storage.ErrNotFound
	}

	item.ProjectedDemand30d = demand
	return nil
}
