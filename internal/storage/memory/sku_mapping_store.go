package memory

import (
	"context"
	"sort"
	"sync"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// SKUMappingStore is an in-memory implementation of storage.SKUMappingStore.
type SKUMappingStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SKUMapping // keyed by store_id|sku_raw
}

// NewSKUMappingStore creates a new in-memory SKU mapping store.
func NewSKUMappingStore() *SKUMappingStore {
	return &SKUMappingStore{
		data: make(map[string]*domain.SKUMapping),
	}
}

// Compile-time interface check.
var _ storage.SKUMappingStore = (*SKUMappingStore)(nil)

func mappingKey(storeID, skuRaw string) string {
	return storeID + "|" + skuRaw
}

// Upsert inserts or replaces the mapping for (store_id, sku_raw).
func (s *SKUMappingStore) Upsert(_ context.Context, m *domain.SKUMapping) error {
	if m == nil || m.StoreID == "" || m.SKURaw == "" || m.CanonicalSKU == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *m
	s.data[mappingKey(m.StoreID, m.SKURaw)] = &copy
	return nil
}

// GetByStoreID retrieves all mappings for a store, ordered by sku_raw ASC.
func (s *SKUMappingStore) GetByStoreID(_ context.Context, storeID string) ([]*domain.SKUMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SKUMapping
	for _, m := range s.data {
		if m.StoreID == storeID {
			copy := *m
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SKURaw < result[j].SKURaw
	})

	return result, nil
}
