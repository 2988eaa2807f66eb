package memory

import (
	"context"
	"sort"
	"sync"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// ForecastResultStore is an in-memory implementation of storage.ForecastResultStore.
type ForecastResultStore struct {
	mu   sync.RWMutex
	data []*domain.ForecastResult
}

// NewForecastResultStore creates a new in-memory forecast result store.
func NewForecastResultStore() *ForecastResultStore {
	return &ForecastResultStore{}
}

// Compile-time interface check.
var _ storage.ForecastResultStore = (*ForecastResultStore)(nil)

// InsertBulk adds multiple results.
func (s *ForecastResultStore) InsertBulk(_ context.Context, results []*domain.ForecastResult) error {
	if len(results) == 0 {
		return nil
	}

	for _, r := range results {
		if r == nil || r.StoreID == "" || r.SKU == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range results {
		copy := *r
		s.data = append(s.data, &copy)
	}

	return nil
}

// GetByStoreID retrieves all results for a store, ordered by (sku, created_at) ASC.
func (s *ForecastResultStore) GetByStoreID(_ context.Context, storeID string) ([]*domain.ForecastResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ForecastResult
	for _, r := range s.data {
		if r.StoreID == storeID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SKU != result[j].SKU {
			return result[i].SKU < result[j].SKU
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// GetLatestBySKU retrieves the most recently created result for a SKU.
func (s *ForecastResultStore) GetLatestBySKU(_ context.Context, storeID, sku string) (*domain.ForecastResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.ForecastResult
	for _, r := range s.data {
		if r.StoreID != storeID || r.SKU != sku {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}

	if latest == nil {
		return nil, storage.ErrNotFound
	}

	copy := *latest
	return &copy, nil
}
