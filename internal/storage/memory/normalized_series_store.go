package memory

import (
	"context"
	"sort"
	"sync"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// NormalizedSeriesStore is an in-memory implementation of storage.NormalizedSeriesStore.
type NormalizedSeriesStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.NormalizedSeriesPoint // keyed by store_id
}

// NewNormalizedSeriesStore creates a new in-memory normalized series store.
func NewNormalizedSeriesStore() *NormalizedSeriesStore {
	return &NormalizedSeriesStore{
		data: make(map[string][]*domain.NormalizedSeriesPoint),
	}
}

// Compile-time interface check.
var _ storage.NormalizedSeriesStore = (*NormalizedSeriesStore)(nil)

// ReplaceForStore atomically deletes all points for a store and inserts the given set.
func (s *NormalizedSeriesStore) ReplaceForStore(_ context.Context, storeID string, points []*domain.NormalizedSeriesPoint) error {
	if storeID == "" {
		return storage.ErrInvalidInput
	}

	replacement := make([]*domain.NormalizedSeriesPoint, 0, len(points))
	for _, p := range points {
		if p == nil || p.SKUID == "" {
			return storage.ErrInvalidInput
		}
		copy := *p
		copy.StoreID = storeID
		replacement = append(replacement, &copy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[storeID] = replacement
	return nil
}

// GetByStoreID retrieves all points for a store, ordered by (sku_id, series_date) ASC.
func (s *NormalizedSeriesStore) GetByStoreID(_ context.Context, storeID string) ([]*domain.NormalizedSeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.data[storeID]
	result := make([]*domain.NormalizedSeriesPoint, 0, len(points))
	for _, p := range points {
		copy := *p
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SKUID != result[j].SKUID {
			return result[i].SKUID < result[j].SKUID
		}
		return result[i].SeriesDate.Before(result[j].SeriesDate)
	})

	return result, nil
}
