package memory

import (
	"context"
	"sort"
	"sync"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// RawOrderLineStore is an in-memory implementation of storage.RawOrderLineStore.
type RawOrderLineStore struct {
	mu     sync.RWMutex
	nextID int64
	data   []*domain.RawOrderLine
}

// NewRawOrderLineStore creates a new in-memory raw order line store.
func NewRawOrderLineStore() *RawOrderLineStore {
	return &RawOrderLineStore{nextID: 1}
}

// Compile-time interface check.
var _ storage.RawOrderLineStore = (*RawOrderLineStore)(nil)

// InsertBulk adds multiple order lines atomically.
func (s *RawOrderLineStore) InsertBulk(_ context.Context, lines []*domain.RawOrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	for _, line := range lines {
		if line == nil || line.StoreID == "" || line.SKURaw == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range lines {
		copy := *line
		copy.ID = s.nextID
		s.nextID++
		s.data = append(s.data, &copy)
	}

	return nil
}

// GetByStoreID retrieves all order lines for a store, ordered by order_timestamp ASC.
func (s *RawOrderLineStore) GetByStoreID(_ context.Context, storeID string) ([]*domain.RawOrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RawOrderLine
	for _, line := range s.data {
		if line.StoreID == storeID {
			copy := *line
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderTimestamp.Equal(result[j].OrderTimestamp) {
			return result[i].OrderTimestamp.Before(result[j].OrderTimestamp)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}
