package memory

import (
	"context"
	"sort"
	"sync"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// RawRefundStore is an in-memory implementation of storage.RawRefundStore.
type RawRefundStore struct {
	mu     sync.RWMutex
	nextID int64
	data   []*domain.RawRefund
}

// NewRawRefundStore creates a new in-memory refund store.
func NewRawRefundStore() *RawRefundStore {
	return &RawRefundStore{nextID: 1}
}

// Compile-time interface check.
var _ storage.RawRefundStore = (*RawRefundStore)(nil)

// InsertBulk adds multiple refunds atomically.
func (s *RawRefundStore) InsertBulk(_ context.Context, refunds []*domain.RawRefund) error {
	if len(refunds) == 0 {
		return nil
	}

	for _, r := range refunds {
		if r == nil || r.StoreID == "" || r.ExternalOrderID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range refunds {
		copy := *r
		copy.ID = s.nextID
		s.nextID++
		s.data = append(s.data, &copy)
	}

	return nil
}

// GetByStoreID retrieves all refunds for a store, ordered by refund_timestamp ASC.
func (s *RawRefundStore) GetByStoreID(_ context.Context, storeID string) ([]*domain.RawRefund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RawRefund
	for _, r := range s.data {
		if r.StoreID == storeID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].RefundTimestamp.Equal(result[j].RefundTimestamp) {
			return result[i].RefundTimestamp.Before(result[j].RefundTimestamp)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}
