package memory

import (
	"context"
	"sync"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// StoreConfigStore is an in-memory implementation of storage.StoreConfigStore.
type StoreConfigStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StoreConfig // keyed by store_id
}

// NewStoreConfigStore creates a new in-memory store config store.
func NewStoreConfigStore() *StoreConfigStore {
	return &StoreConfigStore{
		data: make(map[string]*domain.StoreConfig),
	}
}

// Compile-time interface check.
var _ storage.StoreConfigStore = (*StoreConfigStore)(nil)

// Upsert inserts or replaces the config for a store.
func (s *StoreConfigStore) Upsert(_ context.Context, c *domain.StoreConfig) error {
	if c == nil || c.StoreID == "" || c.BaseCurrency == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *c
	copy.ExchangeRates = make(map[string]float64, len(c.ExchangeRates))
	for k, v := range c.ExchangeRates {
		copy.ExchangeRates[k] = v
	}
	s.data[c.StoreID] = &copy
	return nil
}

// GetByStoreID retrieves the config for a store. Returns ErrNotFound if not exists.
func (s *StoreConfigStore) GetByStoreID(_ context.Context, storeID string) (*domain.StoreConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[storeID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *c
	copy.ExchangeRates = make(map[string]float64, len(c.ExchangeRates))
	for k, v := range c.ExchangeRates {
		copy.ExchangeRates[k] = v
	}
	return &copy, nil
}
