package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// StoreConfigStore implements storage.StoreConfigStore using PostgreSQL.
// Exchange rates are persisted as JSONB.
type StoreConfigStore struct {
	pool *Pool
}

// NewStoreConfigStore creates a new StoreConfigStore.
func NewStoreConfigStore(pool *Pool) *StoreConfigStore {
	return &StoreConfigStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StoreConfigStore = (*StoreConfigStore)(nil)

// Upsert inserts or replaces the config for a store.
func (s *StoreConfigStore) Upsert(ctx context.Context, c *domain.StoreConfig) error {
	if c == nil || c.StoreID == "" || c.BaseCurrency == "" {
		return storage.ErrInvalidInput
	}

	rates, err := json.Marshal(c.ExchangeRates)
	if err != nil {
		return fmt.Errorf("marshal exchange rates: %w", err)
	}

	query := `
		INSERT INTO store_configs (store_id, timezone, base_currency, exchange_rates)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id)
		DO UPDATE SET timezone = EXCLUDED.timezone,
		              base_currency = EXCLUDED.base_currency,
		              exchange_rates = EXCLUDED.exchange_rates
	`

	_, err = s.pool.Exec(ctx, query, c.StoreID, c.Timezone, c.BaseCurrency, rates)
	if err != nil {
		return fmt.Errorf("upsert store config: %w", err)
	}
	return nil
}

// GetByStoreID retrieves the config for a store. Returns ErrNotFound if not exists.
func (s *StoreConfigStore) GetByStoreID(ctx context.Context, storeID string) (*domain.StoreConfig, error) {
	query := `
		SELECT store_id, timezone, base_currency, exchange_rates
		FROM store_configs
		WHERE store_id = $1
	`

	var c domain.StoreConfig
	var rates []byte
	err := s.pool.QueryRow(ctx, query, storeID).Scan(&c.StoreID, &c.Timezone, &c.BaseCurrency, &rates)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get store config: %w", err)
	}

	if err := json.Unmarshal(rates, &c.ExchangeRates); err != nil {
		return nil, fmt.Errorf("unmarshal exchange rates: %w", err)
	}

	return &c, nil
}
