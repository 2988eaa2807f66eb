package postgres

import (
	"context"
	"fmt"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// SKUMappingStore implements storage.SKUMappingStore using PostgreSQL.
type SKUMappingStore struct {
	pool *Pool
}

// NewSKUMappingStore creates a new SKUMappingStore.
func NewSKUMappingStore(pool *Pool) *SKUMappingStore {
	return &SKUMappingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SKUMappingStore = (*SKUMappingStore)(nil)

// Upsert inserts or replaces the mapping for (store_id, sku_raw).
func (s *SKUMappingStore) Upsert(ctx context.Context, m *domain.SKUMapping) error {
	if m == nil || m.StoreID == "" || m.SKURaw == "" || m.CanonicalSKU == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO sku_mappings (store_id, sku_raw, canonical_sku)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_id, sku_raw)
		DO UPDATE SET canonical_sku = EXCLUDED.canonical_sku
	`

	_, err := s.pool.Exec(ctx, query, m.StoreID, m.SKURaw, m.CanonicalSKU)
	if err != nil {
		return fmt.Errorf("upsert sku mapping: %w", err)
	}
	return nil
}

// GetByStoreID retrieves all mappings for a store, ordered by sku_raw ASC.
func (s *SKUMappingStore) GetByStoreID(ctx context.Context, storeID string) ([]*domain.SKUMapping, error) {
	query := `
		SELECT store_id, sku_raw, canonical_sku, created_at
		FROM sku_mappings
		WHERE store_id = $1
		ORDER BY sku_raw ASC
	`

	rows, err := s.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("get sku mappings by store id: %w", err)
	}
	defer rows.Close()

	var mappings []*domain.SKUMapping
	for rows.Next() {
		var m domain.SKUMapping
		if err := rows.Scan(&m.StoreID, &m.SKURaw, &m.CanonicalSKU, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sku mapping row: %w", err)
		}
		mappings = append(mappings, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sku mapping rows: %w", err)
	}

	return mappings, nil
}
