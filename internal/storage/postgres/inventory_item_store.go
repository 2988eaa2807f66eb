package postgres

import (
	"context"
	"fmt"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// InventoryItemStore implements storage.InventoryItemStore using PostgreSQL.
type InventoryItemStore struct {
	pool *Pool
}

// NewInventoryItemStore creates a new InventoryItemStore.
func NewInventoryItemStore(pool *Pool) *InventoryItemStore {
	return &InventoryItemStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InventoryItemStore = (*InventoryItemStore)(nil)

// Upsert inserts or replaces the item for (store_id, sku).
func (s *InventoryItemStore) Upsert(ctx context.Context, item *domain.InventoryItem) error {
	if item == nil || item.StoreID == "" || item.SKU == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO inventory_items (store_id, sku, quantity_on_hand, projected_demand_30d, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (store_id, sku)
		DO UPDATE SET quantity_on_hand = EXCLUDED.quantity_on_hand,
		              projected_demand_30d = EXCLUDED.projected_demand_30d,
		              updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, item.StoreID, item.SKU, item.QuantityOnHand, item.ProjectedDemand30d)
	if err != nil {
		return fmt.Errorf("upsert inventory item: %w", err)
	}
	return nil
}

// GetBySKU retrieves the item for (store_id, sku). Returns ErrNotFound if not exists.
func (s *InventoryItemStore) GetBySKU(ctx context.Context, storeID, sku string) (*domain.InventoryItem, error) {
	query := `
		SELECT store_id, sku, quantity_on_hand, projected_demand_30d, updated_at
		FROM inventory_items
		WHERE store_id = $1 AND sku = $2
	`

	var item domain.InventoryItem
	err := s.pool.QueryRow(ctx, query, storeID, sku).Scan(
		&item.StoreID,
		&item.SKU,
		&item.QuantityOnHand,
		&item.ProjectedDemand30d,
		&item.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}

	return &item, nil
}

// UpdateProjectedDemand sets projected_demand_30d for (store_id, sku).
func (s *InventoryItemStore) UpdateProjectedDemand(ctx context.Context, storeID, sku string, demand float64) error {
	query := `
		UPDATE inventory_items
		SET projected_demand_30d = $3, updated_at = now()
		WHERE store_id = $1 AND sku = $2
	`

	tag, err := s.pool.Exec(ctx, query, storeID, sku, demand)
	if err != nil {
		return fmt.Errorf("update projected demand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
