package storage

import (
	"context"

	"reorder-forecast/internal/domain"
)

// RawOrderLineStore provides access to raw_order_lines storage.
// Rows are written by ingestion and read-only to the pipeline.
type RawOrderLineStore interface {
	// InsertBulk adds multiple order lines atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, lines []*domain.RawOrderLine) error

	// GetByStoreID retrieves all order lines for a store, ordered by order_timestamp ASC.
	GetByStoreID(ctx context.Context, storeID string) ([]*domain.RawOrderLine, error)
}

// RawRefundStore provides access to raw_refunds storage.
type RawRefundStore interface {
	// InsertBulk adds multiple refunds atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, refunds []*domain.RawRefund) error

	// GetByStoreID retrieves all refunds for a store, ordered by refund_timestamp ASC.
	GetByStoreID(ctx context.Context, storeID string) ([]*domain.RawRefund, error)
}

// SKUMappingStore provides access to sku_mappings storage.
type SKUMappingStore interface {
	// Upsert inserts or replaces the mapping for (store_id, sku_raw).
	Upsert(ctx context.Context, m *domain.SKUMapping) error

	// GetByStoreID retrieves all mappings for a store, ordered by sku_raw ASC.
	GetByStoreID(ctx context.Context, storeID string) ([]*domain.SKUMapping, error)
}

// StoreConfigStore provides access to store_configs storage.
type StoreConfigStore interface {
	// Upsert inserts or replaces the config for a store.
	Upsert(ctx context.Context, c *domain.StoreConfig) error

	// GetByStoreID retrieves the config for a store. Returns ErrNotFound if not exists.
	GetByStoreID(ctx context.Context, storeID string) (*domain.StoreConfig, error)
}

// NormalizedSeriesStore provides access to normalized_series storage.
type NormalizedSeriesStore interface {
	// ReplaceForStore atomically deletes all points for a store and inserts
	// the given set. Concurrent readers never observe a partial replace.
	ReplaceForStore(ctx context.Context, storeID string, points []*domain.NormalizedSeriesPoint) error

	// GetByStoreID retrieves all points for a store, ordered by (sku_id, series_date) ASC.
	GetByStoreID(ctx context.Context, storeID string) ([]*domain.NormalizedSeriesPoint, error)
}

// ForecastResultStore provides access to forecast_results storage.
// Results are append-only; multiple rows per SKU accumulate over time.
type ForecastResultStore interface {
	// InsertBulk adds multiple results.
	InsertBulk(ctx context.Context, results []*domain.ForecastResult) error

	// GetByStoreID retrieves all results for a store, ordered by (sku, created_at) ASC.
	GetByStoreID(ctx context.Context, storeID string) ([]*domain.ForecastResult, error)

	// GetLatestBySKU retrieves the most recently created result for a SKU.
	// Returns ErrNotFound if none exists.
	GetLatestBySKU(ctx context.Context, storeID, sku string) (*domain.ForecastResult, error)
}

// InventoryItemStore provides access to inventory_items storage.
type InventoryItemStore interface {
	// Upsert inserts or replaces the item for (store_id, sku).
	Upsert(ctx context.Context, item *domain.InventoryItem) error

	// GetBySKU retrieves the item for (store_id, sku). Returns ErrNotFound if not exists.
	GetBySKU(ctx context.Context, storeID, sku string) (*domain.InventoryItem, error)

	// UpdateProjectedDemand sets projected_demand_30d for (store_id, sku).
	// Returns ErrNotFound if no such item exists.
	UpdateProjectedDemand(ctx context.Context, storeID, sku string, demand float64) error
}
