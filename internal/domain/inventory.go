package domain

import "time"

// InventoryItem tracks stock and projected demand for one SKU in one
// store. The forecast runner writes ProjectedDemand30d after each run.
type InventoryItem struct {
	StoreID            string
	SKU                string
	QuantityOnHand     int
	ProjectedDemand30d float64
	UpdatedAt          time.Time
}
