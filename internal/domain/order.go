package domain

import "time"

// RawOrderLine is a single order line as ingested from a sales platform.
// Immutable once ingested; the pipeline only reads these rows.
type RawOrderLine struct {
	ID              int64
	StoreID         string
	ExternalOrderID string  // order identifier on the originating platform
	ExternalLineID  *string // line identifier on the originating platform (nullable)
	SKURaw          string  // SKU exactly as the platform reported it
	ProductID       *string
	VariantID       *string
	Quantity        int     // >= 0
	UnitPrice       float64 // >= 0, in the line's native currency
	Currency        string  // 3-letter ISO code
	OrderTimestamp  time.Time
	Category        string // empty means untagged
	CreatedAt       time.Time
}

// RawRefund is a refund event as ingested from a sales platform.
// Many refunds may reference one order via ExternalOrderID.
type RawRefund struct {
	ID              int64
	StoreID         string
	ExternalOrderID string
	Amount          float64 // >= 0, in the refund's native currency
	Currency        string
	RefundTimestamp time.Time
	CreatedAt       time.Time
}

// SKUMapping maps a platform-reported SKU to its canonical identifier.
// Unique per (store_id, sku_raw). Absence of a mapping means identity.
type SKUMapping struct {
	StoreID      string
	SKURaw       string
	CanonicalSKU string
	CreatedAt    time.Time
}
