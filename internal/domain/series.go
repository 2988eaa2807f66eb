package domain

import "time"

// CategoryNone is the canonical category for lines that carried no
// category tag. Rollup normalizes empty categories to this value so
// downstream grouping keys are never the empty string.
const CategoryNone = "uncategorized"

// NormalizedSeriesPoint is one day of demand for one SKU in one store.
// After a pipeline run there is exactly one row per
// (store_id, sku_id, series_date), and dates form a contiguous range
// per (store_id, sku_id). The full set for a store is replaced
// atomically on every run, never patched.
type NormalizedSeriesPoint struct {
	StoreID           string
	SKUID             string // canonical SKU
	CategoryID        string // CategoryNone when untagged
	SeriesDate        time.Time // UTC calendar date, midnight
	Quantity          float64   // >= 0; fractional after outlier capping
	Revenue           float64   // >= 0, base currency
	IsInterpolated    bool
	IsOutlierAdjusted bool
}

// Day truncates t to its UTC calendar date at midnight.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
