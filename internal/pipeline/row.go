// Package pipeline turns raw order lines into a gap-free daily demand
// series per SKU. Seven stages run in a fixed order: timezone, currency,
// refund adjustment, SKU dedup, variant rollup, outlier detection, gap
// interpolation. The runner persists the result as an atomic store-scoped
// replace.
package pipeline

import (
	"time"

	"reorder-forecast/internal/domain"
)

// Row is the working representation of one order line as it moves
// through the stages. Derived fields start zero-valued and are filled
// in stage by stage.
type Row struct {
	StoreID         string
	ExternalOrderID string
	SKURaw          string
	Category        string
	Quantity        float64
	UnitPrice       float64
	Currency        string
	OrderTimestamp  time.Time

	// Derived
	SeriesDate   time.Time // set by TimezoneStage
	RevenueBase  float64   // set by CurrencyStage
	CanonicalSKU string    // set by DedupStage
}

// RowsFromOrderLines converts raw order lines into working rows.
func RowsFromOrderLines(lines []*domain.RawOrderLine) []Row {
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, Row{
			StoreID:         line.StoreID,
			ExternalOrderID: line.ExternalOrderID,
			SKURaw:          line.SKURaw,
			Category:        line.Category,
			Quantity:        float64(line.Quantity),
			UnitPrice:       line.UnitPrice,
			Currency:        line.Currency,
			OrderTimestamp:  line.OrderTimestamp,
		})
	}
	return rows
}
