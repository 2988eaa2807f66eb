package pipeline

import "reorder-forecast/internal/domain"

// RefundStage subtracts refunds from line revenue. Each order's total
// refund (converted to base currency) is distributed across the order's
// lines proportionally to each line's share of the order's revenue:
//
//	line_refund = line_revenue / order_revenue * order_refund
//
// Orders with zero or negative total revenue cannot be prorated; their
// refunds are dropped. Post-refund revenue is clamped to >= 0.
type RefundStage struct {
	Config  *domain.StoreConfig
	Refunds []*domain.RawRefund
}

// Transform applies prorated refunds to the rows.
func (s RefundStage) Transform(rows []Row) []Row {
	if len(s.Refunds) == 0 {
		return rows
	}

	// Total refund per order in base currency.
	refundByOrder := make(map[string]float64)
	for _, r := range s.Refunds {
		rate, _ := s.Config.RateToBase(r.Currency)
		refundByOrder[r.ExternalOrderID] += r.Amount * rate
	}

	// Total pre-refund revenue per order.
	revenueByOrder := make(map[string]float64)
	for _, row := range rows {
		revenueByOrder[row.ExternalOrderID] += row.RevenueBase
	}

	out := make([]Row, len(rows))
	for i, row := range rows {
		refund, ok := refundByOrder[row.ExternalOrderID]
		if ok {
			orderRevenue := revenueByOrder[row.ExternalOrderID]
			if orderRevenue > 0 {
				share := row.RevenueBase / orderRevenue
				row.RevenueBase -= share * refund
				if row.RevenueBase < 0 {
					row.RevenueBase = 0
				}
			}
			// Zero or negative order revenue: refund dropped for that order.
		}
		out[i] = row
	}
	return out
}
