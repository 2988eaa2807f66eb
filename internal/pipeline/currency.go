package pipeline

import "reorder-forecast/internal/domain"

// CurrencyStage computes each line's revenue in the store's base
// currency. Currencies missing from the conversion table pass through
// 1:1; this is a documented approximation, not an error.
type CurrencyStage struct {
	Config *domain.StoreConfig
}

// Transform sets RevenueBase = quantity * unit_price * rate-to-base.
func (s CurrencyStage) Transform(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		rate, _ := s.Config.RateToBase(row.Currency)
		row.RevenueBase = row.Quantity * row.UnitPrice * rate
		out[i] = row
	}
	return out
}
