package domain

// StoreConfig holds the per-store settings the pipeline needs:
// timezone, base currency, and the currency conversion table.
// One row per store; read-only within a pipeline run.
type StoreConfig struct {
	StoreID       string
	Timezone      string // IANA name, e.g. "America/New_York"
	BaseCurrency  string // 3-letter ISO code
	ExchangeRates map[string]float64 // currency -> rate to base
}

// RateToBase returns the conversion rate from currency to the store's
// base currency. Unknown currencies convert 1:1; this is a documented
// approximation, not an error.
func (c *StoreConfig) RateToBase(currency string) (rate float64, known bool) {
	if currency == c.BaseCurrency {
		return 1.0, true
	}
	if r, ok := c.ExchangeRates[currency]; ok {
		return r, true
	}
	return 1.0, false
}
