package domain

import "time"

// ForecastResult is one provider prediction for one SKU.
// Append-only; results accumulate over time and "latest" is selected
// by CreatedAt.
type ForecastResult struct {
	StoreID          string
	SKU              string
	ForecastDate     time.Time // UTC date the forecast was produced for
	HorizonDays      int
	PredictedDemand  float64 // >= 0, summed over the horizon
	PredictedRevenue *float64
	ConfidenceLow    *float64
	ConfidenceHigh   *float64
	ProviderName     string
	DaysOfHistory    int
	CreatedAt        time.Time
}
