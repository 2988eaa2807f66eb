// Package forecast predicts future demand from the normalized series.
// Two providers implement the same contract: a statistical provider
// that degrades from seasonal smoothing to a weighted moving average,
// and a managed provider that orchestrates an external AutoML
// forecasting service for bulk multi-SKU runs.
package forecast

import (
	"context"

	"reorder-forecast/internal/domain"
)

// DefaultHorizonDays is the standard forecast horizon.
const DefaultHorizonDays = 30

// History is one SKU's slice of the normalized series, ordered by date.
type History = []*domain.NormalizedSeriesPoint

// Provider produces per-SKU demand estimates. Implementations are
// stateless; the same inputs always give the same forecast.
type Provider interface {
	// Predict forecasts a single SKU from its history.
	Predict(ctx context.Context, storeID, sku string, history History, horizonDays int) (*domain.ForecastResult, error)

	// PredictBulk forecasts many SKUs in one call. Bulk failures are
	// all-or-nothing; the caller re-routes on error.
	PredictBulk(ctx context.Context, storeID string, histories map[string]History, horizonDays int) (map[string]*domain.ForecastResult, error)

	// MinHistoryDays reports the minimum history length this provider
	// accepts for a SKU.
	MinHistoryDays() int

	// Name identifies the provider kind.
	Name() string
}
