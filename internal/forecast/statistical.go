package forecast

import (
	"context"
	"math"
	"sort"

	"reorder-forecast/internal/domain"
)

// History thresholds for the statistical model selection tree.
const (
	// MinStatisticalDays is the floor below which no forecast is
	// attempted; the result is a tagged zero forecast.
	MinStatisticalDays = 7

	// SeasonalMinDays is the minimum history for the seasonal
	// exponential-smoothing model (two full weekly cycles).
	SeasonalMinDays = 14

	// seasonalPeriod is the weekly seasonality period in days.
	seasonalPeriod = 7

	// confidenceZ is the one-sided 80% normal factor for the seasonal
	// model's confidence band.
	confidenceZ = 1.28
)

// Provider name tags recorded on results.
const (
	nameHoltWinters = "statistical/holt_winters"
	nameWMA         = "statistical/wma"
	nameNoData      = "statistical/no_data"
)

// StatisticalProvider forecasts one SKU at a time from its own history.
// With >= 14 days it fits additive Holt-Winters with weekly seasonality;
// if that fails, or with less history, it degrades to an exponentially
// weighted moving average. Below 7 days it returns a zero forecast.
type StatisticalProvider struct{}

// NewStatisticalProvider creates a statistical provider.
func NewStatisticalProvider() *StatisticalProvider {
	return &StatisticalProvider{}
}

// Compile-time interface check.
var _ Provider = (*StatisticalProvider)(nil)

// MinHistoryDays reports the usable-history floor.
func (p *StatisticalProvider) MinHistoryDays() int {
	return MinStatisticalDays
}

// Name identifies the provider kind.
func (p *StatisticalProvider) Name() string {
	return KindStatistical
}

// Predict forecasts a single SKU.
func (p *StatisticalProvider) Predict(_ context.Context, storeID, sku string, history History, horizonDays int) (*domain.ForecastResult, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	quantities, revenuePerUnit := seriesFromHistory(history)
	days := len(quantities)

	result := &domain.ForecastResult{
		StoreID:       storeID,
		SKU:           sku,
		HorizonDays:   horizonDays,
		DaysOfHistory: days,
	}

	if days < MinStatisticalDays {
		result.ProviderName = nameNoData
		return result, nil
	}

	if days >= SeasonalMinDays {
		if demand, low, high, ok := seasonalForecast(quantities, horizonDays); ok {
			result.ProviderName = nameHoltWinters
			fillResult(result, demand, low, high, revenuePerUnit)
			return result, nil
		}
	}

	demand, low, high := wmaForecast(quantities, horizonDays)
	result.ProviderName = nameWMA
	fillResult(result, demand, low, high, revenuePerUnit)
	return result, nil
}

// PredictBulk forecasts each SKU independently; the first failure
// aborts the batch.
func (p *StatisticalProvider) PredictBulk(ctx context.Context, storeID string, histories map[string]History, horizonDays int) (map[string]*domain.ForecastResult, error) {
	results := make(map[string]*domain.ForecastResult, len(histories))

	skus := make([]string, 0, len(histories))
	for sku := range histories {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	for _, sku := range skus {
		r, err := p.Predict(ctx, storeID, sku, histories[sku], horizonDays)
		if err != nil {
			return nil, err
		}
		results[sku] = r
	}
	return results, nil
}

// seriesFromHistory extracts the daily quantity series (date order) and
// the average revenue per unit sold.
func seriesFromHistory(history History) (quantities []float64, revenuePerUnit float64) {
	points := make(History, len(history))
	copy(points, history)
	sort.Slice(points, func(i, j int) bool {
		return points[i].SeriesDate.Before(points[j].SeriesDate)
	})

	var totalQty, totalRevenue float64
	quantities = make([]float64, len(points))
	for i, p := range points {
		quantities[i] = p.Quantity
		totalQty += p.Quantity
		totalRevenue += p.Revenue
	}

	if totalQty > 0 {
		revenuePerUnit = totalRevenue / totalQty
	}
	return quantities, revenuePerUnit
}

// seasonalForecast fits additive Holt-Winters and sums the daily
// forecasts over the horizon, flooring the total at 0. ok is false when
// the model cannot be fit.
func seasonalForecast(quantities []float64, horizonDays int) (demand, low, high float64, ok bool) {
	model, err := fitHoltWinters(quantities, seasonalPeriod)
	if err != nil {
		return 0, 0, 0, false
	}

	var sum float64
	for _, v := range model.Forecast(horizonDays) {
		sum += v
	}
	if sum < 0 {
		sum = 0
	}

	band := confidenceZ * model.ResidualStd() * math.Sqrt(float64(horizonDays))
	low = sum - band
	if low < 0 {
		low = 0
	}
	return sum, low, sum + band, true
}

// wmaForecast projects the exponentially weighted daily average over
// the horizon. Weights double toward the most recent day.
func wmaForecast(quantities []float64, horizonDays int) (demand, low, high float64) {
	n := len(quantities)
	if n == 0 {
		return 0, 0, 0
	}

	// Weight newest-backwards so w halves per step back; normalized,
	// this matches weight_i proportional to 2^i without overflowing on
	// long histories.
	var weighted, weightSum float64
	w := 1.0
	for i := n - 1; i >= 0; i-- {
		weighted += quantities[i] * w
		weightSum += w
		w /= 2
	}
	dailyAvg := weighted / weightSum

	demand = dailyAvg * float64(horizonDays)
	if demand < 0 {
		demand = 0
	}

	var sigma float64
	if n == 1 {
		sigma = 0.3 * dailyAvg
	} else {
		var mean float64
		for _, q := range quantities {
			mean += q
		}
		mean /= float64(n)
		var ss float64
		for _, q := range quantities {
			d := q - mean
			ss += d * d
		}
		sigma = math.Sqrt(ss / float64(n))
	}

	band := sigma * math.Sqrt(float64(horizonDays))
	low = demand - band
	if low < 0 {
		low = 0
	}
	return demand, low, demand + band
}

// fillResult rounds and attaches the demand estimate and derived fields.
func fillResult(r *domain.ForecastResult, demand, low, high, revenuePerUnit float64) {
	r.PredictedDemand = round1(demand)
	r.ConfidenceLow = ptrFloat(round1(low))
	r.ConfidenceHigh = ptrFloat(round1(high))
	if revenuePerUnit > 0 {
		r.PredictedRevenue = ptrFloat(round2(demand * revenuePerUnit))
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func ptrFloat(v float64) *float64 { return &v }
