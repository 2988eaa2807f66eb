package forecast

import (
	"errors"
	"math"
)

// errInsufficientData is returned when the series is too short to
// initialize the seasonal components.
var errInsufficientData = errors.New("series shorter than two seasonal periods")

// hwModel is a fitted additive Holt-Winters model: level and trend
// smoothing plus an additive seasonal component.
type hwModel struct {
	level    float64
	trend    float64
	seasonal []float64
	period   int
	sse      float64
	n        int
}

// fitHoltWinters fits additive trend + additive seasonality by a coarse
// deterministic grid search over the smoothing parameters, minimizing
// one-step-ahead squared error.
func fitHoltWinters(series []float64, period int) (*hwModel, error) {
	if len(series) < 2*period {
		return nil, errInsufficientData
	}

	grid := []float64{0.1, 0.3, 0.5, 0.7, 0.9}

	var best *hwModel
	for _, alpha := range grid {
		for _, beta := range grid {
			for _, gamma := range grid {
				m := smooth(series, period, alpha, beta, gamma)
				if best == nil || m.sse < best.sse {
					best = m
				}
			}
		}
	}

	if best == nil || math.IsNaN(best.level) || math.IsInf(best.level, 0) {
		return nil, errors.New("smoothing diverged")
	}
	return best, nil
}

// smooth runs one pass of additive Holt-Winters over the series.
func smooth(series []float64, period int, alpha, beta, gamma float64) *hwModel {
	// Initialize level and trend from the first two seasonal cycles.
	var firstMean, secondMean float64
	for i := 0; i < period; i++ {
		firstMean += series[i]
		secondMean += series[period+i]
	}
	firstMean /= float64(period)
	secondMean /= float64(period)

	level := firstMean
	trend := (secondMean - firstMean) / float64(period)

	seasonal := make([]float64, period)
	for i := 0; i < period; i++ {
		seasonal[i] = series[i] - firstMean
	}

	var sse float64
	for t := 0; t < len(series); t++ {
		s := t % period
		predicted := level + trend + seasonal[s]
		err := series[t] - predicted
		sse += err * err

		prevLevel := level
		level = alpha*(series[t]-seasonal[s]) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonal[s] = gamma*(series[t]-level) + (1-gamma)*seasonal[s]
	}

	return &hwModel{
		level:    level,
		trend:    trend,
		seasonal: seasonal,
		period:   period,
		sse:      sse,
		n:        len(series),
	}
}

// Forecast projects h daily values forward from the end of the series.
func (m *hwModel) Forecast(h int) []float64 {
	out := make([]float64, h)
	for i := 0; i < h; i++ {
		s := (m.n + i) % m.period
		out[i] = m.level + float64(i+1)*m.trend + m.seasonal[s]
	}
	return out
}

// ResidualStd is the standard deviation of the one-step fit residuals.
func (m *hwModel) ResidualStd() float64 {
	if m.n == 0 {
		return 0
	}
	return math.Sqrt(m.sse / float64(m.n))
}
