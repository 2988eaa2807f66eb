package pipeline

import "reorder-forecast/internal/domain"

// Outlier handling strategies.
const (
	OutlierCap  = "cap"  // clip values to the IQR bounds and flag
	OutlierFlag = "flag" // flag values outside bounds, leave them unmodified
	OutlierNone = "none" // stage is a no-op
)

// DefaultIQRMultiplier is the k in [Q1 - k*IQR, Q3 + k*IQR].
const DefaultIQRMultiplier = 1.5

// OutlierStage detects values outside interquartile bounds computed
// over the store's full rolled-up series, per column. Columns with
// zero IQR have no variance and are skipped.
type OutlierStage struct {
	Strategy string
	K        float64
}

type iqrBounds struct {
	low, high float64
	usable    bool
}

// Transform applies the configured strategy to quantity and revenue.
func (s OutlierStage) Transform(points []*domain.NormalizedSeriesPoint) []*domain.NormalizedSeriesPoint {
	if s.Strategy == OutlierNone || len(points) == 0 {
		return points
	}

	k := s.K
	if k <= 0 {
		k = DefaultIQRMultiplier
	}

	quantities := make([]float64, len(points))
	revenues := make([]float64, len(points))
	for i, p := range points {
		quantities[i] = p.Quantity
		revenues[i] = p.Revenue
	}

	qBounds := computeBounds(quantities, k)
	rBounds := computeBounds(revenues, k)

	out := make([]*domain.NormalizedSeriesPoint, len(points))
	for i, p := range points {
		copy := *p

		if qBounds.usable {
			copy.Quantity, copy.IsOutlierAdjusted = s.apply(copy.Quantity, qBounds, copy.IsOutlierAdjusted)
		}
		if rBounds.usable {
			copy.Revenue, copy.IsOutlierAdjusted = s.apply(copy.Revenue, rBounds, copy.IsOutlierAdjusted)
		}

		out[i] = &copy
	}
	return out
}

func (s OutlierStage) apply(value float64, b iqrBounds, flagged bool) (float64, bool) {
	if value >= b.low && value <= b.high {
		return value, flagged
	}

	switch s.Strategy {
	case OutlierCap:
		if value < b.low {
			value = b.low
		} else {
			value = b.high
		}
		return value, true
	case OutlierFlag:
		return value, true
	default:
		return value, flagged
	}
}

func computeBounds(values []float64, k float64) iqrBounds {
	q1 := percentile(values, 0.25)
	q3 := percentile(values, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return iqrBounds{}
	}
	return iqrBounds{
		low:    q1 - k*iqr,
		high:   q3 + k*iqr,
		usable: true,
	}
}
