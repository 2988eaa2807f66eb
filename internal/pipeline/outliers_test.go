package pipeline

import (
	"testing"

	"reorder-forecast/internal/domain"
)

// seriesWithSpike returns a flat-ish series with one extreme quantity.
func seriesWithSpike() []*domain.NormalizedSeriesPoint {
	quantities := []float64{10, 11, 9, 10, 12, 10, 11, 100}
	points := make([]*domain.NormalizedSeriesPoint, len(quantities))
	for i, q := range quantities {
		points[i] = &domain.NormalizedSeriesPoint{
			StoreID:    "store1",
			SKUID:      "SKU-A",
			SeriesDate: d(i + 1),
			Quantity:   q,
			Revenue:    q * 10,
		}
	}
	return points
}

func TestOutlierStage_CapClipsToBounds(t *testing.T) {
	points := seriesWithSpike()
	out := OutlierStage{Strategy: OutlierCap, K: 1.5}.Transform(points)

	// Recompute bounds on the original values for the assertion.
	orig := make([]float64, len(points))
	for i, p := range points {
		orig[i] = p.Quantity
	}
	low := percentile(orig, 0.25) - 1.5*(percentile(orig, 0.75)-percentile(orig, 0.25))
	high := percentile(orig, 0.75) + 1.5*(percentile(orig, 0.75)-percentile(orig, 0.25))

	for i, p := range out {
		if p.Quantity < low || p.Quantity > high {
			t.Errorf("Point %d quantity %f outside [%f, %f]", i, p.Quantity, low, high)
		}
	}

	// The spike must be capped and flagged.
	last := out[len(out)-1]
	if last.Quantity == 100 {
		t.Error("Spike was not capped")
	}
	if !last.IsOutlierAdjusted {
		t.Error("Capped point not flagged")
	}

	// Inliers untouched and unflagged.
	if out[0].Quantity != 10 || out[0].IsOutlierAdjusted {
		t.Errorf("Inlier modified: quantity=%f flagged=%v", out[0].Quantity, out[0].IsOutlierAdjusted)
	}
}

func TestOutlierStage_FlagLeavesValues(t *testing.T) {
	points := seriesWithSpike()
	out := OutlierStage{Strategy: OutlierFlag, K: 1.5}.Transform(points)

	last := out[len(out)-1]
	if last.Quantity != 100 {
		t.Errorf("Flag strategy modified value: %f", last.Quantity)
	}
	if !last.IsOutlierAdjusted {
		t.Error("Outlier not flagged")
	}
}

func TestOutlierStage_NoneIsIdentity(t *testing.T) {
	points := seriesWithSpike()
	out := OutlierStage{Strategy: OutlierNone}.Transform(points)

	for i, p := range out {
		if p.Quantity != points[i].Quantity || p.IsOutlierAdjusted {
			t.Errorf("Point %d changed under none strategy", i)
		}
	}
}

func TestOutlierStage_ZeroIQRColumnSkipped(t *testing.T) {
	// Constant quantity: zero IQR, column must be skipped even with a
	// spike-free revenue column.
	points := []*domain.NormalizedSeriesPoint{
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(1), Quantity: 5, Revenue: 50},
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(2), Quantity: 5, Revenue: 50},
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(3), Quantity: 5, Revenue: 50},
	}

	out := OutlierStage{Strategy: OutlierCap, K: 1.5}.Transform(points)

	for i, p := range out {
		if p.Quantity != 5 || p.IsOutlierAdjusted {
			t.Errorf("Point %d adjusted despite zero IQR", i)
		}
	}
}
