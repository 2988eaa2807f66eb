package pipeline

import (
	"sort"

	"reorder-forecast/internal/domain"
)

// Gap interpolation methods. Only zero-fill is performed: the method
// parameter is part of the contract and accepted for both values, but
// "linear" behaves identically to "zero". Callers must not rely on
// linear interpolation.
const (
	InterpolateZero   = "zero"
	InterpolateLinear = "linear"
)

// GapFillStage makes every SKU's date range contiguous from the store's
// global minimum to maximum series date. Missing days are inserted with
// quantity = 0, revenue = 0 and is_interpolated = true; existing days
// pass through unchanged, keeping their flags. When a SKU has several
// rows for one day (multiple categories), the first row in input order
// wins, so sorted input collapses deterministically.
type GapFillStage struct {
	Method string
}

// Transform fills date gaps and returns the series sorted by
// (store, sku, date).
func (GapFillStage) Transform(points []*domain.NormalizedSeriesPoint) []*domain.NormalizedSeriesPoint {
	if len(points) == 0 {
		return points
	}

	minDate := points[0].SeriesDate
	maxDate := points[0].SeriesDate
	for _, p := range points[1:] {
		if p.SeriesDate.Before(minDate) {
			minDate = p.SeriesDate
		}
		if p.SeriesDate.After(maxDate) {
			maxDate = p.SeriesDate
		}
	}

	type skuKey struct {
		storeID string
		sku     string
	}

	bySKU := make(map[skuKey]map[int64]*domain.NormalizedSeriesPoint)
	category := make(map[skuKey]string)
	var order []skuKey

	for _, p := range points {
		key := skuKey{p.StoreID, p.SKUID}
		if _, ok := bySKU[key]; !ok {
			bySKU[key] = make(map[int64]*domain.NormalizedSeriesPoint)
			category[key] = p.CategoryID
			order = append(order, key)
		}
		if _, ok := bySKU[key][p.SeriesDate.Unix()]; !ok {
			bySKU[key][p.SeriesDate.Unix()] = p
		}
	}

	var out []*domain.NormalizedSeriesPoint
	for _, key := range order {
		existing := bySKU[key]
		for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
			if p, ok := existing[d.Unix()]; ok {
				out = append(out, p)
				continue
			}
			out = append(out, &domain.NormalizedSeriesPoint{
				StoreID:        key.storeID,
				SKUID:          key.sku,
				CategoryID:     category[key],
				SeriesDate:     d,
				Quantity:       0,
				Revenue:        0,
				IsInterpolated: true,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StoreID != out[j].StoreID {
			return out[i].StoreID < out[j].StoreID
		}
		if out[i].SKUID != out[j].SKUID {
			return out[i].SKUID < out[j].SKUID
		}
		return out[i].SeriesDate.Before(out[j].SeriesDate)
	})

	return out
}
