package pipeline

import (
	"sort"

	"reorder-forecast/internal/domain"
)

// RollupStage aggregates order lines into one series point per
// (store, canonical SKU, category, series date), summing quantity and
// base-currency revenue. Empty categories are normalized to
// domain.CategoryNone so the grouping key is never the empty string.
type RollupStage struct{}

type rollupKey struct {
	storeID  string
	sku      string
	category string
	date     int64 // unix seconds of UTC midnight
}

// Transform produces the rolled-up series, sorted by
// (store, sku, date, category). The category tie-break keeps the order
// stable when one SKU carries several categories on the same day.
func (RollupStage) Transform(rows []Row) []*domain.NormalizedSeriesPoint {
	groups := make(map[rollupKey]*domain.NormalizedSeriesPoint)

	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = domain.CategoryNone
		}

		key := rollupKey{
			storeID:  row.StoreID,
			sku:      row.CanonicalSKU,
			category: category,
			date:     row.SeriesDate.Unix(),
		}

		point, ok := groups[key]
		if !ok {
			point = &domain.NormalizedSeriesPoint{
				StoreID:    row.StoreID,
				SKUID:      row.CanonicalSKU,
				CategoryID: category,
				SeriesDate: row.SeriesDate,
			}
			groups[key] = point
		}

		point.Quantity += row.Quantity
		point.Revenue += row.RevenueBase
	}

	points := make([]*domain.NormalizedSeriesPoint, 0, len(groups))
	for _, p := range groups {
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].StoreID != points[j].StoreID {
			return points[i].StoreID < points[j].StoreID
		}
		if points[i].SKUID != points[j].SKUID {
			return points[i].SKUID < points[j].SKUID
		}
		if !points[i].SeriesDate.Equal(points[j].SeriesDate) {
			return points[i].SeriesDate.Before(points[j].SeriesDate)
		}
		return points[i].CategoryID < points[j].CategoryID
	})

	return points
}
