package pipeline

import (
	"testing"

	"reorder-forecast/internal/domain"
)

func TestGapFillStage_FillsMissingDays(t *testing.T) {
	points := []*domain.NormalizedSeriesPoint{
		{StoreID: "store1", SKUID: "SKU-A", CategoryID: "apparel", SeriesDate: d(1), Quantity: 5, Revenue: 50},
		{StoreID: "store1", SKUID: "SKU-A", CategoryID: "apparel", SeriesDate: d(4), Quantity: 3, Revenue: 30},
	}

	out := GapFillStage{Method: InterpolateZero}.Transform(points)

	if len(out) != 4 {
		t.Fatalf("Expected 4 days, got %d", len(out))
	}

	// Dates must be contiguous
	for i, p := range out {
		if !p.SeriesDate.Equal(d(i + 1)) {
			t.Errorf("Day %d: got %v, want %v", i, p.SeriesDate, d(i+1))
		}
	}

	// Inserted days are zeroed and flagged
	for _, i := range []int{1, 2} {
		p := out[i]
		if p.Quantity != 0 || p.Revenue != 0 || !p.IsInterpolated {
			t.Errorf("Inserted day %v not zero-filled: qty=%f rev=%f interp=%v",
				p.SeriesDate, p.Quantity, p.Revenue, p.IsInterpolated)
		}
		if p.CategoryID != "apparel" {
			t.Errorf("Inserted day lost category: %q", p.CategoryID)
		}
	}

	// Existing days pass through unchanged
	if out[0].Quantity != 5 || out[0].IsInterpolated {
		t.Error("Existing day modified")
	}
}

func TestGapFillStage_RangeIsGlobalAcrossSKUs(t *testing.T) {
	// SKU-B only has day 3, but the store's range is days 1..3,
	// so SKU-B gets days 1 and 2 inserted.
	points := []*domain.NormalizedSeriesPoint{
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(1), Quantity: 1},
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(3), Quantity: 1},
		{StoreID: "store1", SKUID: "SKU-B", SeriesDate: d(3), Quantity: 2},
	}

	out := GapFillStage{Method: InterpolateZero}.Transform(points)

	var skuBDays int
	for _, p := range out {
		if p.SKUID == "SKU-B" {
			skuBDays++
		}
	}
	if skuBDays != 3 {
		t.Errorf("Expected SKU-B padded to 3 days, got %d", skuBDays)
	}
}

func TestGapFillStage_PreservesOutlierFlags(t *testing.T) {
	points := []*domain.NormalizedSeriesPoint{
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(1), Quantity: 99, IsOutlierAdjusted: true},
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(2), Quantity: 1},
	}

	out := GapFillStage{Method: InterpolateZero}.Transform(points)

	if !out[0].IsOutlierAdjusted {
		t.Error("Outlier flag lost on existing day")
	}
}

func TestGapFillStage_MultiCategorySameDayKeepsFirstRow(t *testing.T) {
	// One SKU, one day, two categories. Rollup orders same-day rows by
	// category, and the first row must survive the collapse on every
	// run.
	points := RollupStage{}.Transform([]Row{
		{StoreID: "store1", CanonicalSKU: "SKU-A", Category: "gifts", SeriesDate: d(1), Quantity: 7, RevenueBase: 70},
		{StoreID: "store1", CanonicalSKU: "SKU-A", Category: "apparel", SeriesDate: d(1), Quantity: 2, RevenueBase: 20},
	})

	out := GapFillStage{Method: InterpolateZero}.Transform(points)

	if len(out) != 1 {
		t.Fatalf("Expected 1 collapsed row, got %d", len(out))
	}
	if out[0].CategoryID != "apparel" {
		t.Errorf("Survivor category = %q, want apparel", out[0].CategoryID)
	}
	if out[0].Quantity != 2 || out[0].Revenue != 20 {
		t.Errorf("Survivor row = qty %f rev %f, want the apparel row (2, 20)",
			out[0].Quantity, out[0].Revenue)
	}
}

func TestGapFillStage_LinearMethodStillZeroFills(t *testing.T) {
	// The method parameter accepts "linear" but the stage only ever
	// zero-fills. This pins that contract.
	points := []*domain.NormalizedSeriesPoint{
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(1), Quantity: 10, Revenue: 100},
		{StoreID: "store1", SKUID: "SKU-A", SeriesDate: d(3), Quantity: 20, Revenue: 200},
	}

	out := GapFillStage{Method: InterpolateLinear}.Transform(points)

	if len(out) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(out))
	}
	mid := out[1]
	if mid.Quantity != 0 || mid.Revenue != 0 || !mid.IsInterpolated {
		t.Errorf("Linear method interpolated instead of zero-filling: qty=%f rev=%f",
			mid.Quantity, mid.Revenue)
	}
}

func TestGapFillStage_EmptyInput(t *testing.T) {
	out := GapFillStage{Method: InterpolateZero}.Transform(nil)
	if len(out) != 0 {
		t.Errorf("Expected empty output, got %d", len(out))
	}
}
