package pipeline

import "reorder-forecast/internal/domain"

// DedupStage resolves raw SKUs to canonical SKUs through the store's
// mapping table. Unmapped raw SKUs pass through as their own canonical
// SKU (identity mapping).
type DedupStage struct {
	Mappings map[string]string // sku_raw -> canonical_sku
}

// NewDedupStage builds the stage from a mapping list loaded once per run.
func NewDedupStage(mappings []*domain.SKUMapping) DedupStage {
	m := make(map[string]string, len(mappings))
	for _, mapping := range mappings {
		m[mapping.SKURaw] = mapping.CanonicalSKU
	}
	return DedupStage{Mappings: m}
}

// Transform sets CanonicalSKU on every row.
func (s DedupStage) Transform(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		if canonical, ok := s.Mappings[row.SKURaw]; ok {
			row.CanonicalSKU = canonical
		} else {
			row.CanonicalSKU = row.SKURaw
		}
		out[i] = row
	}
	return out
}
