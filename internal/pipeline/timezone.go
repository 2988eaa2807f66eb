package pipeline

import (
	"fmt"

	"reorder-forecast/internal/domain"
)

// TimezoneStage normalizes order timestamps to UTC and derives the
// series date as the UTC calendar date. Timestamps carry their own
// offset, so the same instant always lands on the same series date
// regardless of the originating timezone.
type TimezoneStage struct{}

// Transform sets SeriesDate on every row. A zero timestamp means the
// field was absent at ingestion and fails the run.
func (TimezoneStage) Transform(rows []Row) ([]Row, error) {
	out := make([]Row, len(rows))
	for i, row := range rows {
		if row.OrderTimestamp.IsZero() {
			return nil, fmt.Errorf("%w: order %s has no timestamp", ErrValidation, row.ExternalOrderID)
		}
		row.SeriesDate = domain.Day(row.OrderTimestamp)
		out[i] = row
	}
	return out, nil
}
