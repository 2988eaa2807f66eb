package postgres

import (
	"context"
	"fmt"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// NormalizedSeriesStore implements storage.NormalizedSeriesStore using PostgreSQL.
type NormalizedSeriesStore struct {
	pool *Pool
}

// NewNormalizedSeriesStore creates a new NormalizedSeriesStore.
func NewNormalizedSeriesStore(pool *Pool) *NormalizedSeriesStore {
	return &NormalizedSeriesStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NormalizedSeriesStore = (*NormalizedSeriesStore)(nil)

// ReplaceForStore atomically deletes all points for a store and inserts the
// given set. Delete and insert share one transaction so concurrent readers
// never observe a partial replace.
func (s *NormalizedSeriesStore) ReplaceForStore(ctx context.Context, storeID string, points []*domain.NormalizedSeriesPoint) error {
	if storeID == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM normalized_series WHERE store_id = $1`, storeID); err != nil {
		return fmt.Errorf("delete series for store: %w", err)
	}

	query := `
		INSERT INTO normalized_series (
			store_id, sku_id, category_id, series_date,
			quantity, revenue, is_interpolated, is_outlier_adjusted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, p := range points {
		if p == nil || p.SKUID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			storeID,
			p.SKUID,
			p.CategoryID,
			p.SeriesDate,
			p.Quantity,
			p.Revenue,
			p.IsInterpolated,
			p.IsOutlierAdjusted,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert series point: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByStoreID retrieves all points for a store, ordered by (sku_id, series_date) ASC.
func (s *NormalizedSeriesStore) GetByStoreID(ctx context.Context, storeID string) ([]*domain.NormalizedSeriesPoint, error) {
	query := `
		SELECT store_id, sku_id, category_id, series_date,
		       quantity, revenue, is_interpolated, is_outlier_adjusted
		FROM normalized_series
		WHERE store_id = $1
		ORDER BY sku_id ASC, series_date ASC
	`

	rows, err := s.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("get series by store id: %w", err)
	}
	defer rows.Close()

	var points []*domain.NormalizedSeriesPoint
	for rows.Next() {
		var p domain.NormalizedSeriesPoint
		err := rows.Scan(
			&p.StoreID,
			&p.SKUID,
			&p.CategoryID,
			&p.SeriesDate,
			&p.Quantity,
			&p.Revenue,
			&p.IsInterpolated,
			&p.IsOutlierAdjusted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		// series_date is stored as DATE; pgx returns it in UTC midnight already
		p.SeriesDate = domain.Day(p.SeriesDate)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series rows: %w", err)
	}

	return points, nil
}
