package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// ForecastResultStore implements storage.ForecastResultStore using ClickHouse.
// The table is append-only; "latest" is selected by created_at.
type ForecastResultStore struct {
	conn *Conn
}

// NewForecastResultStore creates a new ForecastResultStore.
func NewForecastResultStore(conn *Conn) *ForecastResultStore {
	return &ForecastResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ForecastResultStore = (*ForecastResultStore)(nil)

// InsertBulk adds multiple results.
func (s *ForecastResultStore) InsertBulk(ctx context.Context, results []*domain.ForecastResult) error {
	if len(results) == 0 {
		return nil
	}

	for _, r := range results {
		if r == nil || r.StoreID == "" || r.SKU == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO forecast_results (
			store_id, sku, forecast_date, horizon_days,
			predicted_demand, predicted_revenue, confidence_low, confidence_high,
			provider_name, days_of_history, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range results {
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		err = batch.Append(
			r.StoreID,
			r.SKU,
			r.ForecastDate,
			uint16(r.HorizonDays),
			r.PredictedDemand,
			r.PredictedRevenue,
			r.ConfidenceLow,
			r.ConfidenceHigh,
			r.ProviderName,
			uint32(r.DaysOfHistory),
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByStoreID retrieves all results for a store, ordered by (sku, created_at) ASC.
func (s *ForecastResultStore) GetByStoreID(ctx context.Context, storeID string) ([]*domain.ForecastResult, error) {
	query := `
		SELECT store_id, sku, forecast_date, horizon_days,
		       predicted_demand, predicted_revenue, confidence_low, confidence_high,
		       provider_name, days_of_history, created_at
		FROM forecast_results
		WHERE store_id = ?
		ORDER BY sku ASC, created_at ASC
	`

	rows, err := s.conn.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("query results by store id: %w", err)
	}
	defer rows.Close()

	var results []*domain.ForecastResult
	for rows.Next() {
		r, err := scanForecastResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	return results, nil
}

// GetLatestBySKU retrieves the most recently created result for a SKU.
func (s *ForecastResultStore) GetLatestBySKU(ctx context.Context, storeID, sku string) (*domain.ForecastResult, error) {
	query := `
		SELECT store_id, sku, forecast_date, horizon_days,
		       predicted_demand, predicted_revenue, confidence_low, confidence_high,
		       provider_name, days_of_history, created_at
		FROM forecast_results
		WHERE store_id = ? AND sku = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query, storeID, sku)
	r, err := scanForecastResult(row)
	if err != nil {
		// Only an empty result is "not found"; everything else is a
		// real query failure and must not be masked.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest result: %w", err)
	}

	return r, nil
}

// chScanner covers both driver.Row and driver.Rows.
type chScanner interface {
	Scan(dest ...any) error
}

func scanForecastResult(row chScanner) (*domain.ForecastResult, error) {
	var r domain.ForecastResult
	var horizon uint16
	var days uint32

	err := row.Scan(
		&r.StoreID,
		&r.SKU,
		&r.ForecastDate,
		&horizon,
		&r.PredictedDemand,
		&r.PredictedRevenue,
		&r.ConfidenceLow,
		&r.ConfidenceHigh,
		&r.ProviderName,
		&days,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan result row: %w", err)
	}

	r.HorizonDays = int(horizon)
	r.DaysOfHistory = int(days)
	r.ForecastDate = domain.Day(r.ForecastDate)
	return &r, nil
}
