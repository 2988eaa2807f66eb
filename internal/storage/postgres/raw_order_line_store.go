package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// RawOrderLineStore implements storage.RawOrderLineStore using PostgreSQL.
type RawOrderLineStore struct {
	pool *Pool
}

// NewRawOrderLineStore creates a new RawOrderLineStore.
func NewRawOrderLineStore(pool *Pool) *RawOrderLineStore {
	return &RawOrderLineStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RawOrderLineStore = (*RawOrderLineStore)(nil)

// InsertBulk adds multiple order lines atomically. Fails entire batch on any duplicate.
func (s *RawOrderLineStore) InsertBulk(ctx context.Context, lines []*domain.RawOrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO raw_order_lines (
			store_id, external_order_id, external_line_id, sku_raw,
			product_id, variant_id, quantity, unit_price, currency,
			order_timestamp, category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, line := range lines {
		_, err := tx.Exec(ctx, query,
			line.StoreID,
			line.ExternalOrderID,
			line.ExternalLineID,
			line.SKURaw,
			line.ProductID,
			line.VariantID,
			line.Quantity,
			line.UnitPrice,
			line.Currency,
			line.OrderTimestamp,
			line.Category,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert order line in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByStoreID retrieves all order lines for a store, ordered by order_timestamp ASC.
func (s *RawOrderLineStore) GetByStoreID(ctx context.Context, storeID string) ([]*domain.RawOrderLine, error) {
	query := `
		SELECT id, store_id, external_order_id, external_line_id, sku_raw,
		       product_id, variant_id, quantity, unit_price, currency,
		       order_timestamp, category, created_at
		FROM raw_order_lines
		WHERE store_id = $1
		ORDER BY order_timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("get order lines by store id: %w", err)
	}
	defer rows.Close()

	return scanRawOrderLines(rows)
}

// scanRawOrderLines scans multiple rows into a slice of RawOrderLine.
func scanRawOrderLines(rows pgx.Rows) ([]*domain.RawOrderLine, error) {
	var lines []*domain.RawOrderLine

	for rows.Next() {
		var line domain.RawOrderLine

		err := rows.Scan(
			&line.ID,
			&line.StoreID,
			&line.ExternalOrderID,
			&line.ExternalLineID,
			&line.SKURaw,
			&line.ProductID,
			&line.VariantID,
			&line.Quantity,
			&line.UnitPrice,
			&line.Currency,
			&line.OrderTimestamp,
			&line.Category,
			&line.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}

		lines = append(lines, &line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line rows: %w", err)
	}

	return lines, nil
}
