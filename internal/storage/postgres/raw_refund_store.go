package postgres

import (
	"context"
	"fmt"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/storage"
)

// RawRefundStore implements storage.RawRefundStore using PostgreSQL.
type RawRefundStore struct {
	pool *Pool
}

// NewRawRefundStore creates a new RawRefundStore.
func NewRawRefundStore(pool *Pool) *RawRefundStore {
	return &RawRefundStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RawRefundStore = (*RawRefundStore)(nil)

// InsertBulk adds multiple refunds atomically. Fails entire batch on any duplicate.
func (s *RawRefundStore) InsertBulk(ctx context.Context, refunds []*domain.RawRefund) error {
	if len(refunds) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO raw_refunds (
			store_id, external_order_id, amount, currency, refund_timestamp
		) VALUES ($1, $2, $3, $4, $5)
	`

	for _, r := range refunds {
		_, err := tx.Exec(ctx, query,
			r.StoreID,
			r.ExternalOrderID,
			r.Amount,
			r.Currency,
			r.RefundTimestamp,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert refund in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByStoreID retrieves all refunds for a store, ordered by refund_timestamp ASC.
func (s *RawRefundStore) GetByStoreID(ctx context.Context, storeID string) ([]*domain.RawRefund, error) {
	query := `
		SELECT id, store_id, external_order_id, amount, currency, refund_timestamp, created_at
		FROM raw_refunds
		WHERE store_id = $1
		ORDER BY refund_timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("get refunds by store id: %w", err)
	}
	defer rows.Close()

	var refunds []*domain.RawRefund
	for rows.Next() {
		var r domain.RawRefund
		err := rows.Scan(
			&r.ID,
			&r.StoreID,
			&r.ExternalOrderID,
			&r.Amount,
			&r.Currency,
			&r.RefundTimestamp,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan refund row: %w", err)
		}
		refunds = append(refunds, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refund rows: %w", err)
	}

	return refunds, nil
}
