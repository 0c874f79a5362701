package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ DeliveryRepository = (*DeliverySQLRepository)(nil)

// DeliverySQLRepository handles database operations for the append-only
// delivery outcome ledger. Rows are never updated or merged after insert.
type DeliverySQLRepository struct {
	db *DB
}

// NewDeliveryRepository creates a new delivery record repository.
func NewDeliveryRepository(db *DB) *DeliverySQLRepository {
	return &DeliverySQLRepository{db: db}
}

// Insert appends a single delivery record. A zero CreatedAt defaults to now.
func (r *DeliverySQLRepository) Insert(ctx context.Context, record DeliveryRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var errorCode, internalMessage sql.NullString
	if record.ErrorCode != "" {
		errorCode = sql.NullString{String: record.ErrorCode, Valid: true}
	}
	if record.InternalMessage != "" {
		internalMessage = sql.NullString{String: record.InternalMessage, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO delivery_records (id, feed_id, medium_id, status, error_code, internal_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.FeedID, record.MediumID, record.Status,
		errorCode, internalMessage, createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery record: %w", err)
	}
	return nil
}

// CountSentAndRejectedSince counts ledger rows for the feed created at or
// after the cutoff whose status consumed the destination's delivery quota.
// Failed and filtered-out attempts never reached the destination.
func (r *DeliverySQLRepository) CountSentAndRejectedSince(ctx context.Context, feedID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM delivery_records
		 WHERE feed_id = ?
		   AND status IN ('sent', 'rejected')
		   AND created_at >= ?`,
		feedID, since.UTC().Format(timeLayout),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return count, nil
}

// GetRecentRecords returns the latest delivery records for a feed, newest
// first.
func (r *DeliverySQLRepository) GetRecentRecords(ctx context.Context, feedID string, limit int) ([]DeliveryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, feed_id, medium_id, status, COALESCE(error_code, ''), COALESCE(internal_message, ''), created_at
		 FROM delivery_records
		 WHERE feed_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		feedID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []DeliveryRecord
	for rows.Next() {
		var record DeliveryRecord
		var createdAt string
		err := rows.Scan(&record.ID, &record.FeedID, &record.MediumID, &record.Status,
			&record.ErrorCode, &record.InternalMessage, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery record row: %w", err)
		}
		record.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery record rows: %w", err)
	}

	return records, nil
}
