package database

import (
	"context"
	"fmt"
	"time"
)

var _ ComparisonRepository = (*ComparisonSQLRepository)(nil)

// ComparisonSQLRepository handles database operations for the per-feed set of
// active comparison fields.
type ComparisonSQLRepository struct {
	db *DB
}

// NewComparisonRepository creates a new comparison field repository.
func NewComparisonRepository(db *DB) *ComparisonSQLRepository {
	return &ComparisonSQLRepository{db: db}
}

// RegisterIfAbsent inserts the (feed, field) pair unless it already exists.
// Repeated registrations never create a second row.
func (r *ComparisonSQLRepository) RegisterIfAbsent(ctx context.Context, feedID, fieldName string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO article_custom_comparisons (feed_id, field_name, created_at)
		 VALUES (?, ?, ?)`,
		feedID, fieldName, now,
	)
	if err != nil {
		return fmt.Errorf("failed to register comparison field: %w", err)
	}
	return nil
}

// ListActiveFields returns the field names registered as comparison
// dimensions for the feed.
func (r *ComparisonSQLRepository) ListActiveFields(ctx context.Context, feedID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT field_name FROM article_custom_comparisons WHERE feed_id = ? ORDER BY id`,
		feedID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparison fields: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fields []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan comparison field row: %w", err)
		}
		fields = append(fields, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparison field rows: %w", err)
	}

	return fields, nil
}
