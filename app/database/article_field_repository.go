package database

import (
	"context"
	"fmt"
	"time"
)

var _ ArticleFieldRepository = (*ArticleFieldSQLRepository)(nil)

// ArticleFieldSQLRepository handles database operations for article field
// observations, the per-feed fingerprints backing deduplication.
type ArticleFieldSQLRepository struct {
	db *DB
}

// NewArticleFieldRepository creates a new article field repository.
func NewArticleFieldRepository(db *DB) *ArticleFieldSQLRepository {
	return &ArticleFieldSQLRepository{db: db}
}

// HasAnyObservation reports whether at least one observation exists for the
// feed. False marks the feed's very first ingestion cycle.
func (r *ArticleFieldSQLRepository) HasAnyObservation(ctx context.Context, feedID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_fields WHERE feed_id = ? LIMIT 1`,
		feedID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check observations: %w", err)
	}
	return count > 0, nil
}

// Observe records that a field value has been seen for the feed. Re-observing
// an already stored value is a no-op, never an error.
func (r *ArticleFieldSQLRepository) Observe(ctx context.Context, feedID, fieldName, fieldValue string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO article_fields (feed_id, field_name, field_value, created_at)
		 VALUES (?, ?, ?, ?)`,
		feedID, fieldName, fieldValue, now,
	)
	if err != nil {
		return fmt.Errorf("failed to observe field value: %w", err)
	}
	return nil
}

// IsObserved reports whether the exact (field name, field value) pair has been
// recorded for the feed. Observations are scoped by field name, so equal
// values under different names never collide.
func (r *ArticleFieldSQLRepository) IsObserved(ctx context.Context, feedID, fieldName, fieldValue string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_fields
		 WHERE feed_id = ? AND field_name = ? AND field_value = ?`,
		feedID, fieldName, fieldValue,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check observation: %w", err)
	}
	return count > 0, nil
}

// GetObservationCount returns the number of observations stored for a feed.
func (r *ArticleFieldSQLRepository) GetObservationCount(ctx context.Context, feedID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_fields WHERE feed_id = ?`,
		feedID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get observation count: %w", err)
	}
	return count, nil
}
