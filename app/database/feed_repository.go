package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ FeedRepository = (*FeedSQLRepository)(nil)

// FeedSQLRepository handles database operations for registered feeds.
type FeedSQLRepository struct {
	db *DB
}

// NewFeedRepository creates a new feed repository.
func NewFeedRepository(db *DB) *FeedSQLRepository {
	return &FeedSQLRepository{db: db}
}

// UpsertFeed registers a feed by its configuration name, updating the URL if
// the configuration changed.
func (r *FeedSQLRepository) UpsertFeed(ctx context.Context, name, feedURL string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feeds (name, feed_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
			feed_url = excluded.feed_url,
			updated_at = excluded.updated_at`,
		name, feedURL, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}
	return nil
}

// GetFeed retrieves a feed by its configuration name. Returns nil when the
// feed is not registered.
func (r *FeedSQLRepository) GetFeed(ctx context.Context, name string) (*Feed, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT name, feed_url, title, last_fetched_at, next_fetch_at, created_at, updated_at
		 FROM feeds WHERE name = ?`, name,
	)

	feed, err := scanFeed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return feed, nil
}

// ListFeeds returns all registered feeds ordered by name.
func (r *FeedSQLRepository) ListFeeds(ctx context.Context) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, feed_url, title, last_fetched_at, next_fetch_at, created_at, updated_at
		 FROM feeds ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

// GetFeedCount returns the total number of registered feeds.
func (r *FeedSQLRepository) GetFeedCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feeds`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}

// UpdateFeedTitle stores the feed title extracted during parsing.
func (r *FeedSQLRepository) UpdateFeedTitle(ctx context.Context, name, title string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := r.db.ExecContext(ctx,
		`UPDATE feeds SET title = ?, updated_at = ? WHERE name = ?`,
		title, now, name,
	)
	if err != nil {
		return fmt.Errorf("failed to update feed title: %w", err)
	}
	return nil
}

// UpdateNextFetch records a completed fetch and schedules the next one.
func (r *FeedSQLRepository) UpdateNextFetch(ctx context.Context, name string, nextFetch time.Time) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := r.db.ExecContext(ctx,
		`UPDATE feeds SET last_fetched_at = ?, next_fetch_at = ?, updated_at = ? WHERE name = ?`,
		now, nextFetch.UTC().Format(timeLayout), now, name,
	)
	if err != nil {
		return fmt.Errorf("failed to update next fetch time: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanFeed(row scannable) (*Feed, error) {
	var feed Feed
	var lastFetched, nextFetch sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&feed.Name, &feed.FeedURL, &feed.Title, &lastFetched, &nextFetch, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if lastFetched.Valid {
		t, _ := time.Parse(timeLayout, lastFetched.String)
		feed.LastFetchedAt = &t
	}
	if nextFetch.Valid {
		t, _ := time.Parse(timeLayout, nextFetch.String)
		feed.NextFetchAt = &t
	}
	feed.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	feed.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return &feed, nil
}
