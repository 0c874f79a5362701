package database

import (
	"time"
)

// timeLayout is the canonical storage format for timestamps. Lexicographic
// order matches chronological order, which the trailing-window count relies on.
const timeLayout = "2006-01-02T15:04:05Z"

// Feed is a registered feed row, keyed by its configuration name.
type Feed struct {
	Name          string
	FeedURL       string
	Title         string
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FieldObservation records that a field value has been seen for a feed.
// Rows are insert-if-absent and never updated; a feed's observations live as
// long as the feed itself.
type FieldObservation struct {
	FeedID     string
	FieldName  string
	FieldValue string
	CreatedAt  time.Time
}

// ComparisonField records that a field participates in change detection for a
// feed. At most one row exists per (feed, field) pair.
type ComparisonField struct {
	FeedID    string
	FieldName string
	CreatedAt time.Time
}

// DeliveryRecord is one append-only delivery outcome row. ID is the article id
// the record reports on and is not unique across feeds or mediums.
type DeliveryRecord struct {
	ID              string
	FeedID          string
	MediumID        string
	Status          string
	ErrorCode       string
	InternalMessage string
	CreatedAt       time.Time
}
