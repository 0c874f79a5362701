package database

import (
	"context"
	"time"
)

type FeedRepository interface {
	GetFeed(ctx context.Context, name string) (*Feed, error)
	ListFeeds(ctx context.Context) ([]Feed, error)
	GetFeedCount(ctx context.Context) (int, error)

	UpsertFeed(ctx context.Context, name, feedURL string) error
	UpdateFeedTitle(ctx context.Context, name, title string) error
	UpdateNextFetch(ctx context.Context, name string, nextFetch time.Time) error
}

type ArticleFieldRepository interface {
	HasAnyObservation(ctx context.Context, feedID string) (bool, error)
	Observe(ctx context.Context, feedID, fieldName, fieldValue string) error
	IsObserved(ctx context.Context, feedID, fieldName, fieldValue string) (bool, error)
	GetObservationCount(ctx context.Context, feedID string) (int, error)
}

type ComparisonRepository interface {
	RegisterIfAbsent(ctx context.Context, feedID, fieldName string) error
	ListActiveFields(ctx context.Context, feedID string) ([]string, error)
}

type DeliveryRepository interface {
	Insert(ctx context.Context, record DeliveryRecord) error
	CountSentAndRejectedSince(ctx context.Context, feedID string, since time.Time) (int, error)
	GetRecentRecords(ctx context.Context, feedID string, limit int) ([]DeliveryRecord, error)
}
