package delivery

import (
	"context"

	"feedrelay/app/article"
)

// Details carries the delivery context a medium needs beside the article.
type Details struct {
	DeliveryID string
	MediumID   string
	FeedID     string
	FeedName   string
	FeedURL    string
}

// Medium is an external channel that accepts article deliveries and reports
// an outcome. Implementations return a State rather than an error; transport
// problems are encoded as failed or rejected states so the caller can persist
// them.
type Medium interface {
	ID() string
	DeliverArticle(ctx context.Context, a article.Article, details Details) State
}
