package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"feedrelay/app/config"
	"feedrelay/app/database"
)

type SyncFeedConfigTask struct {
	Task
	FeedConfig *config.FeedConfig
	feedRepo   database.FeedRepository
}

func NewSyncFeedConfigTask(feedConfig *config.FeedConfig, feedRepo database.FeedRepository) *SyncFeedConfigTask {
	return &SyncFeedConfigTask{
		Task:       NewTask(TaskTypeSyncFeedConfig, feedConfig.Feed.ID),
		FeedConfig: feedConfig,
		feedRepo:   feedRepo,
	}
}

func (t *SyncFeedConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.feedRepo.UpsertFeed(ctx, t.FeedConfig.Feed.ID, t.FeedConfig.Feed.URL)
	if err != nil {
		return fmt.Errorf("failed to sync feed config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncFeedConfig",
		"feed", t.FeedID,
		"duration", t.GetDuration())

	return nil
}
