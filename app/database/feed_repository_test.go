package database

import (
	"context"
	"testing"
	"time"
)

func TestUpsertAndGetFeed(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	if err := repo.UpsertFeed(ctx, "feed-1", "https://example.com/rss.xml"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	feed, err := repo.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("get feed failed: %v", err)
	}
	if feed == nil {
		t.Fatal("expected feed, got nil")
	}
	if feed.FeedURL != "https://example.com/rss.xml" {
		t.Errorf("unexpected feed URL: %s", feed.FeedURL)
	}
	if feed.NextFetchAt != nil {
		t.Errorf("expected nil next fetch time for fresh feed, got %v", feed.NextFetchAt)
	}

	// Upserting again with a new URL updates in place.
	if err := repo.UpsertFeed(ctx, "feed-1", "https://example.com/atom.xml"); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	feed, err = repo.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("get feed failed: %v", err)
	}
	if feed.FeedURL != "https://example.com/atom.xml" {
		t.Errorf("expected updated URL, got %s", feed.FeedURL)
	}

	count, err := repo.GetFeedCount(ctx)
	if err != nil {
		t.Fatalf("get feed count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 feed after upserts, got %d", count)
	}
}

func TestGetFeedNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedRepository(db)

	feed, err := repo.GetFeed(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get feed failed: %v", err)
	}
	if feed != nil {
		t.Errorf("expected nil for unknown feed, got %+v", feed)
	}
}

func TestUpdateNextFetch(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	if err := repo.UpsertFeed(ctx, "feed-1", "https://example.com/rss.xml"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	nextFetch := time.Now().UTC().Add(10 * time.Minute).Truncate(time.Second)
	if err := repo.UpdateNextFetch(ctx, "feed-1", nextFetch); err != nil {
		t.Fatalf("update next fetch failed: %v", err)
	}

	feed, err := repo.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("get feed failed: %v", err)
	}
	if feed.LastFetchedAt == nil {
		t.Error("expected last fetched time to be set")
	}
	if feed.NextFetchAt == nil || !feed.NextFetchAt.Equal(nextFetch) {
		t.Errorf("expected next fetch %v, got %v", nextFetch, feed.NextFetchAt)
	}
}

func TestUpdateFeedTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	if err := repo.UpsertFeed(ctx, "feed-1", "https://example.com/rss.xml"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.UpdateFeedTitle(ctx, "feed-1", "Example Feed"); err != nil {
		t.Fatalf("update title failed: %v", err)
	}

	feed, err := repo.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("get feed failed: %v", err)
	}
	if feed.Title != "Example Feed" {
		t.Errorf("expected title to be stored, got %q", feed.Title)
	}
}
