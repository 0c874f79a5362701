package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestInsertAndGetRecentRecords(t *testing.T) {
	db := newTestDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()

	records := []DeliveryRecord{
		{ID: "article-1", FeedID: "feed-1", MediumID: "medium-1", Status: "sent"},
		{ID: "article-2", FeedID: "feed-1", MediumID: "medium-1", Status: "rejected",
			ErrorCode: "third-party-bad-request", InternalMessage: "destination responded with HTTP 400"},
		{ID: "article-3", FeedID: "feed-1", MediumID: "medium-1", Status: "failed",
			ErrorCode: "internal-error", InternalMessage: "request failed"},
	}
	for _, record := range records {
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	got, err := repo.GetRecentRecords(ctx, "feed-1", 10)
	if err != nil {
		t.Fatalf("get recent records failed: %v", err)
	}

	// Newest first.
	want := []DeliveryRecord{records[2], records[1], records[0]}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(DeliveryRecord{}, "CreatedAt")); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertDuplicateArticleIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()

	// The ledger is append-only: the same article id may appear many times.
	for i := 0; i < 3; i++ {
		record := DeliveryRecord{ID: "article-1", FeedID: "feed-1", MediumID: "medium-1", Status: "sent"}
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	got, err := repo.GetRecentRecords(ctx, "feed-1", 10)
	if err != nil {
		t.Fatalf("get recent records failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 records for the same article id, got %d", len(got))
	}
}

func TestCountSentAndRejectedSince(t *testing.T) {
	db := newTestDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	records := []DeliveryRecord{
		{ID: "a-1", FeedID: "feed-1", MediumID: "m-1", Status: "sent", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "a-2", FeedID: "feed-1", MediumID: "m-1", Status: "rejected", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "a-3", FeedID: "feed-1", MediumID: "m-1", Status: "sent", CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "a-4", FeedID: "feed-1", MediumID: "m-1", Status: "failed", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "a-5", FeedID: "feed-1", MediumID: "m-1", Status: "filtered-out", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "a-6", FeedID: "feed-2", MediumID: "m-1", Status: "sent", CreatedAt: now.Add(-1 * time.Hour)},
	}
	for _, record := range records {
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	count, err := repo.CountSentAndRejectedSince(ctx, "feed-1", now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}

	// The hour-old sent and rejected rows count; the day-old sent row is
	// outside the window and failed/filtered-out rows never count.
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}
