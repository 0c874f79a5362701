package database

import (
	"context"
	"testing"
)

func TestObserveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleFieldRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Observe(ctx, "feed-1", "id", "article-1"); err != nil {
			t.Fatalf("observe %d failed: %v", i, err)
		}
	}

	count, err := repo.GetObservationCount(ctx, "feed-1")
	if err != nil {
		t.Fatalf("failed to get observation count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 observation after repeated observes, got %d", count)
	}
}

func TestIsObservedScopedByFieldName(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleFieldRepository(db)
	ctx := context.Background()

	if err := repo.Observe(ctx, "feed-1", "title", "same value"); err != nil {
		t.Fatalf("observe failed: %v", err)
	}

	observed, err := repo.IsObserved(ctx, "feed-1", "title", "same value")
	if err != nil {
		t.Fatalf("is observed failed: %v", err)
	}
	if !observed {
		t.Error("expected title observation to be found")
	}

	observed, err = repo.IsObserved(ctx, "feed-1", "description", "same value")
	if err != nil {
		t.Fatalf("is observed failed: %v", err)
	}
	if observed {
		t.Error("equal value under a different field name must not collide")
	}
}

func TestIsObservedScopedByFeed(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleFieldRepository(db)
	ctx := context.Background()

	if err := repo.Observe(ctx, "feed-1", "id", "article-1"); err != nil {
		t.Fatalf("observe failed: %v", err)
	}

	observed, err := repo.IsObserved(ctx, "feed-2", "id", "article-1")
	if err != nil {
		t.Fatalf("is observed failed: %v", err)
	}
	if observed {
		t.Error("observation must not leak across feeds")
	}
}

func TestHasAnyObservation(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleFieldRepository(db)
	ctx := context.Background()

	has, err := repo.HasAnyObservation(ctx, "feed-1")
	if err != nil {
		t.Fatalf("has any observation failed: %v", err)
	}
	if has {
		t.Error("expected no observations for a fresh feed")
	}

	if err := repo.Observe(ctx, "feed-1", "id", "article-1"); err != nil {
		t.Fatalf("observe failed: %v", err)
	}

	has, err = repo.HasAnyObservation(ctx, "feed-1")
	if err != nil {
		t.Fatalf("has any observation failed: %v", err)
	}
	if !has {
		t.Error("expected observations after a store")
	}
}
