package storage

import (
	"context"
	"path/filepath"
	"testing"

	"ArticleCourier/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteSnapshots {
	t.Helper()

	repo, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndLoadAll(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	article := &domain.Article{
		Title:   "Strange Metals",
		Link:    "https://example.org/a",
		Excerpt: "body",
		KeyTerms: []domain.TermEntry{
			{Term: "fermion", Definitions: []string{"a particle"}, Frequency: 12},
		},
	}

	if err := repo.Save(ctx, domain.SubscriptionSnapshot{SubscriberID: 1, Article: article}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := repo.Save(ctx, domain.SubscriptionSnapshot{SubscriberID: 2, Read: true}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	snaps, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}

	byID := map[int64]domain.SubscriptionSnapshot{}
	for _, snap := range snaps {
		byID[snap.SubscriberID] = snap
	}

	first := byID[1]
	if first.Article == nil || first.Article.Title != "Strange Metals" {
		t.Fatalf("article lost in round trip: %+v", first.Article)
	}
	if len(first.Article.KeyTerms) != 1 || first.Article.KeyTerms[0].Term != "fermion" {
		t.Fatalf("key terms lost in round trip: %+v", first.Article.KeyTerms)
	}
	if first.Read {
		t.Fatalf("subscriber 1 must be unread")
	}

	second := byID[2]
	if second.Article != nil || !second.Read {
		t.Fatalf("unexpected snapshot for subscriber 2: %+v", second)
	}
}

func TestSaveUpserts(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	article := &domain.Article{Title: "Monday", Link: "https://example.org/m"}
	if err := repo.Save(ctx, domain.SubscriptionSnapshot{SubscriberID: 1, Article: article}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := repo.Save(ctx, domain.SubscriptionSnapshot{SubscriberID: 1, Article: article, Read: true}); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	snaps, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", len(snaps))
	}
	if !snaps[0].Read {
		t.Fatalf("read flag not updated")
	}
}
