package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"hnews/internal/model"
)

// countingKV wraps a KV and counts writes.
type countingKV struct {
	KV
	sets int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.KV.Set(ctx, key, value)
}

// brokenKV fails every call.
type brokenKV struct{}

var errBroken = errors.New("disk on fire")

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenKV) Set(context.Context, string, []byte) error   { return errBroken }
func (brokenKV) Delete(context.Context, string) error        { return errBroken }
func (brokenKV) Close() error                                { return nil }

func TestFavoritesCleanupThreshold(t *testing.T) {
	ctx := context.Background()
	kv := &countingKV{KV: NewMemoryStore()}
	favs := NewFavorites(kv, "test")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	favs.now = func() time.Time { return now }

	favs.Add(ctx, model.FavoriteArticle{ID: 1, Title: "old", FavoritedAt: now.Add(-91 * 24 * time.Hour)})
	favs.Add(ctx, model.FavoriteArticle{ID: 2, Title: "new", FavoritedAt: now.Add(-24 * time.Hour)})
	writes := kv.sets

	removed := favs.Cleanup(ctx, 90*24*time.Hour)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if kv.sets != writes+1 {
		t.Fatalf("cleanup writes = %d, want 1", kv.sets-writes)
	}
	snap := favs.Load(ctx)
	if _, ok := snap.Records["1"]; ok {
		t.Errorf("old favorite still present")
	}
	if _, ok := snap.Records["2"]; !ok {
		t.Errorf("recent favorite removed")
	}
	if !snap.LastCleanup.Equal(now) {
		t.Errorf("lastCleanup = %v, want %v", snap.LastCleanup, now)
	}

	writes = kv.sets
	if removed := favs.Cleanup(ctx, 90*24*time.Hour); removed != 0 {
		t.Fatalf("second cleanup removed = %d", removed)
	}
	if kv.sets != writes {
		t.Fatalf("no-op cleanup wrote %d times", kv.sets-writes)
	}
}

func TestCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	sums := NewSummaries(NewMemoryStore(), "test")
	sums.Put(ctx, model.CachedAISummary{PostID: 7, Summary: "a"})
	sums.Put(ctx, model.CachedAISummary{PostID: 8, Summary: "b"})

	got, ok := sums.Get(ctx, 7)
	if !ok || got.Summary != "a" {
		t.Fatalf("Get(7) = %+v, %v", got, ok)
	}
	if got.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not stamped")
	}
	if _, ok := sums.Fresh(ctx, 7, time.Hour); !ok {
		t.Errorf("Fresh(7) miss")
	}
	sums.RemoveOne(ctx, 7)
	if _, ok := sums.Get(ctx, 7); ok {
		t.Errorf("record 7 not removed")
	}
	if n := len(sums.List(ctx)); n != 1 {
		t.Errorf("List len = %d, want 1", n)
	}
	sums.ClearAll(ctx)
	if st := sums.Stats(ctx); st.Count != 0 {
		t.Errorf("count after clear = %d", st.Count)
	}
}

func TestCollectionDegradesOnFailure(t *testing.T) {
	ctx := context.Background()
	favs := NewFavorites(brokenKV{}, "test")
	snap := favs.Load(ctx)
	if snap.Records == nil || len(snap.Records) != 0 {
		t.Fatalf("Load on broken store = %+v, want empty", snap)
	}
	if favs.Add(ctx, model.FavoriteArticle{ID: 1}) {
		t.Errorf("Add reported success on broken store")
	}
	if n := favs.Cleanup(ctx, time.Hour); n != 0 {
		t.Errorf("Cleanup on broken store = %d", n)
	}
}

func TestCollectionCorruptBlob(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	kv.Set(ctx, collectionKey("test", "favorites"), []byte("{not json"))
	favs := NewFavorites(kv, "test")
	if n := len(favs.Load(ctx).Records); n != 0 {
		t.Fatalf("corrupt blob produced %d records", n)
	}
}

func TestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	favs := NewFavorites(NewMemoryStore(), "test")
	a := model.FavoriteArticle{ID: 3, Title: "x"}
	if !favs.Toggle(ctx, a) {
		t.Fatalf("first toggle should favorite")
	}
	if favs.Toggle(ctx, a) {
		t.Fatalf("second toggle should unfavorite")
	}
	if _, ok := favs.Get(ctx, 3); ok {
		t.Errorf("favorite still present")
	}
}

func TestChatsKeepCreatedAt(t *testing.T) {
	ctx := context.Background()
	chats := NewChats(NewMemoryStore(), "test")
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	chats.now = func() time.Time { return t0 }
	chats.SaveForPost(ctx, 9, "post", []model.ChatMessage{{ID: "1", Role: "user", Text: "hi"}})

	t1 := t0.Add(time.Hour)
	chats.now = func() time.Time { return t1 }
	chats.SaveForPost(ctx, 9, "post", []model.ChatMessage{{ID: "1"}, {ID: "2"}})

	e, ok := chats.Get(ctx, 9)
	if !ok {
		t.Fatalf("chat missing")
	}
	if !e.CreatedAt.Equal(t0) || !e.LastUpdated.Equal(t1) {
		t.Errorf("timestamps = %v / %v", e.CreatedAt, e.LastUpdated)
	}
	if len(e.Messages) != 2 {
		t.Errorf("messages = %d", len(e.Messages))
	}
}
