package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"hnews/internal/hackernews"
	"hnews/internal/model"
	"hnews/internal/storage"
)

type fakeSweeper struct {
	name  string
	n     int
	calls atomic.Int32
	ages  []time.Duration
}

func (f *fakeSweeper) Name() string { return f.name }

func (f *fakeSweeper) Cleanup(_ context.Context, maxAge time.Duration) int {
	f.calls.Add(1)
	f.ages = append(f.ages, maxAge)
	return f.n
}

func TestCleanupRunOnce(t *testing.T) {
	sums := &fakeSweeper{name: "summaries", n: 2}
	favs := &fakeSweeper{name: "favorites"}
	w := &CleanupWorker{Sweeps: []Sweep{
		{Target: sums, MaxAge: 24 * time.Hour},
		{Target: favs, MaxAge: 90 * 24 * time.Hour},
		{Target: &fakeSweeper{name: "off"}, MaxAge: 0},
	}}
	got := w.RunOnce(context.Background())
	if got["summaries"] != 2 || got["favorites"] != 0 {
		t.Errorf("removed = %v", got)
	}
	if _, ok := got["off"]; ok {
		t.Errorf("sweep without max age should be skipped")
	}
	if sums.ages[0] != 24*time.Hour {
		t.Errorf("max age = %v", sums.ages[0])
	}
}

func TestCleanupWorkerSweepsAtStart(t *testing.T) {
	s := &fakeSweeper{name: "chats"}
	w := &CleanupWorker{Sweeps: []Sweep{{Target: s, MaxAge: time.Hour}}, Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- w.Start(ctx) }()
	deadline := time.Now().Add(2 * time.Second)
	for s.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if s.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", s.calls.Load())
	}
}

func TestCleanupAgainstCollection(t *testing.T) {
	ctx := context.Background()
	favs := storage.NewFavorites(storage.NewMemoryStore(), "t")
	favs.Add(ctx, model.FavoriteArticle{ID: 1, FavoritedAt: time.Now().Add(-100 * 24 * time.Hour)})
	favs.Add(ctx, model.FavoriteArticle{ID: 2, FavoritedAt: time.Now()})
	w := &CleanupWorker{Sweeps: []Sweep{{Target: favs, MaxAge: 90 * 24 * time.Hour}}}
	if got := w.RunOnce(ctx)["favorites"]; got != 1 {
		t.Fatalf("removed = %d, want 1", got)
	}
	if _, ok := favs.Get(ctx, 2); !ok {
		t.Errorf("fresh favorite removed")
	}
}

type fakeItems map[int]*hackernews.OfficialItem

func (f fakeItems) Item(_ context.Context, id int) (*hackernews.OfficialItem, error) {
	it, ok := f[id]
	if !ok {
		return nil, errors.New("boom")
	}
	return it, nil
}

func TestFavoritesRefresher(t *testing.T) {
	ctx := context.Background()
	favs := storage.NewFavorites(storage.NewMemoryStore(), "t")
	favs.Add(ctx, model.FavoriteArticle{ID: 1, Title: "old", Points: 1})
	favs.Add(ctx, model.FavoriteArticle{ID: 2, Title: "same", Points: 5, NumComments: 3})
	favs.Add(ctx, model.FavoriteArticle{ID: 3, Title: "gone"})
	w := &FavoritesRefresher{Client: fakeItems{
		1: {ID: 1, Title: "new", Score: 10, Descendants: 4},
		2: {ID: 2, Title: "same", Score: 5, Descendants: 3},
	}, Store: favs}
	if n := w.RunOnce(ctx); n != 1 {
		t.Fatalf("updated = %d, want 1", n)
	}
	f, _ := favs.Get(ctx, 1)
	if f.Points != 10 || f.NumComments != 4 || f.Title != "new" || f.FavoritedAt.IsZero() {
		t.Errorf("favorite = %+v", f)
	}
}

// flakyItems fails each id's first fetch with err.
type flakyItems struct {
	items fakeItems
	err   error
	calls map[int]int
}

func (f *flakyItems) Item(ctx context.Context, id int) (*hackernews.OfficialItem, error) {
	f.calls[id]++
	if f.calls[id] == 1 {
		return nil, f.err
	}
	return f.items.Item(ctx, id)
}

func TestFavoritesRefresherRetriesTransient(t *testing.T) {
	ctx := context.Background()
	favs := storage.NewFavorites(storage.NewMemoryStore(), "t")
	favs.Add(ctx, model.FavoriteArticle{ID: 1, Title: "old", Points: 1})
	src := &flakyItems{
		items: fakeItems{1: {ID: 1, Title: "new", Score: 10}},
		err:   &hackernews.StatusError{Source: "official", Code: 503},
		calls: map[int]int{},
	}
	w := &FavoritesRefresher{Client: src, Store: favs, RetryDelay: time.Millisecond}
	if n := w.RunOnce(ctx); n != 1 {
		t.Fatalf("updated = %d, want 1 after retry", n)
	}
	if src.calls[1] != 2 {
		t.Errorf("fetches = %d, want 2", src.calls[1])
	}
}

func TestFavoritesRefresherNoRetryOnPermanent(t *testing.T) {
	ctx := context.Background()
	favs := storage.NewFavorites(storage.NewMemoryStore(), "t")
	favs.Add(ctx, model.FavoriteArticle{ID: 1, Title: "old", Points: 1})
	src := &flakyItems{
		items: fakeItems{1: {ID: 1, Title: "new", Score: 10}},
		err:   &hackernews.StatusError{Source: "official", Code: 404},
		calls: map[int]int{},
	}
	w := &FavoritesRefresher{Client: src, Store: favs, RetryDelay: time.Millisecond}
	if n := w.RunOnce(ctx); n != 0 {
		t.Fatalf("updated = %d, want 0", n)
	}
	if src.calls[1] != 1 {
		t.Errorf("fetches = %d, want 1", src.calls[1])
	}
}

type stubWorker struct{ err error }

func (s stubWorker) Start(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return nil
}

func TestManagerJoinsErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")
	m := NewManager(stubWorker{}, stubWorker{err: boom})
	time.AfterFunc(20*time.Millisecond, cancel)
	if err := m.Start(ctx); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
