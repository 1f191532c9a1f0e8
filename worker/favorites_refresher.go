package worker

import (
	"context"
	"log/slog"
	"time"

	"hnews/internal/hackernews"
	"hnews/internal/model"
)

// ItemSource fetches a single item from the official API.
type ItemSource interface {
	Item(ctx context.Context, id int) (*hackernews.OfficialItem, error)
}

// FavoriteStore is the part of the favorites collection the refresher uses.
type FavoriteStore interface {
	List(ctx context.Context) []model.FavoriteArticle
	SaveOne(ctx context.Context, id int, r model.FavoriteArticle) bool
}

// FavoritesRefresher keeps points and comment counts of saved stories current.
type FavoritesRefresher struct {
	Client   ItemSource
	Store    FavoriteStore
	Interval time.Duration
	// RetryDelay is the pause before the single retry of a transient failure.
	RetryDelay time.Duration
}

func (w *FavoritesRefresher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Hour
	}

	w.RunOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes every favorite and returns how many changed.
func (w *FavoritesRefresher) RunOnce(ctx context.Context) int {
	updated := 0
	for _, f := range w.Store.List(ctx) {
		if ctx.Err() != nil {
			break
		}
		it, err := w.fetch(ctx, f.ID)
		if err != nil || it == nil {
			slog.Warn("favorites-refresher: fetch error", "id", f.ID, "error", err)
			continue
		}
		if it.Deleted || it.Dead {
			continue
		}
		if it.Score == f.Points && it.Descendants == f.NumComments {
			continue
		}
		f.Points = it.Score
		f.NumComments = it.Descendants
		if it.Title != "" {
			f.Title = it.Title
		}
		if w.Store.SaveOne(ctx, f.ID, f) {
			updated++
		}
	}
	slog.Info("favorites-refresher: completed", "updated", updated)
	return updated
}

// fetch retries once when the upstream error is transient.
func (w *FavoritesRefresher) fetch(ctx context.Context, id int) (*hackernews.OfficialItem, error) {
	it, err := w.Client.Item(ctx, id)
	if err == nil || !hackernews.IsRetryable(err) {
		return it, err
	}
	delay := w.RetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	slog.Debug("favorites-refresher: retrying", "id", id, "error", err)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(delay):
	}
	return w.Client.Item(ctx, id)
}
