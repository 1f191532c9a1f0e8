package worker

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is a collection that can drop records older than a given age.
type Sweeper interface {
	Name() string
	Cleanup(ctx context.Context, maxAge time.Duration) int
}

// Sweep pairs a collection with its retention.
type Sweep struct {
	Target Sweeper
	MaxAge time.Duration
}

// CleanupWorker expires old summaries, favorites and chats at start and then
// on every tick.
type CleanupWorker struct {
	Sweeps   []Sweep
	Interval time.Duration
}

func (w *CleanupWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
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

// RunOnce sweeps every collection and returns the number removed from each.
func (w *CleanupWorker) RunOnce(ctx context.Context) map[string]int {
	removed := make(map[string]int, len(w.Sweeps))
	total := 0
	for _, s := range w.Sweeps {
		if s.Target == nil || s.MaxAge <= 0 {
			continue
		}
		n := s.Target.Cleanup(ctx, s.MaxAge)
		removed[s.Target.Name()] = n
		total += n
	}
	slog.Info("cleanup: sweep completed", "removed", total)
	return removed
}
