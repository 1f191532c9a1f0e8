package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"
)

// Snapshot is the persisted form of a collection: one JSON blob per collection.
type Snapshot[T any] struct {
	Records     map[string]T `json:"records"`
	LastCleanup time.Time    `json:"last_cleanup"`
}

// Stats summarizes a collection for display.
type Stats struct {
	Name        string    `json:"name"`
	Count       int       `json:"count"`
	LastCleanup time.Time `json:"last_cleanup"`
	Oldest      time.Time `json:"oldest,omitempty"`
}

// Collection stores records keyed by post id. Each mutation is a
// read-modify-write of the whole snapshot; callers serialize writers.
// Storage failures are logged and degrade to empty results.
type Collection[T any] struct {
	kv    KV
	name  string
	key   string
	stamp func(T) time.Time
	now   func() time.Time
}

// NewCollection creates a collection named name under prefix. stamp returns the
// time a record's age is measured from.
func NewCollection[T any](kv KV, prefix, name string, stamp func(T) time.Time) *Collection[T] {
	return &Collection[T]{
		kv:    kv,
		name:  name,
		key:   collectionKey(prefix, name),
		stamp: stamp,
		now:   time.Now,
	}
}

func (c *Collection[T]) Name() string { return c.name }

// Load returns the stored snapshot, or an empty one if it is missing or unreadable.
func (c *Collection[T]) Load(ctx context.Context) Snapshot[T] {
	empty := Snapshot[T]{Records: map[string]T{}}
	b, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return empty
	}
	if err != nil {
		slog.Error("storage: load failed", "collection", c.name, "error", err)
		return empty
	}
	var s Snapshot[T]
	if err := json.Unmarshal(b, &s); err != nil {
		slog.Error("storage: decode failed", "collection", c.name, "error", err)
		return empty
	}
	if s.Records == nil {
		s.Records = map[string]T{}
	}
	return s
}

// Save replaces the stored snapshot. It reports whether the write succeeded.
func (c *Collection[T]) Save(ctx context.Context, s Snapshot[T]) bool {
	if s.Records == nil {
		s.Records = map[string]T{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		slog.Error("storage: encode failed", "collection", c.name, "error", err)
		return false
	}
	if err := c.kv.Set(ctx, c.key, b); err != nil {
		slog.Error("storage: save failed", "collection", c.name, "error", err)
		return false
	}
	return true
}

// Get returns one record.
func (c *Collection[T]) Get(ctx context.Context, id int) (T, bool) {
	r, ok := c.Load(ctx).Records[recordKey(id)]
	return r, ok
}

// List returns all records.
func (c *Collection[T]) List(ctx context.Context) []T {
	s := c.Load(ctx)
	out := make([]T, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r)
	}
	return out
}

// SaveOne inserts or replaces one record.
func (c *Collection[T]) SaveOne(ctx context.Context, id int, r T) bool {
	s := c.Load(ctx)
	s.Records[recordKey(id)] = r
	return c.Save(ctx, s)
}

// RemoveOne deletes one record. Removing a missing record is not an error.
func (c *Collection[T]) RemoveOne(ctx context.Context, id int) bool {
	s := c.Load(ctx)
	if _, ok := s.Records[recordKey(id)]; !ok {
		return true
	}
	delete(s.Records, recordKey(id))
	return c.Save(ctx, s)
}

// ClearAll deletes the whole collection.
func (c *Collection[T]) ClearAll(ctx context.Context) bool {
	if err := c.kv.Delete(ctx, c.key); err != nil {
		slog.Error("storage: clear failed", "collection", c.name, "error", err)
		return false
	}
	return true
}

// Cleanup removes records older than maxAge. The snapshot, including its
// lastCleanup time, is written only when at least one record was removed.
func (c *Collection[T]) Cleanup(ctx context.Context, maxAge time.Duration) int {
	s := c.Load(ctx)
	now := c.now()
	removed := 0
	for k, r := range s.Records {
		if now.Sub(c.stamp(r)) > maxAge {
			delete(s.Records, k)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	s.LastCleanup = now
	if !c.Save(ctx, s) {
		return 0
	}
	slog.Info("storage: cleanup removed records", "collection", c.name, "removed", removed, "remaining", len(s.Records))
	return removed
}

// Stats reports record count, last cleanup and oldest record time.
func (c *Collection[T]) Stats(ctx context.Context) Stats {
	s := c.Load(ctx)
	st := Stats{Name: c.name, Count: len(s.Records), LastCleanup: s.LastCleanup}
	for _, r := range s.Records {
		t := c.stamp(r)
		if st.Oldest.IsZero() || t.Before(st.Oldest) {
			st.Oldest = t
		}
	}
	return st
}

func recordKey(id int) string {
	return strconv.Itoa(id)
}
