package storage

import (
	"context"
	"time"

	"hnews/internal/model"
)

// Favorites stores bookmarked stories, aged by FavoritedAt.
type Favorites struct {
	*Collection[model.FavoriteArticle]
}

func NewFavorites(kv KV, prefix string) *Favorites {
	return &Favorites{NewCollection(kv, prefix, "favorites", func(f model.FavoriteArticle) time.Time {
		return f.FavoritedAt
	})}
}

// Add stores a favorite, stamping FavoritedAt when unset.
func (f *Favorites) Add(ctx context.Context, a model.FavoriteArticle) bool {
	if a.FavoritedAt.IsZero() {
		a.FavoritedAt = f.now()
	}
	return f.SaveOne(ctx, a.ID, a)
}

// Toggle adds the article if absent or removes it if present. It returns
// whether the article is a favorite afterwards.
func (f *Favorites) Toggle(ctx context.Context, a model.FavoriteArticle) bool {
	if _, ok := f.Get(ctx, a.ID); ok {
		f.RemoveOne(ctx, a.ID)
		return false
	}
	return f.Add(ctx, a)
}

// Summaries caches generated AI summaries, aged by CreatedAt.
type Summaries struct {
	*Collection[model.CachedAISummary]
}

func NewSummaries(kv KV, prefix string) *Summaries {
	return &Summaries{NewCollection(kv, prefix, "summaries", func(s model.CachedAISummary) time.Time {
		return s.CreatedAt
	})}
}

// Fresh returns a cached summary no older than maxAge.
func (s *Summaries) Fresh(ctx context.Context, postID int, maxAge time.Duration) (model.CachedAISummary, bool) {
	r, ok := s.Get(ctx, postID)
	if !ok || s.now().Sub(r.CreatedAt) > maxAge {
		return model.CachedAISummary{}, false
	}
	return r, true
}

// Put stores a summary, stamping CreatedAt when unset.
func (s *Summaries) Put(ctx context.Context, r model.CachedAISummary) bool {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	return s.SaveOne(ctx, r.PostID, r)
}

// Chats stores per-post conversations, aged by LastUpdated.
type Chats struct {
	*Collection[model.ChatHistoryEntry]
}

func NewChats(kv KV, prefix string) *Chats {
	return &Chats{NewCollection(kv, prefix, "chats", func(c model.ChatHistoryEntry) time.Time {
		return c.LastUpdated
	})}
}

// SaveForPost replaces the messages of a post conversation. CreatedAt of an
// existing entry is kept.
func (c *Chats) SaveForPost(ctx context.Context, postID int, title string, msgs []model.ChatMessage) bool {
	now := c.now()
	e := model.ChatHistoryEntry{
		PostID:      postID,
		PostTitle:   title,
		Messages:    msgs,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if prev, ok := c.Get(ctx, postID); ok && !prev.CreatedAt.IsZero() {
		e.CreatedAt = prev.CreatedAt
	}
	return c.SaveOne(ctx, postID, e)
}
