package config

import (
	"testing"
	"time"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()
	if c.HackerNews.MaxConcurrent != 3 {
		t.Errorf("max_concurrent = %d, want 3", c.HackerNews.MaxConcurrent)
	}
	if c.HackerNews.CommentWorkers != 5 {
		t.Errorf("comment_workers = %d, want 5", c.HackerNews.CommentWorkers)
	}
	if c.Storage.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", c.Storage.Driver)
	}
	if got := Duration(c.Cleanup.FavoriteMaxAge, 0); got != 90*24*time.Hour {
		t.Errorf("favorite max age = %v", got)
	}
	if got := Duration(c.Cleanup.ChatMaxAge, 0); got != 30*24*time.Hour {
		t.Errorf("chat max age = %v", got)
	}
	if got := Duration(c.Cleanup.SummaryMaxAge, 0); got != 24*time.Hour {
		t.Errorf("summary max age = %v", got)
	}
}

func TestFillDefaultsKeepsValues(t *testing.T) {
	c := Config{HackerNews: HackerNewsConfig{MaxConcurrent: 7, BaseAPI: "http://local"}}
	c.FillDefaults()
	if c.HackerNews.MaxConcurrent != 7 || c.HackerNews.BaseAPI != "http://local" {
		t.Fatalf("explicit values overwritten: %+v", c.HackerNews)
	}
}

func TestDurationFallback(t *testing.T) {
	if got := Duration("nope", time.Minute); got != time.Minute {
		t.Errorf("Duration(invalid) = %v", got)
	}
	if got := Duration("-5s", time.Minute); got != time.Minute {
		t.Errorf("Duration(negative) = %v", got)
	}
}
