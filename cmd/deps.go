package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hnews/internal/ai"
	"hnews/internal/config"
	"hnews/internal/hackernews"
	"hnews/internal/hnweb"
	"hnews/internal/storage"
)

// app bundles the components a command needs. Close releases the store.
type app struct {
	cfg       config.Config
	kv        storage.KV
	hn        *hackernews.Client
	favorites *storage.Favorites
	summaries *storage.Summaries
	chats     *storage.Chats
	sessions  *storage.SessionStore
}

func openApp() (*app, error) {
	cfg := GetConfig()
	kv, err := storage.Open(cfg)
	if err != nil {
		return nil, err
	}
	prefix := cfg.Storage.KeyPrefix
	return &app{
		cfg: cfg,
		kv:  kv,
		hn: hackernews.NewClient(hackernews.Options{
			BaseAPI:        cfg.HackerNews.BaseAPI,
			AlgoliaAPI:     cfg.HackerNews.AlgoliaAPI,
			Timeout:        config.Duration(cfg.HackerNews.RequestTimeout, 10*time.Second),
			MaxConcurrent:  cfg.HackerNews.MaxConcurrent,
			CommentWorkers: cfg.HackerNews.CommentWorkers,
			RatePerSecond:  cfg.HackerNews.RatePerSecond,
		}),
		favorites: storage.NewFavorites(kv, prefix),
		summaries: storage.NewSummaries(kv, prefix),
		chats:     storage.NewChats(kv, prefix),
		sessions:  storage.NewSessionStore(kv, storage.NewKeyringSecrets(cfg.Storage.KeyringService), prefix),
	}, nil
}

func (a *app) Close() error { return a.kv.Close() }

// session returns a web session with any saved cookie restored.
func (a *app) session(ctx context.Context) (*hnweb.Session, error) {
	s, err := hnweb.NewSession(hnweb.SessionConfig{
		WebURL:  a.cfg.HackerNews.WebURL,
		Store:   a.sessions,
		Account: storage.Credentials{Username: a.cfg.Account.Username, Password: a.cfg.Account.Password},
		Timeout: config.Duration(a.cfg.HackerNews.RequestTimeout, 10*time.Second) + 5*time.Second,
	})
	if err != nil {
		return nil, err
	}
	s.Restore(ctx)
	return s, nil
}

func (a *app) generator(ctx context.Context) (ai.Generator, error) {
	g, err := ai.New(ctx, a.cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("%s", ai.Describe(err))
	}
	return g, nil
}

func (a *app) cleanupAges() (summary, favorite, chat time.Duration) {
	c := a.cfg.Cleanup
	return config.Duration(c.SummaryMaxAge, 24*time.Hour),
		config.Duration(c.FavoriteMaxAge, 90*24*time.Hour),
		config.Duration(c.ChatMaxAge, 30*24*time.Hour)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
