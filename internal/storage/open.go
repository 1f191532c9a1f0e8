package storage

import (
	"fmt"
	"strings"

	"hnews/internal/config"
	"hnews/internal/redisclient"
)

// Open returns the KV backend selected by cfg.Storage.Driver.
func Open(cfg config.Config) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "sqlite":
		return NewSQLiteStore(cfg.Storage.SQLitePath)
	case "redis":
		return NewRedisStore(redisclient.New(cfg.Redis)), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
}
