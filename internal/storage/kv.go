package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by KV.Get when the key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// KV is the key-value surface every backend provides. Values are opaque bytes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func collectionKey(prefix, name string) string {
	return fmt.Sprintf("%s:collection:%s", prefix, name)
}

func sessionKey(prefix, name string) string {
	return fmt.Sprintf("%s:session:%s", prefix, name)
}
