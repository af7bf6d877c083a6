// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront-client/internal/config"
)

// ErrNotFound is returned when a key is absent from the store
var ErrNotFound = errors.New("storage: key not found")

// KeyUser holds the persisted user JSON. It is shared between the session
// store, which owns it, and the API client, which purges it on forced logout.
const KeyUser = "user"

// Store is the local persistent key-value storage backing tokens, the
// persisted user and the cart cache mirror. Values are opaque strings;
// callers serialize JSON where needed.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Open creates the store selected by configuration
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return NewRedisStore(cfg)
	case "file":
		return NewFileStore(cfg.Storage.FilePath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
