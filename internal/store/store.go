// Package store provides the raw key-value backends the ledger records are
// written to.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/cashbook-dev/cashbook/internal/config"
)

// ErrNotFound is returned by Get when a key holds no record.
var ErrNotFound = errors.New("record not found")

// Store is a durable key-value store. Put overwrites the whole value and
// Delete is idempotent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the backend selected by cfg. Relative paths are resolved
// against home.
func Open(cfg *config.Config, home string) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.StoragePath(home))
	case config.BackendSQLite:
		return OpenSQLStore(cfg.StoragePath(home), cfg.Log.Level == "debug")
	case config.BackendRedis:
		rc := cfg.Storage.Redis
		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		return NewRedisStore(client, rc.Prefix), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// checkKey rejects keys that cannot be used as a file name or table key.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid record key %q", key)
	}
	return nil
}
