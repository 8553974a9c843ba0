// Package storage provides the durable key-value store used for the wallet
// session descriptor, the transaction ledger and pending payments.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// UpdateFunc receives the current value (nil when absent) and returns the value to store.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is a small key-value store.
// Update must run read-modify-write atomically with respect to other Updates of the same key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

// Options selects and configures a Store implementation.
type Options struct {
	Driver   string // sqlite, redis or memory
	Path     string // sqlite database file
	RedisURL string
}

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "sqlite", "":
		return NewSQLiteStore(ctx, opts.Path)
	case "redis":
		return NewRedisStore(ctx, opts.RedisURL)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", opts.Driver)
	}
}
