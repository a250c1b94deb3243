// Package kv abstracts the key-value backing store pastes live in.
package kv

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrKeyNotFound is returned by Get for absent keys. Delete of an
// absent key is a no-op, not an error.
var ErrKeyNotFound = errors.New("key not found")

// PutOptions carries per-write knobs. A positive TTL asks the store to
// expire the key natively; stores without native expiry ignore it, the
// explicit expiresAt check on read governs either way.
type PutOptions struct {
	TTL time.Duration
}

// Store is the boundary contract against the backing store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, opts PutOptions) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}
