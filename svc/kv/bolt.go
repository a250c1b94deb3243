package kv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var pasteBucket = []byte("pastes")

var _ Store = (*Bolt)(nil)

// Bolt is a single-file embedded backing store. It has no native key
// expiry, so PutOptions.TTL is ignored; the lifecycle layer's explicit
// expiresAt check is what enforces expiration.
type Bolt struct {
	db *bolt.DB
}

func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt db")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(pasteBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create paste bucket")
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(pasteBucket).Get([]byte(key))
		if raw == nil {
			return ErrKeyNotFound
		}
		out = make([]byte, len(raw))
		copy(out, raw)
		return nil
	})
	return out, err
}

func (b *Bolt) Put(ctx context.Context, key string, value []byte, _ PutOptions) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return errors.Wrap(tx.Bucket(pasteBucket).Put([]byte(key), value), "put key")
	})
}

func (b *Bolt) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		// bbolt Delete is a no-op for missing keys, matching the
		// idempotent-delete contract.
		return errors.Wrap(tx.Bucket(pasteBucket).Delete([]byte(key)), "delete key")
	})
}

func (b *Bolt) List(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(pasteBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list keys")
	}
	return keys, nil
}

func (b *Bolt) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(pasteBucket) == nil {
			return errors.New("paste bucket missing")
		}
		return nil
	})
}

func (b *Bolt) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
