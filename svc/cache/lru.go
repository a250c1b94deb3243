// Package cache keeps a small read-through LRU of decoded paste
// records so hot slugs skip the backing store.
package cache

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	lru "github.com/hashicorp/golang-lru/v2"

	"slugbin/pkg/domain"
)

// Entries without an expiry still leave the cache eventually so that
// deletes on another node are noticed.
const defaultEntryTTL = 5 * time.Minute

type LRU struct {
	c  *lru.Cache[string, item]
	mu sync.Mutex
}
type item struct {
	rec *domain.PasteRecord
	exp time.Time
}

func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		return nil, errors.New("cache size must be positive")
	}
	if size > 100000 {
		return nil, errors.New("cache size too large")
	}
	c, err := lru.New[string, item](size)
	if err != nil {
		return nil, err
	}
	return &LRU{c: c}, nil
}

func (l *LRU) Get(slug string) *domain.PasteRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.c.Get(slug)
	if !ok {
		return nil
	}
	if time.Now().After(it.exp) {
		l.c.Remove(slug)
		return nil
	}
	return it.rec
}

func (l *LRU) Set(rec *domain.PasteRecord) {
	ttl := defaultEntryTTL
	if rec.Metadata.ExpiresAt != nil {
		if until := time.Until(*rec.Metadata.ExpiresAt); until < ttl {
			ttl = until
		}
	}
	if ttl <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Add(rec.Slug, item{rec: rec, exp: time.Now().Add(ttl)})
}

func (l *LRU) Delete(slug string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Remove(slug)
}
