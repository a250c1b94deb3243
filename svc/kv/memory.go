package kv

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*Memory)(nil)

// Memory is a map-backed store for tests and local development. It
// honors PutOptions.TTL the way Redis does so that both code paths see
// the same native-expiry behavior.
type Memory struct {
	mu      sync.RWMutex
	values  map[string][]byte
	expires map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{
		values:  make(map[string][]byte),
		expires: make(map[string]time.Time),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	val, ok := m.values[key]
	exp, hasExp := m.expires[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrKeyNotFound
	}
	if hasExp && !time.Now().Before(exp) {
		m.mu.Lock()
		delete(m.values, key)
		delete(m.expires, key)
		m.mu.Unlock()
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte, opts PutOptions) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = stored
	if opts.TTL > 0 {
		m.expires[key] = time.Now().Add(opts.TTL)
	} else {
		delete(m.expires, key)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.expires, key)
	return nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	now := time.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		if exp, ok := m.expires[k]; ok && !now.Before(exp) {
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string][]byte)
	m.expires = make(map[string]time.Time)
	return nil
}
