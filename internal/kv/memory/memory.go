// Package memory is an in-process kv.Store, used for ephemeral runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Noyllopa/LiquidNewtab/internal/kv"
)

// Store keeps every value in a map guarded by an RWMutex.
type Store struct {
	mu    sync.RWMutex
	data  map[string][]byte
	used  int // bytes currently held (keys + values)
	quota int // 0 = unlimited
}

// Option configures a Store.
type Option func(*Store)

// WithQuota caps the total size of keys and values. Writes that would go
// over the cap fail with kv.ErrQuotaExceeded.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

// New creates an empty memory store.
func New(opts ...Option) *Store {
	s := &Store{data: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used + len(key) + len(value)
	if old, ok := s.data[key]; ok {
		next -= len(key) + len(old)
	}
	if s.quota > 0 && next > s.quota {
		return kv.ErrQuotaExceeded
	}

	s.data[key] = append([]byte(nil), value...)
	s.used = next
	return nil
}

func (s *Store) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if old, ok := s.data[key]; ok {
			s.used -= len(key) + len(old)
			delete(s.data, key)
		}
	}
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Snapshot returns a copy of every key and value.
func (s *Store) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		out[k] = append([]byte(nil), v...)
	}
	return out
}
