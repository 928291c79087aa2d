// Package redisstore implements kv.Store on top of Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Noyllopa/LiquidNewtab/internal/kv"
)

// scanBatch is the COUNT hint used when enumerating keys.
const scanBatch = 256

// Store maps logical keys to "<keyspace><key>" redis strings.
type Store struct {
	client   redis.UniversalClient
	keyspace string
}

// NewStore creates a Redis-backed store. keyspace is prepended to every key
// on the wire and stripped again by Keys.
func NewStore(client redis.UniversalClient, keyspace string) *Store {
	return &Store{
		client:   client,
		keyspace: keyspace,
	}
}

func (s *Store) Name() string { return "redis" }

func (s *Store) key(k string) string { return s.keyspace + k }

// Get retrieves a value by key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Set stores a value without expiry
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		if isOOM(err) {
			return fmt.Errorf("failed to set %s: %w", key, kv.ErrQuotaExceeded)
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove deletes keys in a single DEL
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	wire := make([]string, len(keys))
	for i, k := range keys {
		wire[i] = s.key(k)
	}
	if err := s.client.Del(ctx, wire...).Err(); err != nil {
		return fmt.Errorf("failed to remove keys: %w", err)
	}
	return nil
}

// Keys enumerates keys with SCAN (never KEYS, which blocks the server)
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(s.keyspace+prefix) + "*"

	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.keyspace))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}

	// SCAN may return a key more than once.
	sort.Strings(keys)
	return compact(keys), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// isOOM reports whether err is the server refusing a write under maxmemory.
func isOOM(err error) bool {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return strings.HasPrefix(rerr.Error(), "OOM ")
	}
	return false
}

// escapeGlob escapes the characters SCAN MATCH treats specially.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func compact(sorted []string) []string {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, k := range sorted[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}
