// Package kv is the persistent key-value store behind the page state.
//
// Every value is replaced wholesale on write; there are no transactions
// across keys and concurrent writers to one key race last-write-wins.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by Set when the backend is out of room.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Store is the flat key-value contract every backend implements.
type Store interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
	// Keys lists every key starting with prefix, sorted. An empty prefix lists everything.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend.
	Close() error
}

// Backend names a store implementation, for status reporting.
type Backend interface {
	Name() string
}

// BackendName returns s's backend name, or "unknown".
func BackendName(s Store) string {
	if b, ok := s.(Backend); ok {
		return b.Name()
	}
	return "unknown"
}
