package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GetJSON decodes the value under key into dst. When the key is absent dst
// is left untouched and (false, nil) is returned, so callers pre-fill dst
// with their default.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// GetDocument reads a JSON document that is persisted as a JSON string
// holding serialized JSON (the way lists and maps are stored), decoding it
// into dst. Absent keys return (false, nil).
func GetDocument(ctx context.Context, s Store, key string, dst any) (bool, error) {
	var text string
	ok, err := GetJSON(ctx, s, key, &text)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return false, fmt.Errorf("failed to decode %s document: %w", key, err)
	}
	return true, nil
}

// SetDocument serializes v and stores it as a JSON string under key.
func SetDocument(ctx context.Context, s Store, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", key, err)
	}
	return SetJSON(ctx, s, key, string(doc))
}

// GetString reads a string scalar, returning def when absent.
func GetString(ctx context.Context, s Store, key, def string) (string, error) {
	v := def
	if _, err := GetJSON(ctx, s, key, &v); err != nil {
		return def, err
	}
	return v, nil
}

// GetInt reads an integer scalar, returning def when absent. Numbers
// stored as strings ("5") are accepted, since older exports carry them.
// Fractional values truncate.
func GetInt(ctx context.Context, s Store, key string, def int) (int, error) {
	var v any
	ok, err := GetJSON(ctx, s, key, &v)
	if err != nil || !ok {
		return def, err
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case string:
		n = strings.TrimSpace(n)
		if i, err := strconv.Atoi(n); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return def, fmt.Errorf("failed to decode %s: not a number: %q", key, n)
		}
		return int(f), nil
	default:
		return def, fmt.Errorf("failed to decode %s: unexpected %T", key, v)
	}
}

// Exists reports whether key is present.
func Exists(ctx context.Context, s Store, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
