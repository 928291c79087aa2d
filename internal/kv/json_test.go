package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/kv/memory"
)

func TestGetIntDefaultsAndStrings(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	v, err := kv.GetInt(ctx, s, kv.KeyGridCols, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	require.NoError(t, s.Set(ctx, kv.KeyGridCols, []byte(`"7"`)))
	v, err = kv.GetInt(ctx, s, kv.KeyGridCols, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	require.NoError(t, kv.SetJSON(ctx, s, kv.KeyGridCols, 9))
	v, err = kv.GetInt(ctx, s, kv.KeyGridCols, 5)
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	// fractional values written by older versions truncate instead of failing
	require.NoError(t, s.Set(ctx, kv.KeyGridCols, []byte(`"5.5"`)))
	v, err = kv.GetInt(ctx, s, kv.KeyGridCols, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	require.NoError(t, s.Set(ctx, kv.KeyGridCols, []byte(`"wide"`)))
	_, err = kv.GetInt(ctx, s, kv.KeyGridCols, 5)
	assert.Error(t, err)

	require.NoError(t, s.Set(ctx, kv.KeyGridCols, []byte(`true`)))
	_, err = kv.GetInt(ctx, s, kv.KeyGridCols, 5)
	assert.Error(t, err)
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	type item struct {
		Name string `json:"name"`
	}
	in := []item{{Name: "a"}, {Name: "b"}}
	require.NoError(t, kv.SetDocument(ctx, s, kv.KeyShortcuts, in))

	raw, err := s.Get(ctx, kv.KeyShortcuts)
	require.NoError(t, err)
	assert.Equal(t, `"[{\"name\":\"a\"},{\"name\":\"b\"}]"`, string(raw))

	var out []item
	ok, err := kv.GetDocument(ctx, s, kv.KeyShortcuts, &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)
}

func TestFaviconKeys(t *testing.T) {
	assert.Equal(t, "favicon_github.com", kv.FaviconKey("github.com"))
	host, ok := kv.FaviconHost("favicon_github.com")
	assert.True(t, ok)
	assert.Equal(t, "github.com", host)

	_, ok = kv.FaviconHost("favicon_")
	assert.False(t, ok)
	assert.False(t, kv.IsFaviconKey("shortcuts"))
}
