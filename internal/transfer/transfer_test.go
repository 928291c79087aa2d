package transfer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/engines"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/kv/memory"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.n++
	return nil
}

func populate(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, kv.SetDocument(ctx, store, kv.KeyShortcuts, []domain.Shortcut{
		{Name: "Tom & Jerry <3", URL: "https://example.com/?a=1&b=2"},
		{Name: "GitHub", URL: "https://github.com", Icon: "https://www.google.com/s2/favicons?domain=github.com&sz=128"},
	}))
	require.NoError(t, store.Set(ctx, kv.KeyGridCols, []byte(`"6"`)))
	require.NoError(t, kv.SetJSON(ctx, store, kv.KeyGridSize, 120))
	require.NoError(t, kv.SetJSON(ctx, store, kv.KeyScale, 90))
	require.NoError(t, kv.SetJSON(ctx, store, kv.KeyCustomBg, "data:image/jpeg;base64,/9j/4AAQSkZJRg=="))
	require.NoError(t, kv.SetJSON(ctx, store, kv.KeyColorMode, "auto"))
	require.NoError(t, kv.SetDocument(ctx, store, kv.KeyEngines, engines.BuiltIns()))
	require.NoError(t, kv.SetJSON(ctx, store, kv.KeyPreferredEngine, "bing"))
	require.NoError(t, kv.SetDocument(ctx, store, kv.KeyThemeInfo, domain.ThemeInfo{Theme: domain.ThemeDark, SystemTheme: domain.ThemeDark}))
	require.NoError(t, kv.SetJSON(ctx, store, kv.FaviconKey("github.com"), "data:image/png;base64,iVBOR"))
	require.NoError(t, kv.SetJSON(ctx, store, kv.FaviconKey("example.com"), "data:image/x-icon;base64,AAAB"))
}

func TestExportImportIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	populate(t, store)
	before := store.Snapshot()

	inv := &countingInvalidator{}
	s := NewService(store, inv, true, logger.NewNop())

	var buf bytes.Buffer
	require.NoError(t, s.Export(ctx, &buf))

	report, err := s.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Favicons)
	assert.Equal(t, []string{
		kv.KeyShortcuts, kv.KeyGridCols, kv.KeyGridSize, kv.KeyScale,
		kv.KeyCustomBg, kv.KeyColorMode, kv.KeyEngines, kv.KeyPreferredEngine, "favicons",
	}, report.Fields)

	assert.Equal(t, before, store.Snapshot())
	assert.Equal(t, 0, inv.n, "unchanged background keeps the theme")
}

func TestExportOfEmptyStore(t *testing.T) {
	s := NewService(memory.New(), &countingInvalidator{}, true, logger.NewNop())

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), &buf))
	assert.JSONEq(t, `{"customBg": null, "favicons": {}}`, buf.String())
}

func TestExportWithoutEngines(t *testing.T) {
	store := memory.New()
	populate(t, store)
	s := NewService(store, &countingInvalidator{}, false, logger.NewNop())

	doc, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc.Engines)
	assert.Nil(t, doc.PreferredEngine)
	assert.Len(t, doc.Favicons, 2)
}

func TestImportMalformedWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{"shortcuts": [`},
		{"shortcuts not a list", `{"shortcuts": {"a": 1}}`},
		{"grid not a number", `{"gridCols": "five"}`},
		{"grid fractional string", `{"gridCols": "5.5"}`},
		{"grid exponent string", `{"gridSize": "1e2"}`},
		{"scale fractional", `{"scale": 90.5}`},
		{"background not a data url", `{"customBg": "https://example.com/bg.jpg"}`},
		{"background not an image", `{"customBg": "data:text/plain;base64,aGk="}`},
		{"background not base64", `{"customBg": "data:image/png,raw"}`},
		{"bad favicon key", `{"gridCols": 4, "favicons": {"other": "x"}}`},
		{"favicon not a string", `{"favicons": {"favicon_a.com": 1}}`},
		{"bad engines", `{"engines": "[1,2]"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			s := NewService(store, &countingInvalidator{}, true, logger.NewNop())

			_, err := s.Import(context.Background(), strings.NewReader(tt.in))
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestImportLegacyFile(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, kv.SetJSON(ctx, store, kv.FaviconKey("stale.com"), "data:stale"))
	require.NoError(t, kv.SetJSON(ctx, store, kv.KeyCustomBg, "data:image/jpeg;base64,old"))
	inv := &countingInvalidator{}
	s := NewService(store, inv, true, logger.NewNop())

	in := `{
	  "shortcuts": [{"name": "A", "url": "https://a.com"}],
	  "gridCols": 4,
	  "customBg": null,
	  "colorMode": "dark",
	  "favicons": {"favicon_a.com": "data:image/png;base64,AA=="}
	}`
	_, err := s.Import(ctx, strings.NewReader(in))
	require.NoError(t, err)

	var list []domain.Shortcut
	ok, err := kv.GetDocument(ctx, store, kv.KeyShortcuts, &list)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []domain.Shortcut{{Name: "A", URL: "https://a.com"}}, list)

	cols, err := kv.GetInt(ctx, store, kv.KeyGridCols, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, cols)

	ok, err = kv.Exists(ctx, store, kv.KeyCustomBg)
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := store.Keys(ctx, kv.KeyPrefixFavicon)
	require.NoError(t, err)
	assert.Equal(t, []string{"favicon_a.com"}, keys)

	assert.Equal(t, 2, inv.n, "background removed and color mode changed")
}

// failingStore rejects writes to one key.
type failingStore struct {
	*memory.Store
	key string
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == f.key {
		return errors.New("disk on fire")
	}
	return f.Store.Set(ctx, key, value)
}

func TestImportIsNotAtomic(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.New(), key: kv.KeyColorMode}
	s := NewService(store, &countingInvalidator{}, true, logger.NewNop())

	report, err := s.Import(ctx, strings.NewReader(`{"gridCols": 3, "scale": 80, "colorMode": "light", "preferredEngine": "bing"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)
	assert.Equal(t, []string{kv.KeyGridCols, kv.KeyScale}, report.Fields)

	cols, err := kv.GetInt(ctx, store, kv.KeyGridCols, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, cols)

	ok, err := kv.Exists(ctx, store, kv.KeyPreferredEngine)
	require.NoError(t, err)
	assert.False(t, ok)
}
