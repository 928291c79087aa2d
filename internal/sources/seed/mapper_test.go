package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
)

func TestMapperMap(t *testing.T) {
	file := File{
		Shortcuts: Groups{
			{
				"Infrastructure": []map[string]ShortcutProps{
					{"AdGuard Home": {Icon: "adguard-home.svg", Href: "https://adguard.domain.ext"}},
					{"Traefik": {Icon: "https://traefik.domain.ext/logo.png", Href: "traefik.domain.ext"}},
					{"Broken": {Href: ""}},
				},
			},
		},
		Bookmarks: BookmarkGroups{
			{
				"Developer": []map[string][]BookmarkEntry{
					{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
					{"Empty": {}},
				},
			},
		},
		Engines: []map[string]EngineProps{
			{"ddg": {Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q=%s"}},
			{"nope": {Name: "No placeholder", URL: "https://example.com"}},
		},
		PreferredEngine: "missing",
	}

	got, err := NewMapper().Map(file)
	require.NoError(t, err)

	assert.Equal(t, []domain.Shortcut{
		{Name: "AdGuard Home", URL: "https://adguard.domain.ext"},
		{Name: "Traefik", URL: "https://traefik.domain.ext", Icon: "https://traefik.domain.ext/logo.png"},
		{Name: "Github", URL: "https://github.com/"},
	}, got.Shortcuts)
	assert.Equal(t, 3, got.Skipped)

	require.NotNil(t, got.Engines)
	assert.Equal(t, []string{"ddg"}, got.Engines.Keys())
	assert.Equal(t, "ddg", got.PreferredEngine, "unknown preferred key falls back to the first engine")
}

func TestMapperMapEmpty(t *testing.T) {
	_, err := NewMapper().Map(File{})
	assert.Error(t, err)

	_, err = NewMapper().Map(File{Shortcuts: Groups{{"G": {{"x": {Href: ""}}}}}})
	assert.Error(t, err)
}

func TestMapperEnginesOnly(t *testing.T) {
	got, err := NewMapper().Map(File{
		Engines:         []map[string]EngineProps{{"g": {Name: "G", URL: "https://g.example/?q=%s"}}},
		PreferredEngine: "g",
	})
	require.NoError(t, err)
	assert.Empty(t, got.Shortcuts)
	assert.Equal(t, "g", got.PreferredEngine)
}
