package handlers

import (
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/engines"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/settings"
	"github.com/Noyllopa/LiquidNewtab/internal/shortcuts"
)

type stateResponse struct {
	Settings  settings.Settings `json:"settings"`
	Theme     themeResponse     `json:"theme"`
	CustomBg  *string           `json:"customBg"`
	Shortcuts []shortcuts.Tile  `json:"shortcuts"`
	Engines   *engines.Snapshot `json:"engines,omitempty"`
}

// State returns everything the page needs for its first render. Tiles
// whose favicon is still being fetched carry the fallback icon; the page
// polls /api/favicon for them.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var resp stateResponse
		var err error

		if resp.Settings, err = d.Settings.Get(ctx); err != nil {
			writeError(w, r, d, err)
			return
		}
		if resp.Theme, err = currentTheme(ctx, d); err != nil {
			writeError(w, r, d, err)
			return
		}
		bg, ok, err := d.Background.Current(ctx)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if ok {
			resp.CustomBg = &bg
		}
		if resp.Shortcuts, err = d.Shortcuts.Render(ctx, nil); err != nil {
			writeError(w, r, d, err)
			return
		}
		if d.Engines != nil {
			snap, err := d.Engines.List(ctx)
			if err != nil {
				writeError(w, r, d, err)
				return
			}
			resp.Engines = &snap
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
