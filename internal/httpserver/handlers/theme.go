package handlers

import (
	"context"
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/theme"
)

type themeResponse struct {
	Mode    domain.ColorMode          `json:"mode"`
	Theme   domain.Theme              `json:"theme"`
	Classes map[theme.Region][]string `json:"classes"`
	// Stale lists the classes of the opposite theme, to be removed.
	Stale map[theme.Region][]string `json:"stale"`
}

func currentTheme(ctx context.Context, d deps.Deps) (themeResponse, error) {
	mode, err := d.Theme.Mode(ctx)
	if err != nil {
		return themeResponse{}, err
	}
	t, err := d.Theme.Current(ctx)
	if err != nil {
		return themeResponse{}, err
	}
	return themeResponse{
		Mode:    mode,
		Theme:   t,
		Classes: theme.Classes(t),
		Stale:   theme.StaleClasses(t),
	}, nil
}

func GetTheme(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := currentTheme(r.Context(), d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
