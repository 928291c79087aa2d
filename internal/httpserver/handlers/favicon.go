package handlers

import (
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
)

// Favicon resolves the icon of ?url=. An uncached host answers with the
// fallback icon and starts a fetch; asking again later returns the cached
// data URL.
func Favicon(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := domain.NewShortcut("favicon", r.URL.Query().Get("url"), "")
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Favicons.Resolve(r.Context(), sc, nil))
	}
}
