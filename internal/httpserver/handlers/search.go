package handlers

import (
	"net/http"
	"strings"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// homePath is where empty or unroutable searches land.
const homePath = "/"

// Search redirects the query to the preferred engine.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		// Empty query -> redirect to the page
		if query == "" {
			d.Logger.Debug("empty query, redirecting to homepage")
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}
		if d.Engines == nil {
			d.Logger.Debug("engine registry disabled, redirecting to homepage")
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}

		target, ok, err := d.Engines.SearchURL(r.Context(), query)
		if err != nil {
			d.Logger.Warn("failed to resolve search engine", logger.Error(err))
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}
		if !ok {
			d.Logger.Warn("no search engine configured")
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}

		d.Logger.Debug("search redirect", logger.String("query", query), logger.String("target", target))
		http.Redirect(w, r, target, http.StatusFound)
	}
}
