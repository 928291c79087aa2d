package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/handlers"
)

func init() { Register(registerPage) }

func registerPage(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Index())
	r.Get("/search", handlers.Search(d))
	r.Get("/api/state", handlers.State(d))
	r.Get("/api/theme", handlers.GetTheme(d))
	r.Get("/api/favicon", handlers.Favicon(d))
}
