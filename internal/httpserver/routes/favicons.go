package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/handlers"
)

func init() { Register(registerFavicons, Guard) }

func registerFavicons(r chi.Router, d deps.Deps) {
	r.Post("/api/favicons/collect", handlers.CollectFavicons(d))
}
