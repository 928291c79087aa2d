package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/handlers"
)

func init() { Register(registerBackground, Guard) }

func registerBackground(r chi.Router, d deps.Deps) {
	r.Put("/api/background", handlers.UploadBackground(d))
	r.Post("/api/background/random", handlers.RandomBackground(d))
	r.Delete("/api/background", handlers.ResetBackground(d))
}
