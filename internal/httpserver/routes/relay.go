package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/handlers"
)

func init() { Register(registerRelay, Guard, RelayLimit) }

func registerRelay(r chi.Router, d deps.Deps) {
	r.Post("/api/relay", handlers.Relay(d))
}
