package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/handlers"
)

func init() { Register(registerShortcuts) }

func registerShortcuts(r chi.Router, d deps.Deps) {
	r.Get("/api/shortcuts", handlers.ListShortcuts(d))

	g := guarded(r, d)
	g.Post("/api/shortcuts", handlers.AddShortcut(d))
	g.Post("/api/shortcuts/move", handlers.MoveShortcut(d))
	g.Post("/api/shortcuts/reorder", handlers.ReorderShortcuts(d))
	g.Put("/api/shortcuts/{index}", handlers.EditShortcut(d))
	g.Delete("/api/shortcuts/{index}", handlers.DeleteShortcut(d))
}
