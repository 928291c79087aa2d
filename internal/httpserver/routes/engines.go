package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/handlers"
)

func init() { Register(registerEngines) }

func registerEngines(r chi.Router, d deps.Deps) {
	if d.Engines == nil {
		d.Logger.Debug("engine registry disabled, engine routes not mounted")
		return
	}

	r.Get("/api/engines", handlers.ListEngines(d))

	g := guarded(r, d)
	g.Post("/api/engines", handlers.AddEngine(d))
	g.Post("/api/engines/move", handlers.MoveEngine(d))
	g.Post("/api/engines/reorder", handlers.ReorderEngines(d))
	g.Put("/api/engines/{key}", handlers.EditEngine(d))
	g.Delete("/api/engines/{key}", handlers.DeleteEngine(d))
	g.Post("/api/engines/{key}/preferred", handlers.SetPreferredEngine(d))
}
