package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

type engineRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type engineOrderRequest struct {
	Keys []string `json:"keys"`
}

func ListEngines(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := d.Engines.List(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func AddEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req engineRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		entry, err := d.Engines.Add(r.Context(), req.Name, req.URL)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("engine added", logger.String("key", entry.Key), logger.String("name", entry.Name))
		writeJSON(w, http.StatusCreated, entry)
	}
}

func EditEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req engineRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		entry, err := d.Engines.Edit(r.Context(), chi.URLParam(r, "key"), req.Name, req.URL)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func DeleteEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Engines.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func SetPreferredEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Engines.SetPreferred(r.Context(), chi.URLParam(r, "key")); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func MoveEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		snap, err := d.Engines.Move(r.Context(), req.From, req.To)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func ReorderEngines(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req engineOrderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		snap, err := d.Engines.Reorder(r.Context(), req.Keys)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
