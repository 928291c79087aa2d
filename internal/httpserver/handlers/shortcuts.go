package handlers

import (
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
)

type shortcutRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon,omitempty"`
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type reorderRequest struct {
	Order []int `json:"order"`
}

func ListShortcuts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Shortcuts.List(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func AddShortcut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shortcutRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		sc, err := d.Shortcuts.Add(r.Context(), req.Name, req.URL, req.Icon)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, sc)
	}
}

func EditShortcut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := indexParam(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		var req shortcutRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		sc, err := d.Shortcuts.Edit(r.Context(), index, req.Name, req.URL, req.Icon)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sc)
	}
}

func DeleteShortcut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := indexParam(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.Shortcuts.Delete(r.Context(), index); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func MoveShortcut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		list, err := d.Shortcuts.Move(r.Context(), req.From, req.To)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func ReorderShortcuts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		list, err := d.Shortcuts.Reorder(r.Context(), req.Order)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
