package handlers

import (
	"errors"
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/relay"
)

// Relay forwards one message to the relay worker and returns its answer.
func Relay(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Relay == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "relay disabled"})
			return
		}
		var req relay.Request
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		resp, err := d.Relay.Send(r.Context(), req)
		if errors.Is(err, relay.ErrStopped) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
