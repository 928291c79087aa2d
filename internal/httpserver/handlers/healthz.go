package handlers

import (
	"net/http"
	"time"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
)

type healthzResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Version        string  `json:"version,omitempty"`
	Commit         string  `json:"commit,omitempty"`
	BuildDate      string  `json:"build_date,omitempty"`
	GoVersion      string  `json:"go_version,omitempty"`
	Store          string  `json:"store"`
	RelayEnabled   bool    `json:"relay_enabled"`
	EnginesEnabled bool    `json:"engines_enabled"`
}

// Healthz reports liveness and the build. It never touches the store.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	backend := kv.BackendName(d.Store)
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:         "ok",
			UptimeSeconds:  now().Sub(d.StartTime).Seconds(),
			Version:        d.Version,
			Commit:         d.Commit,
			BuildDate:      d.BuildDate,
			GoVersion:      d.GoVersion,
			Store:          backend,
			RelayEnabled:   d.Relay != nil,
			EnginesEnabled: d.Engines != nil,
		})
	}
}
