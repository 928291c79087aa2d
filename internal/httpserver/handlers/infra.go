package handlers

import (
	"context"
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
)

type componentStatus struct {
	OK       bool   `json:"ok"`
	Backend  string `json:"backend,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Favicons *int   `json:"favicons,omitempty"`
	Impact   string `json:"impact,omitempty"`
	Error    string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":   checkStore(r.Context(), d),
			"relay":   relayStatus(d),
			"engines": enginesStatus(d),
			"theme":   themeStatus(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func determineStatus(components map[string]componentStatus) string {
	// Store down = nothing can be read or saved
	if store, exists := components["store"]; exists && !store.OK {
		return "critical"
	}

	// Relay down = fallback icons only, no native search
	if relay, exists := components["relay"]; exists && !relay.OK {
		return "degraded"
	}

	return "ok"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	backend := kv.BackendName(d.Store)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Backend: backend,
			Impact:  "state-unavailable",
			Error:   "timeout",
		}
	}

	status := componentStatus{OK: true, Backend: backend}
	if keys, err := d.Store.Keys(ctx, kv.KeyPrefixFavicon); err == nil {
		n := len(keys)
		status.Favicons = &n
	}
	return status
}

func relayStatus(d deps.Deps) componentStatus {
	if d.Relay == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "fallback-favicons-only",
		}
	}
	return componentStatus{OK: true, Mode: "running"}
}

func enginesStatus(d deps.Deps) componentStatus {
	if d.Engines == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	return componentStatus{OK: true, Mode: "enabled"}
}

func themeStatus(ctx context.Context, d deps.Deps) componentStatus {
	mode, err := d.Theme.Mode(ctx)
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: string(mode)}
}
