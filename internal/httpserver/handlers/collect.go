package handlers

import (
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

type collectResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// CollectFavicons triggers a manual favicon garbage collection.
func CollectFavicons(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.GCTrigger == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "favicon collection unavailable"})
			return
		}

		select {
		case d.GCTrigger <- struct{}{}:
			d.Logger.Info("manual favicon collection triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, collectResponse{Triggered: true, Message: "collection triggered"})
		default:
			d.Logger.Warn("favicon collection already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, collectResponse{Message: "collection already pending, please wait"})
		}
	}
}
