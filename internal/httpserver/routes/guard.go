package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/mw"
)

// Guard restricts routes to the allowed client IPs and Host headers.
func Guard(d deps.Deps) Middleware {
	cidrs := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
	hosts := mw.EnforceHost(d.AllowedHosts, d.Logger)
	return func(next http.Handler) http.Handler {
		return cidrs(hosts(next))
	}
}

// Internal restricts routes to the allowed client IPs only.
func Internal(d deps.Deps) Middleware {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

// RelayLimit applies the per-IP relay budget.
func RelayLimit(d deps.Deps) Middleware {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RelayBurst,
		RefillPerIPPerMin: d.RelayPerMinute,
		MaxEntries:        4096,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	}, d.Logger)
}

// guarded is Guard for the mutating half of a mixed route group.
func guarded(r chi.Router, d deps.Deps) chi.Router {
	return r.With(Guard(d))
}
