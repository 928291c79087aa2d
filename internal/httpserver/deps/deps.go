package deps

import (
	"time"

	"github.com/Noyllopa/LiquidNewtab/internal/background"
	"github.com/Noyllopa/LiquidNewtab/internal/engines"
	"github.com/Noyllopa/LiquidNewtab/internal/favicon"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
	"github.com/Noyllopa/LiquidNewtab/internal/relay"
	"github.com/Noyllopa/LiquidNewtab/internal/settings"
	"github.com/Noyllopa/LiquidNewtab/internal/shortcuts"
	"github.com/Noyllopa/LiquidNewtab/internal/theme"
	"github.com/Noyllopa/LiquidNewtab/internal/transfer"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed on mutating routes
	AllowedCIDRS   []string         // IPs allowed on mutating and infra routes
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RelayBurst     int              // relay rate limit burst per IP
	RelayPerMinute int              // relay rate limit refill per IP per minute
	Store          kv.Store         // persisted key space
	Shortcuts      *shortcuts.Collection
	Engines        *engines.Registry // nil when the engine registry is disabled
	Theme          *theme.Manager
	Background     *background.Service
	Settings       *settings.Service
	Transfer       *transfer.Service
	Favicons       *favicon.Resolver
	Relay          *relay.Worker // nil when the relay is disabled
	GCTrigger      chan struct{} // Channel to trigger a manual favicon collection
}
