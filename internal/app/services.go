package app

import (
	"github.com/Noyllopa/LiquidNewtab/internal/background"
	"github.com/Noyllopa/LiquidNewtab/internal/config"
	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/engines"
	"github.com/Noyllopa/LiquidNewtab/internal/favicon"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
	"github.com/Noyllopa/LiquidNewtab/internal/relay"
	"github.com/Noyllopa/LiquidNewtab/internal/settings"
	"github.com/Noyllopa/LiquidNewtab/internal/shortcuts"
	"github.com/Noyllopa/LiquidNewtab/internal/theme"
	"github.com/Noyllopa/LiquidNewtab/internal/transfer"
	"github.com/Noyllopa/LiquidNewtab/internal/utils"
)

// Services groups the domain services over one store. The server and the
// export/import commands share it.
type Services struct {
	Store      kv.Store
	Theme      *theme.Manager
	Favicons   *favicon.Resolver
	Shortcuts  *shortcuts.Collection
	Engines    *engines.Registry // nil when disabled
	Background *background.Service
	Settings   *settings.Service
	Transfer   *transfer.Service
}

// NewServices wires the services over store. worker may be nil, in which
// case favicons only come from the fallback icon service.
func NewServices(cfg *config.Config, store kv.Store, worker *relay.Worker, loggerClient logger.Logger) *Services {
	// A nil *relay.Worker must not become a non-nil Fetcher.
	var fetcher favicon.Fetcher
	if worker != nil {
		fetcher = worker
	}

	themes := theme.NewManager(store, theme.Options{
		SystemTheme:    domain.Theme(cfg.SystemTheme),
		PageBackground: cfg.PageBackground,
	}, loggerClient)
	resolver := favicon.NewResolver(store, fetcher, loggerClient)

	var registry *engines.Registry
	if cfg.EnginesEnabled {
		registry = engines.NewRegistry(store, loggerClient)
	}

	return &Services{
		Store:     store,
		Theme:     themes,
		Favicons:  resolver,
		Shortcuts: shortcuts.New(store, resolver, loggerClient),
		Engines:   registry,
		Background: background.NewService(store, themes, background.Options{
			MaxUploadBytes: cfg.MaxUploadBytes,
			RandomURL:      cfg.RandomBackgroundURL,
		}, loggerClient),
		Settings: settings.NewService(store, themes, loggerClient),
		Transfer: transfer.NewService(store, themes, cfg.EnginesEnabled, loggerClient),
	}
}

// Close waits for background favicon and theme work, then releases the store.
func (s *Services) Close(loggerClient logger.Logger) {
	s.Favicons.Wait()
	s.Theme.Wait()
	utils.CloseLogged(s.Store, "store", loggerClient)
}
