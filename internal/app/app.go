package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Noyllopa/LiquidNewtab/internal/config"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver"
	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
	"github.com/Noyllopa/LiquidNewtab/internal/relay"
	"github.com/Noyllopa/LiquidNewtab/internal/scheduler"
	"github.com/Noyllopa/LiquidNewtab/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	services  *Services
	server    *httpserver.Server
	relay     *relay.Worker
	seeder    *scheduler.SeedLoader
	safetyNet *scheduler.ThemeSafetyNet
	gc        *scheduler.FaviconGC
}

// New opens the configured store and wires every component. The store
// is reachable when New returns.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	var worker *relay.Worker
	if cfg.RelayEnabled {
		worker = relay.NewWorker(relay.Options{
			FetchTimeout:   cfg.FaviconTimeout,
			SearchTemplate: cfg.NativeSearchURL,
			Navigator:      relay.BrowserNavigator{},
		}, loggerClient)
	} else {
		loggerClient.Info("relay disabled, favicons use the fallback icon service only")
	}

	services := NewServices(cfg, store, worker, loggerClient)

	// Create manual collection trigger channel
	gcTrigger := make(chan struct{}, 1)

	gc := scheduler.NewFaviconGC(
		store,
		services.Shortcuts,
		loggerClient,
		cfg.FaviconGCInterval,
		gcTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		RelayBurst:     cfg.RelayBurst,
		RelayPerMinute: cfg.RelayPerMinute,
		Store:          store,
		Shortcuts:      services.Shortcuts,
		Engines:        services.Engines,
		Theme:          services.Theme,
		Background:     services.Background,
		Settings:       services.Settings,
		Transfer:       services.Transfer,
		Favicons:       services.Favicons,
		Relay:          worker,
		GCTrigger:      gcTrigger,
	}

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		services:  services,
		server:    httpserver.New(cfg, loggerClient, d),
		relay:     worker,
		seeder:    scheduler.NewSeedLoader(cfg.SeedFile, store, cfg.EnginesEnabled, loggerClient),
		safetyNet: scheduler.NewThemeSafetyNet(services.Theme, loggerClient, cfg.ThemeSafetyNetWait),
		gc:        gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LiquidNewtab v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("LiquidNewtab %s (commit=%s, built=%s, go=%s, store=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion, kv.BackendName(a.services.Store))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed an empty store before anything reads it
	res, err := a.seeder.Run(ctx)
	if err != nil {
		a.services.Close(a.logger)
		return fmt.Errorf("failed to seed store: %w", err)
	}
	if res.Shortcuts > 0 || res.Engines > 0 {
		a.logger.Info("store seeded",
			logger.Int("shortcuts", res.Shortcuts),
			logger.Int("engines", res.Engines))
	}

	if a.relay != nil {
		a.relay.Start(ctx)
		a.logger.Info("relay worker started")
	}

	if err := a.safetyNet.Start(ctx); err != nil {
		return fmt.Errorf("failed to start theme safety net: %w", err)
	}

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start favicon collector: %w", err)
	}
	a.logger.Info("favicon collector started",
		logger.Duration("interval", a.cfg.FaviconGCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.safetyNet.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if a.relay != nil {
		a.relay.Stop()
	}
	a.services.Close(a.logger)

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ LiquidNewtab stopped cleanly")
	return nil
}
