package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// ShortcutLister returns the current shortcut collection.
type ShortcutLister interface {
	List(ctx context.Context) ([]domain.Shortcut, error)
}

// FaviconGC removes cached favicons whose host no longer belongs to any
// shortcut.
type FaviconGC struct {
	store         kv.Store
	shortcuts     ShortcutLister
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewFaviconGC creates a new favicon garbage collector. An interval of zero
// disables periodic runs; the manual trigger still works.
func NewFaviconGC(
	store kv.Store,
	shortcuts ShortcutLister,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *FaviconGC {
	return &FaviconGC{
		store:         store,
		shortcuts:     shortcuts,
		logger:        log.With(logger.String("component", "favicon_gc")),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic collection process
func (gc *FaviconGC) Start(ctx context.Context) error {
	var tick <-chan time.Time
	var ticker *time.Ticker
	if gc.interval > 0 {
		// Run immediately on start
		if _, err := gc.Collect(ctx); err != nil {
			gc.logger.Warn("initial favicon collection failed",
				logger.Error(err))
		}
		ticker = time.NewTicker(gc.interval)
		tick = ticker.C
	} else {
		gc.logger.Info("periodic favicon collection disabled")
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				gc.run(ctx)
			case <-gc.manualTrigger:
				gc.logger.Info("manual favicon collection triggered")
				gc.run(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector. It is safe to call more than once.
func (gc *FaviconGC) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
}

func (gc *FaviconGC) run(ctx context.Context) {
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Error("favicon collection failed",
			logger.Error(err))
	}
}

// Collect removes every favicon_ entry whose host is not referenced by a
// shortcut and returns the removed keys.
func (gc *FaviconGC) Collect(ctx context.Context) ([]string, error) {
	list, err := gc.shortcuts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortcuts: %w", err)
	}
	referenced := lo.SliceToMap(
		lo.FilterMap(list, func(sc domain.Shortcut, _ int) (string, bool) {
			host, err := domain.Hostname(sc.URL)
			return host, err == nil
		}),
		func(host string) (string, struct{}) { return host, struct{}{} },
	)

	keys, err := gc.store.Keys(ctx, kv.KeyPrefixFavicon)
	if err != nil {
		return nil, fmt.Errorf("failed to list favicons: %w", err)
	}
	stale := lo.Filter(keys, func(key string, _ int) bool {
		host, ok := kv.FaviconHost(key)
		if !ok {
			return false
		}
		_, used := referenced[host]
		return !used
	})

	if len(stale) == 0 {
		gc.logger.Debug("no favicons to collect", logger.Int("cached", len(keys)))
		return nil, nil
	}
	if err := gc.store.Remove(ctx, stale...); err != nil {
		return nil, fmt.Errorf("failed to remove favicons: %w", err)
	}

	gc.logger.Info("favicon collection completed",
		logger.Int("removed", len(stale)),
		logger.Int("kept", len(keys)-len(stale)))
	return stale, nil
}
