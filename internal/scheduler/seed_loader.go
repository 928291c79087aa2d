package scheduler

import (
	"context"
	"fmt"

	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
	"github.com/Noyllopa/LiquidNewtab/internal/sources/seed"
)

// SeedResult reports what a seed run wrote.
type SeedResult struct {
	Shortcuts int
	Engines   int
}

// SeedLoader fills an empty store from the seed file at startup.
type SeedLoader struct {
	loader         *seed.Loader
	mapper         *seed.Mapper
	store          kv.Store
	enginesEnabled bool
	logger         logger.Logger
}

// NewSeedLoader creates a new seed loader. An empty seedFile disables it.
func NewSeedLoader(seedFile string, store kv.Store, enginesEnabled bool, log logger.Logger) *SeedLoader {
	sl := &SeedLoader{
		mapper:         seed.NewMapper(),
		store:          store,
		enginesEnabled: enginesEnabled,
		logger:         log.With(logger.String("component", "seed")),
	}
	if seedFile != "" {
		sl.loader = seed.NewLoader(seedFile)
	}
	return sl
}

// Run writes the seeded shortcuts when the store has none, and the seeded
// engines when the registry is enabled and has none. Existing keys are
// never overwritten, and the file is not read when nothing is missing.
func (sl *SeedLoader) Run(ctx context.Context) (SeedResult, error) {
	if sl.loader == nil {
		return SeedResult{}, nil
	}

	hasShortcuts, err := kv.Exists(ctx, sl.store, kv.KeyShortcuts)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to check shortcuts: %w", err)
	}
	hasEngines := true
	if sl.enginesEnabled {
		if hasEngines, err = kv.Exists(ctx, sl.store, kv.KeyEngines); err != nil {
			return SeedResult{}, fmt.Errorf("failed to check engines: %w", err)
		}
	}
	if hasShortcuts && hasEngines {
		sl.logger.Debug("store already populated, seed skipped")
		return SeedResult{}, nil
	}

	file, err := sl.loader.Load()
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to load seed: %w", err)
	}
	data, err := sl.mapper.Map(file)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to map seed: %w", err)
	}
	if data.Skipped > 0 {
		sl.logger.Warn("seed entries skipped", logger.Int("count", data.Skipped))
	}

	var res SeedResult
	if !hasShortcuts && len(data.Shortcuts) > 0 {
		if err := kv.SetDocument(ctx, sl.store, kv.KeyShortcuts, data.Shortcuts); err != nil {
			return res, fmt.Errorf("failed to seed shortcuts: %w", err)
		}
		res.Shortcuts = len(data.Shortcuts)
	}
	if !hasEngines && data.Engines != nil {
		if err := kv.SetDocument(ctx, sl.store, kv.KeyEngines, data.Engines); err != nil {
			return res, fmt.Errorf("failed to seed engines: %w", err)
		}
		if err := kv.SetJSON(ctx, sl.store, kv.KeyPreferredEngine, data.PreferredEngine); err != nil {
			return res, fmt.Errorf("failed to seed preferred engine: %w", err)
		}
		res.Engines = data.Engines.Len()
	}

	sl.logger.Info("store seeded",
		logger.String("file", sl.loader.Path()),
		logger.Int("shortcuts", res.Shortcuts),
		logger.Int("engines", res.Engines))
	return res, nil
}
