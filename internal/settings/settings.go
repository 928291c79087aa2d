// Package settings stores the layout and display scalars, one key each.
package settings

import (
	"context"
	"fmt"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// Range bounds an integer setting.
type Range struct {
	Key     string
	Min     int
	Max     int
	Default int
}

var (
	GridCols = Range{Key: kv.KeyGridCols, Min: 1, Max: 12, Default: 5}
	GridSize = Range{Key: kv.KeyGridSize, Min: 40, Max: 300, Default: 110}
	Scale    = Range{Key: kv.KeyScale, Min: 50, Max: 200, Default: 100}
)

func (r Range) check(v int) error {
	if v < r.Min || v > r.Max {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", domain.ErrValidation, r.Key, r.Min, r.Max, v)
	}
	return nil
}

// Settings is the full set of display settings.
type Settings struct {
	GridCols  int              `json:"gridCols"`
	GridSize  int              `json:"gridSize"`
	Scale     int              `json:"scale"`
	ColorMode domain.ColorMode `json:"colorMode"`
}

// Defaults are used for every key that is not stored.
func Defaults() Settings {
	return Settings{
		GridCols:  GridCols.Default,
		GridSize:  GridSize.Default,
		Scale:     Scale.Default,
		ColorMode: domain.ColorModeAuto,
	}
}

// Patch changes the non-nil fields.
type Patch struct {
	GridCols  *int    `json:"gridCols,omitempty"`
	GridSize  *int    `json:"gridSize,omitempty"`
	Scale     *int    `json:"scale,omitempty"`
	ColorMode *string `json:"colorMode,omitempty"`
}

// Invalidator drops derived theme state.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service reads and writes the settings keys.
type Service struct {
	store  kv.Store
	theme  Invalidator
	logger logger.Logger
}

// NewService builds a settings service.
func NewService(store kv.Store, theme Invalidator, log logger.Logger) *Service {
	return &Service{store: store, theme: theme, logger: log.With(logger.String("component", "settings"))}
}

// Get returns the stored settings with defaults filled in.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	out := Defaults()
	var err error

	if out.GridCols, err = kv.GetInt(ctx, s.store, GridCols.Key, GridCols.Default); err != nil {
		return Settings{}, err
	}
	if out.GridSize, err = kv.GetInt(ctx, s.store, GridSize.Key, GridSize.Default); err != nil {
		return Settings{}, err
	}
	if out.Scale, err = kv.GetInt(ctx, s.store, Scale.Key, Scale.Default); err != nil {
		return Settings{}, err
	}

	mode, err := kv.GetString(ctx, s.store, kv.KeyColorMode, string(domain.ColorModeAuto))
	if err != nil {
		return Settings{}, err
	}
	if parsed, err := domain.ParseColorMode(mode); err == nil {
		out.ColorMode = parsed
	}
	return out, nil
}

// Update validates the whole patch, then writes each present field. A
// color-mode change invalidates the theme.
func (s *Service) Update(ctx context.Context, p Patch) (Settings, error) {
	var mode domain.ColorMode
	checks := []struct {
		v *int
		r Range
	}{{p.GridCols, GridCols}, {p.GridSize, GridSize}, {p.Scale, Scale}}

	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if err := c.r.check(*c.v); err != nil {
			return Settings{}, err
		}
	}
	if p.ColorMode != nil {
		m, err := domain.ParseColorMode(*p.ColorMode)
		if err != nil {
			return Settings{}, err
		}
		mode = m
	}

	current, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if err := kv.SetJSON(ctx, s.store, c.r.Key, *c.v); err != nil {
			return Settings{}, fmt.Errorf("failed to save %s: %w", c.r.Key, err)
		}
	}

	if p.ColorMode != nil {
		if err := kv.SetJSON(ctx, s.store, kv.KeyColorMode, string(mode)); err != nil {
			return Settings{}, fmt.Errorf("failed to save color mode: %w", err)
		}
		if mode != current.ColorMode {
			s.logger.Info("color mode changed", logger.String("from", string(current.ColorMode)), logger.String("to", string(mode)))
			if err := s.theme.Invalidate(ctx); err != nil {
				return Settings{}, err
			}
		}
	}

	return s.Get(ctx)
}
