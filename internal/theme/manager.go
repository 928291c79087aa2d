// Package theme derives the light/dark theme from the color mode and the
// active background, and caches the result as backgroundThemeInfo.
package theme

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/imaging"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

const detectTimeout = 30 * time.Second

// Options configures a Manager.
type Options struct {
	// SystemTheme is recorded alongside each detection.
	SystemTheme domain.Theme
	// PageBackground is the color sampled when no custom image is set.
	PageBackground string
}

// Manager computes and caches the theme.
type Manager struct {
	store  kv.Store
	opts   Options
	logger logger.Logger

	// generation is bumped by every invalidation; a detection that started
	// under an older generation does not store its result.
	generation atomic.Uint64
	pending    sync.WaitGroup
}

// NewManager builds a manager backed by store.
func NewManager(store kv.Store, opts Options, log logger.Logger) *Manager {
	if opts.SystemTheme != domain.ThemeLight {
		opts.SystemTheme = domain.ThemeDark
	}
	return &Manager{
		store:  store,
		opts:   opts,
		logger: log.With(logger.String("component", "theme")),
	}
}

// Mode returns the stored color mode, auto by default.
func (m *Manager) Mode(ctx context.Context) (domain.ColorMode, error) {
	s, err := kv.GetString(ctx, m.store, kv.KeyColorMode, string(domain.ColorModeAuto))
	if err != nil {
		return domain.ColorModeAuto, err
	}
	mode, err := domain.ParseColorMode(s)
	if err != nil {
		m.logger.Warn("unknown stored color mode, using auto", logger.String("mode", s))
		return domain.ColorModeAuto, nil
	}
	return mode, nil
}

// Current resolves the theme. Fixed modes return themselves without
// sampling; auto uses the cached info or runs a detection.
func (m *Manager) Current(ctx context.Context) (domain.Theme, error) {
	mode, err := m.Mode(ctx)
	if err != nil {
		return domain.ThemeDark, err
	}
	switch mode {
	case domain.ColorModeLight:
		return domain.ThemeLight, nil
	case domain.ColorModeDark:
		return domain.ThemeDark, nil
	}

	info, ok, err := m.Cached(ctx)
	if err != nil {
		return domain.ThemeDark, err
	}
	if ok {
		return info.Theme, nil
	}

	info, err = m.Detect(ctx)
	if err != nil {
		return domain.ThemeDark, err
	}
	return info.Theme, nil
}

// Cached returns the stored detection result, if any.
func (m *Manager) Cached(ctx context.Context) (domain.ThemeInfo, bool, error) {
	var info domain.ThemeInfo
	ok, err := kv.GetDocument(ctx, m.store, kv.KeyThemeInfo, &info)
	if err != nil {
		return domain.ThemeInfo{}, false, err
	}
	return info, ok, nil
}

// Detect samples the active background and stores the result.
func (m *Manager) Detect(ctx context.Context) (domain.ThemeInfo, error) {
	gen := m.generation.Load()

	bg, err := kv.GetString(ctx, m.store, kv.KeyCustomBg, "")
	if err != nil {
		return domain.ThemeInfo{}, fmt.Errorf("failed to read background: %w", err)
	}

	info := domain.ThemeInfo{Theme: domain.ThemeDark, SystemTheme: m.opts.SystemTheme}
	if bg != "" && bg != "none" {
		info.BgURL = &bg
		theme, err := m.sampleImage(bg)
		if err != nil {
			// An unreadable image stores nothing and the page stays dark.
			m.logger.Debug("background not sampleable, assuming dark", logger.Error(err))
			return domain.ThemeInfo{Theme: domain.ThemeDark, SystemTheme: m.opts.SystemTheme}, nil
		}
		info.Theme = theme
	} else {
		info.Theme = m.samplePageColor()
	}

	if m.generation.Load() != gen {
		m.logger.Debug("theme detection superseded, not storing")
		return info, nil
	}
	if err := kv.SetDocument(ctx, m.store, kv.KeyThemeInfo, info); err != nil {
		return domain.ThemeInfo{}, fmt.Errorf("failed to store theme info: %w", err)
	}

	m.logger.Debug("theme detected", logger.String("theme", string(info.Theme)), logger.Bool("custom_bg", info.BgURL != nil))
	return info, nil
}

// Invalidate drops the cached info and starts a fresh detection in the
// background. A read right after may still find no info.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.generation.Add(1)
	if err := m.store.Remove(ctx, kv.KeyThemeInfo); err != nil {
		return fmt.Errorf("failed to invalidate theme: %w", err)
	}
	m.DetectAsync(ctx)
	return nil
}

// DetectAsync runs Detect on its own goroutine, logging failures.
func (m *Manager) DetectAsync(ctx context.Context) {
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), detectTimeout)
		defer cancel()
		if _, err := m.Detect(bg); err != nil {
			m.logger.Warn("background theme detection failed", logger.Error(err))
		}
	}()
}

// Wait blocks until every asynchronous detection has finished.
func (m *Manager) Wait() {
	m.pending.Wait()
}

func (m *Manager) sampleImage(dataURL string) (domain.Theme, error) {
	img, err := imaging.DecodeDataURL(dataURL)
	if err != nil {
		return domain.ThemeDark, fmt.Errorf("failed to decode background: %w", err)
	}
	if imaging.IsLight(imaging.MeanCenterLuma(img)) {
		return domain.ThemeLight, nil
	}
	return domain.ThemeDark, nil
}

func (m *Manager) samplePageColor() domain.Theme {
	c, err := imaging.ParseColor(m.opts.PageBackground)
	if err != nil {
		m.logger.Debug("unparseable page background, assuming dark", logger.String("color", m.opts.PageBackground))
		return domain.ThemeDark
	}
	if imaging.IsLight(imaging.Luma(c)) {
		return domain.ThemeLight
	}
	return domain.ThemeDark
}
