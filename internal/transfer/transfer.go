// Package transfer exports the persisted key space to one JSON document
// and restores it.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/engines"
	"github.com/Noyllopa/LiquidNewtab/internal/imaging"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// Filename is the suggested name of an export download.
const Filename = "liquid-newtab-data.json"

// ErrMalformed marks an import file that could not be parsed. Nothing has
// been written when it is returned.
var ErrMalformed = errors.New("malformed import file")

var null = json.RawMessage("null")

// Document is the export file. Values are stored bytes, copied verbatim.
type Document struct {
	Shortcuts       json.RawMessage            `json:"shortcuts,omitempty"`
	GridCols        json.RawMessage            `json:"gridCols,omitempty"`
	GridSize        json.RawMessage            `json:"gridSize,omitempty"`
	Scale           json.RawMessage            `json:"scale,omitempty"`
	CustomBg        json.RawMessage            `json:"customBg,omitempty"`
	ColorMode       json.RawMessage            `json:"colorMode,omitempty"`
	Engines         json.RawMessage            `json:"engines,omitempty"`
	PreferredEngine json.RawMessage            `json:"preferredEngine,omitempty"`
	Favicons        map[string]json.RawMessage `json:"favicons"`
}

// Invalidator drops derived theme state.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service implements export and import over a store.
type Service struct {
	store          kv.Store
	theme          Invalidator
	enginesEnabled bool
	logger         logger.Logger
}

// NewService builds a transfer service. Engines are only carried when
// enginesEnabled is set.
func NewService(store kv.Store, theme Invalidator, enginesEnabled bool, log logger.Logger) *Service {
	return &Service{
		store:          store,
		theme:          theme,
		enginesEnabled: enginesEnabled,
		logger:         log.With(logger.String("component", "transfer")),
	}
}

type field struct {
	key string
	dst *json.RawMessage
}

// Snapshot assembles the export document from the store.
func (s *Service) Snapshot(ctx context.Context) (*Document, error) {
	doc := &Document{CustomBg: null, Favicons: map[string]json.RawMessage{}}

	fields := []field{
		{kv.KeyShortcuts, &doc.Shortcuts},
		{kv.KeyGridCols, &doc.GridCols},
		{kv.KeyGridSize, &doc.GridSize},
		{kv.KeyScale, &doc.Scale},
		{kv.KeyCustomBg, &doc.CustomBg},
		{kv.KeyColorMode, &doc.ColorMode},
	}
	if s.enginesEnabled {
		fields = append(fields,
			field{kv.KeyEngines, &doc.Engines},
			field{kv.KeyPreferredEngine, &doc.PreferredEngine},
		)
	}

	for _, f := range fields {
		raw, err := s.store.Get(ctx, f.key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", f.key, err)
		}
		*f.dst = raw
	}

	keys, err := s.store.Keys(ctx, kv.KeyPrefixFavicon)
	if err != nil {
		return nil, fmt.Errorf("failed to list favicons: %w", err)
	}
	for _, key := range lo.Filter(keys, func(k string, _ int) bool { return kv.IsFaviconKey(k) }) {
		raw, err := s.store.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			continue // removed meanwhile
		}
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", key, err)
		}
		doc.Favicons[key] = raw
	}
	return doc, nil
}

// Export writes the export document to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	s.logger.Info("data exported", logger.Int("favicons", len(doc.Favicons)))
	return nil
}

// Report summarizes an import.
type Report struct {
	Fields   []string `json:"fields"`
	Favicons int      `json:"favicons"`
}

// write is one pending store mutation; a nil value removes the key.
type write struct {
	key   string
	value []byte
}

// Import parses r and overwrites every present field in a fixed order.
// A parse error returns ErrMalformed before anything is written. A store
// failure midway leaves the earlier fields written.
func (s *Service) Import(ctx context.Context, r io.Reader) (Report, error) {
	plan, err := parse(r, s.enginesEnabled)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, w := range plan.writes {
		if err := s.apply(ctx, w); err != nil {
			return report, err
		}
		report.Fields = append(report.Fields, w.key)
	}

	if plan.favicons != nil {
		if err := s.importFavicons(ctx, plan.favicons); err != nil {
			return report, err
		}
		report.Fields = append(report.Fields, "favicons")
		report.Favicons = len(plan.favicons)
	}

	s.logger.Info("data imported",
		logger.Strings("fields", report.Fields),
		logger.Int("favicons", report.Favicons))
	return report, nil
}

// themeKeys are the keys whose change invalidates the derived theme.
var themeKeys = map[string]bool{kv.KeyCustomBg: true, kv.KeyColorMode: true}

// apply performs one write. The theme is only invalidated when a
// theme-relevant value actually changes.
func (s *Service) apply(ctx context.Context, w write) error {
	var current []byte
	if themeKeys[w.key] {
		v, err := s.store.Get(ctx, w.key)
		if err != nil && !errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("failed to read %s: %w", w.key, err)
		}
		current = v
	}

	if w.value == nil {
		if err := s.store.Remove(ctx, w.key); err != nil {
			return fmt.Errorf("failed to import %s: %w", w.key, err)
		}
	} else if err := s.store.Set(ctx, w.key, w.value); err != nil {
		return fmt.Errorf("failed to import %s: %w", w.key, err)
	}

	if !themeKeys[w.key] || bytes.Equal(current, w.value) {
		return nil
	}
	return s.theme.Invalidate(ctx)
}

func (s *Service) importFavicons(ctx context.Context, favicons map[string][]byte) error {
	existing, err := s.store.Keys(ctx, kv.KeyPrefixFavicon)
	if err != nil {
		return fmt.Errorf("failed to list favicons: %w", err)
	}
	if len(existing) > 0 {
		if err := s.store.Remove(ctx, existing...); err != nil {
			return fmt.Errorf("failed to clear favicons: %w", err)
		}
	}

	keys := lo.Keys(favicons)
	sort.Strings(keys)
	for _, key := range keys {
		if err := s.store.Set(ctx, key, favicons[key]); err != nil {
			return fmt.Errorf("failed to import %s: %w", key, err)
		}
	}
	return nil
}

type plan struct {
	writes   []write
	favicons map[string][]byte
}

// parse validates the whole document up front and returns the writes in
// import order: shortcuts, layout, background, color mode, engines.
func parse(r io.Reader, enginesEnabled bool) (*plan, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	p := &plan{}
	add := func(key string, value []byte) { p.writes = append(p.writes, write{key: key, value: value}) }

	if present(doc.Shortcuts) {
		v, err := documentValue(doc.Shortcuts, func(text []byte) error {
			var list []domain.Shortcut
			return json.Unmarshal(text, &list)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: shortcuts: %v", ErrMalformed, err)
		}
		add(kv.KeyShortcuts, v)
	}

	for _, f := range []struct {
		key string
		raw json.RawMessage
	}{{kv.KeyGridCols, doc.GridCols}, {kv.KeyGridSize, doc.GridSize}, {kv.KeyScale, doc.Scale}} {
		if !present(f.raw) {
			continue
		}
		v, err := numberValue(f.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.key, err)
		}
		add(f.key, v)
	}

	// customBg is handled even when null: null or "" removes it.
	if doc.CustomBg != nil {
		v, err := backgroundValue(doc.CustomBg)
		if err != nil {
			return nil, fmt.Errorf("%w: customBg: %v", ErrMalformed, err)
		}
		add(kv.KeyCustomBg, v)
	}

	if present(doc.ColorMode) {
		v, err := stringValue(doc.ColorMode)
		if err != nil {
			return nil, fmt.Errorf("%w: colorMode: %v", ErrMalformed, err)
		}
		add(kv.KeyColorMode, v)
	}

	if enginesEnabled {
		if present(doc.Engines) {
			v, err := documentValue(doc.Engines, func(text []byte) error {
				var set engines.Set
				return json.Unmarshal(text, &set)
			})
			if err != nil {
				return nil, fmt.Errorf("%w: engines: %v", ErrMalformed, err)
			}
			add(kv.KeyEngines, v)
		}
		if present(doc.PreferredEngine) {
			v, err := stringValue(doc.PreferredEngine)
			if err != nil {
				return nil, fmt.Errorf("%w: preferredEngine: %v", ErrMalformed, err)
			}
			add(kv.KeyPreferredEngine, v)
		}
	}

	if doc.Favicons != nil {
		p.favicons = make(map[string][]byte, len(doc.Favicons))
		for key, raw := range doc.Favicons {
			if !kv.IsFaviconKey(key) {
				return nil, fmt.Errorf("%w: favicons: unexpected key %q", ErrMalformed, key)
			}
			v, err := stringValue(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
			}
			p.favicons[key] = v
		}
	}
	return p, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), null)
}

func compact(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// documentValue accepts a JSON string holding a document (the stored
// form) or the document itself, and returns the stored form.
func documentValue(raw json.RawMessage, validate func([]byte) error) ([]byte, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if err := validate([]byte(text)); err != nil {
			return nil, err
		}
		return compact(raw)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}
	doc, err := compact(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(doc))
}

// numberValue accepts an integral JSON number or a string holding an integer.
func numberValue(raw json.RawMessage) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("not an integer: %v", n)
		}
	case string:
		if _, err := strconv.Atoi(strings.TrimSpace(n)); err != nil {
			return nil, fmt.Errorf("not an integer: %q", n)
		}
	default:
		return nil, fmt.Errorf("unexpected %T", n)
	}
	return compact(raw)
}

func stringValue(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return compact(raw)
}

// backgroundValue returns nil for null, "" or "none" (meaning remove).
// Anything else must be a base64 image data URL.
func backgroundValue(raw json.RawMessage) ([]byte, error) {
	if !present(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if s == "" || s == "none" {
		return nil, nil
	}
	mediaType, _, err := imaging.ParseDataURL(s)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("not an image: %q", mediaType)
	}
	return compact(raw)
}
