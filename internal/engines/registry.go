// Package engines is the optional registry of named search URL templates
// and the user's preferred one.
package engines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// ErrLastEngine refuses deleting the only remaining engine.
var ErrLastEngine = errors.New("cannot delete the last search engine")

// DefaultPreferred is the preferred key when none is stored.
const DefaultPreferred = "google"

// BuiltIns returns the engines present before the user adds any.
func BuiltIns() *Set {
	s := &Set{}
	s.Put("google", domain.Engine{Name: "Google", URL: "https://www.google.com/search?q=%s"})
	s.Put("bing", domain.Engine{Name: "Bing", URL: "https://www.bing.com/search?q=%s"})
	s.Put("baidu", domain.Engine{Name: "Baidu", URL: "https://www.baidu.com/s?wd=%s"})
	s.Put("duckduckgo", domain.Engine{Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q=%s"})
	return s
}

// Snapshot is the registry as displayed.
type Snapshot struct {
	Engines   []Entry `json:"engines"`
	Preferred string  `json:"preferred"`
}

// Registry persists the engine set under kv.KeyEngines and the preferred
// key under kv.KeyPreferredEngine.
type Registry struct {
	mu     sync.Mutex
	store  kv.Store
	logger logger.Logger
	now    func() time.Time
}

// NewRegistry builds a registry backed by store.
func NewRegistry(store kv.Store, log logger.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: log.With(logger.String("component", "engines")),
		now:    time.Now,
	}
}

// NewKey generates a key of the form engine_<unixMillis>_<8 hex>.
func NewKey(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("engine_%d_%s", now.UnixMilli(), suffix)
}

// List returns the engines in display order and the effective preferred key.
func (r *Registry) List(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, preferred, err := r.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot(set, preferred), nil
}

// Add registers a new engine under a generated key.
func (r *Registry) Add(ctx context.Context, name, template string) (Entry, error) {
	e, err := domain.NewEngine(name, template)
	if err != nil {
		return Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, _, err := r.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	key := NewKey(r.now())
	set.Put(key, e)
	if err := r.saveSet(ctx, set); err != nil {
		return Entry{}, err
	}

	r.logger.Info("engine added", logger.String("key", key), logger.String("name", e.Name))
	return Entry{Key: key, Engine: e}, nil
}

// Edit replaces the engine under key, keeping its position.
func (r *Registry) Edit(ctx context.Context, key, name, template string) (Entry, error) {
	e, err := domain.NewEngine(name, template)
	if err != nil {
		return Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, _, err := r.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	if _, ok := set.Get(key); !ok {
		return Entry{}, fmt.Errorf("%w: engine %q", domain.ErrNotFound, key)
	}
	set.Put(key, e)
	if err := r.saveSet(ctx, set); err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Engine: e}, nil
}

// Delete removes key. The last engine cannot be deleted; deleting the
// preferred engine moves preference to the first remaining one.
func (r *Registry) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, preferred, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := set.Get(key); !ok {
		return fmt.Errorf("%w: engine %q", domain.ErrNotFound, key)
	}
	if set.Len() <= 1 {
		r.logger.Warn("refusing to delete the last engine", logger.String("key", key))
		return ErrLastEngine
	}

	set.Delete(key)
	if err := r.saveSet(ctx, set); err != nil {
		return err
	}
	if preferred == key {
		next := set.Keys()[0]
		if err := kv.SetJSON(ctx, r.store, kv.KeyPreferredEngine, next); err != nil {
			return fmt.Errorf("failed to save preferred engine: %w", err)
		}
		r.logger.Info("preferred engine deleted, falling back", logger.String("preferred", next))
	}
	return nil
}

// SetPreferred points the preference at key.
func (r *Registry) SetPreferred(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, _, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := set.Get(key); !ok {
		return fmt.Errorf("%w: engine %q", domain.ErrNotFound, key)
	}
	if err := kv.SetJSON(ctx, r.store, kv.KeyPreferredEngine, key); err != nil {
		return fmt.Errorf("failed to save preferred engine: %w", err)
	}
	return nil
}

// Move moves the engine at position from to position to.
func (r *Registry) Move(ctx context.Context, from, to int) (Snapshot, error) {
	return r.mutateOrder(ctx, func(s *Set) error { return s.Move(from, to) })
}

// Reorder rewrites the display order to follow keys.
func (r *Registry) Reorder(ctx context.Context, keys []string) (Snapshot, error) {
	return r.mutateOrder(ctx, func(s *Set) error { return s.Reorder(keys) })
}

func (r *Registry) mutateOrder(ctx context.Context, fn func(*Set) error) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, preferred, err := r.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if err := fn(set); err != nil {
		return Snapshot{}, err
	}
	if err := r.saveSet(ctx, set); err != nil {
		return Snapshot{}, err
	}
	return snapshot(set, preferred), nil
}

// SearchURL expands query into the preferred engine's template. It
// reports false for an empty query or when no engine is configured.
func (r *Registry) SearchURL(ctx context.Context, query string) (string, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false, nil
	}

	r.mu.Lock()
	set, preferred, err := r.load(ctx)
	r.mu.Unlock()
	if err != nil {
		return "", false, err
	}

	e, ok := set.Get(preferred)
	if !ok {
		return "", false, nil
	}
	return e.Expand(query), true, nil
}

func (r *Registry) load(ctx context.Context) (*Set, string, error) {
	set := &Set{}
	ok, err := kv.GetDocument(ctx, r.store, kv.KeyEngines, set)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load engines: %w", err)
	}
	if !ok {
		set = BuiltIns()
	}

	preferred, err := kv.GetString(ctx, r.store, kv.KeyPreferredEngine, DefaultPreferred)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load preferred engine: %w", err)
	}
	if _, found := set.Get(preferred); !found {
		preferred = ""
		if set.Len() > 0 {
			preferred = set.Keys()[0]
		}
	}
	return set, preferred, nil
}

func (r *Registry) saveSet(ctx context.Context, set *Set) error {
	if err := kv.SetDocument(ctx, r.store, kv.KeyEngines, set); err != nil {
		return fmt.Errorf("failed to save engines: %w", err)
	}
	return nil
}

func snapshot(set *Set, preferred string) Snapshot {
	entries := set.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return Snapshot{Engines: entries, Preferred: preferred}
}
