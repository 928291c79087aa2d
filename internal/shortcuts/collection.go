// Package shortcuts owns the ordered shortcut list shown on the grid.
package shortcuts

import (
	"context"
	"fmt"
	"sync"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/favicon"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// Tile is a shortcut ready for display.
type Tile struct {
	Index int          `json:"index"`
	Name  string       `json:"name"`
	URL   string       `json:"url"`
	Host  string       `json:"host"`
	Icon  favicon.Icon `json:"icon"`
	// Custom is true when the icon was supplied by the user.
	Custom bool `json:"custom"`
}

// Collection reads and writes the list under kv.KeyShortcuts. Every
// mutation rewrites the whole list; mutations in this process are
// serialized, writers elsewhere race last-write-wins.
type Collection struct {
	mu       sync.Mutex
	store    kv.Store
	resolver *favicon.Resolver
	logger   logger.Logger
	defaults []domain.Shortcut

	drag *DragSession
}

// New builds a collection backed by store.
func New(store kv.Store, resolver *favicon.Resolver, log logger.Logger) *Collection {
	return &Collection{
		store:    store,
		resolver: resolver,
		logger:   log.With(logger.String("component", "shortcuts")),
		defaults: domain.DefaultShortcuts(),
	}
}

// List returns the stored list, or the defaults when nothing is stored.
func (c *Collection) List(ctx context.Context) ([]domain.Shortcut, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Add appends a shortcut.
func (c *Collection) Add(ctx context.Context, name, rawURL, icon string) (domain.Shortcut, error) {
	sc, err := domain.NewShortcut(name, rawURL, icon)
	if err != nil {
		return domain.Shortcut{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return domain.Shortcut{}, err
	}
	list = append(list, sc)
	if err := c.save(ctx, list); err != nil {
		return domain.Shortcut{}, err
	}

	c.logger.Info("shortcut added", logger.String("name", sc.Name), logger.String("url", sc.URL))
	return sc, nil
}

// Edit replaces the shortcut at index. When the hostname changes the old
// host's favicon is invalidated and the new one is resolved in the
// background.
func (c *Collection) Edit(ctx context.Context, index int, name, rawURL, icon string) (domain.Shortcut, error) {
	sc, err := domain.NewShortcut(name, rawURL, icon)
	if err != nil {
		return domain.Shortcut{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return domain.Shortcut{}, err
	}
	if err := checkIndex(index, len(list)); err != nil {
		return domain.Shortcut{}, err
	}

	old := list[index]
	list[index] = sc
	if err := c.save(ctx, list); err != nil {
		return domain.Shortcut{}, err
	}

	if !domain.SameHost(old.URL, sc.URL) {
		if err := c.resolver.Invalidate(ctx, old.URL); err != nil {
			c.logger.Warn("failed to invalidate favicon", logger.String("url", old.URL), logger.Error(err))
		}
		c.resolver.Resolve(ctx, sc, nil)
	}

	c.logger.Info("shortcut edited", logger.Int("index", index), logger.String("url", sc.URL))
	return sc, nil
}

// Delete removes the shortcut at index.
func (c *Collection) Delete(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err := checkIndex(index, len(list)); err != nil {
		return err
	}

	removed := list[index]
	list = append(list[:index], list[index+1:]...)
	if err := c.save(ctx, list); err != nil {
		return err
	}

	c.logger.Info("shortcut deleted", logger.Int("index", index), logger.String("name", removed.Name))
	return nil
}

// Move moves the shortcut at from to position to.
func (c *Collection) Move(ctx context.Context, from, to int) ([]domain.Shortcut, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	moved, err := domain.Move(list, from, to)
	if err != nil {
		return nil, err
	}
	if err := c.save(ctx, moved); err != nil {
		return nil, err
	}
	return moved, nil
}

// Reorder rewrites the list so that position i holds the shortcut
// previously at order[i].
func (c *Collection) Reorder(ctx context.Context, order []int) ([]domain.Shortcut, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reorderLocked(ctx, order)
}

func (c *Collection) reorderLocked(ctx context.Context, order []int) ([]domain.Shortcut, error) {
	list, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	permuted, err := domain.Permute(list, order)
	if err != nil {
		return nil, err
	}
	if err := c.save(ctx, permuted); err != nil {
		return nil, err
	}
	c.logger.Debug("shortcuts reordered", logger.Int("count", len(permuted)))
	return permuted, nil
}

// Replace stores list as-is after validating every entry.
func (c *Collection) Replace(ctx context.Context, list []domain.Shortcut) error {
	clean := make([]domain.Shortcut, 0, len(list))
	for i, sc := range list {
		v, err := domain.NewShortcut(sc.Name, sc.URL, sc.Icon)
		if err != nil {
			return fmt.Errorf("shortcut %d: %w", i, err)
		}
		clean = append(clean, v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, clean)
}

// Render persists the current list and returns it as tiles with icons
// resolved. onPatch receives icons that finish resolving later.
func (c *Collection) Render(ctx context.Context, onPatch favicon.PatchFunc) ([]Tile, error) {
	c.mu.Lock()
	list, err := c.load(ctx)
	if err == nil {
		err = c.save(ctx, list)
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	tiles := make([]Tile, 0, len(list))
	for i, sc := range list {
		host, _ := domain.Hostname(sc.URL)
		tiles = append(tiles, Tile{
			Index:  i,
			Name:   sc.Name,
			URL:    sc.URL,
			Host:   host,
			Icon:   c.resolver.Resolve(ctx, sc, onPatch),
			Custom: sc.Icon != "",
		})
	}
	return tiles, nil
}

func (c *Collection) load(ctx context.Context) ([]domain.Shortcut, error) {
	var list []domain.Shortcut
	ok, err := kv.GetDocument(ctx, c.store, kv.KeyShortcuts, &list)
	if err != nil {
		return nil, fmt.Errorf("failed to load shortcuts: %w", err)
	}
	if !ok {
		return append([]domain.Shortcut(nil), c.defaults...), nil
	}
	if list == nil {
		list = []domain.Shortcut{}
	}
	return list, nil
}

func (c *Collection) save(ctx context.Context, list []domain.Shortcut) error {
	if list == nil {
		list = []domain.Shortcut{}
	}
	if err := kv.SetDocument(ctx, c.store, kv.KeyShortcuts, list); err != nil {
		return fmt.Errorf("failed to save shortcuts: %w", err)
	}
	return nil
}

func checkIndex(index, n int) error {
	if index < 0 || index >= n {
		return fmt.Errorf("%w: shortcut %d (have %d)", domain.ErrNotFound, index, n)
	}
	return nil
}
