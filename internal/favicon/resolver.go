// Package favicon resolves the icon shown on a shortcut tile: an explicit
// icon, a cached data URL, or a relayed fetch with a remote fallback.
package favicon

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

const (
	fallbackServiceURL = "https://www.google.com/s2/favicons?domain=%s&sz=128"
	// resolveTimeout bounds one background resolution across all candidates.
	resolveTimeout = 20 * time.Second
)

// Source says where an Icon came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Icon is what a tile displays right now.
type Icon struct {
	Src    string `json:"src"`
	Source Source `json:"source"`
}

// Fetcher fetches a URL and returns it as a data URL. The relay worker
// implements it.
type Fetcher interface {
	FetchDataURL(ctx context.Context, url string) (string, error)
}

// PatchFunc receives the data URL that replaces a fallback icon once a
// background resolution succeeds.
type PatchFunc func(host, dataURL string)

// Resolver implements the icon lookup chain.
type Resolver struct {
	store  kv.Store
	relay  Fetcher
	logger logger.Logger

	group   singleflight.Group
	pending sync.WaitGroup
}

// NewResolver builds a resolver. relay may be nil, in which case only the
// fallback service is used for uncached hosts.
func NewResolver(store kv.Store, relay Fetcher, log logger.Logger) *Resolver {
	return &Resolver{
		store:  store,
		relay:  relay,
		logger: log.With(logger.String("component", "favicon")),
	}
}

// FallbackURL is the generic favicon service URL for host.
func FallbackURL(host string) string {
	return fmt.Sprintf(fallbackServiceURL, url.QueryEscape(host))
}

// Candidates lists the sources tried for an uncached host, in order.
func Candidates(normalizedURL, host string) []string {
	base := strings.TrimRight(normalizedURL, "/")
	return []string{
		base + "/favicon.png",
		base + "/favicon.ico",
		FallbackURL(host),
	}
}

// Resolve returns the icon to display for sc without ever blocking on the
// network. When a background fetch is started, onPatch (if non-nil) is
// called with the cached data URL on success.
func (r *Resolver) Resolve(ctx context.Context, sc domain.Shortcut, onPatch PatchFunc) Icon {
	if sc.Icon != "" {
		return Icon{Src: sc.Icon, Source: SourceExplicit}
	}

	normalized := domain.NormalizeURL(sc.URL)
	host, err := domain.Hostname(normalized)
	if err != nil {
		r.logger.Debug("cannot resolve favicon", logger.String("url", sc.URL), logger.Error(err))
		return Icon{Source: SourceFallback}
	}

	cached, err := kv.GetString(ctx, r.store, kv.FaviconKey(host), "")
	if err != nil {
		r.logger.Debug("favicon cache read failed", logger.String("host", host), logger.Error(err))
	}
	if cached != "" {
		return Icon{Src: cached, Source: SourceCache}
	}

	if r.relay != nil {
		r.pending.Add(1)
		go func() {
			defer r.pending.Done()
			bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
			defer cancel()
			r.fetchAndCache(bg, normalized, host, onPatch)
		}()
	}

	return Icon{Src: FallbackURL(host), Source: SourceFallback}
}

// Lookup returns the cached data URL for rawURL's host, if any.
func (r *Resolver) Lookup(ctx context.Context, rawURL string) (string, bool, error) {
	host, err := domain.Hostname(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	v, err := kv.GetString(ctx, r.store, kv.FaviconKey(host), "")
	if err != nil {
		return "", false, err
	}
	return v, v != "", nil
}

// Invalidate drops the cache entry of rawURL's host.
func (r *Resolver) Invalidate(ctx context.Context, rawURL string) error {
	host, err := domain.Hostname(rawURL)
	if err != nil {
		return nil // nothing could have been cached for it
	}
	if err := r.store.Remove(ctx, kv.FaviconKey(host)); err != nil {
		return fmt.Errorf("failed to invalidate favicon for %s: %w", host, err)
	}
	r.logger.Debug("favicon invalidated", logger.String("host", host))
	return nil
}

// Wait blocks until every background resolution has finished.
func (r *Resolver) Wait() {
	r.pending.Wait()
}

func (r *Resolver) fetchAndCache(ctx context.Context, normalized, host string, onPatch PatchFunc) {
	v, err, _ := r.group.Do(host, func() (any, error) {
		return r.fetch(ctx, normalized, host)
	})
	if err != nil {
		r.logger.Debug("favicon resolution failed, keeping fallback",
			logger.String("host", host), logger.Error(err))
		return
	}
	if onPatch != nil {
		onPatch(host, v.(string))
	}
}

func (r *Resolver) fetch(ctx context.Context, normalized, host string) (string, error) {
	var lastErr error
	for _, candidate := range Candidates(normalized, host) {
		dataURL, err := r.relay.FetchDataURL(ctx, candidate)
		if err != nil {
			r.logger.Debug("favicon candidate failed",
				logger.String("candidate", candidate), logger.Error(err))
			lastErr = err
			continue
		}
		r.cache(ctx, host, dataURL)
		return dataURL, nil
	}
	return "", fmt.Errorf("no favicon source for %s: %w", host, lastErr)
}

// cache writes the entry. On a quota error every favicon entry is
// purged once and the write retried once; a second failure is dropped.
func (r *Resolver) cache(ctx context.Context, host, dataURL string) {
	key := kv.FaviconKey(host)
	err := kv.SetJSON(ctx, r.store, key, dataURL)
	if err == nil {
		return
	}
	if !errors.Is(err, kv.ErrQuotaExceeded) {
		r.logger.Warn("failed to cache favicon", logger.String("host", host), logger.Error(err))
		return
	}

	r.logger.Warn("favicon cache full, purging favicon entries", logger.String("host", host))
	if err := PurgeAll(ctx, r.store); err != nil {
		r.logger.Warn("failed to purge favicon cache", logger.Error(err))
	}
	if err := kv.SetJSON(ctx, r.store, key, dataURL); err != nil {
		r.logger.Warn("favicon still not cached after purge", logger.String("host", host), logger.Error(err))
	}
}

// PurgeAll removes every favicon cache entry and nothing else.
func PurgeAll(ctx context.Context, store kv.Store) error {
	keys, err := store.Keys(ctx, kv.KeyPrefixFavicon)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return store.Remove(ctx, keys...)
}
