package favicon

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/kv/memory"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// fakeRelay answers from a fixed table; anything else fails.
type fakeRelay struct {
	mu      sync.Mutex
	answers map[string]string
	calls   []string
}

func (f *fakeRelay) FetchDataURL(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if v, ok := f.answers[url]; ok {
		return v, nil
	}
	return "", errors.New("HTTP error! status: 404")
}

func TestResolveExplicitIconSkipsCacheAndNetwork(t *testing.T) {
	relay := &fakeRelay{}
	r := NewResolver(memory.New(), relay, logger.NewNop())

	icon := r.Resolve(context.Background(), domain.Shortcut{Name: "x", URL: "https://x.com", Icon: "https://x.com/i.png"}, nil)
	r.Wait()

	assert.Equal(t, Icon{Src: "https://x.com/i.png", Source: SourceExplicit}, icon)
	assert.Empty(t, relay.calls)
}

func TestResolveCacheHit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, kv.SetJSON(ctx, store, kv.FaviconKey("github.com"), "data:image/png;base64,AAAA"))

	relay := &fakeRelay{}
	r := NewResolver(store, relay, logger.NewNop())

	icon := r.Resolve(ctx, domain.Shortcut{Name: "GitHub", URL: "https://github.com"}, nil)
	r.Wait()

	assert.Equal(t, SourceCache, icon.Source)
	assert.Equal(t, "data:image/png;base64,AAAA", icon.Src)
	assert.Empty(t, relay.calls)
}

func TestResolveFetchesCandidatesInOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	relay := &fakeRelay{answers: map[string]string{
		"https://github.com/favicon.ico": "data:image/x-icon;base64,ICO=",
	}}
	r := NewResolver(store, relay, logger.NewNop())

	var patched atomic.Value
	icon := r.Resolve(ctx, domain.Shortcut{Name: "GitHub", URL: "github.com"}, func(host, dataURL string) {
		patched.Store(host + " " + dataURL)
	})
	assert.Equal(t, Icon{Src: FallbackURL("github.com"), Source: SourceFallback}, icon)

	r.Wait()
	assert.Equal(t, []string{"https://github.com/favicon.png", "https://github.com/favicon.ico"}, relay.calls)
	assert.Equal(t, "github.com data:image/x-icon;base64,ICO=", patched.Load())

	cached, ok, err := r.Lookup(ctx, "https://github.com/anything")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "data:image/x-icon;base64,ICO=", cached)
}

func TestResolveTotalFailureKeepsFallback(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	relay := &fakeRelay{}
	r := NewResolver(store, relay, logger.NewNop())

	patched := false
	icon := r.Resolve(ctx, domain.Shortcut{Name: "x", URL: "x.example"}, func(string, string) { patched = true })
	r.Wait()

	assert.Equal(t, SourceFallback, icon.Source)
	assert.Len(t, relay.calls, 3)
	assert.False(t, patched)
	keys, _ := store.Keys(ctx, kv.KeyPrefixFavicon)
	assert.Empty(t, keys)
}

func TestResolveWithoutRelay(t *testing.T) {
	r := NewResolver(memory.New(), nil, logger.NewNop())
	icon := r.Resolve(context.Background(), domain.Shortcut{Name: "x", URL: "https://x.com"}, nil)
	assert.Equal(t, FallbackURL("x.com"), icon.Src)
}

func TestCacheQuotaPurgesFaviconsOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.WithQuota(200))
	require.NoError(t, store.Set(ctx, kv.KeyGridCols, []byte("5")))
	require.NoError(t, kv.SetJSON(ctx, store, kv.FaviconKey("old.com"), strings.Repeat("o", 100)))

	r := NewResolver(store, nil, logger.NewNop())
	fresh := strings.Repeat("n", 80)
	r.cache(ctx, "new.com", fresh)

	_, err := store.Get(ctx, kv.FaviconKey("old.com"))
	assert.ErrorIs(t, err, kv.ErrNotFound)

	got, err := kv.GetString(ctx, store, kv.FaviconKey("new.com"), "")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	v, err := store.Get(ctx, kv.KeyGridCols)
	require.NoError(t, err)
	assert.Equal(t, "5", string(v))
}

func TestCacheGivesUpAfterOneRetry(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.WithQuota(20))
	r := NewResolver(store, nil, logger.NewNop())

	r.cache(ctx, "huge.com", strings.Repeat("h", 100))

	keys, err := store.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, kv.SetJSON(ctx, store, kv.FaviconKey("a.com"), "data:x"))
	require.NoError(t, kv.SetJSON(ctx, store, kv.FaviconKey("b.com"), "data:y"))

	r := NewResolver(store, nil, logger.NewNop())
	require.NoError(t, r.Invalidate(ctx, "https://A.com/path"))

	keys, err := store.Keys(ctx, kv.KeyPrefixFavicon)
	require.NoError(t, err)
	assert.Equal(t, []string{kv.FaviconKey("b.com")}, keys)
}
