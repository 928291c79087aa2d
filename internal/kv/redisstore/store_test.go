package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/kv"
)

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `liquidtab:favicon_`, escapeGlob("liquidtab:favicon_"))
	assert.Equal(t, `a\*b\?c\[d\]\\`, escapeGlob(`a*b?c[d]\`))
}

func TestCompact(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, compact([]string{"a", "a", "b", "c", "c"}))
	assert.Empty(t, compact(nil))
}

func TestIsOOM(t *testing.T) {
	assert.False(t, isOOM(context.DeadlineExceeded))
}

// TestStoreAgainstRedis runs against a real server when LIQUIDTAB_TEST_REDIS_ADDR is set.
func TestStoreAgainstRedis(t *testing.T) {
	addr := os.Getenv("LIQUIDTAB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIQUIDTAB_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ns := "liquidtab-test-" + time.Now().Format("150405.000") + ":"
	s := NewStore(client, ns)
	t.Cleanup(func() {
		keys, _ := s.Keys(context.Background(), "")
		_ = s.Remove(context.Background(), keys...)
		_ = s.Close()
	})

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "favicon_a.com", []byte("data:a")))
	require.NoError(t, s.Set(ctx, "favicon_b.com", []byte("data:b")))
	require.NoError(t, s.Set(ctx, "shortcuts", []byte(`"[]"`)))

	keys, err := s.Keys(ctx, kv.KeyPrefixFavicon)
	require.NoError(t, err)
	assert.Equal(t, []string{"favicon_a.com", "favicon_b.com"}, keys)

	require.NoError(t, s.Remove(ctx, keys...))
	keys, err = s.Keys(ctx, kv.KeyPrefixFavicon)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
