package background

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/imaging"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/kv/memory"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.n++
	return nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSetFromUploadDownscales(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	inv := &countingInvalidator{}
	s := NewService(store, inv, Options{}, logger.NewNop())

	url, err := s.SetFromUpload(ctx, encodePNG(t, 2400, 1200))
	require.NoError(t, err)
	assert.Equal(t, 1, inv.n)

	img, err := imaging.DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 960), img.Bounds())

	stored, ok, err := s.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, url, stored)

	// Portrait uploads are bounded by height.
	url, err = s.SetFromUpload(ctx, encodePNG(t, 1000, 2000))
	require.NoError(t, err)
	img, err = imaging.DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 540, 1080), img.Bounds())
}

func TestSetFromUploadRejects(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	inv := &countingInvalidator{}
	s := NewService(store, inv, Options{MaxUploadBytes: 1024}, logger.NewNop())

	_, err := s.SetFromUpload(ctx, make([]byte, 2048))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.SetFromUpload(ctx, []byte("not an image"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, inv.n)
}

func TestSetRandom(t *testing.T) {
	ctx := context.Background()
	body := encodePNG(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			rw.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = rw.Write(body)
	}))
	defer srv.Close()

	store := memory.New()
	inv := &countingInvalidator{}

	s := NewService(store, inv, Options{RandomURL: srv.URL + "/img"}, logger.NewNop())
	_, err := s.SetRandom(ctx)
	require.NoError(t, err)
	before, err := store.Get(ctx, kv.KeyCustomBg)
	require.NoError(t, err)

	broken := NewService(store, inv, Options{RandomURL: srv.URL + "/broken"}, logger.NewNop())
	_, err = broken.SetRandom(ctx)
	assert.ErrorIs(t, err, ErrFetch)

	after, err := store.Get(ctx, kv.KeyCustomBg)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed fetch must not touch state")
	assert.Equal(t, 1, inv.n)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, kv.SetJSON(ctx, store, kv.KeyCustomBg, "data:image/jpeg;base64,AA=="))
	inv := &countingInvalidator{}

	s := NewService(store, inv, Options{}, logger.NewNop())
	require.NoError(t, s.Reset(ctx))

	_, ok, err := s.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, inv.n)
}
