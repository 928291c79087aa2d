package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestMeanCenterLumaSolidImages(t *testing.T) {
	white, err := DecodeDataURL(pngDataURL(t, solid(300, 300, color.White)))
	require.NoError(t, err)
	assert.InDelta(t, 255, MeanCenterLuma(white), 0.001)
	assert.True(t, IsLight(MeanCenterLuma(white)))

	black, err := DecodeDataURL(pngDataURL(t, solid(300, 300, color.Black)))
	require.NoError(t, err)
	assert.InDelta(t, 0, MeanCenterLuma(black), 0.001)
	assert.False(t, IsLight(MeanCenterLuma(black)))
}

func TestMeanCenterLumaOnlySamplesCenter(t *testing.T) {
	// dark frame with a white center third
	img := solid(300, 300, color.Black)
	for y := 100; y < 200; y++ {
		for x := 100; x < 200; x++ {
			img.Set(x, y, color.White)
		}
	}
	assert.Equal(t, image.Rect(100, 100, 200, 200), CenterRegion(img.Bounds()))
	assert.True(t, IsLight(MeanCenterLuma(img)))
}

func TestIsLightBoundary(t *testing.T) {
	assert.False(t, IsLight(128))
	assert.True(t, IsLight(128.01))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#1f2937", color.NRGBA{0x1f, 0x29, 0x37, 0xff}, true},
		{"#FFF", color.NRGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 0xff}, true},
		{"rgba(10,20,30,0.5)", color.NRGBA{10, 20, 30, 0xff}, true},
		{"rgb(300,0,0)", color.NRGBA{}, false},
		{"blue", color.NRGBA{}, false},
		{"#12345", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	c, _ := ParseColor("#1f2937")
	assert.False(t, IsLight(Luma(c)))
}

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want image.Rectangle
	}{
		{"wide", 3840, 1080, image.Rect(0, 0, 1920, 540)},
		{"portrait", 100, 4000, image.Rect(0, 0, 27, 1080)},
		{"height bound landscape", 2000, 1200, image.Rect(0, 0, 1800, 1080)},
		{"short edge over box", 1920, 1200, image.Rect(0, 0, 1728, 1080)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Fit(solid(tt.w, tt.h, color.White), 1920, 1080)
			assert.Equal(t, tt.want, out.Bounds())
		})
	}

	small := solid(100, 50, color.White)
	assert.Same(t, small, Fit(small, 1920, 1080))
}

func TestEncodeJPEGDataURL(t *testing.T) {
	url, err := EncodeJPEGDataURL(solid(64, 32, color.White), 70)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	mediaType, data, err := ParseDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mediaType)

	img, format, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
	assert.True(t, IsLight(MeanCenterLuma(img)))
}

func TestParseDataURLRejects(t *testing.T) {
	for _, s := range []string{"https://x/y.png", "data:image/png,plain", "data:image/png;base64,@@@"} {
		_, _, err := ParseDataURL(s)
		assert.ErrorIs(t, err, ErrNotDataURL, s)
	}
}
