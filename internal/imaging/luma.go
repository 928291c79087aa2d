package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// LightThreshold is the mean luma above which a background counts as light.
const LightThreshold = 128

// Luma is the perceived brightness of c on a 0..255 scale:
// 0.299R + 0.587G + 0.114B.
func Luma(c color.Color) float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return (float64(n.R)*299 + float64(n.G)*587 + float64(n.B)*114) / 1000
}

// CenterRegion is the centered rectangle whose sides are a third of b's.
func CenterRegion(b image.Rectangle) image.Rectangle {
	w, h := b.Dx()/3, b.Dy()/3
	if w == 0 || h == 0 {
		return b
	}
	x0 := b.Min.X + b.Dx()/2 - w/2
	y0 := b.Min.Y + b.Dy()/2 - h/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// MeanCenterLuma averages Luma over CenterRegion(img.Bounds()).
func MeanCenterLuma(img image.Image) float64 {
	r := CenterRegion(img.Bounds())
	if r.Empty() {
		return 0
	}

	var total float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			total += Luma(img.At(x, y))
		}
	}
	return total / float64(r.Dx()*r.Dy())
}

// IsLight reports whether a mean luma classifies as light.
func IsLight(luma float64) bool {
	return luma > LightThreshold
}

// ParseColor accepts #rgb, #rrggbb, rgb(r, g, b) and rgba(r, g, b, a).
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	fn := s[:open]
	if fn != "rgb" && fn != "rgba" {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) < 3 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
		}
		rgb[i] = uint8(v)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, nil
}
