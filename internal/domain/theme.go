package domain

import "fmt"

// Theme is the light/dark text and icon variant applied across the page.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ColorMode is the user's color preference. Auto derives the theme from
// the background.
type ColorMode string

const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
	ColorModeAuto  ColorMode = "auto"
)

// ParseColorMode validates a color-mode string.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorModeLight, ColorModeDark, ColorModeAuto:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown color mode %q", ErrValidation, s)
	}
}

// ThemeInfo is the cached result of background detection. It is derived
// state, never edited by the user.
type ThemeInfo struct {
	Theme       Theme   `json:"theme"`
	BgURL       *string `json:"bgUrl"`
	SystemTheme Theme   `json:"systemTheme"`
}
