package theme

import "github.com/Noyllopa/LiquidNewtab/internal/domain"

// Region is a themed area of the page.
type Region string

const (
	RegionSearchCapsule  Region = "searchCapsule"
	RegionShortcutGrid   Region = "shortcutGrid"
	RegionAddButton      Region = "addButton"
	RegionSettingsButton Region = "settingsButton"
	RegionContextMenu    Region = "contextMenu"
	RegionDialogs        Region = "dialogs"
)

// Regions lists every themed region.
var Regions = []Region{
	RegionSearchCapsule,
	RegionShortcutGrid,
	RegionAddButton,
	RegionSettingsButton,
	RegionContextMenu,
	RegionDialogs,
}

// A light background needs dark text and icons, and the other way round.
var variants = map[domain.Theme]map[Region][]string{
	domain.ThemeLight: {
		RegionSearchCapsule:  {"text-color-dark", "icon-color-dark"},
		RegionShortcutGrid:   {"shortcut-color-dark"},
		RegionAddButton:      {"icon-color-dark"},
		RegionSettingsButton: {"icon-color-dark"},
		RegionContextMenu:    {"text-color-dark"},
		RegionDialogs:        {"light-bg"},
	},
	domain.ThemeDark: {
		RegionSearchCapsule:  {"text-color-light", "icon-color-light"},
		RegionShortcutGrid:   {"shortcut-color-light"},
		RegionAddButton:      {"icon-color-light"},
		RegionSettingsButton: {"icon-color-light"},
		RegionContextMenu:    {"text-color-light"},
		RegionDialogs:        {"dark-mode"},
	},
}

// Classes returns the marker classes each region carries under t. Unknown
// themes are treated as dark.
func Classes(t domain.Theme) map[Region][]string {
	return clone(variants[normalize(t)])
}

// StaleClasses returns the classes of the other variant, which a region
// must drop when t is applied.
func StaleClasses(t domain.Theme) map[Region][]string {
	if normalize(t) == domain.ThemeLight {
		return clone(variants[domain.ThemeDark])
	}
	return clone(variants[domain.ThemeLight])
}

func normalize(t domain.Theme) domain.Theme {
	if t == domain.ThemeLight {
		return t
	}
	return domain.ThemeDark
}

func clone(m map[Region][]string) map[Region][]string {
	out := make(map[Region][]string, len(m))
	for r, cls := range m {
		out[r] = append([]string(nil), cls...)
	}
	return out
}
