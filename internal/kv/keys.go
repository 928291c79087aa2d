package kv

import "strings"

// Logical keys of the persisted state.
const (
	KeyShortcuts       = "shortcuts"
	KeyEngines         = "engines"
	KeyPreferredEngine = "preferredEngine"
	KeyGridCols        = "gridCols"
	KeyGridSize        = "gridSize"
	KeyScale           = "scale"
	KeyColorMode       = "colorMode"
	KeyCustomBg        = "customBg"
	KeyThemeInfo       = "backgroundThemeInfo"

	// KeyPrefixFavicon is the reserved prefix of favicon cache entries.
	KeyPrefixFavicon = "favicon_"
)

// FaviconKey returns the cache key of hostname's favicon.
func FaviconKey(hostname string) string {
	return KeyPrefixFavicon + hostname
}

// IsFaviconKey reports whether key belongs to the favicon cache.
func IsFaviconKey(key string) bool {
	return strings.HasPrefix(key, KeyPrefixFavicon) && len(key) > len(KeyPrefixFavicon)
}

// FaviconHost extracts the hostname from a favicon cache key.
func FaviconHost(key string) (string, bool) {
	if !IsFaviconKey(key) {
		return "", false
	}
	return key[len(KeyPrefixFavicon):], true
}
