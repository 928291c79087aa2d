package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Noyllopa/LiquidNewtab/internal/imaging"
)

// MaxIconBytes caps the decoded payload of a data URL icon.
const MaxIconBytes = 500 << 10

// Shortcut is a user-defined tile linking to a URL.
//
// Identity is positional: a shortcut is addressed by its index in the
// collection and has no stable id.
type Shortcut struct {
	Name string `json:"name"`
	URL  string `json:"url"`

	// Icon is an explicit, user supplied icon source (URL or data URL).
	// When empty the icon is resolved at render time and never persisted here.
	Icon string `json:"icon,omitempty"`
}

// DefaultShortcuts is the collection used when nothing has been stored yet.
func DefaultShortcuts() []Shortcut {
	return []Shortcut{
		{Name: "Google", URL: "https://google.com"},
		{Name: "Bilibili", URL: "https://bilibili.com"},
		{Name: "GitHub", URL: "https://github.com"},
		{Name: "Unsplash", URL: "https://unsplash.com"},
	}
}

// NewShortcut trims and validates user input and normalizes the URL.
func NewShortcut(name, rawURL, icon string) (Shortcut, error) {
	name = strings.TrimSpace(name)
	rawURL = strings.TrimSpace(rawURL)
	if name == "" {
		return Shortcut{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if rawURL == "" {
		return Shortcut{}, fmt.Errorf("%w: url is required", ErrValidation)
	}

	normalized := NormalizeURL(rawURL)
	if _, err := Hostname(normalized); err != nil {
		return Shortcut{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	icon = strings.TrimSpace(icon)
	if err := validateIcon(icon); err != nil {
		return Shortcut{}, err
	}

	return Shortcut{
		Name: name,
		URL:  normalized,
		Icon: icon,
	}, nil
}

// validateIcon accepts plain icon URLs as-is. Data URLs must carry a
// base64 image of at most MaxIconBytes.
func validateIcon(icon string) error {
	if !strings.HasPrefix(icon, "data:") {
		return nil
	}
	mediaType, data, err := imaging.ParseDataURL(icon)
	if err != nil {
		return fmt.Errorf("%w: icon: %v", ErrValidation, err)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: icon: unsupported media type %q", ErrValidation, mediaType)
	}
	if len(data) > MaxIconBytes {
		return fmt.Errorf("%w: icon: %d bytes exceeds %d", ErrValidation, len(data), MaxIconBytes)
	}
	return nil
}

// NormalizeURL makes sure u carries a scheme, defaulting to https.
// Example: "github.com" -> "https://github.com"
func NormalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// Hostname returns the lower-cased host of u (normalized first).
func Hostname(u string) (string, error) {
	parsed, err := url.Parse(NormalizeURL(u))
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", u, err)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", u)
	}
	return host, nil
}

// SameHost reports whether a and b resolve to the same hostname.
// Unparseable URLs never match.
func SameHost(a, b string) bool {
	ha, errA := Hostname(a)
	hb, errB := Hostname(b)
	return errA == nil && errB == nil && ha == hb
}
