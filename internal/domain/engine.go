package domain

import (
	"fmt"
	"strings"
)

// QueryPlaceholder is replaced by the escaped query in an engine template.
const QueryPlaceholder = "%s"

// Engine is a named search URL template.
type Engine struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewEngine trims and validates an engine definition.
func NewEngine(name, template string) (Engine, error) {
	name = strings.TrimSpace(name)
	template = strings.TrimSpace(template)
	if name == "" {
		return Engine{}, fmt.Errorf("%w: engine name is required", ErrValidation)
	}
	if template == "" {
		return Engine{}, fmt.Errorf("%w: engine url is required", ErrValidation)
	}
	if !strings.Contains(template, QueryPlaceholder) {
		return Engine{}, fmt.Errorf("%w: engine url must contain %s", ErrValidation, QueryPlaceholder)
	}
	return Engine{Name: name, URL: template}, nil
}

// Expand substitutes the escaped query into the template.
func (e Engine) Expand(query string) string {
	return ExpandTemplate(e.URL, query)
}

// ExpandTemplate replaces every placeholder in template with the
// component-escaped query.
// Example: ("https://www.bing.com/search?q=%s", "a b") -> "https://www.bing.com/search?q=a%20b"
func ExpandTemplate(template, query string) string {
	return strings.ReplaceAll(template, QueryPlaceholder, EscapeComponent(query))
}

// EscapeComponent percent-encodes s the way browsers encode a URI
// component: everything except ALPHA / DIGIT / "-_.!~*'()" is escaped,
// and a space becomes %20 rather than "+".
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
