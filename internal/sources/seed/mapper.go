package seed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/engines"
)

// Seed is the mapped content of a seed file.
type Seed struct {
	Shortcuts       []domain.Shortcut
	Engines         *engines.Set // nil when the file has no engines
	PreferredEngine string
	Skipped         int
}

// Mapper converts a seed File to domain values.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts f. Entries without a usable URL or template are skipped and
// counted; a file that yields nothing at all is an error.
func (m *Mapper) Map(f File) (Seed, error) {
	var out Seed

	for _, group := range f.Shortcuts {
		for _, groupName := range sortedKeys(group) {
			for _, item := range group[groupName] {
				for _, name := range sortedKeys(item) {
					props := item[name]
					sc, err := domain.NewShortcut(name, props.Href, iconURL(props.Icon))
					if err != nil {
						out.Skipped++
						continue
					}
					out.Shortcuts = append(out.Shortcuts, sc)
				}
			}
		}
	}

	for _, group := range f.Bookmarks {
		for _, groupName := range sortedKeys(group) {
			for _, item := range group[groupName] {
				for _, name := range sortedKeys(item) {
					entries := item[name]
					// Each bookmark has a list with a single entry
					if len(entries) == 0 {
						out.Skipped++
						continue
					}
					entry := entries[0]
					sc, err := domain.NewShortcut(name, entry.Href, iconURL(entry.Icon))
					if err != nil {
						out.Skipped++
						continue
					}
					out.Shortcuts = append(out.Shortcuts, sc)
				}
			}
		}
	}

	if len(f.Engines) > 0 {
		set := &engines.Set{}
		for _, item := range f.Engines {
			for _, key := range sortedKeys(item) {
				props := item[key]
				key = strings.TrimSpace(key)
				e, err := domain.NewEngine(props.Name, props.URL)
				if key == "" || err != nil {
					out.Skipped++
					continue
				}
				set.Put(key, e)
			}
		}
		if set.Len() > 0 {
			out.Engines = set
			out.PreferredEngine = strings.TrimSpace(f.PreferredEngine)
			if _, ok := set.Get(out.PreferredEngine); !ok {
				out.PreferredEngine = set.Keys()[0]
			}
		}
	}

	if len(out.Shortcuts) == 0 && out.Engines == nil {
		return Seed{}, fmt.Errorf("no valid shortcuts or engines found in seed file")
	}
	return out, nil
}

// iconURL keeps explicit icon URLs. Homepage icon names such as
// "adguard-home.svg" only resolve inside Homepage and are dropped so the
// favicon resolver handles the tile.
func iconURL(icon string) string {
	icon = strings.TrimSpace(icon)
	if strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") || strings.HasPrefix(icon, "data:") {
		return icon
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
