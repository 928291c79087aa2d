package seed

// File is the top-level structure of the seed yaml.
//
//	shortcuts:
//	  - Daily:
//	      - GitHub:
//	          href: https://github.com
//	bookmarks:
//	  - Reading:
//	      - Go blog:
//	          - href: https://go.dev/blog
//	engines:
//	  - google:
//	      name: Google
//	      url: https://www.google.com/search?q=%s
//	preferredEngine: google
//
// A bare Homepage services.yaml (a top-level list of groups) is accepted
// as well and read as the shortcuts section.
type File struct {
	Shortcuts       Groups                   `yaml:"shortcuts,omitempty"`
	Bookmarks       BookmarkGroups           `yaml:"bookmarks,omitempty"`
	Engines         []map[string]EngineProps `yaml:"engines,omitempty"`
	PreferredEngine string                   `yaml:"preferredEngine,omitempty"`
}

// Groups uses the Homepage services layout: a list of named groups, each a
// list of single-key maps from tile name to its properties.
type Groups []map[string][]map[string]ShortcutProps

// ShortcutProps are the properties of one tile. Homepage-only keys such as
// description or widget are ignored.
type ShortcutProps struct {
	Href string `yaml:"href"`
	Icon string `yaml:"icon,omitempty"`
}

// BookmarkGroups uses the Homepage bookmarks layout, where each bookmark
// name maps to a list holding a single entry.
type BookmarkGroups []map[string][]map[string][]BookmarkEntry

// BookmarkEntry is a single bookmark.
type BookmarkEntry struct {
	Icon string `yaml:"icon,omitempty"`
	Abbr string `yaml:"abbr,omitempty"`
	Href string `yaml:"href"`
}

// EngineProps describes one search engine.
type EngineProps struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
