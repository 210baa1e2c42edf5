// Package quotes holds the literary quote library behind "the poets" and the
// theme scoring that matches a seeker to a quote.
package quotes

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// UniversalTheme marks quotes that fit any seeker. They are the fallback pool
// when a request matches nothing.
const UniversalTheme = "present"

//go:embed quotes.yaml
var defaultLibrary string

// Entry is one quote.
type Entry struct {
	Text   string   `yaml:"text"`
	Author string   `yaml:"author"`
	Themes []string `yaml:"themes"`
}

// HasTheme reports whether the entry is tagged with theme.
func (e Entry) HasTheme(theme string) bool {
	for _, t := range e.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// Library is an immutable, ordered quote collection.
type Library struct {
	entries   []Entry
	universal []int
}

// NewLibrary validates entries and indexes the universal ones. Declaration
// order is kept; it decides ties during selection.
func NewLibrary(entries []Entry) (*Library, error) {
	lib := &Library{entries: make([]Entry, 0, len(entries))}
	for i, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			return nil, fmt.Errorf("quote %d: text is required", i)
		}
		if len(e.Themes) == 0 {
			return nil, fmt.Errorf("quote %d (%q): at least one theme is required", i, e.Text)
		}
		if e.HasTheme(UniversalTheme) {
			lib.universal = append(lib.universal, len(lib.entries))
		}
		lib.entries = append(lib.entries, e)
	}
	if len(lib.universal) == 0 {
		return nil, fmt.Errorf("quote library has no %q entries to fall back on", UniversalTheme)
	}
	return lib, nil
}

// Load reads a YAML document with a top-level "quotes" list.
func Load(r io.Reader) (*Library, error) {
	var doc struct {
		Quotes []Entry `yaml:"quotes"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode quote library: %w", err)
	}
	return NewLibrary(doc.Quotes)
}

// LoadDefault loads the bundled library.
func LoadDefault() (*Library, error) {
	return Load(strings.NewReader(defaultLibrary))
}

// Entries returns a copy of the library in declaration order.
func (l *Library) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of quotes.
func (l *Library) Len() int {
	return len(l.entries)
}
