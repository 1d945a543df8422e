package devicetag

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Table resolves an ingress interface name to a Tag by matching it against
// a configured list of glob patterns, first match wins. Interfaces that
// match nothing resolve to Null.
type Table struct {
	entries []tableEntry
}

type tableEntry struct {
	pattern glob.Glob
	tag     Tag
}

// Rule is one configured pattern -> tag association, as loaded from YAML.
type Rule struct {
	Pattern string `yaml:"pattern"`
}

// NewTable compiles rules into a Table, assigning each a freshly allocated
// Tag in order. Returns an error if any pattern fails to compile.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{entries: make([]tableEntry, 0, len(rules))}
	for _, r := range rules {
		g, err := glob.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("devicetag: compiling pattern %q: %w", r.Pattern, err)
		}
		t.entries = append(t.entries, tableEntry{pattern: g, tag: New()})
	}
	return t, nil
}

// Resolve returns the Tag for the first pattern matching ifaceName, or Null
// if none match.
func (t *Table) Resolve(ifaceName string) Tag {
	for _, e := range t.entries {
		if e.pattern.Match(ifaceName) {
			return e.tag
		}
	}
	return Null
}
