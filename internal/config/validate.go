package config

import (
	"sort"
	"strings"

	"github.com/dshills/buftab/internal/palette"
)

// validateHighlights warns about user highlight-group keys that do not
// exist in the derived palette. The comparison is case-sensitive and
// every unknown key is reported in a single aggregated warning. Unknown
// keys are not removed; they are simply never read.
func (c *Config) validateHighlights(user map[string]any, pal palette.Palette) {
	highlights, ok := user["highlights"].(map[string]any)
	if !ok {
		return
	}

	var unknown []string
	for key := range highlights {
		if !pal.Has(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return
	}

	sort.Strings(unknown)
	c.warnings.Warnf("unknown highlight groups in configuration: %s", strings.Join(unknown, ", "))
}
