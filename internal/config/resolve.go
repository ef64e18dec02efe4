package config

import (
	"github.com/dshills/buftab/internal/style"
)

// resolveHighlightRefs rewrites highlight attributes given as theme
// references into concrete hex colors. A reference has the form
//
//	{group = "Keyword", attribute = "fg"}
//
// and is resolved against the active theme at merge time. A malformed
// reference drops only that attribute, with a warning; the rest of the
// highlight group and all other groups are unaffected.
func (c *Config) resolveHighlightRefs(user map[string]any) {
	highlights, ok := user["highlights"].(map[string]any)
	if !ok {
		return
	}

	for name, raw := range highlights {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, attr := range []string{"fg", "bg", "sp"} {
			ref, ok := entry[attr].(map[string]any)
			if !ok {
				continue
			}

			color, ok := c.resolveRef(name, attr, ref)
			if !ok {
				delete(entry, attr)
				continue
			}
			entry[attr] = color.ToHex()
		}
	}
}

// resolveRef resolves one theme reference to a concrete color.
func (c *Config) resolveRef(name, attr string, ref map[string]any) (style.Color, bool) {
	group, ok := ref["group"].(string)
	if !ok || group == "" {
		c.warnings.Warnf("highlight %s.%s: reference is missing a group name, dropping attribute", name, attr)
		return style.Color{}, false
	}

	attribute, ok := ref["attribute"].(string)
	if !ok {
		c.warnings.Warnf("highlight %s.%s: reference %s is missing an attribute, dropping attribute", name, attr, group)
		return style.Color{}, false
	}

	s, found := c.theme.Lookup(group)
	if !found {
		c.warnings.Warnf("highlight %s.%s: theme does not define %s, dropping attribute", name, attr, group)
		return style.Color{}, false
	}

	var color style.Color
	switch attribute {
	case "fg":
		color = s.Foreground
	case "bg":
		color = s.Background
	case "sp":
		color = s.Underline
	default:
		c.warnings.Warnf("highlight %s.%s: unknown reference attribute %q, dropping attribute", name, attr, attribute)
		return style.Color{}, false
	}

	if color.IsDefault() {
		c.warnings.Warnf("highlight %s.%s: %s has no %s color, dropping attribute", name, attr, group, attribute)
		return style.Color{}, false
	}

	return color, true
}
