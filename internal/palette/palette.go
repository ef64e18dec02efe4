// Package palette derives the full tabline highlight set from a small
// number of base theme colors via fixed shading rules, and converts
// between the style representation and the configuration tree form.
package palette

import (
	"sort"

	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/style"
)

// State is the visual state of a tab.
type State int

const (
	// StateNormal is a background tab: open, not shown in any window.
	StateNormal State = iota

	// StateVisible is a tab open in a window but not focused.
	StateVisible

	// StateSelected is the focused tab.
	StateSelected
)

// States lists all states in derivation order.
var States = []State{StateNormal, StateVisible, StateSelected}

// Suffix returns the highlight-group name suffix for the state.
func (s State) Suffix() string {
	switch s {
	case StateVisible:
		return "_visible"
	case StateSelected:
		return "_selected"
	default:
		return ""
	}
}

// Key returns the highlight-group name for an element in this state.
func (s State) Key(element string) string {
	return element + s.Suffix()
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateVisible:
		return "visible"
	case StateSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// Palette maps highlight-group name to its style.
type Palette map[string]style.Style

// Keys returns all group names in sorted order.
func (p Palette) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has returns true if the palette defines the named group.
func (p Palette) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Clone returns a copy of the palette.
func (p Palette) Clone() Palette {
	c := make(Palette, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Register registers every group with the host, in sorted order so
// hosts that log registrations see a stable sequence.
func (p Palette) Register(reg host.Registrar) {
	for _, name := range p.Keys() {
		reg.Register(name, p[name])
	}
}

// Tree converts the palette to its configuration-tree form, suitable
// for installing as the palette layer. Colors become hex strings;
// attribute flags become booleans. Unset (default) colors are omitted.
func (p Palette) Tree() map[string]any {
	highlights := make(map[string]any, len(p))
	for name, s := range p {
		highlights[name] = styleToTree(s)
	}
	return map[string]any{"highlights": highlights}
}

// styleToTree converts one style to its tree form.
func styleToTree(s style.Style) map[string]any {
	entry := make(map[string]any, 4)
	if !s.Foreground.IsDefault() {
		entry["fg"] = s.Foreground.ToHex()
	}
	if !s.Background.IsDefault() {
		entry["bg"] = s.Background.ToHex()
	}
	if !s.Underline.IsDefault() {
		entry["sp"] = s.Underline.ToHex()
	}
	for flag, key := range attrKeys {
		if s.Attributes.Has(flag) {
			entry[key] = true
		}
	}
	return entry
}

// attrKeys maps attribute flags to their tree keys.
var attrKeys = map[style.Attribute]string{
	style.AttrBold:          "bold",
	style.AttrDim:           "dim",
	style.AttrItalic:        "italic",
	style.AttrUnderline:     "underline",
	style.AttrStrikethrough: "strikethrough",
	style.AttrReverse:       "reverse",
}

// FromTree rebuilds a palette from the merged "highlights" subtree.
// Attributes that fail to parse are dropped via the warn callback; the
// rest of the group and all other groups are unaffected.
func FromTree(highlights map[string]any, warn func(msg string)) Palette {
	p := make(Palette, len(highlights))
	for name, raw := range highlights {
		entry, ok := raw.(map[string]any)
		if !ok {
			if warn != nil {
				warn("highlight group " + name + " is not a table, ignoring")
			}
			continue
		}
		p[name] = styleFromTree(name, entry, warn)
	}
	return p
}

// styleFromTree parses one tree entry back into a style.
func styleFromTree(name string, entry map[string]any, warn func(msg string)) style.Style {
	s := style.DefaultStyle()

	if c, ok := parseColorKey(name, entry, "fg", warn); ok {
		s.Foreground = c
	}
	if c, ok := parseColorKey(name, entry, "bg", warn); ok {
		s.Background = c
	}
	if c, ok := parseColorKey(name, entry, "sp", warn); ok {
		s.Underline = c
	}

	for flag, key := range attrKeys {
		v, present := entry[key]
		if !present {
			continue
		}
		if b, ok := v.(bool); ok {
			if b {
				s.Attributes = s.Attributes.With(flag)
			}
			continue
		}
		if warn != nil {
			warn("highlight " + name + "." + key + " is not a boolean, dropping attribute")
		}
	}

	return s
}

// parseColorKey parses one color attribute, warning and dropping it on
// malformed input.
func parseColorKey(name string, entry map[string]any, key string, warn func(msg string)) (style.Color, bool) {
	v, present := entry[key]
	if !present {
		return style.Color{}, false
	}

	hex, ok := v.(string)
	if !ok {
		if warn != nil {
			warn("highlight " + name + "." + key + " is not a color string, dropping attribute")
		}
		return style.Color{}, false
	}

	c, err := style.ColorFromHex(hex)
	if err != nil {
		if warn != nil {
			warn("highlight " + name + "." + key + " has invalid color " + hex + ", dropping attribute")
		}
		return style.Color{}, false
	}

	return c, true
}
