package group

import (
	"github.com/dshills/buftab/internal/palette"
)

// groupKey returns the palette key for a group's tabs in a state.
func groupKey(name string, s palette.State) string {
	return s.Key("group_" + name)
}

// ApplyHighlights derives the per-group palette entries. For every
// declared group with a highlight override, three entries are added
// (normal/visible/selected) by overlaying the override onto the base
// buffer style of that state, so group-colored tabs keep the ambient
// background of their visual state. Groups without an override add
// nothing.
func (s *Set) ApplyHighlights(pal palette.Palette) palette.Palette {
	out := pal.Clone()
	if s == nil {
		return out
	}

	for _, g := range s.groups {
		if g.Highlight == nil {
			continue
		}
		for _, st := range palette.States {
			base := pal[st.Key("buffer")]
			out[groupKey(g.Name, st)] = base.Overlay(*g.Highlight)
		}
	}
	return out
}

// HighlightFor resolves the palette key for a buffer at render time:
// the group-scoped entry for its bucket and state when one exists,
// otherwise the default buffer entry for the state.
func HighlightFor(pal palette.Palette, bucket string, st palette.State) string {
	if bucket != Ungrouped {
		if key := groupKey(bucket, st); pal.Has(key) {
			return key
		}
	}
	return st.Key("buffer")
}
