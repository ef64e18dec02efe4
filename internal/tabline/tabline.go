// Package tabline composes the rendered tab sequence: one decorated
// component per buffer, spliced with group boundary markers, each
// measured so the host can do fixed-width layout.
package tabline

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/dshills/buftab/internal/config"
	"github.com/dshills/buftab/internal/group"
	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/palette"
)

// Kind classifies a rendered component.
type Kind int

const (
	// KindTab is a buffer tab.
	KindTab Kind = iota

	// KindMarker is a group boundary marker.
	KindMarker

	// KindSeparator is the divider between tabs.
	KindSeparator
)

// Component is one fixed-width cell run in the rendered tabline.
type Component struct {
	// Kind classifies the component.
	Kind Kind

	// BufferID is the tab's buffer (zero for markers and separators).
	BufferID host.BufferID

	// Text is the displayed content.
	Text string

	// Width is the display cell width of Text.
	Width int

	// Highlight is the palette key to render with.
	Highlight string
}

// Renderer builds the component sequence from the current
// configuration, group set, and buffer state.
type Renderer struct {
	cfg    *config.Config
	groups *group.Set
}

// New creates a renderer. The group set may be nil.
func New(cfg *config.Config, groups *group.Set) *Renderer {
	return &Renderer{cfg: cfg, groups: groups}
}

// separators per separator_style option.
var separatorStyles = map[string]string{
	"thin":  "▏",
	"thick": "▐",
	"slant": "",
	"none":  "",
}

// Render produces the full component sequence for the host's buffers.
func (r *Renderer) Render(src host.BufferSource) []Component {
	bufs := r.sorted(src.Buffers())
	current := src.Current()
	visible := make(map[host.BufferID]bool, 4)
	for _, id := range src.Visible() {
		visible[id] = true
	}

	membership := r.groups.Partition(bufs)
	pal := r.groups.ApplyHighlights(r.cfg.Palette())
	markers := membership.Markers()
	duplicates := duplicateNames(bufs)

	var out []Component
	for _, bucket := range membership.Buckets() {
		members := membership.Members(bucket)
		if len(members) == 0 {
			continue
		}

		if lead, ok := findMarker(markers, bucket, group.Leading); ok {
			out = append(out, markerComponent(lead))
		}

		for i, b := range members {
			st := stateFor(b.ID, current, visible)
			out = append(out, r.tab(b, st, bucket, pal, duplicates, i)...)
		}

		if trail, ok := findMarker(markers, bucket, group.Trailing); ok {
			out = append(out, markerComponent(trail))
		}
	}

	return out
}

// sorted orders buffers per the sort_by option, stably so ties keep
// tab order.
func (r *Renderer) sorted(bufs []host.Buffer) []host.Buffer {
	out := make([]host.Buffer, len(bufs))
	copy(out, bufs)

	switch r.cfg.GetString("options.sort_by", "id") {
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case "directory":
		sort.SliceStable(out, func(i, j int) bool {
			return filepath.Dir(out[i].Path) < filepath.Dir(out[j].Path)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out
}

// stateFor resolves a buffer's visual state.
func stateFor(id, current host.BufferID, visible map[host.BufferID]bool) palette.State {
	switch {
	case id == current:
		return palette.StateSelected
	case visible[id]:
		return palette.StateVisible
	default:
		return palette.StateNormal
	}
}

// tab builds the components for one buffer: indicator, label, status
// icon, then the trailing separator.
func (r *Renderer) tab(b host.Buffer, st palette.State, bucket string, pal palette.Palette, duplicates map[string]int, ordinal int) []Component {
	var parts []string

	if st != palette.StateNormal && r.cfg.GetBool("options.show_tab_indicators", true) {
		parts = append(parts, r.cfg.GetString("options.indicator.icon", "▎"))
	}

	switch r.cfg.GetString("options.numbers", "none") {
	case "ordinal":
		parts = append(parts, fmt.Sprintf("%d.", ordinal+1))
	case "buffer_id":
		parts = append(parts, fmt.Sprintf("%d.", b.ID))
	case "both":
		parts = append(parts, fmt.Sprintf("%d|%d.", ordinal+1, b.ID))
	}

	name := b.Name
	if duplicates[b.Name] > 1 && b.Path != "" {
		name = filepath.Base(filepath.Dir(b.Path)) + "/" + name
	}
	parts = append(parts, truncate(name, r.cfg.GetInt("options.max_name_length", 18)))

	switch {
	case b.Modified:
		parts = append(parts, r.cfg.GetString("options.modified_icon", "●"))
	case r.cfg.GetBool("options.show_buffer_close_icons", true):
		parts = append(parts, r.cfg.GetString("options.buffer_close_icon", "✗"))
	}

	text := " " + strings.Join(parts, " ") + " "
	highlight := group.HighlightFor(pal, bucket, st)

	out := []Component{{
		Kind:      KindTab,
		BufferID:  b.ID,
		Text:      text,
		Width:     runewidth.StringWidth(text),
		Highlight: highlight,
	}}

	out = append(out, r.diagnostics(b, st)...)

	if sep := separatorStyles[r.cfg.GetString("options.separator_style", "thin")]; sep != "" {
		out = append(out, Component{
			Kind:      KindSeparator,
			Text:      sep,
			Width:     runewidth.StringWidth(sep),
			Highlight: st.Key("separator"),
		})
	}

	return out
}

// diagnostics appends one component per severity with a nonzero count,
// when diagnostics display is enabled.
func (r *Renderer) diagnostics(b host.Buffer, st palette.State) []Component {
	if !r.cfg.GetBool("options.diagnostics", false) || len(b.Diagnostics) == 0 {
		return nil
	}

	var out []Component
	for _, sev := range host.Severities {
		count := b.Diagnostics[sev]
		if count == 0 {
			continue
		}
		text := fmt.Sprintf("%d ", count)
		out = append(out, Component{
			Kind:      KindTab,
			BufferID:  b.ID,
			Text:      text,
			Width:     runewidth.StringWidth(text),
			Highlight: st.Key("diagnostic_" + sev.String()),
		})
	}
	return out
}

// truncate shortens a name to max display cells, appending an ellipsis
// when cut. Width-aware so wide glyphs count correctly.
func truncate(name string, max int) string {
	if max <= 0 || runewidth.StringWidth(name) <= max {
		return name
	}
	return runewidth.Truncate(name, max, "…")
}

// duplicateNames counts how many buffers share each display name.
func duplicateNames(bufs []host.Buffer) map[string]int {
	counts := make(map[string]int, len(bufs))
	for _, b := range bufs {
		counts[b.Name]++
	}
	return counts
}

// findMarker locates a bucket's marker for a position.
func findMarker(markers []group.Marker, bucket string, pos group.MarkerPosition) (group.Marker, bool) {
	for _, m := range markers {
		if m.Group == bucket && m.Position == pos {
			return m, true
		}
	}
	return group.Marker{}, false
}

// markerComponent converts a group marker to a rendered component.
func markerComponent(m group.Marker) Component {
	return Component{
		Kind:      KindMarker,
		Text:      m.Text,
		Width:     m.Width,
		Highlight: m.Highlight,
	}
}
