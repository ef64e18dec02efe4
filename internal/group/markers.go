package group

import (
	runewidth "github.com/mattn/go-runewidth"
)

// MarkerPosition says which side of a bucket a marker sits on.
type MarkerPosition int

const (
	// Leading markers precede the bucket's first tab.
	Leading MarkerPosition = iota

	// Trailing markers follow the bucket's last tab.
	Trailing
)

// Marker is a decorative boundary component spliced into the rendered
// tab sequence around a bucket's tabs.
type Marker struct {
	// Group names the bucket this marker belongs to.
	Group string

	// Position is the marker's side.
	Position MarkerPosition

	// Text is the displayed content.
	Text string

	// Width is the display cell width of Text, so the renderer can do
	// fixed-width layout.
	Width int

	// Highlight is the palette key to render the marker with.
	Highlight string
}

// Marker glyphs.
const (
	markerBracket = "▍"
	markerSpacer  = " "
)

// Markers synthesizes the boundary markers for every non-ungrouped
// bucket with members: a leading bracket-plus-label component and a
// trailing spacer, in bucket display order. An all-ungrouped partition
// produces no markers.
func (m *Membership) Markers() []Marker {
	var markers []Marker

	for _, name := range m.order {
		if name == Ungrouped || len(m.buckets[name]) == 0 {
			continue
		}

		label := markerBracket + " " + m.labelFor(name) + " "
		markers = append(markers,
			Marker{
				Group:     name,
				Position:  Leading,
				Text:      label,
				Width:     runewidth.StringWidth(label),
				Highlight: "group_label",
			},
			Marker{
				Group:     name,
				Position:  Trailing,
				Text:      markerSpacer,
				Width:     runewidth.StringWidth(markerSpacer),
				Highlight: "group_separator",
			},
		)
	}

	return markers
}

// labelFor builds the display label for a bucket, including the
// group's icon when declared.
func (m *Membership) labelFor(name string) string {
	if m.set != nil {
		for _, g := range m.set.groups {
			if g.Name == name && g.Icon != "" {
				return g.Icon + " " + name
			}
		}
	}
	return name
}
