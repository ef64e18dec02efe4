// Package layer provides the configuration layer stack for buftab.
//
// Three layers exist with fixed precedence: built-in defaults, the
// palette derived from the active theme, and user overrides. Higher
// priority layers override values from lower priority layers during
// merging.
package layer

// Layer represents a single configuration layer.
type Layer struct {
	// Name identifies the layer ("defaults", "palette", "user").
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer came from.
	Source Source

	// Data holds the configuration values as a nested map.
	Data map[string]any
}

// NewLayer creates a new configuration layer.
func NewLayer(source Source, data map[string]any) *Layer {
	return &Layer{
		Name:     source.String(),
		Source:   source,
		Priority: DefaultPriority(source),
		Data:     data,
	}
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Name:     l.Name,
		Priority: l.Priority,
		Source:   l.Source,
		Data:     cloneMap(l.Data),
	}
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceDefaults represents built-in default configuration.
	SourceDefaults Source = iota
	// SourcePalette represents the theme-derived highlight palette.
	SourcePalette
	// SourceUser represents user-supplied overrides.
	SourceUser
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourcePalette:
		return "palette"
	case SourceUser:
		return "user"
	default:
		return "unknown"
	}
}

// Standard priority levels for configuration layers.
// Higher values override lower values during merging.
const (
	// PriorityDefaults is the lowest priority, for built-in defaults.
	PriorityDefaults = 0

	// PriorityPalette is for the theme-derived palette.
	PriorityPalette = 100

	// PriorityUser is the highest priority, for user overrides.
	PriorityUser = 200
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceDefaults:
		return PriorityDefaults
	case SourcePalette:
		return PriorityPalette
	case SourceUser:
		return PriorityUser
	default:
		return PriorityDefaults
	}
}

// cloneMap creates a deep copy of a map.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for key, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[key] = cloneMap(v)
		case []any:
			dst[key] = cloneSlice(v)
		default:
			dst[key] = val
		}
	}

	return dst
}

// cloneSlice creates a deep copy of a slice.
func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))
	for i, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[i] = cloneMap(v)
		case []any:
			dst[i] = cloneSlice(v)
		default:
			dst[i] = val
		}
	}

	return dst
}

// Clone returns a deep copy of a configuration tree.
func Clone(data map[string]any) map[string]any {
	return cloneMap(data)
}
