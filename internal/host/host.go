// Package host defines the capability surface the embedding editor
// supplies to the tabline engine. The engine never reaches for ambient
// editor globals; everything it needs from the host arrives through
// these interfaces so tests can substitute fakes.
package host

import (
	"github.com/dshills/buftab/internal/style"
)

// BufferID identifies an open buffer within the host.
type BufferID int

// Buffer is the host's view of one open document, displayed as one tab.
type Buffer struct {
	// ID is the host-assigned buffer handle.
	ID BufferID

	// Name is the display name (usually the file base name).
	Name string

	// Path is the full file path (empty for scratch buffers).
	Path string

	// Modified indicates unsaved changes.
	Modified bool

	// Diagnostics holds per-severity diagnostic counts for the buffer.
	Diagnostics map[Severity]int
}

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Severities lists all severities in display order.
var Severities = []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityHint}

// ThemeSource resolves semantic highlight-group names from the active
// color theme. Lookup tries each name in order and returns the first
// group the theme defines, so callers can express fallback chains
// ("TabLineSel", "Normal").
type ThemeSource interface {
	// Name identifies the active theme.
	Name() string

	// Lookup returns the style for the first defined group name.
	Lookup(names ...string) (style.Style, bool)
}

// Registrar receives the derived highlight groups. The host is expected
// to (re-)register each named group with its rendering system.
type Registrar interface {
	Register(name string, s style.Style)
}

// Notifier is the host's user-facing warning channel. Delivery order
// relative to other host output is not guaranteed; the engine defers
// warnings until the current operation finishes.
type Notifier interface {
	Warn(msg string)
}

// BufferSource queries the host's buffer model.
type BufferSource interface {
	// Buffers returns all listed buffers in tab order.
	Buffers() []Buffer

	// Current returns the focused buffer's ID.
	Current() BufferID

	// Visible returns the IDs of buffers shown in a window but not
	// focused.
	Visible() []BufferID
}

// StaticTheme is a map-backed ThemeSource. Hosts with a fixed highlight
// table (and tests) can use it directly.
type StaticTheme struct {
	// ThemeName is the display name reported by Name.
	ThemeName string

	// Groups maps highlight-group name to its style.
	Groups map[string]style.Style
}

// Name returns the theme name.
func (t *StaticTheme) Name() string { return t.ThemeName }

// Lookup returns the style for the first defined group name.
func (t *StaticTheme) Lookup(names ...string) (style.Style, bool) {
	for _, name := range names {
		if s, ok := t.Groups[name]; ok {
			return s, true
		}
	}
	return style.Style{}, false
}
