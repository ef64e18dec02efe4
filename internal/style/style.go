// Package style provides the color and style primitives shared by the
// palette, grouping, and rendering subsystems.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrStrikethrough           // Strikethrough text
	AttrReverse                 // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Color represents a color value.
// Supports true color (RGB) and terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack = Color{R: 0, G: 0, B: 0}
	ColorWhite = Color{R: 255, G: 255, B: 255}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Indexed: false}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex creates a color from a hex string ("#rgb" or "#rrggbb").
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	var r, g, b uint64
	var err error

	switch len(hex) {
	case 3:
		r, err = strconv.ParseUint(string(hex[0])+string(hex[0]), 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
		g, err = strconv.ParseUint(string(hex[1])+string(hex[1]), 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
		b, err = strconv.ParseUint(string(hex[2])+string(hex[2]), 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
	case 6:
		r, err = strconv.ParseUint(hex[0:2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
		g, err = strconv.ParseUint(hex[2:4], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
		b, err = strconv.ParseUint(hex[4:6], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	return Color{R: uint8(r), G: uint8(g), B: uint8(b), Indexed: false}, nil
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.IsDefault() {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ToHex returns the hex representation of a true color.
func (c Color) ToHex() string {
	if c.Indexed || c.Default {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Style represents the visual style of one highlight group.
type Style struct {
	Foreground Color
	Background Color
	// Underline is the underline color (used when AttrUnderline is set).
	Underline  Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
		Underline:  ColorDefault,
		Attributes: AttrNone,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
		Underline:  ColorDefault,
		Attributes: AttrNone,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithUnderlineColor returns a new style with the given underline color.
func (s Style) WithUnderlineColor(c Color) Style {
	s.Underline = c
	return s
}

// WithAttributes returns a new style with the given attributes.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes = attrs
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a new style with dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underlined returns a new style with underline attribute added.
func (s Style) Underlined() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Overlay merges overlay onto s, keeping s wherever overlay holds the
// default color and OR-ing attribute flags. This is how group highlight
// overrides are applied on top of the base buffer-state style.
func (s Style) Overlay(overlay Style) Style {
	result := s
	if !overlay.Foreground.IsDefault() {
		result.Foreground = overlay.Foreground
	}
	if !overlay.Background.IsDefault() {
		result.Background = overlay.Background
	}
	if !overlay.Underline.IsDefault() {
		result.Underline = overlay.Underline
	}
	result.Attributes |= overlay.Attributes
	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Underline.Equals(other.Underline) &&
		s.Attributes == other.Attributes
}
