package palette

import (
	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/style"
)

// Basis holds the base theme colors the derivation starts from.
type Basis struct {
	Fg          style.Color // normal foreground
	Bg          style.Color // normal background
	CommentFg   style.Color // dimmed text
	StringFg    style.Color // modified indicator
	ErrorFg     style.Color
	WarningFg   style.Color
	InfoFg      style.Color
	HintFg      style.Color
	SelectionBg style.Color // indicator accent
}

// Fallback colors used when the theme defines nothing usable.
var (
	fallbackFg = style.ColorFromRGB(212, 212, 212)
	fallbackBg = style.ColorFromRGB(30, 30, 30)

	fallbackError   = style.ColorFromRGB(244, 71, 71)
	fallbackWarning = style.ColorFromRGB(255, 200, 80)
	fallbackInfo    = style.ColorFromRGB(80, 180, 255)
	fallbackHint    = style.ColorFromRGB(128, 128, 128)
)

// BasisFromTheme extracts the base colors from the active theme,
// walking each semantic group's fallback chain.
func BasisFromTheme(ts host.ThemeSource) Basis {
	fg := lookupFg(ts, fallbackFg, "Normal")
	bg := lookupBg(ts, fallbackBg, "Normal")

	return Basis{
		Fg:          fg,
		Bg:          bg,
		CommentFg:   lookupFg(ts, style.Shade(fg, -20), "Comment", "NonText"),
		StringFg:    lookupFg(ts, fg, "String", "Constant"),
		ErrorFg:     lookupFg(ts, fallbackError, "DiagnosticError", "ErrorMsg", "Error"),
		WarningFg:   lookupFg(ts, fallbackWarning, "DiagnosticWarn", "WarningMsg"),
		InfoFg:      lookupFg(ts, fallbackInfo, "DiagnosticInfo", "Directory"),
		HintFg:      lookupFg(ts, fallbackHint, "DiagnosticHint", "Comment"),
		SelectionBg: lookupBg(ts, style.Shade(bg, 30), "Visual", "TabLineSel", "PmenuSel"),
	}
}

// lookupFg resolves the first defined group's foreground.
func lookupFg(ts host.ThemeSource, fallback style.Color, names ...string) style.Color {
	if s, ok := ts.Lookup(names...); ok && !s.Foreground.IsDefault() {
		return s.Foreground
	}
	return fallback
}

// lookupBg resolves the first defined group's background.
func lookupBg(ts host.ThemeSource, fallback style.Color, names ...string) style.Color {
	if s, ok := ts.Lookup(names...); ok && !s.Background.IsDefault() {
		return s.Background
	}
	return fallback
}

// shadeOffsets are the fixed shade deltas applied to the background.
// Bright backgrounds get smaller offsets so derived shades stay inside
// the visible range.
type shadeOffsets struct {
	background float64 // unfocused tab background
	separator  float64 // fill and separator shade
	diagnostic float64 // dimmed diagnostic foregrounds
}

func offsetsFor(bg style.Color) shadeOffsets {
	if style.IsBright(bg) {
		return shadeOffsets{background: -7, separator: -12, diagnostic: -18}
	}
	return shadeOffsets{background: -18, separator: -32, diagnostic: -40}
}

// baseColors are the shaded variants every highlight group is built
// from. Roughly fifteen colors expand into the full group set.
type baseColors struct {
	fillBg     style.Color // tabline strip behind everything
	normalBg   style.Color // unfocused tab background
	visibleBg  style.Color // open-but-unfocused tab background
	selectedBg style.Color // focused tab background

	normalFg   style.Color
	visibleFg  style.Color
	selectedFg style.Color

	separatorFg style.Color
	duplicateFg style.Color
	modifiedFg  style.Color
	pickFg      style.Color
	indicatorFg style.Color

	errorDimFg   style.Color
	warningDimFg style.Color
	infoDimFg    style.Color
	hintDimFg    style.Color
}

// deriveBase computes the shaded base colors from the basis.
func deriveBase(b Basis) baseColors {
	off := offsetsFor(b.Bg)

	fillBg := style.NotMatch(style.Shade(b.Bg, off.separator), b.Bg, 3)
	normalBg := style.NotMatch(style.Shade(b.Bg, off.background), b.Bg, 3)

	return baseColors{
		fillBg:     fillBg,
		normalBg:   normalBg,
		visibleBg:  normalBg,
		selectedBg: b.Bg,

		normalFg:   b.CommentFg,
		visibleFg:  b.CommentFg,
		selectedFg: b.Fg,

		separatorFg: fillBg,
		duplicateFg: style.Shade(b.CommentFg, off.diagnostic/2),
		modifiedFg:  b.StringFg,
		pickFg:      b.ErrorFg,
		indicatorFg: style.NotMatch(b.SelectionBg, b.Bg, 10),

		errorDimFg:   style.Shade(b.ErrorFg, off.diagnostic),
		warningDimFg: style.Shade(b.WarningFg, off.diagnostic),
		infoDimFg:    style.Shade(b.InfoFg, off.diagnostic),
		hintDimFg:    style.Shade(b.HintFg, off.diagnostic),
	}
}

// Derive computes the complete palette for the active theme. The
// result depends only on the theme's base colors, so deriving twice
// under a stable theme yields identical palettes.
func Derive(ts host.ThemeSource) Palette {
	return DeriveFromBasis(BasisFromTheme(ts))
}

// DeriveFromBasis expands the base colors into the full group set:
// each UI element crossed with the normal/visible/selected states.
func DeriveFromBasis(b Basis) Palette {
	c := deriveBase(b)

	bgFor := func(s State) style.Color {
		switch s {
		case StateSelected:
			return c.selectedBg
		case StateVisible:
			return c.visibleBg
		default:
			return c.normalBg
		}
	}
	fgFor := func(s State) style.Color {
		switch s {
		case StateSelected:
			return c.selectedFg
		case StateVisible:
			return c.visibleFg
		default:
			return c.normalFg
		}
	}

	p := make(Palette, 48)

	// Tabline strip.
	p["fill"] = style.NewStyle(c.normalFg).WithBackground(c.fillBg)
	p["trunc_marker"] = style.NewStyle(c.normalFg).WithBackground(c.fillBg)

	// Per-state buffer elements.
	for _, s := range States {
		fg, bg := fgFor(s), bgFor(s)

		buffer := style.NewStyle(fg).WithBackground(bg)
		if s == StateSelected {
			buffer = buffer.Bold().Italic()
		}
		p[s.Key("buffer")] = buffer

		p[s.Key("number")] = style.NewStyle(fg).WithBackground(bg)
		p[s.Key("close_button")] = style.NewStyle(fg).WithBackground(bg)
		p[s.Key("separator")] = style.NewStyle(c.separatorFg).WithBackground(bg)
		p[s.Key("modified")] = style.NewStyle(c.modifiedFg).WithBackground(bg)
		p[s.Key("duplicate")] = style.NewStyle(c.duplicateFg).WithBackground(bg).Italic()
		p[s.Key("pick")] = style.NewStyle(c.pickFg).WithBackground(bg).Bold().Italic()

		p[s.Key("diagnostic_error")] = style.NewStyle(diagFg(c.errorDimFg, b.ErrorFg, s)).WithBackground(bg)
		p[s.Key("diagnostic_warning")] = style.NewStyle(diagFg(c.warningDimFg, b.WarningFg, s)).WithBackground(bg)
		p[s.Key("diagnostic_info")] = style.NewStyle(diagFg(c.infoDimFg, b.InfoFg, s)).WithBackground(bg)
		p[s.Key("diagnostic_hint")] = style.NewStyle(diagFg(c.hintDimFg, b.HintFg, s)).WithBackground(bg)
	}

	// The indicator only exists for tabs shown in a window.
	p["indicator_visible"] = style.NewStyle(c.indicatorFg).WithBackground(c.visibleBg)
	p["indicator_selected"] = style.NewStyle(c.indicatorFg).WithBackground(c.selectedBg)

	// Tab-page numbers (mode = "tabs").
	p["tab"] = style.NewStyle(c.normalFg).WithBackground(c.normalBg)
	p["tab_selected"] = style.NewStyle(c.indicatorFg).WithBackground(c.selectedBg)
	p["tab_close"] = style.NewStyle(c.normalFg).WithBackground(c.fillBg)

	// Group decoration markers.
	p["group_separator"] = style.NewStyle(c.separatorFg).WithBackground(c.fillBg)
	p["group_label"] = style.NewStyle(c.fillBg).WithBackground(c.normalFg)

	return p
}

// diagFg picks the dimmed variant for unfocused states and the full
// severity color for the selected tab.
func diagFg(dim, full style.Color, s State) style.Color {
	if s == StateSelected {
		return full
	}
	return dim
}
