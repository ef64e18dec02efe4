package style

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Shade lightens (positive percent) or darkens (negative percent) a
// color in the perceptual HSLuv space, clamped to the valid range.
// Shading by 0 returns the color unchanged; +100/-100 saturate to
// white/black. Indexed and default colors are returned unchanged since
// there is no channel data to shade.
func Shade(c Color, percent float64) Color {
	if percent == 0 || c.Indexed || c.Default {
		return c
	}

	h, s, l := toColorful(c).HSLuv()
	l += percent / 100
	if l < 0 {
		l = 0
	} else if l > 1 {
		l = 1
	}

	return fromColorful(colorful.HSLuv(h, s, l).Clamped())
}

// IsBright reports whether a color reads as bright, using the HSLuv
// lightness channel. Bright backgrounds get smaller shade offsets so
// derived colors stay distinguishable.
func IsBright(c Color) bool {
	if c.Indexed || c.Default {
		return false
	}
	_, _, l := toColorful(c).HSLuv()
	return l > 0.5
}

// NotMatch guards a derived color against coinciding with a reference
// color (typically the background). If the two collide the derived
// color is re-shaded away from the reference by delta percent.
func NotMatch(derived, against Color, delta float64) Color {
	if !derived.Equals(against) {
		return derived
	}
	if IsBright(against) {
		return Shade(derived, -delta)
	}
	return Shade(derived, delta)
}

// toColorful converts a true color to go-colorful's representation.
func toColorful(c Color) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// fromColorful converts back to a true color.
func fromColorful(c colorful.Color) Color {
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}
}
