package palette

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/style"
)

func testTheme() *host.StaticTheme {
	return &host.StaticTheme{
		ThemeName: "test-dark",
		Groups: map[string]style.Style{
			"Normal":          style.NewStyle(style.ColorFromRGB(212, 212, 212)).WithBackground(style.ColorFromRGB(30, 30, 30)),
			"Comment":         style.NewStyle(style.ColorFromRGB(106, 153, 85)),
			"String":          style.NewStyle(style.ColorFromRGB(206, 145, 120)),
			"DiagnosticError": style.NewStyle(style.ColorFromRGB(244, 71, 71)),
			"Visual":          style.DefaultStyle().WithBackground(style.ColorFromRGB(64, 64, 128)),
		},
	}
}

func TestStateKey(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateNormal, "buffer"},
		{StateVisible, "buffer_visible"},
		{StateSelected, "buffer_selected"},
	}
	for _, tt := range tests {
		if got := tt.state.Key("buffer"); got != tt.want {
			t.Errorf("State(%v).Key(buffer) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestDeriveDeterministic(t *testing.T) {
	theme := testTheme()
	first := Derive(theme)
	second := Derive(theme)
	if !reflect.DeepEqual(first, second) {
		t.Error("deriving twice under a stable theme produced different palettes")
	}
}

func TestDeriveGroupCoverage(t *testing.T) {
	p := Derive(testTheme())

	// Every per-state element must exist in all three states.
	elements := []string{
		"buffer", "number", "close_button", "separator", "modified",
		"duplicate", "pick",
		"diagnostic_error", "diagnostic_warning", "diagnostic_info", "diagnostic_hint",
	}
	for _, el := range elements {
		for _, s := range States {
			if !p.Has(s.Key(el)) {
				t.Errorf("palette missing %q", s.Key(el))
			}
		}
	}

	for _, name := range []string{
		"fill", "trunc_marker",
		"indicator_visible", "indicator_selected",
		"tab", "tab_selected", "tab_close",
		"group_separator", "group_label",
	} {
		if !p.Has(name) {
			t.Errorf("palette missing %q", name)
		}
	}
}

func TestDeriveContrast(t *testing.T) {
	p := Derive(testTheme())
	bg := style.ColorFromRGB(30, 30, 30)

	t.Run("unfocused background differs from editor background", func(t *testing.T) {
		if p["buffer"].Background.Equals(bg) {
			t.Error("normal tab background matches editor background")
		}
	})

	t.Run("selected tab keeps editor background", func(t *testing.T) {
		if !p["buffer_selected"].Background.Equals(bg) {
			t.Errorf("selected background = %v, want %v", p["buffer_selected"].Background, bg)
		}
	})

	t.Run("selected tab is bold italic", func(t *testing.T) {
		attrs := p["buffer_selected"].Attributes
		if !attrs.Has(style.AttrBold) || !attrs.Has(style.AttrItalic) {
			t.Errorf("selected attributes = %v", attrs)
		}
	})

	t.Run("selected diagnostic uses full severity color", func(t *testing.T) {
		want := style.ColorFromRGB(244, 71, 71)
		if !p["diagnostic_error_selected"].Foreground.Equals(want) {
			t.Errorf("diagnostic_error_selected fg = %v, want %v", p["diagnostic_error_selected"].Foreground, want)
		}
		if p["diagnostic_error"].Foreground.Equals(want) {
			t.Error("unfocused diagnostic should be dimmed, got full severity color")
		}
	})
}

func TestBasisFromThemeFallbacks(t *testing.T) {
	t.Run("empty theme uses builtin fallbacks", func(t *testing.T) {
		b := BasisFromTheme(&host.StaticTheme{ThemeName: "empty"})
		if !b.Fg.Equals(fallbackFg) {
			t.Errorf("Fg = %v, want fallback %v", b.Fg, fallbackFg)
		}
		if !b.Bg.Equals(fallbackBg) {
			t.Errorf("Bg = %v, want fallback %v", b.Bg, fallbackBg)
		}
		if !b.ErrorFg.Equals(fallbackError) {
			t.Errorf("ErrorFg = %v, want fallback %v", b.ErrorFg, fallbackError)
		}
	})

	t.Run("chain falls through to later groups", func(t *testing.T) {
		theme := &host.StaticTheme{
			ThemeName: "sparse",
			Groups: map[string]style.Style{
				"ErrorMsg": style.NewStyle(style.ColorFromRGB(200, 0, 0)),
			},
		}
		b := BasisFromTheme(theme)
		if !b.ErrorFg.Equals(style.ColorFromRGB(200, 0, 0)) {
			t.Errorf("ErrorFg = %v, want ErrorMsg color", b.ErrorFg)
		}
	})
}

func TestTreeFromTreeRoundTrip(t *testing.T) {
	p := Derive(testTheme())

	tree := p.Tree()
	highlights, ok := tree["highlights"].(map[string]any)
	if !ok {
		t.Fatalf("Tree() missing highlights subtree: %v", tree)
	}

	var warnings []string
	back := FromTree(highlights, func(msg string) { warnings = append(warnings, msg) })

	if len(warnings) != 0 {
		t.Fatalf("round trip produced warnings: %v", warnings)
	}
	if !reflect.DeepEqual(back, p) {
		for _, k := range p.Keys() {
			if !back[k].Equals(p[k]) {
				t.Errorf("group %q: got %+v, want %+v", k, back[k], p[k])
			}
		}
	}
}

func TestFromTreeMalformed(t *testing.T) {
	highlights := map[string]any{
		"buffer": map[string]any{
			"fg":   "#AABBCC",
			"bg":   12345, // not a string
			"bold": true,
		},
		"modified": map[string]any{
			"fg": "#nothex",
		},
		"fill": "just a string",
	}

	var warnings []string
	p := FromTree(highlights, func(msg string) { warnings = append(warnings, msg) })

	t.Run("valid attributes survive", func(t *testing.T) {
		s := p["buffer"]
		if !s.Foreground.Equals(style.ColorFromRGB(0xAA, 0xBB, 0xCC)) {
			t.Errorf("fg = %v", s.Foreground)
		}
		if !s.Attributes.Has(style.AttrBold) {
			t.Error("bold dropped alongside the malformed bg")
		}
	})

	t.Run("malformed attribute dropped not the group", func(t *testing.T) {
		if !p["buffer"].Background.IsDefault() {
			t.Errorf("bg = %v, want default", p["buffer"].Background)
		}
		if !p.Has("modified") {
			t.Error("group with only a bad color should still exist")
		}
	})

	t.Run("non-table group skipped", func(t *testing.T) {
		if p.Has("fill") {
			t.Error("non-table group should be dropped entirely")
		}
	})

	t.Run("each problem warned once", func(t *testing.T) {
		if len(warnings) != 3 {
			t.Fatalf("warnings = %v, want 3", warnings)
		}
		for _, w := range warnings {
			if !strings.Contains(w, "highlight") {
				t.Errorf("warning %q does not name the highlight", w)
			}
		}
	})
}

type recordingRegistrar struct {
	names []string
}

func (r *recordingRegistrar) Register(name string, _ style.Style) {
	r.names = append(r.names, name)
}

func TestRegisterOrder(t *testing.T) {
	p := Palette{
		"zebra":  style.DefaultStyle(),
		"buffer": style.DefaultStyle(),
		"fill":   style.DefaultStyle(),
	}

	reg := &recordingRegistrar{}
	p.Register(reg)

	want := []string{"buffer", "fill", "zebra"}
	if !reflect.DeepEqual(reg.names, want) {
		t.Errorf("registration order = %v, want %v", reg.names, want)
	}
}
