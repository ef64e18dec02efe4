package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/style"
)

// fakeNotifier collects warnings for inspection.
type fakeNotifier struct {
	warnings []string
}

func (n *fakeNotifier) Warn(msg string) {
	n.warnings = append(n.warnings, msg)
}

func testTheme() *host.StaticTheme {
	return &host.StaticTheme{
		ThemeName: "test-dark",
		Groups: map[string]style.Style{
			"Normal":  style.NewStyle(style.ColorFromRGB(212, 212, 212)).WithBackground(style.ColorFromRGB(30, 30, 30)),
			"Comment": style.NewStyle(style.ColorFromRGB(106, 153, 85)),
			"Keyword": style.NewStyle(style.ColorFromRGB(86, 156, 214)),
		},
	}
}

func newTestConfig(n *fakeNotifier) *Config {
	return New(Options{
		Theme:        testTheme(),
		Notifier:     n,
		SyncWarnings: true,
	})
}

func TestApplyDefaultsOnly(t *testing.T) {
	cfg := newTestConfig(&fakeNotifier{})
	cfg.Apply()

	if got := cfg.GetString("options.mode", ""); got != "buffers" {
		t.Errorf("options.mode = %q, want buffers", got)
	}
	if got := cfg.GetInt("options.max_name_length", 0); got != 18 {
		t.Errorf("options.max_name_length = %d, want 18", got)
	}
	if got := cfg.GetBool("options.diagnostics", true); got != false {
		t.Error("options.diagnostics should default to false")
	}
	if got := cfg.GetString("options.indicator.icon", ""); got != "▎" {
		t.Errorf("options.indicator.icon = %q", got)
	}
}

func TestApplyPartialOverride(t *testing.T) {
	cfg := newTestConfig(&fakeNotifier{})
	cfg.SetRaw(map[string]any{
		"options": map[string]any{
			"mode":        "tabs",
			"diagnostics": true,
			"indicator": map[string]any{
				"icon": "|",
			},
		},
	})
	cfg.Apply()

	t.Run("overridden values win", func(t *testing.T) {
		if got := cfg.GetString("options.mode", ""); got != "tabs" {
			t.Errorf("options.mode = %q, want tabs", got)
		}
		if !cfg.GetBool("options.diagnostics", false) {
			t.Error("options.diagnostics should be overridden to true")
		}
		if got := cfg.GetString("options.indicator.icon", ""); got != "|" {
			t.Errorf("options.indicator.icon = %q, want |", got)
		}
	})

	t.Run("untouched siblings keep defaults", func(t *testing.T) {
		if got := cfg.GetString("options.numbers", ""); got != "none" {
			t.Errorf("options.numbers = %q, want none", got)
		}
		// Sibling within the same nested table as the override.
		if got := cfg.GetString("options.indicator.style", ""); got != "icon" {
			t.Errorf("options.indicator.style = %q, want icon", got)
		}
	})
}

func TestApplyIdempotent(t *testing.T) {
	cfg := newTestConfig(&fakeNotifier{})
	cfg.SetRaw(map[string]any{
		"options": map[string]any{"mode": "tabs"},
	})

	first := cfg.Apply()
	second := cfg.Apply()
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Apply with unchanged input produced different trees")
	}
}

func TestSetRawClones(t *testing.T) {
	cfg := newTestConfig(&fakeNotifier{})
	user := map[string]any{
		"options": map[string]any{"mode": "tabs"},
	}
	cfg.SetRaw(user)
	user["options"].(map[string]any)["mode"] = "buffers"
	cfg.Apply()

	if got := cfg.GetString("options.mode", ""); got != "tabs" {
		t.Errorf("mutating the caller's map leaked into config: mode = %q", got)
	}
}

func TestUserHighlightOverride(t *testing.T) {
	cfg := newTestConfig(&fakeNotifier{})
	cfg.SetRaw(map[string]any{
		"highlights": map[string]any{
			"buffer_selected": map[string]any{
				"fg":   "#FF0000",
				"bold": false,
			},
		},
	})
	cfg.Apply()

	pal := cfg.Palette()
	got := pal["buffer_selected"]

	if !got.Foreground.Equals(style.ColorFromRGB(255, 0, 0)) {
		t.Errorf("buffer_selected fg = %v, want #FF0000", got.Foreground)
	}
	// The derived bg survives since the user only set fg.
	if got.Background.IsDefault() {
		t.Error("derived background was lost under a partial override")
	}
	// Untouched groups stay fully derived.
	if pal["buffer"].Foreground.IsDefault() {
		t.Error("unrelated group lost its derived colors")
	}
}

func TestUnknownHighlightWarning(t *testing.T) {
	n := &fakeNotifier{}
	cfg := newTestConfig(n)
	cfg.SetRaw(map[string]any{
		"highlights": map[string]any{
			"zzz_bogus":       map[string]any{"fg": "#FF0000"},
			"another_unknown": map[string]any{"fg": "#00FF00"},
			"buffer":          map[string]any{"fg": "#0000FF"},
		},
	})
	cfg.Apply()

	var found []string
	for _, w := range n.warnings {
		if strings.Contains(w, "unknown highlight groups") {
			found = append(found, w)
		}
	}
	if len(found) != 1 {
		t.Fatalf("want exactly one aggregated warning, got %v", n.warnings)
	}
	// Sorted, comma separated, and only the unknown keys.
	if !strings.Contains(found[0], "another_unknown, zzz_bogus") {
		t.Errorf("warning not sorted/aggregated: %q", found[0])
	}
	if strings.Contains(found[0], "buffer") {
		t.Errorf("known group reported as unknown: %q", found[0])
	}
}

func TestDeprecatedKeys(t *testing.T) {
	t.Run("removed key is warned and stripped", func(t *testing.T) {
		n := &fakeNotifier{}
		cfg := newTestConfig(n)
		cfg.SetRaw(map[string]any{
			"options": map[string]any{
				"view": "multiwindow",
				"mode": "tabs",
			},
		})
		cfg.Apply()

		if _, ok := cfg.Get("options.view"); ok {
			t.Error("removed key survived the merge")
		}
		if got := cfg.GetString("options.mode", ""); got != "tabs" {
			t.Errorf("replacement key lost: mode = %q", got)
		}

		want := "options.view has been removed and is ignored, use options.mode"
		if !containsWarning(n.warnings, want) {
			t.Errorf("warnings = %v, want %q", n.warnings, want)
		}
	})

	t.Run("scheduled key is warned but kept", func(t *testing.T) {
		n := &fakeNotifier{}
		cfg := newTestConfig(n)
		cfg.SetRaw(map[string]any{
			"options": map[string]any{
				"persist_buffer_sort": true,
			},
		})
		cfg.Apply()

		if _, ok := cfg.Get("options.persist_buffer_sort"); !ok {
			t.Error("scheduled-deprecation key was stripped")
		}
		want := "options.persist_buffer_sort is deprecated and will be removed"
		if !containsWarning(n.warnings, want) {
			t.Errorf("warnings = %v, want %q", n.warnings, want)
		}
	})

	t.Run("repeated apply warns once", func(t *testing.T) {
		n := &fakeNotifier{}
		cfg := newTestConfig(n)
		cfg.SetRaw(map[string]any{
			"options": map[string]any{"mappings": true},
		})
		cfg.Apply()
		cfg.Apply()

		var hits int
		for _, w := range n.warnings {
			if strings.Contains(w, "options.mappings") {
				hits++
			}
		}
		if hits != 1 {
			t.Errorf("deprecation warned %d times, want 1", hits)
		}
	})
}

func containsWarning(warnings []string, want string) bool {
	for _, w := range warnings {
		if w == want {
			return true
		}
	}
	return false
}

func TestHighlightReferenceResolution(t *testing.T) {
	t.Run("valid reference resolves to theme color", func(t *testing.T) {
		cfg := newTestConfig(&fakeNotifier{})
		cfg.SetRaw(map[string]any{
			"highlights": map[string]any{
				"modified_selected": map[string]any{
					"fg": map[string]any{"group": "Keyword", "attribute": "fg"},
				},
			},
		})
		cfg.Apply()

		got := cfg.Palette()["modified_selected"].Foreground
		want := style.ColorFromRGB(86, 156, 214)
		if !got.Equals(want) {
			t.Errorf("resolved fg = %v, want %v", got, want)
		}
	})

	t.Run("unknown group drops only the attribute", func(t *testing.T) {
		n := &fakeNotifier{}
		cfg := newTestConfig(n)
		cfg.SetRaw(map[string]any{
			"highlights": map[string]any{
				"modified_selected": map[string]any{
					"fg": map[string]any{"group": "NoSuchGroup", "attribute": "fg"},
					"bg": "#112233",
				},
			},
		})
		cfg.Apply()

		s := cfg.Palette()["modified_selected"]
		if !s.Background.Equals(style.ColorFromRGB(0x11, 0x22, 0x33)) {
			t.Errorf("sibling attribute lost: bg = %v", s.Background)
		}
		// fg falls back to the derived palette value, not default.
		derived := New(Options{Theme: testTheme(), SyncWarnings: true})
		derived.Apply()
		if !s.Foreground.Equals(derived.Palette()["modified_selected"].Foreground) {
			t.Errorf("dropped attribute should fall through to derived value, got %v", s.Foreground)
		}

		if !anyContains(n.warnings, "NoSuchGroup") {
			t.Errorf("no warning naming the missing group: %v", n.warnings)
		}
	})

	t.Run("malformed reference drops the attribute", func(t *testing.T) {
		n := &fakeNotifier{}
		cfg := newTestConfig(n)
		cfg.SetRaw(map[string]any{
			"highlights": map[string]any{
				"buffer": map[string]any{
					"fg": map[string]any{"attribute": "fg"}, // no group
				},
			},
		})
		cfg.Apply()

		if !anyContains(n.warnings, "missing a group name") {
			t.Errorf("warnings = %v", n.warnings)
		}
	})
}

func anyContains(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestUpdateHighlights(t *testing.T) {
	theme := testTheme()
	cfg := New(Options{Theme: theme, SyncWarnings: true})
	cfg.SetRaw(map[string]any{
		"highlights": map[string]any{
			"buffer_selected": map[string]any{"fg": "#FF0000"},
		},
	})
	cfg.Apply()

	before := cfg.Palette()

	t.Run("idempotent under a stable theme", func(t *testing.T) {
		cfg.UpdateHighlights()
		if !reflect.DeepEqual(cfg.Palette(), before) {
			t.Error("UpdateHighlights changed the palette under a stable theme")
		}
	})

	t.Run("theme change re-derives but keeps user overrides", func(t *testing.T) {
		theme.Groups["Normal"] = style.NewStyle(style.ColorFromRGB(0, 0, 0)).
			WithBackground(style.ColorFromRGB(255, 255, 255))
		cfg.UpdateHighlights()

		after := cfg.Palette()
		if reflect.DeepEqual(after, before) {
			t.Error("palette unchanged after a theme change")
		}
		if !after["buffer_selected"].Foreground.Equals(style.ColorFromRGB(255, 0, 0)) {
			t.Errorf("user override lost across theme change: %v", after["buffer_selected"].Foreground)
		}
	})
}

func TestRegistrarReceivesPalette(t *testing.T) {
	reg := &recordingRegistrar{styles: make(map[string]style.Style)}
	cfg := New(Options{Theme: testTheme(), Registrar: reg, SyncWarnings: true})
	cfg.Apply()

	if len(reg.styles) == 0 {
		t.Fatal("no highlight groups registered")
	}
	if _, ok := reg.styles["buffer_selected"]; !ok {
		t.Error("buffer_selected not registered")
	}
}

type recordingRegistrar struct {
	styles map[string]style.Style
}

func (r *recordingRegistrar) Register(name string, s style.Style) {
	r.styles[name] = s
}

func TestCurrentBeforeApply(t *testing.T) {
	cfg := newTestConfig(&fakeNotifier{})
	if got := cfg.Current(); got != nil {
		t.Errorf("Current before Apply = %v, want nil", got)
	}
}

func TestReset(t *testing.T) {
	cfg := newTestConfig(&fakeNotifier{})
	cfg.SetRaw(map[string]any{
		"options": map[string]any{"mode": "tabs"},
	})
	cfg.Apply()
	cfg.Reset()

	if cfg.Current() != nil {
		t.Error("Current not cleared by Reset")
	}
	if len(cfg.Palette()) != 0 {
		t.Error("palette not cleared by Reset")
	}

	// A fresh Apply after Reset sees no stale user layer.
	cfg.Apply()
	if got := cfg.GetString("options.mode", ""); got != "buffers" {
		t.Errorf("stale user layer survived Reset: mode = %q", got)
	}
}
