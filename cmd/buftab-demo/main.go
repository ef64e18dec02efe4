// Package main is a small host stand-in that renders a buftab tabline
// in the terminal. It fakes the editor side of the boundary: a buffer
// list, a theme table, and a highlight registry, all fed through the
// engine's host interfaces.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/buftab/internal/config"
	"github.com/dshills/buftab/internal/config/loader"
	"github.com/dshills/buftab/internal/config/watcher"
	"github.com/dshills/buftab/internal/group"
	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/style"
	"github.com/dshills/buftab/internal/tabline"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a buftab config file (.toml, .json, or .lua)")
	flag.Parse()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnableMouse()

	h := newDemoHost()

	cfg := config.New(config.Options{
		Theme:     h.theme,
		Registrar: h,
		Notifier:  h,
	})

	groups := defaultGroups()
	if *configPath != "" {
		raw, declared, err := loadConfig(*configPath)
		if err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg.SetRaw(raw)
		groups = declared
	}

	cfg.Apply()
	renderer := tabline.New(cfg, groups)

	// Live reload: wake the poll loop when the file changes on disk;
	// the reload itself happens on the event loop so all state stays on
	// one goroutine.
	if *configPath != "" {
		w, err := watcher.New(*configPath, func(string) {
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		})
		if err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", *configPath, err)
			return 1
		}
		defer w.Close()
	}

	for {
		draw(screen, h, renderer.Render(h))

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventInterrupt:
			raw, declared, err := loadConfig(*configPath)
			if err != nil {
				h.Warn(err.Error())
				continue
			}
			cfg.SetRaw(raw)
			cfg.Apply()
			renderer = tabline.New(cfg, declared)
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
				return 0
			case ev.Rune() == 't':
				h.cycleTheme()
				cfg.UpdateHighlights()
			case ev.Key() == tcell.KeyTab, ev.Rune() == 'l':
				h.focusNext()
			case ev.Rune() == 'h':
				h.focusPrev()
			case ev.Rune() == 'm':
				h.toggleModified()
			}
		case *tcell.EventMouse:
			if ev.Buttons()&tcell.Button1 != 0 {
				x, y := ev.Position()
				if y == 0 {
					h.click(renderer.Render(h), x, cfg.GetString("options.left_mouse_command", "open"))
				}
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// loadConfig picks a loader by extension. Lua configs can declare
// groups; the other formats fall back to the demo defaults.
func loadConfig(path string) (map[string]any, *group.Set, error) {
	l, err := loader.ForPath(path)
	if err != nil {
		return nil, nil, err
	}

	raw, err := l.Load()
	if err != nil {
		return nil, nil, err
	}

	if lual, ok := l.(*loader.LuaLoader); ok {
		if declared := lual.Groups(); len(declared) > 0 {
			return raw, group.NewSet(declared...), nil
		}
	}
	return raw, defaultGroups(), nil
}

// defaultGroups groups test files apart from everything else.
func defaultGroups() *group.Set {
	return group.NewSet(group.Group{
		Name: "tests",
		Icon: "✓",
		Matches: func(b host.Buffer) bool {
			return len(b.Name) > 8 && b.Name[len(b.Name)-8:] == "_test.go"
		},
	})
}

// draw paints the component run on the top row and a hint line below.
func draw(screen tcell.Screen, h *demoHost, components []tabline.Component) {
	screen.Clear()

	x := 0
	for _, c := range components {
		st := h.tcellStyle(c.Highlight)
		for _, r := range c.Text {
			screen.SetContent(x, 0, r, nil, st)
			x++
		}
	}

	hint := "q quit · t theme · tab/l next · h prev · m modified · click to focus"
	for i, r := range hint {
		screen.SetContent(i, 2, r, nil, tcell.StyleDefault.Dim(true))
	}
	for i, r := range h.status {
		screen.SetContent(i, 4, r, nil, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	screen.Show()
}

// demoHost implements host.BufferSource, host.Registrar, and
// host.Notifier on top of in-memory state.
type demoHost struct {
	theme      *host.StaticTheme
	themes     []*host.StaticTheme
	themeIndex int

	buffers []host.Buffer
	current int

	registered map[string]style.Style
	status     string
}

func newDemoHost() *demoHost {
	themes := []*host.StaticTheme{darkTheme(), lightTheme()}
	active := *themes[0]
	return &demoHost{
		theme:  &active,
		themes: themes,
		buffers: []host.Buffer{
			{ID: 1, Name: "main.go", Path: "cmd/main.go"},
			{ID: 2, Name: "config.go", Path: "internal/config/config.go"},
			{ID: 3, Name: "config_test.go", Path: "internal/config/config_test.go", Diagnostics: map[host.Severity]int{host.SeverityError: 2}},
			{ID: 4, Name: "README.md", Path: "README.md", Modified: true},
		},
		registered: make(map[string]style.Style),
	}
}

func darkTheme() *host.StaticTheme {
	return &host.StaticTheme{
		ThemeName: "demo-dark",
		Groups: map[string]style.Style{
			"Normal":          style.NewStyle(style.ColorFromRGB(212, 212, 212)).WithBackground(style.ColorFromRGB(30, 30, 30)),
			"Comment":         style.NewStyle(style.ColorFromRGB(106, 153, 85)),
			"String":          style.NewStyle(style.ColorFromRGB(206, 145, 120)),
			"DiagnosticError": style.NewStyle(style.ColorFromRGB(244, 71, 71)),
			"DiagnosticWarn":  style.NewStyle(style.ColorFromRGB(255, 200, 80)),
			"Visual":          style.DefaultStyle().WithBackground(style.ColorFromRGB(64, 64, 128)),
		},
	}
}

func lightTheme() *host.StaticTheme {
	return &host.StaticTheme{
		ThemeName: "demo-light",
		Groups: map[string]style.Style{
			"Normal":          style.NewStyle(style.ColorFromRGB(0, 0, 0)).WithBackground(style.ColorFromRGB(255, 255, 255)),
			"Comment":         style.NewStyle(style.ColorFromRGB(0, 128, 0)),
			"String":          style.NewStyle(style.ColorFromRGB(163, 21, 21)),
			"DiagnosticError": style.NewStyle(style.ColorFromRGB(205, 49, 49)),
			"DiagnosticWarn":  style.NewStyle(style.ColorFromRGB(191, 135, 0)),
			"Visual":          style.DefaultStyle().WithBackground(style.ColorFromRGB(173, 214, 255)),
		},
	}
}

// Buffers implements host.BufferSource.
func (h *demoHost) Buffers() []host.Buffer { return h.buffers }

// Current implements host.BufferSource.
func (h *demoHost) Current() host.BufferID { return h.buffers[h.current].ID }

// Visible implements host.BufferSource. The demo shows one window, so
// only the focused buffer is visible.
func (h *demoHost) Visible() []host.BufferID { return nil }

// Register implements host.Registrar.
func (h *demoHost) Register(name string, s style.Style) {
	h.registered[name] = s
}

// Warn implements host.Notifier.
func (h *demoHost) Warn(msg string) {
	h.status = msg
}

func (h *demoHost) cycleTheme() {
	h.themeIndex = (h.themeIndex + 1) % len(h.themes)
	*h.theme = *h.themes[h.themeIndex]
	h.status = "theme: " + h.theme.ThemeName
}

func (h *demoHost) focusNext() {
	h.current = (h.current + 1) % len(h.buffers)
}

func (h *demoHost) focusPrev() {
	h.current = (h.current + len(h.buffers) - 1) % len(h.buffers)
}

func (h *demoHost) toggleModified() {
	h.buffers[h.current].Modified = !h.buffers[h.current].Modified
}

// click maps a tabline x position back to a buffer and dispatches the
// configured mouse command.
func (h *demoHost) click(components []tabline.Component, x int, command string) {
	pos := 0
	for _, c := range components {
		if x < pos+c.Width {
			if c.Kind == tabline.KindTab {
				h.dispatch(command, c.BufferID)
			}
			return
		}
		pos += c.Width
	}
}

func (h *demoHost) dispatch(command string, id host.BufferID) {
	switch command {
	case "open":
		for i, b := range h.buffers {
			if b.ID == id {
				h.current = i
				return
			}
		}
	case "close":
		for i, b := range h.buffers {
			if b.ID == id && len(h.buffers) > 1 {
				h.buffers = append(h.buffers[:i], h.buffers[i+1:]...)
				if h.current >= len(h.buffers) {
					h.current = len(h.buffers) - 1
				}
				return
			}
		}
	}
}

// tcellStyle converts a registered palette entry to a tcell style.
func (h *demoHost) tcellStyle(name string) tcell.Style {
	s, ok := h.registered[name]
	if !ok {
		return tcell.StyleDefault
	}

	st := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		st = st.Foreground(toTcellColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		st = st.Background(toTcellColor(s.Background))
	}
	if s.Attributes.Has(style.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attributes.Has(style.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attributes.Has(style.AttrDim) {
		st = st.Dim(true)
	}
	if s.Attributes.Has(style.AttrUnderline) {
		st = st.Underline(true)
	}
	return st
}

func toTcellColor(c style.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
