package config

import (
	"sync"

	"github.com/dshills/buftab/internal/config/layer"
	"github.com/dshills/buftab/internal/config/notify"
	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/palette"
)

// Config is the engine's configuration facade. It owns the layer stack,
// the derived palette, and the memoized merged result.
//
// All mutation happens wholesale: Apply and UpdateHighlights replace
// the merged tree and palette rather than editing them in place, so a
// reader always observes either the old state or the fully-new one.
type Config struct {
	mu sync.RWMutex

	theme     host.ThemeSource
	registrar host.Registrar
	warnings  *notify.Queue

	manager *layer.Manager

	// raw is the user configuration as supplied, untouched so theme
	// changes can re-apply it without recomputation.
	raw map[string]any

	// current is the memoized merged configuration.
	current map[string]any

	// pal is the merged palette (derived + user overrides).
	pal palette.Palette
}

// Options configures a Config.
type Options struct {
	// Theme resolves semantic highlight groups; required for palette
	// derivation. A nil theme falls back to built-in colors.
	Theme host.ThemeSource

	// Registrar receives derived highlight groups on every apply.
	// Optional.
	Registrar host.Registrar

	// Notifier receives deferred warnings. Optional.
	Notifier host.Notifier

	// SyncWarnings delivers warnings inline instead of deferred.
	// Used by tests.
	SyncWarnings bool
}

// New creates a Config. No merge happens until Apply is called.
func New(opts Options) *Config {
	theme := opts.Theme
	if theme == nil {
		theme = &host.StaticTheme{ThemeName: "fallback"}
	}

	var queueOpts []notify.Option
	if opts.SyncWarnings {
		queueOpts = append(queueOpts, notify.WithSyncDelivery())
	}

	return &Config{
		theme:     theme,
		registrar: opts.Registrar,
		warnings:  notify.New(opts.Notifier, queueOpts...),
		manager:   layer.NewManager(),
	}
}

// SetRaw stores the user configuration. A nil map means "no user
// configuration". The map is cloned; later caller mutations have no
// effect.
func (c *Config) SetRaw(user map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = layer.Clone(user)
}

// Apply merges defaults, the theme-derived palette, and the user
// configuration, memoizes the result as current, and registers the
// merged palette with the host. Apply is idempotent: calling it again
// without changing the raw configuration or theme yields an identical
// result.
func (c *Config) Apply() map[string]any {
	c.mu.Lock()

	c.manager.SetLayer(layer.SourceDefaults, Defaults())

	derived := palette.Derive(c.theme)
	c.manager.SetLayer(layer.SourcePalette, derived.Tree())

	user := layer.Clone(c.raw)
	if user == nil {
		user = make(map[string]any)
	}
	c.checkDeprecated(user)
	c.validateHighlights(user, derived)
	c.resolveHighlightRefs(user)
	c.manager.SetLayer(layer.SourceUser, user)

	merged := c.remerge()

	c.mu.Unlock()

	c.warnings.Kick()
	return merged
}

// UpdateHighlights recomputes the palette from the (possibly changed)
// theme and re-merges the stored user overrides on top. The user
// configuration is never recomputed, only re-applied. Idempotent under
// a stable theme.
func (c *Config) UpdateHighlights() {
	c.mu.Lock()

	derived := palette.Derive(c.theme)
	c.manager.SetLayer(layer.SourcePalette, derived.Tree())
	c.remerge()

	c.mu.Unlock()

	c.warnings.Kick()
}

// remerge rebuilds the memoized tree and palette from the layer stack
// and registers the palette. Must hold the write lock.
func (c *Config) remerge() map[string]any {
	merged := c.manager.Merge()
	c.current = merged

	if highlights, ok := merged["highlights"].(map[string]any); ok {
		c.pal = palette.FromTree(highlights, c.warnings.Warn)
		if c.registrar != nil {
			c.pal.Register(c.registrar)
		}
	}

	return layer.Clone(merged)
}

// Current returns the memoized merged configuration, or nil before the
// first Apply.
func (c *Config) Current() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layer.Clone(c.current)
}

// Palette returns the merged highlight palette.
func (c *Config) Palette() palette.Palette {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pal.Clone()
}

// Get retrieves a configuration value by dot-separated path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layer.GetByPath(c.current, path)
}

// GetString retrieves a string option, or fallback if unset or not a
// string.
func (c *Config) GetString(path, fallback string) string {
	if v, ok := c.Get(path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// GetBool retrieves a boolean option, or fallback.
func (c *Config) GetBool(path string, fallback bool) bool {
	if v, ok := c.Get(path); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// GetInt retrieves an integer option, or fallback. TOML and Lua
// loaders surface numbers as int64/float64; both are accepted.
func (c *Config) GetInt(path string, fallback int) int {
	v, ok := c.Get(path)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

// Warnings exposes the warning queue (flush control for hosts,
// inspection for tests).
func (c *Config) Warnings() *notify.Queue {
	return c.warnings
}

// Reset discards all state: raw user configuration, layers, memoized
// tree, palette, and queued warnings. Test-only.
func (c *Config) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.manager.Reset()
	c.raw = nil
	c.current = nil
	c.pal = nil
	c.warnings.Reset()
}
