package config

import (
	"fmt"

	"github.com/dshills/buftab/internal/config/layer"
)

// deprecationKind distinguishes options that are gone from options that
// still work but are on their way out. The warning wording differs.
type deprecationKind int

const (
	// kindRemoved marks an option that no longer has any effect.
	kindRemoved deprecationKind = iota

	// kindScheduled marks an option that still works but will be
	// removed in a future release.
	kindScheduled
)

// deprecation describes one retired or retiring option key.
type deprecation struct {
	// Path is the dot-separated option path.
	Path string

	// Kind selects the warning wording.
	Kind deprecationKind

	// Replacement names the option to use instead (empty if none).
	Replacement string
}

// deprecations is the registry of retired option keys.
var deprecations = []deprecation{
	{Path: "options.view", Kind: kindRemoved, Replacement: "options.mode"},
	{Path: "options.numbers_function", Kind: kindRemoved, Replacement: "options.numbers"},
	{Path: "options.mappings", Kind: kindRemoved},
	{Path: "options.show_buffer_default_icon", Kind: kindScheduled, Replacement: "options.show_buffer_icons"},
	{Path: "options.persist_buffer_sort", Kind: kindScheduled},
}

// message builds the user-facing warning for one deprecation.
func (d deprecation) message() string {
	switch d.Kind {
	case kindRemoved:
		if d.Replacement != "" {
			return fmt.Sprintf("%s has been removed and is ignored, use %s", d.Path, d.Replacement)
		}
		return fmt.Sprintf("%s has been removed and is ignored", d.Path)
	default:
		if d.Replacement != "" {
			return fmt.Sprintf("%s is deprecated and will be removed, use %s instead", d.Path, d.Replacement)
		}
		return fmt.Sprintf("%s is deprecated and will be removed", d.Path)
	}
}

// checkDeprecated queues an advisory warning for each deprecated key
// present in the user configuration. Usage never blocks the merge;
// removed keys are additionally stripped so they cannot shadow their
// replacements.
func (c *Config) checkDeprecated(user map[string]any) {
	for _, d := range deprecations {
		if _, found := layer.GetByPath(user, d.Path); !found {
			continue
		}
		c.warnings.WarnOnce(d.Path, d.message())
		if d.Kind == kindRemoved {
			layer.DeleteByPath(user, d.Path)
		}
	}
}
