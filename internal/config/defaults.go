package config

// Defaults returns the built-in configuration tree. Every option the
// engine reads has a value here; user overrides are merged on top.
func Defaults() map[string]any {
	return map[string]any{
		"options": map[string]any{
			// "buffers" shows one tab per listed buffer, "tabs" one per
			// tab page.
			"mode": "buffers",

			// "none", "ordinal", "buffer_id", or "both".
			"numbers": "none",

			// Commands dispatched for mouse actions on a tab.
			"close_command":        "close",
			"left_mouse_command":   "open",
			"right_mouse_command":  "close",
			"middle_mouse_command": "",

			"indicator": map[string]any{
				"icon":  "▎",
				"style": "icon",
			},

			"buffer_close_icon":  "✗",
			"modified_icon":      "●",
			"close_icon":         "✕",
			"left_trunc_marker":  "❮",
			"right_trunc_marker": "❯",

			"max_name_length": 18,
			"tab_size":        18,

			"diagnostics":           false,
			"diagnostics_indicator": true,

			"show_buffer_icons":       true,
			"show_buffer_close_icons": true,
			"show_close_icon":         true,
			"show_tab_indicators":     true,

			// "thin", "thick", "slant", or "none".
			"separator_style": "thin",

			// "id", "name", or "directory".
			"sort_by": "id",

			"always_show":          true,
			"enforce_regular_tabs": false,
			"themable":             true,
		},

		// Per-group highlight overrides live under "highlights"; the
		// derived palette fills this subtree before user values apply.
		"highlights": map[string]any{},
	}
}
