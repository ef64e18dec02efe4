// Package config merges user-supplied tabline configuration with
// built-in defaults and the theme-derived highlight palette.
//
// The merge is a deep, right-biased overlay across three fixed layers:
//
//	defaults < derived palette < user overrides
//
// Apply always yields a complete, internally consistent configuration
// even when the user supplies nothing. There are no fatal error paths:
// unrecognized highlight keys are ignored with one aggregated warning,
// malformed highlight references drop only the offending attribute, and
// deprecated option keys produce advisory notices delivered after the
// current operation completes.
//
// The merged result is memoized as the process-wide current
// configuration until it is explicitly replaced (Apply,
// UpdateHighlights) or reset.
package config
