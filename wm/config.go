// SPDX-License-Identifier: Unlicense OR MIT

package wm

import "corewm.dev/corewm/input"

// Config is the engine's configuration, captured once at New and never
// read from a package-level global afterward (spec.md §9, "Global
// mutable state avoided"). This module doesn't parse a configuration
// file or CLI flags — the host constructs Config directly, the same
// way the teacher's app.Options is host-constructed rather than parsed
// from disk.
type Config struct {
	// PointerDragModifier is the modifier that must be held for a
	// pointer drag to start (spec.md §6; default alt).
	PointerDragModifier input.Modifiers
	// TitleBarHeight is the height reserved above a titlebarred window
	// (spec.md §6; default 10).
	TitleBarHeight int
	// AssumedSurfaceScale is applied to XWayland surfaces in/out of
	// engine coordinates (spec.md §6; default 1.0).
	AssumedSurfaceScale float64
}

// DefaultConfig returns the option defaults spec.md §6 lists.
func DefaultConfig() Config {
	return Config{
		PointerDragModifier: input.ModAlt,
		TitleBarHeight:      10,
		AssumedSurfaceScale: 1.0,
	}
}
