// SPDX-License-Identifier: Unlicense OR MIT

// Package wm assembles the Geometry, Output Registry, Zone Engine,
// Surface Info Store, Placement Engine, State Machine, Focus
// Controller, Stacking Controller, Gesture Engine and Event Dispatcher
// packages into the single engine a host embeds. XCB wire handling,
// device enumeration, clipboard byte transport, EGL/GL and decoration
// rendering stay out of scope (spec.md §6) behind the small capability
// interfaces below (spec.md §9, "virtual interfaces for scene, input,
// and display").
package wm

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/input"
	"corewm.dev/corewm/output"
	"corewm.dev/corewm/surfaceinfo"
)

// Scene is the scene-graph boundary the host provides (spec.md §6):
// surface creation/destruction, hit-testing, atomic restack, and the
// focus/decoration side effects the Focus Controller drives.
type Scene interface {
	CreateSurface(session surfaceinfo.Session, rect geometry.Rectangle) (surfaceinfo.Surface, error)
	DestroySurface(surface surfaceinfo.Surface)
	SurfaceAt(p geometry.Point) (surfaceinfo.Surface, bool)
	Raise(set []surfaceinfo.Surface)
	SetKeyboardFocus(surface surfaceinfo.Surface)
	RepaintTitlebar(surface surfaceinfo.Surface)
	// RequestClose asks the client owning surface to close it
	// (alt+F4); ForceClose, by contrast, goes straight through
	// Engine.DestroySurface.
	RequestClose(surface surfaceinfo.Surface)
}

// OutputSource is the display boundary the host provides (spec.md
// §6): an output configuration list the engine folds into its Output
// Registry.
type OutputSource interface {
	Configurations() []output.Descriptor
}

// InputSink is where the engine forwards pointer/key events the
// dispatcher did not consume, so the host can deliver them to the
// client underneath (spec.md §4.10's "click-to-focus... still
// delivered to the client").
type InputSink interface {
	DeliverPointer(window surfaceinfo.Surface, ev input.PointerEvent)
	DeliverKey(window surfaceinfo.Surface, ev input.KeyEvent)
}

// ClipboardBridge is the external collaborator spec.md §5 describes as
// synchronising on its own mutex; the engine only posts messages to
// it, never blocking on a reply.
type ClipboardBridge interface {
	PostSelection(mimeTypes []string)
}
