// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"corewm.dev/corewm/focus"
	"corewm.dev/corewm/gesture"
	"corewm.dev/corewm/input"
	"corewm.dev/corewm/output"
	"corewm.dev/corewm/surfaceinfo"
)

// Action is a built-in key binding's effect, left for a KeyActionHandler
// to carry out against the surface it targets: the dispatcher itself
// owns no window-state semantics beyond focus rotation and gesturing.
type Action uint8

const (
	ActionToggleMaximised Action = iota
	ActionToggleVertMaximised
	ActionToggleHorizMaximised
	ActionCloseRequest
	ActionForceClose
)

// KeyActionHandler carries out the built-in key bindings of spec.md
// §4.10 that need window-state knowledge the dispatcher doesn't have.
type KeyActionHandler interface {
	HandleAction(window surfaceinfo.Surface, hasWindow bool, action Action)
}

// OutputReconfigured is notified when the host applies a new output
// configuration, so the dispatcher can forward it to whatever owns
// the Output Registry (spec.md §4.10's "output-configuration applied
// notifications").
type OutputReconfigured interface {
	ApplyConfiguration(descs []output.Descriptor)
}

// Dispatcher is the engine's single entry point for input events, key
// bindings, and output/scene notifications (spec.md §4.10). Client
// requests reach the engine through a separate Commands-shaped
// collaborator the host wires directly, since their semantics belong
// to the top-level engine, not the dispatcher.
type Dispatcher struct {
	gesture    *gesture.Engine
	focus      *focus.Controller
	keyHandler KeyActionHandler

	// bindingMask restricts which modifier bits a chord is matched
	// against; bits outside the mask (e.g. a caps-lock indicator some
	// hosts fold into Modifiers) never affect a match.
	bindingMask input.Modifiers
}

// New constructs a Dispatcher wiring the Gesture Engine and Focus
// Controller that already exist for this window-manager instance.
func New(g *gesture.Engine, f *focus.Controller, keyHandler KeyActionHandler) *Dispatcher {
	return &Dispatcher{
		gesture:     g,
		focus:       f,
		keyHandler:  keyHandler,
		bindingMask: input.ModCtrl | input.ModShift | input.ModAlt | input.ModSuper,
	}
}

// HandlePointer routes a pointer event per spec.md §4.10: the Gesture
// Engine sees it first and may consume it; otherwise, a button-down
// with no gesture in progress focuses window (click-to-focus) without
// being considered consumed, so the host still delivers it to the
// client underneath.
func (d *Dispatcher) HandlePointer(window surfaceinfo.Surface, hasWindow bool, ev input.PointerEvent) (consumed bool) {
	if hasWindow && d.gesture.HandlePointer(window, ev) {
		return true
	}
	if hasWindow && ev.Action == input.ButtonDown && !d.gesture.Active() {
		_ = d.focus.Focus(window)
	}
	return false
}

// HandleTouch routes a touch event the same way HandlePointer does.
func (d *Dispatcher) HandleTouch(window surfaceinfo.Surface, hasWindow bool, ev input.TouchEvent) (consumed bool) {
	if hasWindow && d.gesture.HandleTouch(window, ev) {
		return true
	}
	if hasWindow && ev.Action == input.TouchDown && !d.gesture.Active() {
		_ = d.focus.Focus(window)
	}
	return false
}

// HandleKey matches ev against the built-in key-binding table of
// spec.md §4.10, dispatching to the Focus Controller directly for the
// rotation bindings and to keyHandler for the rest. Returns whether
// the chord matched a binding.
func (d *Dispatcher) HandleKey(window surfaceinfo.Surface, hasWindow bool, ev input.KeyEvent) bool {
	if ev.Action != input.KeyDown {
		return false
	}
	mods := ev.Modifiers & d.bindingMask

	switch {
	case ev.Code == input.KeyF11 && mods == input.ModAlt:
		d.dispatchAction(window, hasWindow, ActionToggleMaximised)
	case ev.Code == input.KeyF11 && mods == input.ModShift:
		d.dispatchAction(window, hasWindow, ActionToggleVertMaximised)
	case ev.Code == input.KeyF11 && mods == input.ModCtrl:
		d.dispatchAction(window, hasWindow, ActionToggleHorizMaximised)
	case ev.Code == input.KeyF4 && mods == input.ModAlt:
		d.dispatchAction(window, hasWindow, ActionCloseRequest)
	case ev.Code == input.KeyF4 && mods == input.ModCtrl:
		d.dispatchAction(window, hasWindow, ActionForceClose)
	case ev.Code == input.KeyTab && mods == input.ModAlt:
		_ = d.focus.RotateSessions(true)
	case ev.Code == input.KeyTab && mods == (input.ModAlt|input.ModShift):
		_ = d.focus.RotateSessions(false)
	case ev.Code == input.KeyGrave && mods == input.ModAlt:
		_ = d.focus.RotateWithinSession(true)
	case ev.Code == input.KeyGrave && mods == (input.ModAlt|input.ModShift):
		_ = d.focus.RotateWithinSession(false)
	default:
		return false
	}
	return true
}

func (d *Dispatcher) dispatchAction(window surfaceinfo.Surface, hasWindow bool, action Action) {
	if d.keyHandler != nil {
		d.keyHandler.HandleAction(window, hasWindow, action)
	}
}

// HandleOutputConfigured forwards a newly applied output configuration
// to registry, which owns the actual diffing.
func (d *Dispatcher) HandleOutputConfigured(registry OutputReconfigured, descs []output.Descriptor) {
	registry.ApplyConfiguration(descs)
}

// SceneOrderObserver is notified when the compositor reorders tracked
// surfaces outside of a Raise the engine itself issued.
type SceneOrderObserver interface {
	ExternalReorder(reordered surfaceinfo.Surface)
}

// HandleSceneOrder forwards a scene-order notification to observer
// (typically the Stacking Controller).
func (d *Dispatcher) HandleSceneOrder(observer SceneOrderObserver, reordered surfaceinfo.Surface) {
	observer.ExternalReorder(reordered)
}
