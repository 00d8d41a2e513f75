// SPDX-License-Identifier: Unlicense OR MIT

// Package input defines the host-provided keyboard, pointer and touch
// event shapes consumed by the Event Dispatcher and Gesture Engine.
// These mirror what a Wayland/X11 backend hands the window-management
// core: modifier masks, scan codes, button states and timestamps, not
// the wire format itself.
package input

import (
	"time"

	"corewm.dev/corewm/geometry"
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint32

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// Contain reports whether m contains all bits of n.
func (m Modifiers) Contain(n Modifiers) bool {
	return m&n == n
}

// KeyAction is the transition of a key event.
type KeyAction uint8

const (
	KeyDown KeyAction = iota
	KeyUp
)

// KeyCode identifies a physical key, independent of layout. Values
// mirror the handful of chords the Event Dispatcher's built-in
// bindings care about (§4.10); the host is free to pass any code for
// keys the dispatcher does not bind.
type KeyCode uint32

const (
	KeyUnknown KeyCode = iota
	KeyF4
	KeyF11
	KeyTab
	KeyGrave
)

// KeyEvent is a single keyboard transition.
type KeyEvent struct {
	Code      KeyCode
	Action    KeyAction
	Modifiers Modifiers
	Time      time.Duration
}

// ButtonAction is the transition of a pointer button event.
type ButtonAction uint8

const (
	ButtonDown ButtonAction = iota
	ButtonUp
	PointerMotion
)

// Buttons is a bitmask of currently pressed mouse buttons.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// PointerEvent is a single mouse transition or motion sample.
type PointerEvent struct {
	Action    ButtonAction
	Buttons   Buttons
	Position  geometry.Point
	Modifiers Modifiers
	Time      time.Duration
}

// TouchAction is the transition of a touch point.
type TouchAction uint8

const (
	TouchDown TouchAction = iota
	TouchUp
	TouchMotion
)

// TouchID distinguishes concurrent touch points within one gesture.
type TouchID uint32

// TouchEvent is a single touch-point transition or motion sample.
type TouchEvent struct {
	ID       TouchID
	Action   TouchAction
	Position geometry.Point
	Time     time.Duration
}
