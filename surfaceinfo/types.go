// SPDX-License-Identifier: Unlicense OR MIT

// Package surfaceinfo holds the per-surface and per-session metadata
// the rest of the engine reasons about, and the Store that owns it.
package surfaceinfo

import "corewm.dev/corewm/geometry"

// Surface is an opaque handle to a scene-graph node. Identity is
// reference equality: two Surfaces compare equal iff they name the
// same scene node. The engine never dereferences a Surface itself —
// it is a key into the Store.
type Surface interface {
	// SurfaceID is present only to keep arbitrary host types from
	// satisfying Surface by accident; the engine never calls it.
	SurfaceID() uint64
}

// Session groups surfaces by client.
type Session interface {
	SessionID() uint64
}

// Type classifies a surface's role, as reported by the client at
// creation.
type Type uint8

const (
	TypeNormal Type = iota
	TypeUtility
	TypeDialog
	TypeGloss
	TypeFreestyle
	TypeMenu
	TypeInputMethod
	TypeSatellite
	TypeTip
	TypeDecoration
)

// RequiresParent reports whether the invariant in spec.md §3.2 ("if
// type ∈ {gloss, satellite, tip} then parent != None") applies to t.
func (t Type) RequiresParent() bool {
	switch t {
	case TypeGloss, TypeSatellite, TypeTip:
		return true
	}
	return false
}

// ForbidsParent reports whether spec.md §3.3 ("if type ∈ {normal,
// utility} then parent == None") applies to t.
func (t Type) ForbidsParent() bool {
	switch t {
	case TypeNormal, TypeUtility:
		return true
	}
	return false
}

// NeedsTitlebar reports whether surfaces of this type are given a
// server-side decoration titlebar by the Placement Engine (§4.5 step 7).
func (t Type) NeedsTitlebar() bool {
	switch t {
	case TypeNormal, TypeUtility, TypeDialog, TypeFreestyle:
		return true
	}
	return false
}

// State is a logical window state.
type State uint8

const (
	StateRestored State = iota
	StateMinimised
	StateMaximised
	StateVertMaximised
	StateHorizMaximised
	StateFullscreen
	StateHidden
	StateAttached
)

// DepthLayer is a coarse stacking band. Higher bands always sit above
// lower ones regardless of raise operations within a band.
type DepthLayer uint8

const (
	LayerBackground DepthLayer = iota
	LayerBelow
	LayerApplication
	LayerAlwaysOnTop
	LayerAbove
	LayerOverlay
)

// DefaultLayer names the default application layer. The Store does not
// assign it to new records: a record's layer is whatever its creator
// sets. Layer inheritance (invariant 6, and the depth-layer-inheritance
// supplement in SPEC_FULL.md §4) is keyed on Info.LayerIsDefault, not
// on this value.
const DefaultLayer = LayerApplication

// Edges is a bitmask of output/zone edges a surface may be attached to.
type Edges uint8

const (
	EdgeNorth Edges = 1 << iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

func (e Edges) Has(o Edges) bool { return e&o != 0 }

// FocusMode governs whether a surface can become active and whether it
// monopolises focus.
type FocusMode uint8

const (
	FocusFocusable FocusMode = iota
	FocusDisabled
	FocusGrabbing
)

// Constraints bundles the sizing rules the Placement Engine and
// Gesture Engine clamp against.
type Constraints struct {
	MinWidth, MinHeight  int
	MaxWidth, MaxHeight  int
	WidthInc, HeightInc  int
	MinAspect, MaxAspect float64
}

// Info is the per-surface metadata record described in spec.md §3.
type Info struct {
	Type               Type
	State              State
	ClientFacingState  State
	RestoreRect        geometry.Rectangle
	TopLeft            geometry.Point
	Size               geometry.Size
	ContentOffset      geometry.Point
	ContentSize        geometry.Size
	Constraints        Constraints
	Parent             Surface
	Children           []Surface
	OutputID           string
	HasOutputID        bool
	DepthLayer         DepthLayer
	LayerIsDefault     bool
	AttachedEdges      Edges
	ExclusiveRect      geometry.Rectangle
	HasExclusiveRect   bool
	FocusMode          FocusMode
	Titlebar           Surface
	IsTitlebar         bool
	TitlebarOwner      Surface
	PreHideState       State
	HiddenByFullscreen bool
	Session            Session
}

// Rect returns the surface's current frame.
func (i *Info) Rect() geometry.Rectangle {
	return geometry.Rect(i.TopLeft, i.Size)
}

// Visible implements invariant 7: a visible surface must not be
// hidden/minimised nor hidden-by-fullscreen.
func (i *Info) Visible() bool {
	if i.State == StateHidden || i.State == StateMinimised {
		return false
	}
	return !i.HiddenByFullscreen
}
