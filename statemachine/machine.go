// SPDX-License-Identifier: Unlicense OR MIT

// Package statemachine applies the logical window-state transitions
// of spec.md §4.6 to a surface's geometry, and the fullscreen/attached
// occlusion and subtree-motion rules that ride along with them.
package statemachine

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/surfaceinfo"
)

// TransitionInput carries whatever the caller (the wm package, which
// owns the Output Registry and Zone Engine) already resolved for this
// transition, so the Machine itself stays decoupled from output and
// zone lookups.
type TransitionInput struct {
	OutputExtent    geometry.Rectangle
	HasOutputExtent bool
	OutputID        string
	HasOutputID     bool
	ZoneExtent      geometry.Rectangle
	HasZoneExtent   bool
}

// Machine applies state transitions against a Surface Info Store.
type Machine struct {
	store *surfaceinfo.Store
}

// New constructs a Machine bound to store.
func New(store *surfaceinfo.Store) *Machine {
	return &Machine{store: store}
}

// SetState transitions surface to newState per the table in spec.md
// §4.6, returning the resulting frame and whether its titlebar (if it
// has one) should be shown. A request for the state the surface is
// already in is an idempotent no-op (invariant 6) and returns the
// surface's current frame unchanged.
func (m *Machine) SetState(surface surfaceinfo.Surface, newState surfaceinfo.State, in TransitionInput) (geometry.Rectangle, bool, error) {
	info, err := m.store.InfoFor(surface)
	if err != nil {
		return geometry.Rectangle{}, false, err
	}

	old := info.State
	if old == newState {
		show := true
		switch old {
		case surfaceinfo.StateMaximised, surfaceinfo.StateMinimised, surfaceinfo.StateHidden, surfaceinfo.StateAttached:
			show = false
		case surfaceinfo.StateFullscreen:
			show = info.Titlebar != nil
		}
		return info.Rect(), show, nil
	}

	if old == surfaceinfo.StateRestored {
		info.RestoreRect = info.Rect()
	}

	rect := info.Rect()
	showTitlebar := true

	switch newState {
	case surfaceinfo.StateRestored:
		rect = info.RestoreRect
		showTitlebar = true

	case surfaceinfo.StateMaximised:
		if in.HasOutputExtent {
			rect = in.OutputExtent
		}
		showTitlebar = false

	case surfaceinfo.StateVertMaximised:
		if in.HasOutputExtent {
			rect = geometry.Rect(
				geometry.Point{X: info.TopLeft.X, Y: in.OutputExtent.Top()},
				geometry.Size{Width: info.Size.Width, Height: in.OutputExtent.Size.Height},
			)
		}
		showTitlebar = true

	case surfaceinfo.StateHorizMaximised:
		if in.HasOutputExtent {
			rect = geometry.Rect(
				geometry.Point{X: in.OutputExtent.Left(), Y: info.TopLeft.Y},
				geometry.Size{Width: in.OutputExtent.Size.Width, Height: info.Size.Height},
			)
		}
		showTitlebar = true

	case surfaceinfo.StateFullscreen:
		if in.HasOutputExtent {
			rect = in.OutputExtent
		}
		showTitlebar = info.Titlebar != nil

	case surfaceinfo.StateMinimised, surfaceinfo.StateHidden:
		// No geometry change; visibility flips via Info.Visible().
		showTitlebar = false

	case surfaceinfo.StateAttached:
		if in.HasZoneExtent {
			rect = attachedRect(in.ZoneExtent, info.AttachedEdges, info.Size, info.TopLeft)
		}
		showTitlebar = false

	default:
		// Unrecognised target state: no-op.
		return info.Rect(), info.Titlebar != nil, nil
	}

	info.ClientFacingState = newState
	info.State = newState
	info.TopLeft = rect.TopLeft
	info.Size = rect.Size

	if newState == surfaceinfo.StateFullscreen {
		if in.HasOutputID {
			info.OutputID = in.OutputID
			info.HasOutputID = true
		}
	} else {
		info.OutputID = ""
		info.HasOutputID = false
	}

	return rect, showTitlebar, nil
}

// attachedRect derives an attached surface's frame from its edges and
// the owning zone's extent (spec.md §4.6): the surface spans the full
// zone along any axis attached to both edges, sticks to a single edge
// along an axis attached to just one, and otherwise keeps its current
// position and size along that axis.
func attachedRect(zone geometry.Rectangle, edges surfaceinfo.Edges, size geometry.Size, current geometry.Point) geometry.Rectangle {
	x, width := current.X, size.Width
	switch {
	case edges.Has(surfaceinfo.EdgeWest) && edges.Has(surfaceinfo.EdgeEast):
		x, width = zone.Left(), zone.Size.Width
	case edges.Has(surfaceinfo.EdgeWest):
		x = zone.Left()
	case edges.Has(surfaceinfo.EdgeEast):
		x = zone.Right() - width
	}

	y, height := current.Y, size.Height
	switch {
	case edges.Has(surfaceinfo.EdgeNorth) && edges.Has(surfaceinfo.EdgeSouth):
		y, height = zone.Top(), zone.Size.Height
	case edges.Has(surfaceinfo.EdgeNorth):
		y = zone.Top()
	case edges.Has(surfaceinfo.EdgeSouth):
		y = zone.Bottom() - height
	}

	return geometry.Rect(geometry.Point{X: x, Y: y}, geometry.Size{Width: width, Height: height})
}

// HideForFullscreen transitions each attached surface in surfaces to
// hidden, recording its pre-hide state so RestoreFromFullscreen can
// undo it (spec.md §4.6, "Occlusion of attached surfaces").
func (m *Machine) HideForFullscreen(surfaces []surfaceinfo.Surface) error {
	for _, s := range surfaces {
		info, err := m.store.InfoFor(s)
		if err != nil {
			continue
		}
		if info.State != surfaceinfo.StateAttached {
			continue
		}
		info.PreHideState = info.State
		info.State = surfaceinfo.StateHidden
		info.HiddenByFullscreen = true
	}
	return nil
}

// RestoreFromFullscreen returns every surface in surfaces that was
// hidden by a fullscreen occupant back to its pre-hide state.
func (m *Machine) RestoreFromFullscreen(surfaces []surfaceinfo.Surface) error {
	for _, s := range surfaces {
		info, err := m.store.InfoFor(s)
		if err != nil {
			continue
		}
		if !info.HiddenByFullscreen {
			continue
		}
		info.State = info.PreHideState
		info.HiddenByFullscreen = false
	}
	return nil
}

// MoveSubtree applies displacement to root and every descendant found
// through the Store, with no per-child layout recomputation (spec.md
// §4.6, "Subtree motion").
func (m *Machine) MoveSubtree(root surfaceinfo.Surface, displacement geometry.Displacement) error {
	info, err := m.store.InfoFor(root)
	if err != nil {
		return err
	}
	info.TopLeft = info.TopLeft.Add(displacement)
	for _, child := range info.Children {
		_ = m.MoveSubtree(child, displacement)
	}
	return nil
}

// Resize sets root's size directly (no displacement applied to
// children); used by the Gesture Engine's resize gesture, which only
// ever resizes the grabbed surface itself.
func (m *Machine) Resize(surface surfaceinfo.Surface, topLeft geometry.Point, size geometry.Size) error {
	info, err := m.store.InfoFor(surface)
	if err != nil {
		return err
	}
	info.TopLeft = topLeft
	info.Size = size
	if info.State == surfaceinfo.StateRestored {
		info.RestoreRect = info.Rect()
	}
	return nil
}
