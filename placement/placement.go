// SPDX-License-Identifier: Unlicense OR MIT

// Package placement implements the Placement Engine: the algorithm
// that turns a creation request into a concrete starting Rectangle
// (spec.md §4.5).
package placement

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/surfaceinfo"
)

// EdgeAttachment selects which axis a popup tries to attach the child
// to its aux-rect along.
type EdgeAttachment uint8

const (
	EdgeAttachNone EdgeAttachment = iota
	EdgeAttachVertical
	EdgeAttachHorizontal
	EdgeAttachAny
)

// Outputs is the subset of the Output Registry the Placement Engine
// needs: the active output to place into, the output a given surface
// currently lives on, and the global display area used for the
// top-clamp in step 6.
type Outputs interface {
	// ActiveOutput is where new parentless/unplaced windows land.
	ActiveOutput() geometry.Rectangle
	// OutputByID looks up an output's extent by id.
	OutputByID(id string) (geometry.Rectangle, bool)
	// OutputContaining returns the output overlapping r, if any.
	OutputContaining(r geometry.Rectangle) (geometry.Rectangle, bool)
	// GlobalDisplayArea is the union of every zone's extent.
	GlobalDisplayArea() geometry.Rectangle
}

// DefaultSurface describes the session's current default surface, used
// by step 2 of the algorithm (cascading new top-levels).
type DefaultSurface struct {
	Rect geometry.Rectangle
}

// Request mirrors spec.md §4.5's PlacementRequest. Zero-value optional
// fields are distinguished by the adjacent Has* flag.
type Request struct {
	Size        geometry.Size
	HasSize     bool
	Position    geometry.Point
	HasPosition bool

	Parent    surfaceinfo.Surface
	ParentRect geometry.Rectangle
	HasParent bool

	OutputID    string
	HasOutputID bool

	State    surfaceinfo.State
	HasState bool

	AuxRect    geometry.Rectangle
	HasAuxRect bool

	EdgeAttachment    EdgeAttachment
	HasEdgeAttachment bool

	AuxGravity    Gravity
	WindowGravity Gravity
	HasGravity    bool

	AuxOffset geometry.Displacement
	Hints     Hints

	Type        surfaceinfo.Type
	Constraints surfaceinfo.Constraints
}

// Result is the Placement Engine's decision: the frame, and whether it
// forces the surface into a new state (step 1's fullscreen force).
type Result struct {
	Rect           geometry.Rectangle
	ForcedState    surfaceinfo.State
	HasForcedState bool
	TitlebarHeight int
	HasTitlebar    bool
}

// Engine is the Placement Engine. TitleBarHeight is captured at
// construction per spec.md §9 ("Global mutable state avoided").
type Engine struct {
	outputs        Outputs
	titleBarHeight int
}

// New constructs a Placement Engine against the given output source.
func New(outputs Outputs, titleBarHeight int) *Engine {
	return &Engine{outputs: outputs, titleBarHeight: titleBarHeight}
}

// Place runs the priority-ordered algorithm of spec.md §4.5 and
// always returns a Result — the function never fails.
func (e *Engine) Place(req Request, def *DefaultSurface) Result {
	size := req.Size
	if !req.HasSize {
		size = geometry.Size{Width: 1, Height: 1}
	}

	// Step 1: explicit output id forces fullscreen on that output.
	if req.HasOutputID {
		if out, ok := e.outputs.OutputByID(req.OutputID); ok {
			return Result{
				Rect:           out,
				ForcedState:    surfaceinfo.StateFullscreen,
				HasForcedState: true,
			}
		}
	}

	var rect geometry.Rectangle
	placed := false

	switch {
	case !req.HasParent:
		// Step 2: cascade from the session's default surface.
		if def != nil {
			candidate := geometry.Rect(
				def.Rect.TopLeft.Add(geometry.Displacement{DX: e.titleBarHeight, DY: e.titleBarHeight}),
				size,
			)
			if out, ok := e.outputs.OutputContaining(def.Rect); ok && out.Overlaps(candidate) {
				rect = candidate
				placed = true
			}
		}

	case req.HasAuxRect && req.HasGravity:
		// Popup gravity + hint placement. A request carrying both an
		// aux-rect and a gravity is placed here; any edge attachment on
		// the same request is not consulted.
		auxGlobal := req.AuxRect.Translate(geometry.Displacement{DX: req.ParentRect.Left(), DY: req.ParentRect.Top()})
		target := e.outputs.ActiveOutput()
		if out, ok := e.outputs.OutputContaining(auxGlobal); ok {
			target = out
		}
		rect = placePopup(auxGlobal, req.ParentRect, req.WindowGravity, req.AuxGravity, req.AuxOffset, size, req.Hints, target)
		placed = true

	case req.HasAuxRect && req.HasEdgeAttachment && req.EdgeAttachment != EdgeAttachNone:
		target := e.outputs.ActiveOutput()
		if out, ok := e.outputs.OutputContaining(req.ParentRect); ok {
			target = out
		}
		if r, ok := attachToEdge(req.AuxRect, req.ParentRect, size, req.EdgeAttachment, target); ok {
			rect = r
			placed = true
		}

	case req.HasParent:
		// Step 4: centre on parent, biased up by 1/6 the height delta.
		rect = centerOn(req.ParentRect, size)
		placed = true
	}

	if !placed {
		// Step 5: centre in the active output, then apply any
		// state-specific override.
		active := e.outputs.ActiveOutput()
		rect = centerOn(active, size)
		if req.HasState {
			switch req.State {
			case surfaceinfo.StateFullscreen, surfaceinfo.StateMaximised:
				rect = active
			case surfaceinfo.StateVertMaximised:
				rect = geometry.Rect(geometry.Point{X: rect.TopLeft.X, Y: active.Top()}, geometry.Size{Width: size.Width, Height: active.Size.Height})
			case surfaceinfo.StateHorizMaximised:
				rect = geometry.Rect(geometry.Point{X: active.Left(), Y: rect.TopLeft.Y}, geometry.Size{Width: active.Size.Width, Height: size.Height})
			}
		}
	}

	// Step 6: clamp the top so the window isn't above the global
	// display area.
	globalTop := e.outputs.GlobalDisplayArea().Top()
	if rect.TopLeft.Y < globalTop {
		rect = rect.WithTopLeft(geometry.Point{X: rect.TopLeft.X, Y: globalTop})
	}

	result := Result{Rect: rect}

	// Step 7: reserve a titlebar, unless fullscreen.
	needsTitlebar := req.Type.NeedsTitlebar() && !(req.HasState && req.State == surfaceinfo.StateFullscreen)
	if needsTitlebar && e.titleBarHeight > 0 {
		result.HasTitlebar = true
		result.TitlebarHeight = e.titleBarHeight
		result.Rect = geometry.Rect(
			geometry.Point{X: rect.TopLeft.X, Y: rect.TopLeft.Y + e.titleBarHeight},
			geometry.Size{Width: rect.Size.Width, Height: rect.Size.Height - e.titleBarHeight},
		)
	}

	return result
}

// centerOn centres a window of size within r, biased upward by
// one-sixth of the height difference (spec.md §4.5 steps 4 and 5).
func centerOn(r geometry.Rectangle, size geometry.Size) geometry.Rectangle {
	dx := (r.Size.Width - size.Width) / 2
	dy := (r.Size.Height - size.Height) / 2
	dy -= (r.Size.Height - size.Height) / 6
	return geometry.Rect(geometry.Point{X: r.Left() + dx, Y: r.Top() + dy}, size)
}

// attachToEdge implements spec.md §4.5 rule 3: vertical attachment
// tries the right edge of the aux-rect first, then the left; horizontal
// attachment tries the bottom edge first, then the top. EdgeAttachAny
// tries vertical-right, vertical-left, horizontal-bottom,
// horizontal-top in that order and accepts the first candidate whose
// full frame is contained in target.
func attachToEdge(aux, parentRect geometry.Rectangle, size geometry.Size, mode EdgeAttachment, target geometry.Rectangle) (geometry.Rectangle, bool) {
	origin := geometry.Displacement{DX: parentRect.Left(), DY: parentRect.Top()}

	right := geometry.Rect(aux.TopRight(), size).Translate(origin)
	left := geometry.Rect(geometry.Point{X: aux.Left() - size.Width, Y: aux.Top()}, size).Translate(origin)
	bottom := geometry.Rect(aux.BottomLeft(), size).Translate(origin)
	top := geometry.Rect(geometry.Point{X: aux.Left(), Y: aux.Top() - size.Height}, size).Translate(origin)

	tryVertical := func() (geometry.Rectangle, bool) {
		if target.ContainsRect(right) {
			return right, true
		}
		if target.ContainsRect(left) {
			return left, true
		}
		return geometry.Rectangle{}, false
	}
	tryHorizontal := func() (geometry.Rectangle, bool) {
		if target.ContainsRect(bottom) {
			return bottom, true
		}
		if target.ContainsRect(top) {
			return top, true
		}
		return geometry.Rectangle{}, false
	}

	switch mode {
	case EdgeAttachVertical:
		return tryVertical()
	case EdgeAttachHorizontal:
		return tryHorizontal()
	case EdgeAttachAny:
		if r, ok := tryVertical(); ok {
			return r, true
		}
		return tryHorizontal()
	}
	return geometry.Rectangle{}, false
}
