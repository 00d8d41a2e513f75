// SPDX-License-Identifier: Unlicense OR MIT

// Package gesture implements the pointer and touch move/resize
// gestures of spec.md §4.9: a single in-flight gesture tracked against
// the modifier keys and button that started it, ended implicitly by
// release, modifier change or the window's disappearance.
package gesture

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/input"
	"corewm.dev/corewm/statemachine"
	"corewm.dev/corewm/surfaceinfo"
)

// Kind is the small gesture state spec.md §4.9 enumerates.
type Kind uint8

const (
	KindNone Kind = iota
	KindPointerMoving
	KindPointerResizing
	KindTouchMoving
	KindTouchResizing
)

// Corner names a rectangle corner, used to track a resize's anchor
// (the corner that stays put) and its opposite (the corner that
// follows the cursor).
type Corner uint8

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

func (c Corner) opposite() Corner {
	switch c {
	case CornerTopLeft:
		return CornerBottomRight
	case CornerTopRight:
		return CornerBottomLeft
	case CornerBottomLeft:
		return CornerTopRight
	default:
		return CornerTopLeft
	}
}

func cornerPoint(r geometry.Rectangle, c Corner) geometry.Point {
	switch c {
	case CornerTopLeft:
		return r.TopLeft
	case CornerTopRight:
		return r.TopRight()
	case CornerBottomLeft:
		return r.BottomLeft()
	default:
		return r.BottomRight()
	}
}

// rectWithCornerAt builds a rectangle of the given size whose corner c
// sits at point, leaving the opposite corner free to fall wherever
// that implies.
func rectWithCornerAt(c Corner, point geometry.Point, size geometry.Size) geometry.Rectangle {
	topLeft := point
	switch c {
	case CornerTopRight:
		topLeft = geometry.Point{X: point.X - size.Width, Y: point.Y}
	case CornerBottomLeft:
		topLeft = geometry.Point{X: point.X, Y: point.Y - size.Height}
	case CornerBottomRight:
		topLeft = geometry.Point{X: point.X - size.Width, Y: point.Y - size.Height}
	}
	return geometry.Rect(topLeft, size)
}

func farthestCorner(frame geometry.Rectangle, from geometry.Point) Corner {
	best := CornerTopLeft
	bestDist := -1
	for _, c := range []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight} {
		p := cornerPoint(frame, c)
		d := (p.X-from.X)*(p.X-from.X) + (p.Y-from.Y)*(p.Y-from.Y)
		if d > bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func rectFromCorners(a, b geometry.Point) geometry.Rectangle {
	left, right := a.X, b.X
	if left > right {
		left, right = right, left
	}
	top, bottom := a.Y, b.Y
	if top > bottom {
		top, bottom = bottom, top
	}
	return geometry.RectWH(left, top, right-left, bottom-top)
}

// clampSize applies min/max, size increments and aspect-ratio bounds.
func clampSize(size geometry.Size, c surfaceinfo.Constraints) geometry.Size {
	w, h := size.Width, size.Height
	if c.MinWidth > 0 && w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	if c.MinHeight > 0 && h < c.MinHeight {
		h = c.MinHeight
	}
	if c.MaxHeight > 0 && h > c.MaxHeight {
		h = c.MaxHeight
	}
	if c.WidthInc > 0 {
		w = c.MinWidth + ((w-c.MinWidth)/c.WidthInc)*c.WidthInc
	}
	if c.HeightInc > 0 {
		h = c.MinHeight + ((h-c.MinHeight)/c.HeightInc)*c.HeightInc
	}
	if c.MinAspect > 0 && h > 0 && float64(w)/float64(h) < c.MinAspect {
		h = int(float64(w) / c.MinAspect)
	}
	if c.MaxAspect > 0 && h > 0 && float64(w)/float64(h) > c.MaxAspect {
		w = int(float64(h) * c.MaxAspect)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return geometry.Size{Width: w, Height: h}
}

func blocksDirectGesture(state surfaceinfo.State) bool {
	return state == surfaceinfo.StateMaximised || state == surfaceinfo.StateFullscreen
}

func needsRestoreBeforeRequest(state surfaceinfo.State) bool {
	switch state {
	case surfaceinfo.StateMaximised, surfaceinfo.StateFullscreen, surfaceinfo.StateAttached:
		return true
	}
	return false
}

// Engine tracks the single in-flight gesture, if any.
type Engine struct {
	store   *surfaceinfo.Store
	machine *statemachine.Machine

	dragModifier input.Modifiers

	kind           Kind
	window         surfaceinfo.Surface
	startFrame     geometry.Rectangle
	startPointer   geometry.Point
	startModifiers input.Modifiers
	anchorCorner   Corner

	touches        map[input.TouchID]geometry.Point
	touchStartMean geometry.Point
}

// New constructs an Engine with the default alt drag modifier.
func New(store *surfaceinfo.Store, machine *statemachine.Machine) *Engine {
	return &Engine{
		store:        store,
		machine:      machine,
		dragModifier: input.ModAlt,
		touches:      make(map[input.TouchID]geometry.Point),
	}
}

// SetDragModifier overrides the modifier a pointer drag requires
// (spec.md §6's `pointer-drag-modifier` configuration option).
func (e *Engine) SetDragModifier(m input.Modifiers) {
	e.dragModifier = m
}

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool { return e.kind != KindNone }

// ActiveWindow returns the surface the in-progress gesture targets.
func (e *Engine) ActiveWindow() (surfaceinfo.Surface, bool) {
	return e.window, e.kind != KindNone
}

func (e *Engine) reset() {
	e.kind = KindNone
	e.window = nil
	e.touches = make(map[input.TouchID]geometry.Point)
}

// EndIfSurfaceGone cancels the active gesture if it targets surface,
// implementing the "window disappears" end condition.
func (e *Engine) EndIfSurfaceGone(surface surfaceinfo.Surface) {
	if e.kind != KindNone && e.window == surface {
		e.reset()
	}
}

// HandlePointer feeds a pointer event for the surface under the
// cursor, returning whether the gesture engine consumed it. Once a
// gesture is in progress, subsequent pointer events for its window
// must keep being routed here until it reports not active.
func (e *Engine) HandlePointer(window surfaceinfo.Surface, ev input.PointerEvent) bool {
	if e.kind == KindNone {
		if ev.Action != input.ButtonDown || !ev.Modifiers.Contain(e.dragModifier) {
			return false
		}
		info, err := e.store.InfoFor(window)
		if err != nil || blocksDirectGesture(info.State) {
			return false
		}
		switch {
		case ev.Buttons&input.ButtonPrimary != 0:
			e.beginMove(window, info.Rect(), ev.Position, ev.Modifiers)
			return true
		case ev.Buttons&input.ButtonSecondary != 0:
			e.beginResize(window, info.Rect(), ev.Position, ev.Modifiers)
			return true
		}
		return false
	}

	if e.kind != KindPointerMoving && e.kind != KindPointerResizing {
		return false
	}
	if window != e.window {
		return true
	}
	if ev.Modifiers != e.startModifiers {
		e.reset()
		return false
	}
	switch ev.Action {
	case input.PointerMotion:
		e.updatePointer(ev.Position)
		return true
	case input.ButtonUp:
		e.reset()
		return true
	}
	return true
}

func (e *Engine) beginMove(window surfaceinfo.Surface, frame geometry.Rectangle, pointer geometry.Point, mods input.Modifiers) {
	e.kind = KindPointerMoving
	e.window = window
	e.startFrame = frame
	e.startPointer = pointer
	e.startModifiers = mods
}

func (e *Engine) beginResize(window surfaceinfo.Surface, frame geometry.Rectangle, pointer geometry.Point, mods input.Modifiers) {
	e.kind = KindPointerResizing
	e.window = window
	e.startFrame = frame
	e.startPointer = pointer
	e.startModifiers = mods
	e.anchorCorner = farthestCorner(frame, pointer)
}

func (e *Engine) updatePointer(pointer geometry.Point) {
	switch e.kind {
	case KindPointerMoving:
		e.applyMove(pointer.Sub(e.startPointer))
	case KindPointerResizing:
		e.applyResize(pointer)
	}
}

func (e *Engine) applyMove(delta geometry.Displacement) {
	info, err := e.store.InfoFor(e.window)
	if err != nil {
		e.reset()
		return
	}
	newTopLeft := e.startFrame.TopLeft.Add(delta)
	moveDelta := newTopLeft.Sub(info.TopLeft)
	_ = e.machine.MoveSubtree(e.window, moveDelta)
}

func (e *Engine) applyResize(pointer geometry.Point) {
	info, err := e.store.InfoFor(e.window)
	if err != nil {
		e.reset()
		return
	}
	anchor := cornerPoint(e.startFrame, e.anchorCorner)
	raw := rectFromCorners(anchor, pointer)
	size := clampSize(raw.Size, info.Constraints)
	rect := rectWithCornerAt(e.anchorCorner, anchor, size)

	switch info.State {
	case surfaceinfo.StateVertMaximised:
		rect.TopLeft.Y = e.startFrame.TopLeft.Y
		rect.Size.Height = e.startFrame.Size.Height
	case surfaceinfo.StateHorizMaximised:
		rect.TopLeft.X = e.startFrame.TopLeft.X
		rect.Size.Width = e.startFrame.Size.Width
	}

	_ = e.machine.Resize(e.window, rect.TopLeft, rect.Size)
}

// HandleTouch feeds a touch event for the surface under that touch
// point. Three concurrent touches begin a centroid-tracked drag; any
// touch going up or a new touch coming down cancels it.
func (e *Engine) HandleTouch(window surfaceinfo.Surface, ev input.TouchEvent) bool {
	switch ev.Action {
	case input.TouchDown:
		if e.kind == KindTouchMoving || e.kind == KindTouchResizing {
			e.reset()
		}
		e.touches[ev.ID] = ev.Position
		if len(e.touches) == 3 {
			info, err := e.store.InfoFor(window)
			if err == nil && !blocksDirectGesture(info.State) {
				e.kind = KindTouchMoving
				e.window = window
				e.startFrame = info.Rect()
				e.touchStartMean = e.centroid()
			}
		}
		return e.kind == KindTouchMoving
	case input.TouchUp:
		wasMoving := e.kind == KindTouchMoving
		delete(e.touches, ev.ID)
		if wasMoving {
			e.kind = KindNone
			e.window = nil
		}
		return wasMoving
	case input.TouchMotion:
		if _, ok := e.touches[ev.ID]; !ok {
			return false
		}
		e.touches[ev.ID] = ev.Position
		if e.kind != KindTouchMoving || window != e.window {
			return false
		}
		mean := e.centroid()
		delta := mean.Sub(e.touchStartMean)
		newTopLeft := e.startFrame.TopLeft.Add(delta)
		info, err := e.store.InfoFor(e.window)
		if err != nil {
			e.reset()
			return false
		}
		_ = e.machine.MoveSubtree(e.window, newTopLeft.Sub(info.TopLeft))
		return true
	}
	return false
}

func (e *Engine) centroid() geometry.Point {
	var sumX, sumY, n int
	for _, p := range e.touches {
		sumX += p.X
		sumY += p.Y
		n++
	}
	if n == 0 {
		return geometry.Point{}
	}
	return geometry.Point{X: sumX / n, Y: sumY / n}
}

// RequestMove begins a move gesture on behalf of a client request
// (spec.md §4.9, "request-move from client"). If window is in a
// non-movable state, it is first transitioned to restored, keeping
// the top edge anchored and repositioned so pointer stays over it.
func (e *Engine) RequestMove(window surfaceinfo.Surface, pointer geometry.Point, mods input.Modifiers) error {
	info, err := e.store.InfoFor(window)
	if err != nil {
		return err
	}
	if needsRestoreBeforeRequest(info.State) {
		if err := e.restoreUnderPointer(window, pointer); err != nil {
			return err
		}
		info, err = e.store.InfoFor(window)
		if err != nil {
			return err
		}
	}
	e.beginMove(window, info.Rect(), pointer, mods)
	return nil
}

// RequestResize begins a resize gesture on behalf of a client request
// naming the edge/corner the drag should affect.
func (e *Engine) RequestResize(window surfaceinfo.Surface, edge surfaceinfo.Edges, pointer geometry.Point, mods input.Modifiers) error {
	info, err := e.store.InfoFor(window)
	if err != nil {
		return err
	}
	if needsRestoreBeforeRequest(info.State) {
		if err := e.restoreUnderPointer(window, pointer); err != nil {
			return err
		}
		info, err = e.store.InfoFor(window)
		if err != nil {
			return err
		}
	}
	e.kind = KindPointerResizing
	e.window = window
	e.startFrame = info.Rect()
	e.startPointer = pointer
	e.startModifiers = mods
	e.anchorCorner = edgeToAnchorCorner(edge)
	return nil
}

// edgeToAnchorCorner derives the resize anchor (the corner that stays
// fixed) from the edge/corner the client named: the corner diagonally
// opposite the named edge stays put.
func edgeToAnchorCorner(edge surfaceinfo.Edges) Corner {
	switch {
	case edge.Has(surfaceinfo.EdgeNorth) && edge.Has(surfaceinfo.EdgeWest):
		return CornerBottomRight
	case edge.Has(surfaceinfo.EdgeNorth) && edge.Has(surfaceinfo.EdgeEast):
		return CornerBottomLeft
	case edge.Has(surfaceinfo.EdgeSouth) && edge.Has(surfaceinfo.EdgeWest):
		return CornerTopRight
	case edge.Has(surfaceinfo.EdgeSouth) && edge.Has(surfaceinfo.EdgeEast):
		return CornerTopLeft
	case edge.Has(surfaceinfo.EdgeNorth):
		return CornerBottomLeft
	case edge.Has(surfaceinfo.EdgeSouth):
		return CornerTopLeft
	case edge.Has(surfaceinfo.EdgeWest):
		return CornerTopRight
	default:
		return CornerTopLeft
	}
}

func (e *Engine) restoreUnderPointer(window surfaceinfo.Surface, pointer geometry.Point) error {
	info, err := e.store.InfoFor(window)
	if err != nil {
		return err
	}
	before := info.Rect()
	relX := pointer.X - before.Left()

	if _, _, err := e.machine.SetState(window, surfaceinfo.StateRestored, statemachine.TransitionInput{}); err != nil {
		return err
	}
	after, err := e.store.InfoFor(window)
	if err != nil {
		return err
	}
	if before.Size.Width > 0 {
		relX = relX * after.Size.Width / before.Size.Width
	}
	target := geometry.Point{X: pointer.X - relX, Y: before.Top()}
	return e.machine.MoveSubtree(window, target.Sub(after.TopLeft))
}
