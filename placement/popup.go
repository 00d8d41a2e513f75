// SPDX-License-Identifier: Unlicense OR MIT

package placement

import "corewm.dev/corewm/geometry"

// HorizAnchor is the horizontal component of a compass Gravity.
type HorizAnchor uint8

const (
	Left HorizAnchor = iota
	HCenter
	Right
)

// VertAnchor is the vertical component of a compass Gravity.
type VertAnchor uint8

const (
	Top VertAnchor = iota
	VCenter
	Bottom
)

// Gravity is one of the nine compass-point anchors used for popup
// placement (spec.md GLOSSARY, "Placement gravity").
type Gravity struct {
	X HorizAnchor
	Y VertAnchor
}

var (
	GravityNW = Gravity{Left, Top}
	GravityN  = Gravity{HCenter, Top}
	GravityNE = Gravity{Right, Top}
	GravityW  = Gravity{Left, VCenter}
	GravityC  = Gravity{HCenter, VCenter}
	GravityE  = Gravity{Right, VCenter}
	GravitySW = Gravity{Left, Bottom}
	GravityS  = Gravity{HCenter, Bottom}
	GravitySE = Gravity{Right, Bottom}
)

func flipHoriz(a HorizAnchor) HorizAnchor {
	switch a {
	case Left:
		return Right
	case Right:
		return Left
	}
	return a
}

func flipVert(a VertAnchor) VertAnchor {
	switch a {
	case Top:
		return Bottom
	case Bottom:
		return Top
	}
	return a
}

// Hints is a bitmask of popup re-placement hints (spec.md §4.5).
type Hints uint8

const (
	HintFlipX Hints = 1 << iota
	HintFlipY
	HintSlideX
	HintSlideY
	HintResizeX
	HintResizeY
)

func (h Hints) has(bit Hints) bool { return h&bit != 0 }

// horizAnchorPoint returns the x coordinate of a on [lo, hi].
func horizAnchorPoint(lo, hi int, a HorizAnchor) int {
	switch a {
	case Left:
		return lo
	case Right:
		return hi
	default:
		return lo + (hi-lo)/2
	}
}

func vertAnchorPoint(lo, hi int, a VertAnchor) int {
	switch a {
	case Top:
		return lo
	case Bottom:
		return hi
	default:
		return lo + (hi-lo)/2
	}
}

func horizWindowOffset(width int, a HorizAnchor) int {
	switch a {
	case Left:
		return 0
	case Right:
		return width
	default:
		return width / 2
	}
}

func vertWindowOffset(height int, a VertAnchor) int {
	switch a {
	case Top:
		return 0
	case Bottom:
		return height
	default:
		return height / 2
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// placePopup implements spec.md §4.5's "Popup placement (gravity +
// hints)". auxGlobal and parentRect are already in global coordinates.
func placePopup(auxGlobal, parentRect geometry.Rectangle, windowGravity, auxGravity Gravity, offset geometry.Displacement, size geometry.Size, hints Hints, target geometry.Rectangle) geometry.Rectangle {
	x, w := resolveAxisX(auxGlobal.Left(), auxGlobal.Right(), parentRect.Left(), parentRect.Right(),
		auxGravity.X, windowGravity.X, offset.DX, size.Width, target.Left(), target.Right(), hints)
	y, h := resolveAxisY(auxGlobal.Top(), auxGlobal.Bottom(), parentRect.Top(), parentRect.Bottom(),
		auxGravity.Y, windowGravity.Y, offset.DY, size.Height, target.Top(), target.Bottom(), hints)
	return geometry.Rect(geometry.Point{X: x, Y: y}, geometry.Size{Width: w, Height: h})
}

// resolveAxisX computes the placed x-range for one axis: anchor the
// gravity point (clamped to stay adjacent to the parent, "Anchoring to
// parent" in spec.md §4.5), then try flip, slide, resize in that order
// if the unmodified placement doesn't fit in target.
func resolveAxisX(auxLo, auxHi, parentLo, parentHi int, ag HorizAnchor, wg HorizAnchor, offset, width, outLo, outHi int, hints Hints) (int, int) {
	compute := func(ag, wg HorizAnchor) (int, int) {
		anchor := horizAnchorPoint(auxLo, auxHi, ag)
		anchor = clampInt(anchor, parentLo, parentHi)
		x := anchor + offset - horizWindowOffset(width, wg)
		return x, width
	}

	x, w := compute(ag, wg)
	if x >= outLo && x+w <= outHi {
		return x, w
	}
	if hints.has(HintFlipX) {
		fx, fw := compute(flipHoriz(ag), flipHoriz(wg))
		if fx >= outLo && fx+fw <= outHi {
			return fx, fw
		}
	}
	if hints.has(HintSlideX) {
		sx := clampInt(x, outLo, outHi-w)
		return sx, w
	}
	if hints.has(HintResizeX) {
		rx := x
		rw := w
		if rx < outLo {
			rx = outLo
		}
		if rx+rw > outHi {
			rw = outHi - rx
		}
		if rw < 0 {
			rw = 0
		}
		return rx, rw
	}
	return x, w
}

func resolveAxisY(auxLo, auxHi, parentLo, parentHi int, ag VertAnchor, wg VertAnchor, offset, height, outLo, outHi int, hints Hints) (int, int) {
	compute := func(ag, wg VertAnchor) (int, int) {
		anchor := vertAnchorPoint(auxLo, auxHi, ag)
		anchor = clampInt(anchor, parentLo, parentHi)
		y := anchor + offset - vertWindowOffset(height, wg)
		return y, height
	}

	y, h := compute(ag, wg)
	if y >= outLo && y+h <= outHi {
		return y, h
	}
	if hints.has(HintFlipY) {
		fy, fh := compute(flipVert(ag), flipVert(wg))
		if fy >= outLo && fy+fh <= outHi {
			return fy, fh
		}
	}
	if hints.has(HintSlideY) {
		sy := clampInt(y, outLo, outHi-h)
		return sy, h
	}
	if hints.has(HintResizeY) {
		ry := y
		rh := h
		if ry < outLo {
			ry = outLo
		}
		if ry+rh > outHi {
			rh = outHi - ry
		}
		if rh < 0 {
			rh = 0
		}
		return ry, rh
	}
	return y, h
}
