// SPDX-License-Identifier: Unlicense OR MIT

// Package geometry implements integer points, sizes, displacements and
// rectangles for window-management coordinates.
//
// The coordinate space has the origin in the top left corner with the
// axes extending right and down, matching the scene-graph surfaces
// that these values describe. All arithmetic is integer: surfaces are
// placed at whole-pixel boundaries and the engine never needs
// sub-pixel precision.
package geometry

// Point is a position in global or parent-local coordinates.
type Point struct {
	X, Y int
}

// Size is a width/height pair.
type Size struct {
	Width, Height int
}

// Displacement is a relative offset, e.g. a drag delta.
type Displacement struct {
	DX, DY int
}

// Rectangle is the axis-aligned box occupying [TopLeft, TopLeft+Size).
type Rectangle struct {
	TopLeft Point
	Size    Size
}

// Rect builds a Rectangle from a top-left point and a size.
func Rect(topLeft Point, size Size) Rectangle {
	return Rectangle{TopLeft: topLeft, Size: size}
}

// RectWH builds a Rectangle from explicit coordinates.
func RectWH(x, y, w, h int) Rectangle {
	return Rectangle{TopLeft: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

func (p Point) Add(d Displacement) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

func (p Point) Sub(q Point) Displacement {
	return Displacement{DX: p.X - q.X, DY: p.Y - q.Y}
}

func (d Displacement) Negate() Displacement {
	return Displacement{DX: -d.DX, DY: -d.DY}
}

func (d Displacement) Add(o Displacement) Displacement {
	return Displacement{DX: d.DX + o.DX, DY: d.DY + o.DY}
}

func (r Rectangle) Left() int   { return r.TopLeft.X }
func (r Rectangle) Top() int    { return r.TopLeft.Y }
func (r Rectangle) Right() int  { return r.TopLeft.X + r.Size.Width }
func (r Rectangle) Bottom() int { return r.TopLeft.Y + r.Size.Height }

func (r Rectangle) TopRight() Point {
	return Point{X: r.Right(), Y: r.Top()}
}

func (r Rectangle) BottomLeft() Point {
	return Point{X: r.Left(), Y: r.Bottom()}
}

func (r Rectangle) BottomRight() Point {
	return Point{X: r.Right(), Y: r.Bottom()}
}

func (r Rectangle) Center() Point {
	return Point{X: r.Left() + r.Size.Width/2, Y: r.Top() + r.Size.Height/2}
}

// WithTopLeft returns r translated so its top-left is p.
func (r Rectangle) WithTopLeft(p Point) Rectangle {
	return Rectangle{TopLeft: p, Size: r.Size}
}

// WithSize returns r with its size replaced, top-left unchanged.
func (r Rectangle) WithSize(s Size) Rectangle {
	return Rectangle{TopLeft: r.TopLeft, Size: s}
}

// Translate offsets r by d.
func (r Rectangle) Translate(d Displacement) Rectangle {
	return Rectangle{TopLeft: r.TopLeft.Add(d), Size: r.Size}
}

// Contains reports whether p lies within r (half-open on the right/bottom).
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// ContainsRect reports whether r entirely contains s.
func (r Rectangle) ContainsRect(s Rectangle) bool {
	return s.Left() >= r.Left() && s.Right() <= r.Right() &&
		s.Top() >= r.Top() && s.Bottom() <= r.Bottom()
}

// Overlaps reports whether r and s share any area.
func (r Rectangle) Overlaps(s Rectangle) bool {
	return r.Left() < s.Right() && s.Left() < r.Right() &&
		r.Top() < s.Bottom() && s.Top() < r.Bottom()
}

// Empty reports whether r has zero or negative area.
func (r Rectangle) Empty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// IntersectionWith returns the overlapping rectangle of r and s. The
// result is empty (but well-formed) when they do not overlap.
func (r Rectangle) IntersectionWith(s Rectangle) Rectangle {
	left := max(r.Left(), s.Left())
	top := max(r.Top(), s.Top())
	right := min(r.Right(), s.Right())
	bottom := min(r.Bottom(), s.Bottom())
	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}
	return RectWH(left, top, right-left, bottom-top)
}

// BoundingRectangle returns the smallest rectangle enclosing all of rs.
// Returns the zero Rectangle for an empty set.
func BoundingRectangle(rs []Rectangle) Rectangle {
	if len(rs) == 0 {
		return Rectangle{}
	}
	left, top := rs[0].Left(), rs[0].Top()
	right, bottom := rs[0].Right(), rs[0].Bottom()
	for _, r := range rs[1:] {
		left = min(left, r.Left())
		top = min(top, r.Top())
		right = max(right, r.Right())
		bottom = max(bottom, r.Bottom())
	}
	return RectWH(left, top, right-left, bottom-top)
}
