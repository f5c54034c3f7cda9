// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import "golang.org/x/image/math/fixed"

// Line is an infinite line through two points, used as a trapezoid side or
// an edge carrier. Only the segment's slope matters; edges carry their own
// vertical limits.
type Line struct {
	P1, P2 Point
}

// VerticalLine returns the vertical line x between top and bottom.
func VerticalLine(x, top, bottom fixed.Int26_6) Line {
	return Line{P1: Pt(x, top), P2: Pt(x, bottom)}
}

// IsVertical reports whether the line has constant x.
func (l Line) IsVertical() bool {
	return l.P1.X == l.P2.X
}

// XAt returns the x coordinate of the line at y, rounded down.
func (l Line) XAt(y fixed.Int26_6) fixed.Int26_6 {
	switch {
	case y == l.P1.Y:
		return l.P1.X
	case y == l.P2.Y:
		return l.P2.X
	}
	dy := int64(l.P2.Y - l.P1.Y)
	if dy == 0 {
		return l.P1.X
	}
	dx := int64(l.P2.X - l.P1.X)
	return l.P1.X + fixed.Int26_6(mulDivFloor(int64(y-l.P1.Y), dx, dy))
}

// XAtFloat returns the exact x coordinate of the line at y.
func (l Line) XAtFloat(y float64) float64 {
	dy := ToFloat(l.P2.Y - l.P1.Y)
	x1 := ToFloat(l.P1.X)
	if dy == 0 {
		return x1
	}
	return x1 + (y-ToFloat(l.P1.Y))*ToFloat(l.P2.X-l.P1.X)/dy
}

// Translate moves the line by (dx, dy).
func (l Line) Translate(dx, dy fixed.Int26_6) Line {
	return Line{P1: Pt(l.P1.X+dx, l.P1.Y+dy), P2: Pt(l.P2.X+dx, l.P2.Y+dy)}
}

// Edge is a polygon edge: a line restricted to [Top, Bottom) with a winding
// direction of +1 (downwards) or -1.
type Edge struct {
	Line        Line
	Top, Bottom fixed.Int26_6
	Dir         int
}

// Trapezoid is the region between two lines for Top <= y < Bottom.
type Trapezoid struct {
	Top, Bottom fixed.Int26_6
	Left, Right Line
}

// IsRectangle reports whether both sides are vertical.
func (t Trapezoid) IsRectangle() bool {
	return t.Left.IsVertical() && t.Right.IsVertical()
}

// Box returns the bounding box of the trapezoid.
func (t Trapezoid) Box() Box {
	x1 := min(t.Left.XAt(t.Top), t.Left.XAt(t.Bottom))
	x2 := max(t.Right.XAt(t.Top), t.Right.XAt(t.Bottom))
	return Box{P1: Pt(x1, t.Top), P2: Pt(x2, t.Bottom)}
}
