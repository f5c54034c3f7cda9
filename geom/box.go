// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"image"

	"golang.org/x/image/math/fixed"
)

// Box is an axis-aligned rectangle. Normalized boxes have P1 <= P2 on both
// axes; a box with P1.X > P2.X is reversed (winding -1).
type Box struct {
	P1, P2 Point
}

// BoxFromInts returns the box covering integer pixel coordinates.
func BoxFromInts(x1, y1, x2, y2 int) Box {
	return Box{P1: fixed.P(x1, y1), P2: fixed.P(x2, y2)}
}

// BoxFromRectangle converts an integer rectangle.
func BoxFromRectangle(r image.Rectangle) Box {
	return BoxFromInts(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// IsEmpty reports whether the box has no area.
func (b Box) IsEmpty() bool {
	return b.P1.X >= b.P2.X || b.P1.Y >= b.P2.Y
}

// Width returns P2.X - P1.X.
func (b Box) Width() fixed.Int26_6 { return b.P2.X - b.P1.X }

// Height returns P2.Y - P1.Y.
func (b Box) Height() fixed.Int26_6 { return b.P2.Y - b.P1.Y }

// IsPixelAligned reports whether all four coordinates are integers.
func (b Box) IsPixelAligned() bool {
	return IsInteger(b.P1.X) && IsInteger(b.P1.Y) && IsInteger(b.P2.X) && IsInteger(b.P2.Y)
}

// Normalize returns the box with ordered corners and its winding direction.
// Swapping one axis flips the direction; swapping both keeps it.
func (b Box) Normalize() (Box, int) {
	dir := 1
	if b.P1.X > b.P2.X {
		b.P1.X, b.P2.X = b.P2.X, b.P1.X
		dir = -dir
	}
	if b.P1.Y > b.P2.Y {
		b.P1.Y, b.P2.Y = b.P2.Y, b.P1.Y
		dir = -dir
	}
	return b, dir
}

// Intersect returns the intersection of two normalized boxes. The result
// may be empty.
func (b Box) Intersect(o Box) Box {
	r := b.rect().Intersect(o.rect())
	return Box{P1: r.Min, P2: r.Max}
}

// Union returns the smallest box containing both normalized boxes. Unlike
// fixed.Rectangle26_6.Union, degenerate boxes still extend the result.
func (b Box) Union(o Box) Box {
	return Box{
		P1: Pt(min(b.P1.X, o.P1.X), min(b.P1.Y, o.P1.Y)),
		P2: Pt(max(b.P2.X, o.P2.X), max(b.P2.Y, o.P2.Y)),
	}
}

// Contains reports whether o lies within b.
func (b Box) Contains(o Box) bool {
	return b.P1.X <= o.P1.X && b.P1.Y <= o.P1.Y && b.P2.X >= o.P2.X && b.P2.Y >= o.P2.Y
}

// Translate moves the box by (dx, dy).
func (b Box) Translate(dx, dy fixed.Int26_6) Box {
	return Box{
		P1: Pt(b.P1.X+dx, b.P1.Y+dy),
		P2: Pt(b.P2.X+dx, b.P2.Y+dy),
	}
}

// RoundOut returns the smallest integer rectangle containing the box,
// saturated to UnboundedRectangle.
func (b Box) RoundOut() image.Rectangle {
	return image.Rect(b.P1.X.Floor(), b.P1.Y.Floor(), ceil(b.P2.X), ceil(b.P2.Y))
}

func ceil(v fixed.Int26_6) int {
	if v > MaxFixed-FracMask {
		return int(MaxFixed >> FracBits)
	}
	return v.Ceil()
}

// RoundIn returns the largest integer rectangle inside the box.
func (b Box) RoundIn() image.Rectangle {
	return image.Rect(b.P1.X.Ceil(), b.P1.Y.Ceil(), b.P2.X.Floor(), b.P2.Y.Floor())
}

func (b Box) rect() fixed.Rectangle26_6 {
	return fixed.Rectangle26_6{Min: b.P1, Max: b.P2}
}

// unboundedBox is used where no limit applies.
var unboundedBox = Box{P1: Pt(MinFixed, MinFixed), P2: Pt(MaxFixed, MaxFixed)}

// Unbounded returns a box covering the whole fixed-point plane.
func Unbounded() Box { return unboundedBox }

// UnboundedRectangle is the integer rectangle of every representable pixel.
var UnboundedRectangle = image.Rect(
	int(MinFixed>>FracBits), int(MinFixed>>FracBits),
	int(MaxFixed>>FracBits), int(MaxFixed>>FracBits),
)
