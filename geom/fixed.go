// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Fixed-point layout of fixed.Int26_6.
const (
	FracBits = 6
	One      = fixed.Int26_6(1 << FracBits)
	FracMask = One - 1
)

// Limits used by sentinel edges.
const (
	MinFixed = fixed.Int26_6(math.MinInt32)
	MaxFixed = fixed.Int26_6(math.MaxInt32)
)

// Point is a fixed-point position.
type Point = fixed.Point26_6

// Pt returns the point (x, y).
func Pt(x, y fixed.Int26_6) Point {
	return fixed.Point26_6{X: x, Y: y}
}

// IntPt returns the point for integer pixel coordinates.
func IntPt(x, y int) Point {
	return fixed.P(x, y)
}

// FromFloat converts v to fixed point, rounding to nearest and saturating
// at the representable range.
func FromFloat(v float64) fixed.Int26_6 {
	f := math.Round(v * float64(One))
	switch {
	case f >= float64(MaxFixed):
		return MaxFixed
	case f <= float64(MinFixed):
		return MinFixed
	}
	return fixed.Int26_6(f)
}

// ToFloat converts v to float64.
func ToFloat(v fixed.Int26_6) float64 {
	return float64(v) / float64(One)
}

// IntegerPart returns floor(v) as an int.
func IntegerPart(v fixed.Int26_6) int {
	return int(v >> FracBits)
}

// FracPart returns the fractional bits of v in [0, One).
func FracPart(v fixed.Int26_6) int {
	return int(v & FracMask)
}

// IsInteger reports whether v lies on a pixel boundary.
func IsInteger(v fixed.Int26_6) bool {
	return v&FracMask == 0
}

// RoundDown rounds v to the nearest pixel boundary, halves rounding down.
func RoundDown(v fixed.Int26_6) fixed.Int26_6 {
	return (v + FracMask/2) &^ FracMask
}

// mulDivFloor computes floor(a*b/c) in 64 bits.
func mulDivFloor(a, b, c int64) int64 {
	n := a * b
	q := n / c
	if (n%c != 0) && ((n < 0) != (c < 0)) {
		q--
	}
	return q
}
