// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geom provides the fixed-point geometry shared by the tessellators,
// scan converters and the spans compositor.
//
// Coordinates are [fixed.Int26_6] values (6 fractional bits, one pixel is 64
// units). Boxes are half-open: a box covers [P1.X, P2.X) x [P1.Y, P2.Y).
// A box whose P1.X is greater than its P2.X is "reversed" and contributes a
// winding of -1 when tessellated; this is how the unbounded fixup builds the
// complement of a set of boxes.
package geom
