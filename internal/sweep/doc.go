// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package sweep implements a Bentley-Ottmann style sweep over axis-aligned
// rectangles.
//
// Each rectangle contributes a left edge with its winding direction and a
// right edge with the opposite direction. Rectangles enter the sweep in
// (top, left) order and leave it through a min-heap on their bottom. Every
// time the sweep line moves, the active edge list is walked once and the
// filled spans between edges are either continued (same right edge, or a
// right edge at the same x) or closed and reopened. The result is a set of
// non-overlapping boxes or trapezoids covering exactly the filled region.
//
// Edges and rectangles live in index-linked arenas owned by one sweep; no
// pointer escapes a call.
package sweep
