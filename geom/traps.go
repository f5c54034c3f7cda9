// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import "golang.org/x/image/math/fixed"

// Traps accumulates trapezoids.
type Traps struct {
	items []Trapezoid
}

// NewTraps returns an empty trapezoid set.
func NewTraps() *Traps {
	return &Traps{}
}

// Add appends a trapezoid. Trapezoids without height are dropped.
func (t *Traps) Add(top, bottom fixed.Int26_6, left, right Line) {
	if top >= bottom {
		return
	}
	t.items = append(t.items, Trapezoid{Top: top, Bottom: bottom, Left: left, Right: right})
}

// Len returns the number of trapezoids.
func (t *Traps) Len() int { return len(t.items) }

// Items returns the stored trapezoids.
func (t *Traps) Items() []Trapezoid { return t.items }

// IsRectilinear reports whether every trapezoid is a rectangle.
func (t *Traps) IsRectilinear() bool {
	for _, tr := range t.items {
		if !tr.IsRectangle() {
			return false
		}
	}
	return true
}

// Extents returns the bounding box of all trapezoids.
func (t *Traps) Extents() Box {
	if len(t.items) == 0 {
		return Box{}
	}
	ext := t.items[0].Box()
	for _, tr := range t.items[1:] {
		ext = ext.Union(tr.Box())
	}
	return ext
}

// ToBoxes converts rectilinear trapezoids to boxes. Non-rectangular
// trapezoids are replaced by their bounding box.
func (t *Traps) ToBoxes() *Boxes {
	b := NewBoxes()
	for _, tr := range t.items {
		b.Add(AntialiasDefault, tr.Box())
	}
	return b
}

// ToPolygon returns a polygon whose WINDING fill equals the union of the
// (pairwise disjoint) trapezoids.
func (t *Traps) ToPolygon() *Polygon {
	p := NewPolygon()
	for _, tr := range t.items {
		p.AddEdge(tr.Left, tr.Top, tr.Bottom, 1)
		p.AddEdge(tr.Right, tr.Top, tr.Bottom, -1)
	}
	return p
}
