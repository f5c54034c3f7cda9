// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import "golang.org/x/image/math/fixed"

// Polygon is an unordered set of directed edges. Its fill is defined by a
// fill rule supplied by the consumer.
type Polygon struct {
	edges    []Edge
	extents  Box
	limit    Box
	hasLimit bool
}

// NewPolygon returns an empty polygon. When limits are given, edges are
// clipped vertically to their union and the extents never exceed it.
func NewPolygon(limits ...Box) *Polygon {
	p := &Polygon{}
	if len(limits) > 0 {
		p.hasLimit = true
		p.limit = limits[0]
		for _, l := range limits[1:] {
			p.limit = p.limit.Union(l)
		}
	}
	return p
}

// PolygonFromBoxes returns the polygon outlining every box, honouring the
// direction of reversed boxes.
func PolygonFromBoxes(b *Boxes) *Polygon {
	p := NewPolygon()
	for _, box := range b.Items() {
		n, dir := box.Normalize()
		p.AddEdge(VerticalLine(n.P1.X, n.P1.Y, n.P2.Y), n.P1.Y, n.P2.Y, dir)
		p.AddEdge(VerticalLine(n.P2.X, n.P1.Y, n.P2.Y), n.P1.Y, n.P2.Y, -dir)
	}
	return p
}

// ClearLimit removes the clipping limit for subsequent edges.
func (p *Polygon) ClearLimit() {
	p.hasLimit = false
}

// AddLine adds the segment p1-p2. Horizontal segments carry no winding and
// are skipped. The direction is +1 when the segment runs downwards.
func (p *Polygon) AddLine(p1, p2 Point) {
	if p1.Y == p2.Y {
		return
	}
	dir := 1
	if p1.Y > p2.Y {
		p1, p2 = p2, p1
		dir = -1
	}
	p.AddEdge(Line{P1: p1, P2: p2}, p1.Y, p2.Y, dir)
}

// AddEdge adds an edge carried by line between top and bottom.
func (p *Polygon) AddEdge(line Line, top, bottom fixed.Int26_6, dir int) {
	if p.hasLimit {
		top = max(top, p.limit.P1.Y)
		bottom = min(bottom, p.limit.P2.Y)
	}
	if top >= bottom {
		return
	}
	e := Edge{Line: line, Top: top, Bottom: bottom, Dir: dir}

	x1, x2 := line.XAt(top), line.XAt(bottom)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	box := Box{P1: Pt(x1, top), P2: Pt(x2, bottom)}
	if p.hasLimit {
		box.P1.X = max(box.P1.X, p.limit.P1.X)
		box.P2.X = min(box.P2.X, p.limit.P2.X)
		if box.P1.X > box.P2.X {
			box.P1.X = box.P2.X
		}
	}
	if len(p.edges) == 0 {
		p.extents = box
	} else {
		p.extents = p.extents.Union(box)
	}
	p.edges = append(p.edges, e)
}

// Edges returns the edges.
func (p *Polygon) Edges() []Edge { return p.edges }

// Len returns the number of edges.
func (p *Polygon) Len() int { return len(p.edges) }

// IsEmpty reports whether the polygon has no edges.
func (p *Polygon) IsEmpty() bool { return len(p.edges) == 0 }

// Extents returns the bounding box of all edges.
func (p *Polygon) Extents() Box { return p.extents }

// Translate moves every edge by whole pixels.
func (p *Polygon) Translate(dx, dy int) {
	fx, fy := fixed.I(dx), fixed.I(dy)
	for i := range p.edges {
		e := &p.edges[i]
		e.Line = e.Line.Translate(fx, fy)
		e.Top += fy
		e.Bottom += fy
	}
	p.extents = p.extents.Translate(fx, fy)
	if p.hasLimit {
		p.limit = p.limit.Translate(fx, fy)
	}
}

// Copy returns an independent copy.
func (p *Polygon) Copy() *Polygon {
	c := *p
	c.edges = append([]Edge(nil), p.edges...)
	return &c
}
