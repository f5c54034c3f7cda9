// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package tess decomposes general polygons into trapezoids.
//
// The plane is cut into horizontal bands at every edge endpoint and at every
// crossing between edges. Inside a band no two edges cross, so the edges can
// be ordered once and walked left to right while the winding is accumulated.
// The same walk computes boolean intersections when edges of two polygons
// are mixed and each keeps its own winding counter.
package tess

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/spans/geom"
)

// eps is the float tolerance, in pixels, for ordering edges within a band.
const eps = 1.0 / 4096

type bandEdge struct {
	geom.Edge
	set    int
	xt, xb float64
}

type emitFunc func(top, bottom fixed.Int26_6, left, right geom.Line)

// sweepBands walks the bands of the given edge sets and emits the spans for
// which inside reports true. sets holds at most two polygons.
func sweepBands(sets [][]geom.Edge, inside func(w [2]int) bool, emit emitFunc) {
	var all []bandEdge
	var ys []fixed.Int26_6
	for s, edges := range sets {
		for _, e := range edges {
			if e.Top >= e.Bottom {
				continue
			}
			all = append(all, bandEdge{Edge: e, set: s})
			ys = append(ys, e.Top, e.Bottom)
		}
	}
	if len(all) == 0 {
		return
	}
	slices.SortFunc(all, func(a, b bandEdge) int { return cmp.Compare(a.Top, b.Top) })
	slices.Sort(ys)
	ys = slices.Compact(ys)

	var active []bandEdge
	next := 0
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]

		active = slices.DeleteFunc(active, func(e bandEdge) bool { return e.Bottom <= y0 })
		for next < len(all) && all[next].Top <= y0 {
			if all[next].Bottom > y0 {
				active = append(active, all[next])
			}
			next++
		}
		if len(active) < 2 {
			continue
		}

		ft := geom.ToFloat(y0)
		for k := range active {
			active[k].xt = active[k].Line.XAtFloat(ft)
			active[k].xb = active[k].Line.XAtFloat(geom.ToFloat(y1))
		}
		slices.SortFunc(active, func(a, b bandEdge) int {
			if c := cmp.Compare(a.xt, b.xt); c != 0 {
				return c
			}
			return cmp.Compare(a.xb, b.xb)
		})

		if cut := firstCrossing(active, y0, y1); cut < y1 {
			ys = slices.Insert(ys, i+1, cut)
			y1 = cut
			fb := geom.ToFloat(y1)
			for k := range active {
				active[k].xb = active[k].Line.XAtFloat(fb)
			}
		}

		var w [2]int
		in := false
		left := 0
		for k := range active {
			e := &active[k]
			w[e.set] += e.Dir
			now := inside(w)
			switch {
			case now && !in:
				left = k
			case !now && in:
				l := &active[left]
				if e.xt-l.xt > eps || e.xb-l.xb > eps {
					emit(y0, y1, l.Line, e.Line)
				}
			}
			in = now
		}
	}
}

// firstCrossing returns the first y at which two of the sorted edges swap
// order, rounded down to the fixed grid, or y1 when none do.
func firstCrossing(active []bandEdge, y0, y1 fixed.Int26_6) fixed.Int26_6 {
	cut := y1
	h := float64(y1 - y0)
	for k := 0; k+1 < len(active); k++ {
		a, b := &active[k], &active[k+1]
		if b.xb >= a.xb-eps {
			continue
		}
		den := (a.xb - a.xt) - (b.xb - b.xt)
		if den <= 0 {
			continue
		}
		t := (b.xt - a.xt) / den
		y := y0 + fixed.Int26_6(math.Floor(t*h))
		if y <= y0 {
			y = y0 + 1
		}
		cut = min(cut, y)
	}
	return cut
}

// Traps returns non-overlapping trapezoids covering the fill of p under rule.
func Traps(p *geom.Polygon, rule geom.FillRule) *geom.Traps {
	out := geom.NewTraps()
	sweepBands([][]geom.Edge{p.Edges()}, func(w [2]int) bool {
		return rule.Inside(w[0])
	}, func(top, bottom fixed.Int26_6, left, right geom.Line) {
		out.Add(top, bottom, left, right)
	})
	return out
}

// Intersect returns the intersection of a filled with ruleA and b filled
// with ruleB, as a polygon to be filled with FillRuleWinding.
func Intersect(a *geom.Polygon, ruleA geom.FillRule, b *geom.Polygon, ruleB geom.FillRule) *geom.Polygon {
	out := geom.NewPolygon()
	if a.IsEmpty() || b.IsEmpty() {
		return out
	}
	sweepBands([][]geom.Edge{a.Edges(), b.Edges()}, func(w [2]int) bool {
		return ruleA.Inside(w[0]) && ruleB.Inside(w[1])
	}, func(top, bottom fixed.Int26_6, left, right geom.Line) {
		out.AddEdge(left, top, bottom, 1)
		out.AddEdge(right, top, bottom, -1)
	})
	return out
}

// IntersectBoxes restricts p, filled with rule, to the union of boxes. The
// result is filled with FillRuleWinding.
func IntersectBoxes(p *geom.Polygon, rule geom.FillRule, boxes *geom.Boxes) *geom.Polygon {
	if boxes.Len() == 0 {
		return geom.NewPolygon()
	}
	return Intersect(p, rule, geom.PolygonFromBoxes(boxes), geom.FillRuleWinding)
}

// Rectilinear reports whether every edge of p is vertical.
func Rectilinear(p *geom.Polygon) bool {
	for _, e := range p.Edges() {
		if !e.Line.IsVertical() {
			return false
		}
	}
	return true
}
