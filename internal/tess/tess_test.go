// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tess

import (
	"math"
	"testing"

	"github.com/gogpu/spans/geom"
)

func polygon(pts ...[2]float64) *geom.Polygon {
	p := geom.NewPolygon()
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		p.AddLine(geom.Pt(geom.FromFloat(a[0]), geom.FromFloat(a[1])), geom.Pt(geom.FromFloat(b[0]), geom.FromFloat(b[1])))
	}
	return p
}

func trapsArea(tr *geom.Traps) float64 {
	var a float64
	for _, t := range tr.Items() {
		top, bot := geom.ToFloat(t.Top), geom.ToFloat(t.Bottom)
		wt := t.Right.XAtFloat(top) - t.Left.XAtFloat(top)
		wb := t.Right.XAtFloat(bot) - t.Left.XAtFloat(bot)
		a += (wt + wb) / 2 * (bot - top)
	}
	return a
}

// TestTraps tests band decomposition of simple shapes.
func TestTraps(t *testing.T) {
	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	triangle := [][2]float64{{0, 0}, {10, 10}, {0, 10}}
	// self-intersecting bow tie: two triangles of area 25 each
	bowtie := [][2]float64{{0, 0}, {10, 10}, {10, 0}, {0, 10}}

	tests := []struct {
		name string
		pts  [][2]float64
		rule geom.FillRule
		area float64
	}{
		{"square", square, geom.FillRuleWinding, 100},
		{"triangle", triangle, geom.FillRuleWinding, 50},
		{"bowtie winding", bowtie, geom.FillRuleWinding, 50},
		{"bowtie even-odd", bowtie, geom.FillRuleEvenOdd, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trapsArea(Traps(polygon(tt.pts...), tt.rule))
			if math.Abs(got-tt.area) > 0.05 {
				t.Errorf("area = %v, want %v", got, tt.area)
			}
		})
	}
}

// TestTraps_Overlap tests winding versus even-odd on overlapping squares.
func TestTraps_Overlap(t *testing.T) {
	p := polygon([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10})
	inner := polygon([2]float64{2, 2}, [2]float64{8, 2}, [2]float64{8, 8}, [2]float64{2, 8})
	for _, e := range inner.Edges() {
		p.AddEdge(e.Line, e.Top, e.Bottom, e.Dir)
	}

	if got := trapsArea(Traps(p, geom.FillRuleWinding)); math.Abs(got-100) > 1e-9 {
		t.Errorf("winding area = %v, want 100", got)
	}
	if got := trapsArea(Traps(p, geom.FillRuleEvenOdd)); math.Abs(got-64) > 1e-9 {
		t.Errorf("even-odd area = %v, want 64", got)
	}
	if !Rectilinear(p) {
		t.Error("Rectilinear() = false for two squares")
	}
}

// TestIntersect tests polygon intersection.
func TestIntersect(t *testing.T) {
	a := polygon([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10})
	b := polygon([2]float64{5, -2}, [2]float64{12, 5}, [2]float64{5, 12}, [2]float64{-2, 5})

	got := trapsArea(Traps(Intersect(a, geom.FillRuleWinding, b, geom.FillRuleWinding), geom.FillRuleWinding))
	// the diamond (area 98) loses four tips of area 4 outside the square
	if math.Abs(got-82) > 0.1 {
		t.Errorf("diamond-square area = %v, want 82", got)
	}

	empty := Intersect(a, geom.FillRuleWinding, geom.NewPolygon(), geom.FillRuleWinding)
	if !empty.IsEmpty() {
		t.Errorf("intersection with empty polygon has %d edges", empty.Len())
	}
}

// TestIntersectBoxes tests restriction of a triangle to two boxes.
func TestIntersectBoxes(t *testing.T) {
	tri := polygon([2]float64{0, 0}, [2]float64{10, 10}, [2]float64{0, 10})
	boxes := geom.BoxesOf([]geom.Box{geom.BoxFromInts(0, 0, 5, 5), geom.BoxFromInts(0, 5, 10, 10)})

	got := IntersectBoxes(tri, geom.FillRuleWinding, boxes)
	area := trapsArea(Traps(got, geom.FillRuleWinding))
	if math.Abs(area-50) > 0.05 {
		t.Errorf("area = %v, want 50", area)
	}
	ext := got.Extents()
	if ext.P1.Y != 0 || ext.P2.Y != geom.One*10 {
		t.Errorf("extents = %v, want rows 0..10", ext)
	}

	half := geom.BoxesOf([]geom.Box{geom.BoxFromInts(0, 5, 10, 10)})
	area = trapsArea(Traps(IntersectBoxes(tri, geom.FillRuleWinding, half), geom.FillRuleWinding))
	if math.Abs(area-37.5) > 0.05 {
		t.Errorf("lower half area = %v, want 37.5", area)
	}
}
