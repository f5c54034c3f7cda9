// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"image"
	"testing"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/spans/geom"
)

// grid records span coverage per pixel.
type grid struct {
	bounds image.Rectangle
	pix    []uint8
	rows   int
}

func newGrid(r image.Rectangle) *grid {
	return &grid{bounds: r, pix: make([]uint8, r.Dx()*r.Dy())}
}

func (g *grid) RenderRows(y, height int, spans []Span) error {
	g.rows += height
	for i := 0; i+1 < len(spans); i++ {
		for x := spans[i].X; x < spans[i+1].X; x++ {
			for yy := y; yy < y+height; yy++ {
				g.pix[(yy-g.bounds.Min.Y)*g.bounds.Dx()+x-g.bounds.Min.X] = spans[i].Coverage
			}
		}
	}
	return nil
}

func (g *grid) at(x, y int) uint8 {
	return g.pix[(y-g.bounds.Min.Y)*g.bounds.Dx()+x-g.bounds.Min.X]
}

func fbox(x1, y1, x2, y2 float64) geom.Box {
	return geom.Box{
		P1: geom.Pt(geom.FromFloat(x1), geom.FromFloat(y1)),
		P2: geom.Pt(geom.FromFloat(x2), geom.FromFloat(y2)),
	}
}

// TestRectangular_FullRow tests that a covered row sums to W*255.
func TestRectangular_FullRow(t *testing.T) {
	ext := image.Rect(0, 0, 20, 4)
	c := NewRectangularConverter(ext)
	c.AddBox(geom.BoxFromInts(3, 0, 13, 4), 1)
	c.AddBox(geom.BoxFromInts(30, 0, 40, 4), 1) // outside, dropped

	g := newGrid(ext)
	if err := c.Generate(g); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for y := range 4 {
		sum := 0
		for x := range 20 {
			sum += int(g.at(x, y))
		}
		if sum != 10*255 {
			t.Errorf("row %d sum = %d, want %d", y, sum, 10*255)
		}
	}
}

// TestRectangular_HalfPixel tests boundary coverage of half-covered pixels.
func TestRectangular_HalfPixel(t *testing.T) {
	tests := []struct {
		name string
		box  geom.Box
		x, y int
	}{
		{"half left", fbox(2.5, 0, 6, 3), 2, 1},
		{"half right", fbox(2, 0, 5.5, 3), 5, 1},
		{"half top", fbox(0, 1.5, 3, 3), 1, 1},
		{"half bottom", fbox(0, 0, 3, 2.5), 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, extra := range []bool{false, true} {
				ext := image.Rect(0, 0, 10, 10)
				c := NewRectangularConverter(ext)
				c.AddBox(tt.box, 1)
				if extra {
					// a second, distant box forces the general path
					c.AddBox(geom.BoxFromInts(8, 8, 9, 9), 1)
				}
				g := newGrid(ext)
				if err := c.Generate(g); err != nil {
					t.Fatal(err)
				}
				if got := g.at(tt.x, tt.y); got < 127 || got > 129 {
					t.Errorf("general=%v: coverage(%d,%d) = %d, want 128±1", extra, tt.x, tt.y, got)
				}
			}
		})
	}
}

// TestRectangular_FastPathMatchesGeneral tests that the single-box fast path
// produces the same coverage as the cell walk.
func TestRectangular_FastPathMatchesGeneral(t *testing.T) {
	boxes := []geom.Box{
		fbox(1.25, 1.75, 7.5, 6.125),
		fbox(2.1, 3.2, 2.9, 3.7),
		fbox(0, 0, 10, 10),
		fbox(4.5, 2, 4.75, 9.5),
		fbox(-3, -2, 3.3, 4.4),
		{P1: geom.Pt(geom.FromFloat(8.5), 64), P2: geom.Pt(geom.FromFloat(1.5), 320)},
	}
	ext := image.Rect(0, 0, 10, 10)
	for _, b := range boxes {
		for _, dir := range []int{1, -1, 2} {
			fast := NewRectangularConverter(ext)
			fast.AddBox(b, dir)
			gf := newGrid(ext)
			if err := fast.Generate(gf); err != nil {
				t.Fatal(err)
			}

			// An empty box at a row of its own forces the general path
			// without changing coverage.
			general := NewRectangularConverter(ext)
			general.AddBox(b, dir)
			general.AddBox(b, dir)
			general.AddBox(b, -dir)
			gg := newGrid(ext)
			if err := general.Generate(gg); err != nil {
				t.Fatal(err)
			}
			if string(gf.pix) != string(gg.pix) {
				t.Errorf("box %v dir %d: fast path %v, general %v", b, dir, gf.pix, gg.pix)
			}
		}
	}
}

// TestRectangular_Winding tests overlapping and cancelling boxes.
func TestRectangular_Winding(t *testing.T) {
	ext := image.Rect(0, 0, 10, 1)
	c := NewRectangularConverter(ext)
	c.AddBox(geom.BoxFromInts(0, 0, 6, 1), 1)
	c.AddBox(geom.BoxFromInts(4, 0, 10, 1), 1)
	c.AddBox(geom.Box{P1: fixed.P(9, 0), P2: fixed.P(2, 1)}, 1) // reversed: -1
	g := newGrid(ext)
	if err := c.Generate(g); err != nil {
		t.Fatal(err)
	}
	want := []uint8{255, 255, 0, 0, 255, 255, 0, 0, 0, 255}
	if string(g.pix) != string(want) {
		t.Errorf("coverage = %v, want %v", g.pix, want)
	}
}

// TestRectangular_EveryRow tests that all rows of the extents are rendered,
// including empty ones.
func TestRectangular_EveryRow(t *testing.T) {
	tests := []struct {
		name  string
		boxes []geom.Box
	}{
		{"empty", nil},
		{"one", []geom.Box{fbox(2, 3.5, 4, 5)}},
		{"two", []geom.Box{fbox(2, 3.5, 4, 5), fbox(1, 7, 2, 8.25)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := image.Rect(0, 0, 10, 10)
			c := NewRectangularConverter(ext)
			for _, b := range tt.boxes {
				c.AddBox(b, 1)
			}
			g := newGrid(ext)
			if err := c.Generate(g); err != nil {
				t.Fatal(err)
			}
			if len(tt.boxes) != 1 && g.rows != 10 {
				t.Errorf("rendered %d rows, want 10", g.rows)
			}
		})
	}
}

// TestRectangular_Spans tests the span layout of a single general row.
func TestRectangular_Spans(t *testing.T) {
	ext := image.Rect(0, 0, 10, 1)
	c := NewRectangularConverter(ext)
	c.AddBox(fbox(1.5, 0, 3, 1), 1)
	c.AddBox(fbox(5, 0, 7, 1), 1)

	var got []Span
	err := c.Generate(RendererFunc(func(y, h int, spans []Span) error {
		got = append([]Span(nil), spans...)
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	want := []Span{
		{X: 1, Coverage: 128}, {X: 2, Coverage: 255}, {X: 3},
		{X: 5, Coverage: 255}, {X: 7}, {X: 8},
	}
	if len(got) != len(want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestComplement tests that a complemented converter visits every pixel
// of the extents and marks the uncovered ones as inverse.
func TestComplement(t *testing.T) {
	ext := image.Rect(0, 0, 10, 4)
	c := NewRectangularConverter(ext)
	c.AddBox(fbox(2, 1, 4, 2), 1)
	c.AddBox(fbox(6, 1, 7.5, 2), 1)

	type row struct {
		y, height int
		spans     []Span
	}
	var rows []row
	comp := NewComplement(ext, RendererFunc(func(y, h int, spans []Span) error {
		rows = append(rows, row{y, h, append([]Span(nil), spans...)})
		return nil
	}))
	if err := c.Generate(comp); err != nil {
		t.Fatal(err)
	}
	if err := comp.Flush(); err != nil {
		t.Fatal(err)
	}

	outside := []Span{{X: 0, Inverse: true}, {X: 10}}
	want := []row{
		{0, 1, outside},
		{1, 1, []Span{
			{X: 0, Inverse: true},
			{X: 2, Coverage: 255},
			{X: 4, Inverse: true},
			{X: 6, Coverage: 255},
			{X: 7, Coverage: 128},
			{X: 8, Inverse: true},
			{X: 10},
		}},
		{2, 2, outside},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	for i := range want {
		got := rows[i]
		if got.y != want[i].y || got.height != want[i].height || len(got.spans) != len(want[i].spans) {
			t.Errorf("row %d = %v, want %v", i, got, want[i])
			continue
		}
		for j := range got.spans {
			if got.spans[j] != want[i].spans[j] {
				t.Errorf("row %d span %d = %v, want %v", i, j, got.spans[j], want[i].spans[j])
			}
		}
	}
}

// TestComplementEmptyConverter tests that a converter producing nothing
// still yields the whole extents as inverse rows.
func TestComplementEmptyConverter(t *testing.T) {
	ext := image.Rect(3, 5, 8, 9)
	g := newGrid(ext)
	for i := range g.pix {
		g.pix[i] = 7
	}
	var inverse int
	comp := NewComplement(ext, RendererFunc(func(y, h int, spans []Span) error {
		for _, s := range spans[:len(spans)-1] {
			if s.Inverse {
				inverse += h * (spans[len(spans)-1].X - s.X)
			}
		}
		return g.RenderRows(y, h, spans)
	}))
	if err := NilConverter().Generate(comp); err != nil {
		t.Fatal(err)
	}
	if err := comp.Flush(); err != nil {
		t.Fatal(err)
	}
	if inverse != ext.Dx()*ext.Dy() {
		t.Errorf("inverse pixels = %d, want %d", inverse, ext.Dx()*ext.Dy())
	}
	if g.rows != ext.Dy() || g.at(3, 5) != 0 || g.at(7, 8) != 0 {
		t.Errorf("rows = %d, at(3,5) = %d, at(7,8) = %d, want %d, 0, 0", g.rows, g.at(3, 5), g.at(7, 8), ext.Dy())
	}
}

// TestSentinelConverters tests the nil and error converters.
func TestSentinelConverters(t *testing.T) {
	calls := 0
	r := RendererFunc(func(int, int, []Span) error { calls++; return nil })
	if err := NilConverter().Generate(r); err != nil {
		t.Errorf("NilConverter().Generate = %v, want nil", err)
	}
	errBroken := errors.New("broken")
	if err := ErrorConverter(errBroken).Generate(r); !errors.Is(err, errBroken) {
		t.Errorf("ErrorConverter().Generate = %v, want %v", err, errBroken)
	}
	if calls != 0 {
		t.Errorf("renderer called %d times, want 0", calls)
	}
}

// TestRectangular_RendererError tests that a renderer error stops generation.
func TestRectangular_RendererError(t *testing.T) {
	errStop := errors.New("stop")
	c := NewRectangularConverter(image.Rect(0, 0, 4, 4))
	c.AddBox(geom.BoxFromInts(0, 0, 2, 2), 1)
	c.AddBox(geom.BoxFromInts(1, 1, 3, 3), 1)
	calls := 0
	err := c.Generate(RendererFunc(func(int, int, []Span) error { calls++; return errStop }))
	if !errors.Is(err, errStop) || calls != 1 {
		t.Errorf("Generate = %v after %d calls, want %v after 1", err, calls, errStop)
	}
}

func square(x1, y1, x2, y2 float64) *geom.Polygon {
	p := geom.NewPolygon()
	pts := []geom.Point{
		geom.Pt(geom.FromFloat(x1), geom.FromFloat(y1)),
		geom.Pt(geom.FromFloat(x2), geom.FromFloat(y1)),
		geom.Pt(geom.FromFloat(x2), geom.FromFloat(y2)),
		geom.Pt(geom.FromFloat(x1), geom.FromFloat(y2)),
	}
	for i := range pts {
		p.AddLine(pts[i], pts[(i+1)%len(pts)])
	}
	return p
}

// TestPolygonConverters tests both polygon converters on simple shapes.
func TestPolygonConverters(t *testing.T) {
	ext := image.Rect(0, 0, 10, 10)

	t.Run("aa square", func(t *testing.T) {
		c := NewPolygonConverter(ext, geom.FillRuleWinding, geom.AntialiasDefault)
		c.AddPolygon(square(2, 2, 5.5, 6))
		g := newGrid(ext)
		if err := c.Generate(g); err != nil {
			t.Fatal(err)
		}
		if got := g.at(3, 3); got != 255 {
			t.Errorf("interior = %d, want 255", got)
		}
		if got := g.at(5, 3); got < 126 || got > 130 {
			t.Errorf("half pixel = %d, want about 128", got)
		}
		if got := g.at(7, 3); got != 0 {
			t.Errorf("exterior = %d, want 0", got)
		}
	})

	t.Run("aa matches rectangular", func(t *testing.T) {
		b := fbox(1.25, 2.5, 6.75, 7.5)
		rc := NewRectangularConverter(ext)
		rc.AddBox(b, 1)
		gr := newGrid(ext)
		if err := rc.Generate(gr); err != nil {
			t.Fatal(err)
		}
		pc := NewAAConverter(ext, geom.FillRuleWinding)
		pc.AddPolygon(square(1.25, 2.5, 6.75, 7.5))
		gp := newGrid(ext)
		if err := pc.Generate(gp); err != nil {
			t.Fatal(err)
		}
		for i := range gr.pix {
			if d := int(gr.pix[i]) - int(gp.pix[i]); d < -2 || d > 2 {
				t.Fatalf("pixel %d: rectangular %d, polygon %d", i, gr.pix[i], gp.pix[i])
			}
		}
	})

	t.Run("mono centres", func(t *testing.T) {
		c := NewPolygonConverter(ext, geom.FillRuleWinding, geom.AntialiasNone)
		c.AddPolygon(square(2.4, 2.6, 5.5, 6))
		g := newGrid(ext)
		if err := c.Generate(g); err != nil {
			t.Fatal(err)
		}
		// centres 2.5..4.5 on x, 3.5..5.5 on y are inside
		for y := range 10 {
			for x := range 10 {
				want := uint8(0)
				if x >= 2 && x <= 4 && y >= 3 && y <= 5 {
					want = 255
				}
				if got := g.at(x, y); got != want {
					t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, want)
				}
			}
		}
	})

	t.Run("even-odd hole", func(t *testing.T) {
		c := NewPolygonConverter(ext, geom.FillRuleEvenOdd, geom.AntialiasNone)
		c.AddPolygon(square(0, 0, 10, 10))
		c.AddPolygon(square(3, 3, 7, 7))
		g := newGrid(ext)
		if err := c.Generate(g); err != nil {
			t.Fatal(err)
		}
		if g.at(5, 5) != 0 || g.at(1, 1) != 255 {
			t.Errorf("hole = %d, ring = %d, want 0 and 255", g.at(5, 5), g.at(1, 1))
		}
	})
}
