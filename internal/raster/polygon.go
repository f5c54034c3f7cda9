// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"bytes"
	"cmp"
	"image"
	"image/draw"
	"math"
	"slices"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/tess"
)

// PolygonConverter scan-converts polygons under a fill rule.
type PolygonConverter interface {
	Converter
	AddPolygon(p *geom.Polygon)
}

// NewPolygonConverter returns the converter for the antialias mode: pixel
// centre sampling for AntialiasNone, area coverage otherwise.
func NewPolygonConverter(extents image.Rectangle, rule geom.FillRule, aa geom.Antialias) PolygonConverter {
	if aa.IsAliased() {
		return NewMonoConverter(extents, rule)
	}
	return NewAAConverter(extents, rule)
}

type polygonBase struct {
	extents image.Rectangle
	rule    geom.FillRule
	polygon *geom.Polygon
}

func (b *polygonBase) AddPolygon(p *geom.Polygon) {
	for _, e := range p.Edges() {
		b.polygon.AddEdge(e.Line, e.Top, e.Bottom, e.Dir)
	}
}

// traps returns the trapezoids of the accumulated polygon, clipped
// vertically to the extents.
func (b *polygonBase) traps() []geom.Trapezoid {
	top, bottom := fixed.I(b.extents.Min.Y), fixed.I(b.extents.Max.Y)
	all := tess.Traps(b.polygon, b.rule).Items()
	out := all[:0]
	for _, t := range all {
		t.Top = max(t.Top, top)
		t.Bottom = min(t.Bottom, bottom)
		if t.Top < t.Bottom {
			out = append(out, t)
		}
	}
	return out
}

// AAConverter computes area coverage by rasterizing the trapezoid
// decomposition of the polygon with an accumulation rasterizer.
type AAConverter struct {
	polygonBase
}

// NewAAConverter returns an antialiasing converter clipped to extents.
func NewAAConverter(extents image.Rectangle, rule geom.FillRule) *AAConverter {
	return &AAConverter{polygonBase{extents: extents, rule: rule, polygon: geom.NewPolygon()}}
}

// Generate implements Converter.
func (c *AAConverter) Generate(r Renderer) error {
	w, h := c.extents.Dx(), c.extents.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	// Rasterizer coordinates are float32, relative to the extents origin.
	// Trapezoids are cut to the canvas rows before they are drawn.
	ox, oy := float32(c.extents.Min.X), float32(c.extents.Min.Y)
	pt := func(v fixed.Int26_6) float32 { return float32(geom.ToFloat(v)) - oy }
	xAt := func(l geom.Line, y float32) float32 { return float32(l.XAtFloat(float64(y+oy))) - ox }

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	for _, t := range c.traps() {
		yt := math32.Max(pt(t.Top), 0)
		yb := math32.Min(pt(t.Bottom), float32(h))
		if yb <= yt {
			continue
		}
		z.MoveTo(xAt(t.Left, yt), yt)
		z.LineTo(xAt(t.Right, yt), yt)
		z.LineTo(xAt(t.Right, yb), yb)
		z.LineTo(xAt(t.Left, yb), yb)
		z.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	var spans []Span
	for y := 0; y < h; {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		height := 1
		for y+height < h && bytes.Equal(row, mask.Pix[(y+height)*mask.Stride:(y+height)*mask.Stride+w]) {
			height++
		}

		spans = spans[:0]
		prev := uint8(0)
		for x, a := range row {
			if a != prev {
				spans = append(spans, Span{X: c.extents.Min.X + x, Coverage: a})
				prev = a
			}
		}
		if prev != 0 {
			spans = append(spans, Span{X: c.extents.Max.X})
		}
		if err := r.RenderRows(c.extents.Min.Y+y, height, spans); err != nil {
			return err
		}
		y += height
	}
	return nil
}

// MonoConverter marks a pixel as fully covered when its centre is inside
// the polygon.
type MonoConverter struct {
	polygonBase
}

// NewMonoConverter returns a non-antialiasing converter clipped to extents.
func NewMonoConverter(extents image.Rectangle, rule geom.FillRule) *MonoConverter {
	return &MonoConverter{polygonBase{extents: extents, rule: rule, polygon: geom.NewPolygon()}}
}

type interval struct{ x1, x2 int }

// Generate implements Converter.
func (c *MonoConverter) Generate(r Renderer) error {
	if c.extents.Dx() <= 0 || c.extents.Dy() <= 0 {
		return nil
	}
	traps := c.traps()

	var row, prevRow []interval
	var spans []Span
	pendingY, pendingH := c.extents.Min.Y, 0
	flush := func() error {
		if pendingH == 0 {
			return nil
		}
		spans = spans[:0]
		for _, iv := range prevRow {
			spans = append(spans, Span{X: iv.x1, Coverage: 0xff}, Span{X: iv.x2})
		}
		return r.RenderRows(pendingY, pendingH, spans)
	}

	for y := c.extents.Min.Y; y < c.extents.Max.Y; y++ {
		centre := fixed.I(y) + geom.One/2
		fc := geom.ToFloat(centre)
		row = row[:0]
		for _, t := range traps {
			if centre < t.Top || centre >= t.Bottom {
				continue
			}
			x1 := int(math.Ceil(t.Left.XAtFloat(fc) - 0.5))
			x2 := int(math.Ceil(t.Right.XAtFloat(fc) - 0.5))
			x1 = max(x1, c.extents.Min.X)
			x2 = min(x2, c.extents.Max.X)
			if x1 < x2 {
				row = append(row, interval{x1, x2})
			}
		}
		row = mergeIntervals(row)

		if pendingH > 0 && slices.Equal(row, prevRow) {
			pendingH++
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		prevRow = append(prevRow[:0], row...)
		pendingY, pendingH = y, 1
	}
	return flush()
}

func mergeIntervals(row []interval) []interval {
	if len(row) < 2 {
		return row
	}
	slices.SortFunc(row, func(a, b interval) int { return cmp.Compare(a.x1, b.x1) })
	out := row[:1]
	for _, iv := range row[1:] {
		last := &out[len(out)-1]
		if iv.x1 <= last.x2 {
			last.x2 = max(last.x2, iv.x2)
			continue
		}
		out = append(out, iv)
	}
	return out
}
