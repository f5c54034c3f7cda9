// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"cmp"
	"image"
	"math"
	"slices"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/spans/geom"
)

type rectangle struct {
	left, right, top, bottom fixed.Int26_6
	topY, bottomY            int
	dir                      int
}

// RectangularConverter computes exact area coverage for axis-aligned boxes.
type RectangularConverter struct {
	extents    geom.Box
	xmin, xmax int
	ymin, ymax int
	rects      []rectangle

	cells cellList
	spans []Span
}

// NewRectangularConverter returns a converter clipped to extents.
func NewRectangularConverter(extents image.Rectangle) *RectangularConverter {
	return &RectangularConverter{
		extents: geom.BoxFromRectangle(extents),
		xmin:    extents.Min.X,
		xmax:    extents.Max.X,
		ymin:    extents.Min.Y,
		ymax:    extents.Max.Y,
	}
}

// AddBox adds box with winding dir. A reversed box negates dir.
func (c *RectangularConverter) AddBox(box geom.Box, dir int) {
	n, d := box.Normalize()
	dir *= d
	if dir == 0 {
		return
	}

	r := rectangle{
		left:  max(n.P1.X, c.extents.P1.X),
		right: min(n.P2.X, c.extents.P2.X),
		dir:   dir,
	}
	if r.right <= r.left {
		return
	}
	r.top = max(n.P1.Y, c.extents.P1.Y)
	r.bottom = min(n.P2.Y, c.extents.P2.Y)
	if r.bottom <= r.top {
		return
	}
	r.topY = geom.IntegerPart(r.top)
	r.bottomY = geom.IntegerPart(r.bottom)
	c.rects = append(c.rects, r)
}

// AddBoxes adds every box of b with winding +1.
func (c *RectangularConverter) AddBoxes(b *geom.Boxes) {
	for _, box := range b.Items() {
		c.AddBox(box, 1)
	}
}

// Generate implements Converter.
func (c *RectangularConverter) Generate(r Renderer) error {
	if c.ymax <= c.ymin {
		return nil
	}
	switch len(c.rects) {
	case 0:
		return r.RenderRows(c.ymin, c.ymax-c.ymin, nil)
	case 1:
		return c.generateBox(r, &c.rects[0])
	}

	slices.SortStableFunc(c.rects, func(a, b rectangle) int { return cmp.Compare(a.topY, b.topY) })
	c.cells.init()

	var active []*rectangle
	next := 0
	for y := c.ymin; y < c.ymax; {
		for next < len(c.rects) && c.rects[next].topY == y {
			active = append(active, &c.rects[next])
			next++
		}
		active = slices.DeleteFunc(active, func(rc *rectangle) bool {
			return rc.bottomY < y || (rc.bottomY == y && geom.IsInteger(rc.bottom))
		})

		height := c.ymax - y
		if next < len(c.rects) {
			height = min(height, c.rects[next].topY-y)
		}
		for _, rc := range active {
			if rc.bottomY == y || (rc.topY == y && !geom.IsInteger(rc.top)) {
				height = 1
				break
			}
			height = min(height, rc.bottomY-y)
		}

		if err := r.RenderRows(y, height, c.rowSpans(active, y)); err != nil {
			return err
		}
		y += height
	}
	return nil
}

// rowSpans accumulates the cells of row y and walks them into spans.
func (c *RectangularConverter) rowSpans(active []*rectangle, y int) []Span {
	if len(active) == 0 {
		return nil
	}
	c.cells.reset()
	for _, rc := range active {
		var height int
		if y == rc.bottomY {
			height = geom.FracPart(rc.bottom)
			if height == 0 {
				continue
			}
		} else {
			height = int(geom.One)
		}
		if y == rc.topY {
			height -= geom.FracPart(rc.top)
		}
		height *= rc.dir

		frac := geom.FracPart(rc.left)
		c.cells.add(geom.IntegerPart(rc.left), (int(geom.One)-frac)*height, frac*height)
		frac = geom.FracPart(rc.right)
		c.cells.add(geom.IntegerPart(rc.right), -(int(geom.One)-frac)*height, -frac*height)
	}

	spans := c.spans[:0]
	prevX := c.xmin
	coverage, prevCoverage := 0, 0
	for i := c.cells.cells[cellHead].next; i != cellTail; i = c.cells.cells[i].next {
		cl := &c.cells.cells[i]
		if cl.x != prevX && coverage != prevCoverage {
			spans = append(spans, Span{X: prevX, Coverage: coverageToAlpha(coverage)})
			prevCoverage = coverage
		}
		coverage += cl.covered
		if coverage != prevCoverage {
			spans = append(spans, Span{X: cl.x, Coverage: coverageToAlpha(coverage)})
			prevCoverage = coverage
		}
		coverage += cl.uncovered
		prevX = cl.x + 1
	}

	if len(spans) > 0 {
		if prevX <= c.xmax {
			spans = append(spans, Span{X: prevX, Coverage: coverageToAlpha(coverage)})
		}
		if coverage != 0 && prevX < c.xmax {
			spans = append(spans, Span{X: c.xmax})
		}
	}
	c.spans = spans
	return spans
}

// generateBox renders a single rectangle directly, without cells.
func (c *RectangularConverter) generateBox(r Renderer, rc *rectangle) error {
	dir := rc.dir
	if dir < 0 {
		dir = -dir
	}
	y1, y2 := rc.topY, rc.bottomY
	if y2 > y1 {
		if !geom.IsInteger(rc.top) {
			if err := c.generateRow(r, rc, y1, 1, dir*(int(geom.One)-geom.FracPart(rc.top))); err != nil {
				return err
			}
			y1++
		}
		if y2 > y1 {
			if err := c.generateRow(r, rc, y1, y2-y1, dir*int(geom.One)); err != nil {
				return err
			}
		}
		if !geom.IsInteger(rc.bottom) {
			return c.generateRow(r, rc, y2, 1, dir*geom.FracPart(rc.bottom))
		}
		return nil
	}
	return c.generateRow(r, rc, y1, 1, dir*int(rc.bottom-rc.top))
}

func (c *RectangularConverter) generateRow(r Renderer, rc *rectangle, y, height, coverage int) error {
	spans := c.spans[:0]
	x1, x2 := geom.IntegerPart(rc.left), geom.IntegerPart(rc.right)
	if x2 > x1 {
		if !geom.IsInteger(rc.left) {
			spans = append(spans, Span{X: x1, Coverage: coverageToAlpha((int(geom.One) - geom.FracPart(rc.left)) * coverage)})
			x1++
		}
		if x2 > x1 {
			spans = append(spans, Span{X: x1, Coverage: coverageToAlpha(int(geom.One) * coverage)})
		}
		if !geom.IsInteger(rc.right) {
			spans = append(spans, Span{X: x2, Coverage: coverageToAlpha(geom.FracPart(rc.right) * coverage)})
			x2++
		}
	} else {
		spans = append(spans, Span{X: x2, Coverage: coverageToAlpha(int(rc.right-rc.left) * coverage)})
		x2++
	}
	spans = append(spans, Span{X: x2})
	c.spans = spans
	return r.RenderRows(y, height, spans)
}

const (
	cellHead int32 = 0
	cellTail int32 = 1
)

type cell struct {
	prev, next         int32
	x                  int
	covered, uncovered int
}

// cellList is a sorted, doubly linked list of cells in an arena that is
// recycled for every row. Insertions walk from the last touched cell.
type cellList struct {
	cells  []cell
	cursor int32
}

func (l *cellList) init() {
	l.cells = l.cells[:0]
	l.reset()
}

func (l *cellList) reset() {
	l.cells = append(l.cells[:0],
		cell{prev: -1, next: cellTail, x: math.MinInt},
		cell{prev: cellHead, next: -1, x: math.MaxInt},
	)
	l.cursor = cellHead
}

func (l *cellList) add(x, covered, uncovered int) {
	pos := l.cursor
	if l.cells[pos].x > x {
		for l.cells[pos].x > x {
			pos = l.cells[pos].prev
		}
	} else {
		for l.cells[l.cells[pos].next].x <= x {
			pos = l.cells[pos].next
		}
	}

	if l.cells[pos].x != x {
		n := int32(len(l.cells))
		next := l.cells[pos].next
		l.cells = append(l.cells, cell{prev: pos, next: next, x: x})
		l.cells[pos].next = n
		l.cells[next].prev = n
		pos = n
	}
	l.cells[pos].covered += covered
	l.cells[pos].uncovered += uncovered
	l.cursor = pos
}
