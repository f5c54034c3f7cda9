// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sweep

import (
	"fmt"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/status"
)

type boxSink struct {
	out *geom.Boxes
}

func (s boxSink) AddSpan(top, bottom, left, right fixed.Int26_6) error {
	s.out.Add(geom.AntialiasDefault, geom.Box{P1: geom.Pt(left, top), P2: geom.Pt(right, bottom)})
	return nil
}

type trapSink struct {
	out *geom.Traps
}

func (s trapSink) AddSpan(top, bottom, left, right fixed.Int26_6) error {
	s.out.Add(top, bottom, geom.VerticalLine(left, top, bottom), geom.VerticalLine(right, top, bottom))
	return nil
}

// RectsFromBoxes converts boxes to sweep input, keeping the winding of
// reversed boxes.
func RectsFromBoxes(in *geom.Boxes) []Rect {
	rects := make([]Rect, 0, in.Len())
	for _, b := range in.Items() {
		n, dir := b.Normalize()
		rects = append(rects, Rect{Left: n.P1.X, Right: n.P2.X, Top: n.P1.Y, Bottom: n.P2.Y, Dir: dir})
	}
	return rects
}

// TessellateBoxes resolves overlaps between the boxes of in under rule and
// returns non-overlapping, normalized boxes covering the filled region.
func TessellateBoxes(in *geom.Boxes, rule geom.FillRule) (*geom.Boxes, error) {
	out := geom.NewBoxes()
	switch in.Len() {
	case 0:
		return out, nil
	case 1:
		n, _ := in.Items()[0].Normalize()
		out.Add(geom.AntialiasDefault, n)
		return out, nil
	}
	if err := Tessellate(RectsFromBoxes(in), rule, boxSink{out: out}); err != nil {
		return nil, err
	}
	return out, nil
}

// TessellateBoxesToTraps is TessellateBoxes with trapezoid output.
func TessellateBoxesToTraps(in *geom.Boxes, rule geom.FillRule) (*geom.Traps, error) {
	out := geom.NewTraps()
	if err := Tessellate(RectsFromBoxes(in), rule, trapSink{out: out}); err != nil {
		return nil, err
	}
	return out, nil
}

// TessellateRectangularTraps resolves overlaps between rectangular
// trapezoids. The winding of each input follows the direction of its left
// side.
func TessellateRectangularTraps(in *geom.Traps, rule geom.FillRule) (*geom.Traps, error) {
	rects := make([]Rect, 0, in.Len())
	for i, t := range in.Items() {
		if !t.IsRectangle() {
			return nil, fmt.Errorf("sweep: trapezoid %d is not a rectangle: %w", i, status.ErrInvalid)
		}
		dir := 1
		if t.Left.P1.Y > t.Left.P2.Y {
			dir = -1
		}
		rects = append(rects, Rect{Left: t.Left.P1.X, Right: t.Right.P1.X, Top: t.Top, Bottom: t.Bottom, Dir: dir})
	}
	out := geom.NewTraps()
	if err := Tessellate(rects, rule, trapSink{out: out}); err != nil {
		return nil, err
	}
	return out, nil
}
