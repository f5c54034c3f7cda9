// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spans

import (
	"errors"

	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/status"
	"github.com/gogpu/spans/internal/stroke"
	"github.com/gogpu/spans/path"
)

// Compositor draws onto surfaces by reducing every request to boxes or
// polygons and handing them to a Backend.
//
// Each request tries the cheapest strategy first. A strategy that cannot
// handle a request reports ErrUnsupported internally and the next, more
// general one runs; the general scan-converter path handles everything.
type Compositor struct {
	backend Backend
	opts    compositorOptions
}

// NewCompositor returns a compositor drawing through backend.
func NewCompositor(backend Backend, opts ...CompositorOption) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{backend: backend, opts: o}
}

// Backend returns the compositor's backend.
func (c *Compositor) Backend() Backend { return c.backend }

// nothingToDo reports requests that cannot change dst.
func nothingToDo(dst Surface, op Operator, src Pattern) bool {
	if src.IsClear() {
		switch op {
		case OperatorOver, OperatorAdd:
			return true
		case OperatorSource:
			op = OperatorClear
		}
	}
	return op == OperatorClear && dst.IsClear()
}

// done finishes a request: internal routing errors are resolved and the
// destination's clear state is updated. Only an unclipped CLEAR paint
// leaves the whole destination clear; a request that touched nothing
// keeps the previous state.
func (c *Compositor) done(dst Surface, op Operator, clears bool, err error) error {
	if errors.Is(err, status.ErrNothingToDo) {
		return nil
	}
	if err != nil {
		if errors.Is(err, status.ErrUnsupported) {
			Logger().Warn("spans: request not handled by any strategy", "op", op)
		}
		return err
	}
	dst.SetClear(clears)
	return nil
}

// Paint composites src over the whole clip.
func (c *Compositor) Paint(dst Surface, op Operator, src Pattern, cl *clip.Clip) error {
	if nothingToDo(dst, op, src) {
		return nil
	}
	ext, err := NewPaintRectangles(dst, op, src, cl)
	if err == nil {
		err = c.paint(ext)
	}
	return c.done(dst, op, op == OperatorClear && cl == nil, err)
}

// Mask composites src through the alpha of mask.
func (c *Compositor) Mask(dst Surface, op Operator, src, mask Pattern, cl *clip.Clip) error {
	if nothingToDo(dst, op, src) {
		return nil
	}
	if mask.IsClear() && op.Bounds()&BoundByMask != 0 {
		return nil
	}
	ext, err := NewMaskRectangles(dst, op, src, mask, cl)
	if err == nil {
		err = c.paint(ext)
	}
	return c.done(dst, op, false, err)
}

// Fill composites src through the fill of p.
func (c *Compositor) Fill(dst Surface, op Operator, src Pattern, p *path.Path,
	rule geom.FillRule, tolerance float64, aa geom.Antialias, cl *clip.Clip) error {
	if nothingToDo(dst, op, src) {
		return nil
	}
	ext, err := NewFillRectangles(dst, op, src, p, cl)
	if err == nil {
		err = c.fill(ext, p, rule, tolerance, aa)
	}
	return c.done(dst, op, false, err)
}

// Stroke composites src through the stroke of p.
func (c *Compositor) Stroke(dst Surface, op Operator, src Pattern, p *path.Path,
	style Stroke, tolerance float64, aa geom.Antialias, cl *clip.Clip) error {
	if nothingToDo(dst, op, src) {
		return nil
	}
	ext, err := NewStrokeRectangles(dst, op, src, p, style, cl)
	if err == nil {
		err = c.stroke(ext, p, style, tolerance, aa)
	}
	return c.done(dst, op, false, err)
}

func (c *Compositor) paint(ext *CompositeRectangles) error {
	boxes := geom.BoxesOf(append([]geom.Box(nil), ext.Clip.Boxes()...))
	return c.clipAndCompositeBoxes(ext, boxes)
}

func (c *Compositor) fill(ext *CompositeRectangles, p *path.Path, rule geom.FillRule, tolerance float64, aa geom.Antialias) error {
	if p.IsRectilinear() {
		var limits []geom.Box
		if !ext.Clip.ContainsRectangle(ext.Mask) {
			limits = ext.Clip.Boxes()
		}
		boxes, err := p.FillRectilinearToBoxes(rule, aa, limits...)
		if err == nil {
			err = c.clipAndCompositeBoxes(ext, boxes)
		}
		if !errors.Is(err, status.ErrUnsupported) {
			return err
		}
		Logger().Debug("spans: rectilinear fill falls back to polygon")
	}

	poly := p.FillToPolygon(tolerance, c.polygonLimits(ext)...)
	return c.compositeClippedPolygon(ext, poly, rule, aa)
}

func (c *Compositor) stroke(ext *CompositeRectangles, p *path.Path, style Stroke, tolerance float64, aa geom.Antialias) error {
	st := style.style()
	if p.IsRectilinear() {
		var limits []geom.Box
		if !ext.Clip.ContainsRectangle(ext.Mask) {
			limits = ext.Clip.Boxes()
		}
		boxes, err := stroke.RectilinearToBoxes(p, st, aa, limits...)
		if err == nil {
			err = c.clipAndCompositeBoxes(ext, boxes)
		}
		if !errors.Is(err, status.ErrUnsupported) {
			return err
		}
		Logger().Debug("spans: rectilinear stroke falls back to polygon")
	}

	e := stroke.NewExpander(st)
	e.SetTolerance(tolerance)
	poly := e.ToPolygon(p, c.polygonLimits(ext)...)
	return c.compositeClippedPolygon(ext, poly, geom.FillRuleWinding, aa)
}

// polygonLimits bounds the polygon of geometry that reaches beyond the
// area the operation may change.
func (c *Compositor) polygonLimits(ext *CompositeRectangles) []geom.Box {
	if ext.Mask.In(ext.Unbounded) {
		return nil
	}
	if boxes := ext.Clip.Boxes(); len(boxes) == 1 {
		return boxes
	}
	return []geom.Box{geom.BoxFromRectangle(ext.Unbounded)}
}

// compositeClippedPolygon intersects poly with the clip boxes and
// composites it. For bounded operators the clip is reduced to its path
// chain, since the boxes are now part of the polygon.
func (c *Compositor) compositeClippedPolygon(ext *CompositeRectangles, poly *geom.Polygon, rule geom.FillRule, aa geom.Antialias) error {
	if boxes := ext.Clip.Boxes(); len(boxes) > 1 || (len(boxes) == 1 && !boxes[0].Contains(poly.Extents())) {
		poly = intersectBoxes(poly, rule, boxes)
		rule = geom.FillRuleWinding
	}

	saved := ext.Clip
	if ext.IsBounded != 0 {
		ext.Clip = ext.Clip.CopyPath().IntersectBox(poly.Extents())
	}
	err := c.clipAndCompositePolygon(ext, poly, rule, aa)
	ext.Clip = saved
	return err
}
