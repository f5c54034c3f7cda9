// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spans

import (
	"image"

	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/status"
	"github.com/gogpu/spans/path"
)

// CompositeRectangles holds the areas involved in one compositing
// operation. All rectangles are in destination pixels.
type CompositeRectangles struct {
	Surface Surface
	Op      Operator
	Source  Pattern

	// MaskPattern is nil for an opaque mask.
	MaskPattern Pattern

	// Clip is the clip reduced to the operation. It is never nil once
	// the rectangles are built.
	Clip *clip.Clip

	// Destination is the surface extent.
	Destination image.Rectangle
	// Unbounded is the area the operator may change.
	Unbounded image.Rectangle
	// Bounded is the area where the source shows through the mask.
	Bounded image.Rectangle
	// Mask is the extent of the drawn geometry or mask pattern.
	Mask image.Rectangle

	SourceExtents    image.Rectangle
	SourceSampleArea image.Rectangle
	MaskSampleArea   image.Rectangle

	IsBounded Bound
}

func initRectangles(dst Surface, op Operator, src Pattern, cl *clip.Clip) (*CompositeRectangles, error) {
	if cl.IsAllClipped() {
		return nil, status.ErrNothingToDo
	}
	e := &CompositeRectangles{
		Surface:     dst,
		Op:          op,
		Source:      src,
		Destination: dst.Bounds(),
		IsBounded:   op.Bounds(),
	}
	e.Unbounded = e.Destination
	if cl != nil {
		e.Unbounded = e.Unbounded.Intersect(cl.Extents())
		if e.Unbounded.Empty() {
			return nil, status.ErrNothingToDo
		}
	}
	e.Bounded = e.Unbounded
	e.SourceExtents = src.Extents()
	if e.IsBounded&BoundBySource != 0 {
		e.Bounded = e.Bounded.Intersect(e.SourceExtents)
		if e.Bounded.Empty() {
			return nil, status.ErrNothingToDo
		}
	}
	return e, nil
}

// NewPaintRectangles returns the rectangles for painting src everywhere.
func NewPaintRectangles(dst Surface, op Operator, src Pattern, cl *clip.Clip) (*CompositeRectangles, error) {
	e, err := initRectangles(dst, op, src, cl)
	if err != nil {
		return nil, err
	}
	e.Mask = e.Destination
	return e.finish(cl)
}

// NewMaskRectangles returns the rectangles for painting src through mask.
func NewMaskRectangles(dst Surface, op Operator, src, mask Pattern, cl *clip.Clip) (*CompositeRectangles, error) {
	e, err := initRectangles(dst, op, src, cl)
	if err != nil {
		return nil, err
	}
	e.MaskPattern = mask
	e.Mask = mask.Extents()
	return e.finish(cl)
}

// NewFillRectangles returns the rectangles for filling p.
func NewFillRectangles(dst Surface, op Operator, src Pattern, p *path.Path, cl *clip.Clip) (*CompositeRectangles, error) {
	e, err := initRectangles(dst, op, src, cl)
	if err != nil {
		return nil, err
	}
	if box, ok := p.Extents(); ok {
		e.Mask = box.RoundOut()
	}
	return e.finish(cl)
}

// NewStrokeRectangles returns the rectangles for stroking p with style.
func NewStrokeRectangles(dst Surface, op Operator, src Pattern, p *path.Path, style Stroke, cl *clip.Clip) (*CompositeRectangles, error) {
	e, err := initRectangles(dst, op, src, cl)
	if err != nil {
		return nil, err
	}
	if box, ok := p.Extents(); ok {
		r := geom.FromFloat(style.Expansion())
		box.P1.X -= r
		box.P1.Y -= r
		box.P2.X += r
		box.P2.Y += r
		e.Mask = box.RoundOut()
	}
	return e.finish(cl)
}

// NewBoxesRectangles returns the rectangles for compositing boxes.
func NewBoxesRectangles(dst Surface, op Operator, src Pattern, boxes *geom.Boxes, cl *clip.Clip) (*CompositeRectangles, error) {
	e, err := initRectangles(dst, op, src, cl)
	if err != nil {
		return nil, err
	}
	if boxes.Len() > 0 {
		e.Mask = boxes.Extents().RoundOut()
	}
	return e.finish(cl)
}

// NewPolygonRectangles returns the rectangles for compositing a polygon.
func NewPolygonRectangles(dst Surface, op Operator, src Pattern, poly *geom.Polygon, cl *clip.Clip) (*CompositeRectangles, error) {
	e, err := initRectangles(dst, op, src, cl)
	if err != nil {
		return nil, err
	}
	if !poly.IsEmpty() {
		e.Mask = poly.Extents().RoundOut()
	}
	return e.finish(cl)
}

func (e *CompositeRectangles) finish(cl *clip.Clip) (*CompositeRectangles, error) {
	if err := e.intersect(cl); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *CompositeRectangles) intersect(cl *clip.Clip) error {
	e.Bounded = e.Bounded.Intersect(e.Mask)
	if e.Bounded.Empty() && e.IsBounded&BoundByMask != 0 {
		return status.ErrNothingToDo
	}
	if err := e.limitUnbounded(); err != nil {
		return err
	}

	e.reduceClip(cl)
	if e.Clip.IsAllClipped() {
		return status.ErrNothingToDo
	}
	ce := e.Clip.Extents()
	e.Unbounded = e.Unbounded.Intersect(ce)
	if e.Unbounded.Empty() {
		return status.ErrNothingToDo
	}
	e.Bounded = e.Bounded.Intersect(ce)
	if e.Bounded.Empty() && e.IsBounded&BoundByMask != 0 {
		return status.ErrNothingToDo
	}

	if err := e.updateSampleAreas(); err != nil {
		return err
	}
	e.foldSolidMask()
	return nil
}

func (e *CompositeRectangles) limitUnbounded() error {
	switch {
	case e.IsBounded == BoundByMask|BoundBySource:
		e.Unbounded = e.Bounded
	case e.IsBounded&BoundByMask != 0:
		e.Unbounded = e.Unbounded.Intersect(e.Mask)
		if e.Unbounded.Empty() {
			return status.ErrNothingToDo
		}
	}
	return nil
}

// reduceClip drops the parts of cl outside the operation. A clip that
// contains the operation becomes a plain rectangle.
func (e *CompositeRectangles) reduceClip(cl *clip.Clip) {
	r := e.Unbounded
	if e.IsBounded != 0 {
		r = e.Bounded
	}
	e.Clip = cl.ReduceToRectangle(r)
	if e.Clip == nil {
		e.Clip = clip.FromRectangle(r)
	}
}

func (e *CompositeRectangles) updateSampleAreas() error {
	e.SourceSampleArea = sampledArea(e.Source, e.Bounded)
	if e.MaskPattern != nil {
		e.MaskSampleArea = sampledArea(e.MaskPattern, e.Bounded)
		if e.MaskSampleArea.Empty() {
			return status.ErrNothingToDo
		}
	}
	return nil
}

// foldSolidMask moves a solid mask into a solid source, or drops an opaque
// one.
func (e *CompositeRectangles) foldSolidMask() {
	m, ok := e.MaskPattern.(*SolidPattern)
	if !ok {
		return
	}
	if m.Color.IsOpaque() {
		e.MaskPattern = nil
		return
	}
	s, ok := e.Source.(*SolidPattern)
	if ok && e.IsBounded == BoundByMask|BoundBySource {
		e.Source = NewSolidPattern(s.Color.MultiplyAlpha(m.Color.A))
		e.MaskPattern = nil
	}
}

// IntersectMaskExtents shrinks the operation to the geometry extents box,
// which must lie within the current mask.
func (e *CompositeRectangles) IntersectMaskExtents(box geom.Box) error {
	mask := box.RoundOut()
	if mask == e.Mask {
		return nil
	}
	e.Mask = e.Mask.Intersect(mask)

	prev := e.Bounded
	e.Bounded = e.Bounded.Intersect(e.Mask)
	if e.Bounded.Empty() && e.IsBounded&BoundByMask != 0 {
		return status.ErrNothingToDo
	}
	if e.Bounded.Size() == prev.Size() {
		return nil
	}
	if err := e.limitUnbounded(); err != nil {
		return err
	}

	e.reduceClip(e.Clip)
	if e.Clip.IsAllClipped() {
		return status.ErrNothingToDo
	}
	e.Unbounded = e.Unbounded.Intersect(e.Clip.Extents())
	if e.Unbounded.Empty() {
		return status.ErrNothingToDo
	}
	return e.updateSampleAreas()
}

// withMask returns a copy of e compositing through mask.
func (e *CompositeRectangles) withMask(mask Pattern) (*CompositeRectangles, error) {
	c := *e
	c.MaskPattern = mask
	if err := c.updateSampleAreas(); err != nil {
		return nil, err
	}
	return &c, nil
}
