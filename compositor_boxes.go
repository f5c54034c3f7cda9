// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spans

import (
	"errors"
	"image"

	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/raster"
	"github.com/gogpu/spans/internal/status"
	"github.com/gogpu/spans/internal/sweep"
)

// clipAndCompositeBoxes composites the operation through boxes, trying
// the clip polygon reduction, the aligned fast paths, the rectangular
// converter and finally the polygon converter.
func (c *Compositor) clipAndCompositeBoxes(ext *CompositeRectangles, boxes *geom.Boxes) error {
	if err := ext.IntersectMaskExtents(boxes.Extents()); err != nil {
		return err
	}
	if boxes.Len() == 0 {
		if ext.IsBounded != 0 {
			return nil
		}
		return c.fixupUnboundedBoxes(ext, boxes)
	}

	if c.opts.clipReduction && ext.Clip.HasPath() && ext.IsBounded != 0 {
		err := c.compositeBoxesThroughClip(ext, boxes)
		if !errors.Is(err, status.ErrUnsupported) {
			return err
		}
	}

	if c.opts.alignedFastPaths && boxes.IsPixelAligned() {
		err := c.compositeAlignedBoxes(ext, boxes)
		if !errors.Is(err, status.ErrUnsupported) {
			return err
		}
	}

	err := c.compositeBoxes(ext, boxes)
	if !errors.Is(err, status.ErrUnsupported) {
		return err
	}

	Logger().Debug("spans: boxes composited as polygon", "boxes", boxes.Len())
	return c.compositePolygon(ext, geom.PolygonFromBoxes(boxes), geom.FillRuleWinding, geom.AntialiasDefault)
}

// compositeBoxesThroughClip draws the clip polygon restricted to boxes
// instead of drawing boxes through a clip mask.
func (c *Compositor) compositeBoxesThroughClip(ext *CompositeRectangles, boxes *geom.Boxes) error {
	cl, err := ext.Clip.IntersectBoxes(boxes)
	if err != nil {
		return err
	}
	if cl.IsAllClipped() {
		return status.ErrNothingToDo
	}
	poly, rule, aa, err := cl.Polygon()
	if err != nil {
		return err
	}

	saved := ext.Clip
	ext.Clip = cl.WithoutPath()
	err = c.clipAndCompositePolygon(ext, poly, rule, aa)
	ext.Clip = saved
	return err
}

func isOpaqueMask(p Pattern) bool {
	if p == nil {
		return true
	}
	s, ok := p.(*SolidPattern)
	return ok && s.Color.IsOpaque()
}

func opReducesToSource(ext *CompositeRectangles, noMask bool) bool {
	switch {
	case ext.Op == OperatorSource:
		return true
	case ext.Surface.IsClear():
		return ext.Op == OperatorOver || ext.Op == OperatorAdd
	case noMask && ext.Op == OperatorOver:
		return ext.Source.IsOpaque(ext.SourceSampleArea)
	}
	return false
}

// recordingContainsSample reports whether replaying the recording behind p
// yields every sampled pixel.
func recordingContainsSample(p *SurfacePattern, sample image.Rectangle) bool {
	r := p.Surface.(Recording)
	if p.Extend == ExtendNone || r.IsUnbounded() {
		return true
	}
	return sample.In(r.Bounds())
}

// compositeAlignedBoxes handles pixel-aligned boxes without scan
// conversion.
func (c *Compositor) compositeAlignedBoxes(ext *CompositeRectangles, boxes *geom.Boxes) error {
	needClipMask := !ext.Clip.IsRegion()
	if needClipMask && ext.IsBounded == 0 {
		return status.ErrUnsupported
	}

	noMask := isOpaqueMask(ext.MaskPattern)
	opIsSource := opReducesToSource(ext, noMask)
	inplace := !needClipMask && opIsSource && noMask

	if ext.Op == OperatorSource && (needClipMask || !noMask) && !c.backend.HasLerp() {
		Logger().Debug("spans: masked SOURCE needs lerp")
		return status.ErrUnsupported
	}

	if sp, ok := ext.Source.(*SurfacePattern); ok && inplace && sp.IsRecording() &&
		isTranslation(sp.Matrix) && recordingContainsSample(sp, ext.SourceSampleArea) {
		return c.replayBoxes(ext, sp, boxes)
	}

	err := status.ErrUnsupported
	switch src := ext.Source.(type) {
	case *SolidPattern:
		if !needClipMask && noMask {
			op := ext.Op
			if opIsSource {
				op = OperatorSource
			}
			err = c.backend.FillBoxes(ext.Surface, op, src.Color, boxes)
		}
	case *SurfacePattern:
		if inplace {
			err = c.uploadBoxes(ext, src, boxes)
		}
	}
	if errors.Is(err, status.ErrUnsupported) {
		err = c.compositeAlignedThroughMask(ext, boxes, needClipMask, noMask)
	}

	if err == nil && ext.IsBounded == 0 {
		err = c.fixupUnboundedBoxes(ext, boxes)
	}
	return err
}

// replayBoxes draws a recording source directly onto the destination,
// clipped to boxes.
func (c *Compositor) replayBoxes(ext *CompositeRectangles, sp *SurfacePattern, boxes *geom.Boxes) error {
	dst := ext.Surface
	if !dst.IsClear() {
		if err := c.backend.FillBoxes(dst, OperatorClear, Transparent, boxes); err != nil {
			return err
		}
		dst.SetClear(true)
	}
	cl, err := clip.FromBoxes(boxes)
	if err != nil {
		return err
	}
	Logger().Debug("spans: replaying recording", "boxes", boxes.Len())
	return sp.Surface.(Recording).Replay(c, dst, -sp.Matrix[4], -sp.Matrix[5], cl)
}

// uploadBoxes copies source pixels straight into the boxes.
func (c *Compositor) uploadBoxes(ext *CompositeRectangles, sp *SurfacePattern, boxes *geom.Boxes) error {
	src, dst := sp.Surface, ext.Surface
	if src.Kind() != KindImage && src.Kind() != dst.Kind() {
		return status.ErrUnsupported
	}
	tx, ty, ok := IntegerTranslation(sp.Matrix)
	if !ok {
		return status.ErrUnsupported
	}
	if !ext.Bounded.Add(image.Pt(tx, ty)).In(src.Bounds()) {
		return status.ErrUnsupported
	}
	if src.Kind() == KindImage {
		return c.backend.DrawImageBoxes(dst, src, boxes, tx, ty)
	}
	return c.backend.CopyBoxes(dst, src, boxes, ext.Bounded, tx, ty)
}

// compositeAlignedThroughMask composites the source surface through the
// combined clip and mask surfaces.
func (c *Compositor) compositeAlignedThroughMask(ext *CompositeRectangles, boxes *geom.Boxes, needClipMask, noMask bool) error {
	var mask Surface
	var maskOff image.Point
	if needClipMask {
		m, err := c.getClipSurface(ext.Surface, ext.Clip, ext.Bounded)
		if err != nil {
			return err
		}
		defer c.backend.Release(m)
		mask = m
	}

	if !noMask {
		m, off, err := c.backend.PatternToSurface(ext.Surface, ext.MaskPattern, true, ext.Bounded, ext.MaskSampleArea)
		if err != nil {
			return err
		}
		defer c.releaseSample(m, ext.MaskPattern)
		if mask != nil {
			err = c.backend.CompositeBoxes(mask, OperatorIn, m, nil, off, image.Point{}, image.Point{}, boxes, ext.Bounded)
			if err != nil {
				return err
			}
		} else {
			mask, maskOff = m, off
		}
	}

	src, srcOff, err := c.backend.PatternToSurface(ext.Surface, ext.Source, false, ext.Bounded, ext.SourceSampleArea)
	if err != nil {
		return err
	}
	defer c.releaseSample(src, ext.Source)
	return c.backend.CompositeBoxes(ext.Surface, ext.Op, src, mask, srcOff, maskOff, image.Point{}, boxes, ext.Bounded)
}

// releaseSample releases a surface obtained from PatternToSurface unless
// it is the pattern's own surface.
func (c *Compositor) releaseSample(s Surface, p Pattern) {
	if sp, ok := p.(*SurfacePattern); ok && sp.Surface == s {
		return
	}
	c.backend.Release(s)
}

// compositeBoxes scan-converts boxes with exact area coverage. Clips that
// do not contain the operation are left to the polygon path.
func (c *Compositor) compositeBoxes(ext *CompositeRectangles, boxes *geom.Boxes) error {
	if !ext.Clip.ContainsRectangle(ext.Unbounded) {
		return status.ErrUnsupported
	}
	conv := raster.NewRectangularConverter(ext.Unbounded)
	conv.AddBoxes(boxes)
	return c.render(ext, conv, geom.AntialiasDefault, nil)
}

func (c *Compositor) render(ext *CompositeRectangles, conv raster.Converter, aa geom.Antialias, clipMask Surface) error {
	r, err := c.backend.NewRenderer(ext, aa, clipMask)
	if err != nil {
		return err
	}
	return r.Finish(conv.Generate(r))
}

func clearRectangles(dst Surface, boxes *geom.Boxes, cl *clip.Clip) (*CompositeRectangles, error) {
	return NewBoxesRectangles(dst, OperatorClear, NewSolidPattern(Transparent), boxes, cl)
}

// fixupUnboundedBoxes clears the part of the unbounded area outside boxes
// for operators that affect pixels the mask does not cover.
func (c *Compositor) fixupUnboundedBoxes(ext *CompositeRectangles, boxes *geom.Boxes) error {
	ub := geom.BoxFromRectangle(ext.Unbounded)
	if boxes.Len() == 1 && boxes.Items()[0].Contains(ub) {
		return nil
	}

	var clear *geom.Boxes
	if boxes.Len() > 0 {
		in := geom.NewBoxes()
		// the reversed unbounded box cancels every box inside it
		in.Add(geom.AntialiasDefault, geom.Box{
			P1: geom.Pt(ub.P2.X, ub.P1.Y),
			P2: geom.Pt(ub.P1.X, ub.P2.Y),
		})
		in.Limit([]geom.Box{ub})
		for _, b := range boxes.Items() {
			in.Add(geom.AntialiasDefault, b)
		}
		var err error
		clear, err = sweep.TessellateBoxes(in, geom.FillRuleWinding)
		if err != nil {
			return err
		}
	} else {
		clear = geom.NewBoxes()
		clear.Add(geom.AntialiasDefault, ub)
	}
	if clear.Len() == 0 {
		return nil
	}

	if ext.Clip.HasPath() {
		err := c.fixupUnboundedPolygon(ext, clear)
		if errors.Is(err, status.ErrUnsupported) {
			Logger().Debug("spans: unbounded fixup through clip mask")
			err = c.fixupUnboundedMask(ext, clear)
		}
		return err
	}

	if cb := ext.Clip.Boxes(); len(cb) > 0 {
		clear = clear.Intersect(geom.BoxesOf(cb))
	}
	if clear.Len() == 0 {
		return nil
	}
	if clear.IsPixelAligned() {
		return c.backend.FillBoxes(ext.Surface, OperatorClear, Transparent, clear)
	}
	ce, err := clearRectangles(ext.Surface, clear, nil)
	if err != nil {
		return err
	}
	return c.compositeBoxes(ce, clear)
}

// fixupUnboundedPolygon clears the intersection of the clip polygon and
// the clear boxes.
func (c *Compositor) fixupUnboundedPolygon(ext *CompositeRectangles, clear *geom.Boxes) error {
	poly, rule, aa, err := ext.Clip.Polygon()
	if err != nil {
		return err
	}
	poly = intersectBoxes(poly, rule, clear.Items())
	rule = geom.FillRuleWinding

	region, err := ext.Clip.CopyRegion()
	if err != nil {
		return err
	}
	ce, err := NewPolygonRectangles(ext.Surface, OperatorClear, NewSolidPattern(Transparent), poly, region)
	if errors.Is(err, status.ErrNothingToDo) {
		return nil
	}
	if err != nil {
		return err
	}
	err = c.compositePolygon(ce, poly, rule, aa)
	if errors.Is(err, status.ErrNothingToDo) {
		return nil
	}
	return err
}

// fixupUnboundedMask clears the clear boxes through a clip mask.
func (c *Compositor) fixupUnboundedMask(ext *CompositeRectangles, clear *geom.Boxes) error {
	m, err := c.getClipSurface(ext.Surface, ext.Clip, ext.Unbounded)
	if err != nil {
		return err
	}
	defer c.backend.Release(m)

	ce, err := clearRectangles(ext.Surface, clear, nil)
	if err != nil {
		return err
	}
	mp := NewSurfacePattern(m)
	mp.Filter = FilterNearest
	if ce, err = ce.withMask(mp); err != nil {
		return err
	}
	return c.compositeBoxes(ce, clear)
}
