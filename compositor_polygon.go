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
	"github.com/gogpu/spans/internal/tess"
)

func intersectBoxes(p *geom.Polygon, rule geom.FillRule, boxes []geom.Box) *geom.Polygon {
	return tess.IntersectBoxes(p, rule, geom.BoxesOf(boxes))
}

// clipAndCompositePolygon trims the operation to the polygon, folds a
// compatible clip path into it and scan-converts the result.
func (c *Compositor) clipAndCompositePolygon(ext *CompositeRectangles, poly *geom.Polygon, rule geom.FillRule, aa geom.Antialias) error {
	if err := ext.IntersectMaskExtents(poly.Extents()); err != nil {
		return err
	}
	if poly.IsEmpty() {
		if ext.IsBounded != 0 {
			return nil
		}
		ext.Bounded = image.Rectangle{}
		return c.fixupUnboundedBoxes(ext, geom.NewBoxes())
	}

	if c.opts.clipReduction && ext.IsBounded != 0 && ext.Clip.HasPath() {
		clipper, crule, caa, err := ext.Clip.Polygon()
		if err == nil && caa.IsAliased() == aa.IsAliased() {
			poly = tess.Intersect(poly, rule, clipper, crule)
			rule = geom.FillRuleWinding
			region, err := ext.Clip.CopyRegion()
			if err != nil {
				return err
			}
			ext.Clip = region
			if err := ext.IntersectMaskExtents(poly.Extents()); err != nil {
				return err
			}
		}
	}

	return c.compositePolygon(ext, poly, rule, aa)
}

// compositePolygon scan-converts poly over the unbounded area, through a
// clip mask when the clip is not a single pixel-aligned rectangle.
func (c *Compositor) compositePolygon(ext *CompositeRectangles, poly *geom.Polygon, rule geom.FillRule, aa geom.Antialias) error {
	var needsClip bool
	if ext.IsBounded != 0 {
		needsClip = ext.Clip.HasPath()
	} else {
		needsClip = !ext.Clip.IsRegion() || len(ext.Clip.Boxes()) > 1
	}

	var clipMask Surface
	if needsClip {
		m, err := c.getClipSurface(ext.Surface, ext.Clip, ext.Unbounded)
		if err != nil {
			return err
		}
		defer c.backend.Release(m)
		clipMask = m
	}

	conv := raster.NewPolygonConverter(ext.Unbounded, rule, aa)
	conv.AddPolygon(poly)
	return c.render(ext, conv, aa, clipMask)
}

// getClipSurface renders cl into an A8 scratch covering extents. Path
// nodes sharing the newest node's antialias class are intersected into
// one polygon and added onto the cleared scratch. Nodes of the other class
// are then composited IN, one combined polygon at a time.
func (c *Compositor) getClipSurface(dst Surface, cl *clip.Clip, extents image.Rectangle) (Surface, error) {
	s, err := c.backend.NewScratch(maskFormat, extents)
	if err != nil {
		return nil, err
	}

	limit := geom.BoxFromRectangle(extents)
	nodes := cl.Paths()
	if len(nodes) == 0 {
		poly := geom.PolygonFromBoxes(geom.BoxesOf(cl.Boxes()))
		if err := c.maskPass(s, OperatorAdd, poly, geom.FillRuleWinding, geom.AntialiasDefault); err != nil {
			c.backend.Release(s)
			return nil, err
		}
		return s, nil
	}

	aliased := nodes[0].Antialias.IsAliased()
	same, sameRule, sameAA := combineNodes(nodes, limit, func(n *clip.PathNode) bool {
		return n.Antialias.IsAliased() == aliased
	})
	same = intersectBoxes(same, sameRule, cl.Boxes())
	if err := c.maskPass(s, OperatorAdd, same, geom.FillRuleWinding, sameAA); err != nil {
		c.backend.Release(s)
		return nil, err
	}

	other, otherRule, otherAA := combineNodes(nodes, limit, func(n *clip.PathNode) bool {
		return n.Antialias.IsAliased() != aliased
	})
	if other != nil {
		Logger().Debug("spans: clip mixes antialias modes", "nodes", len(nodes))
		if err := c.maskPass(s, OperatorIn, other, otherRule, otherAA); err != nil {
			c.backend.Release(s)
			return nil, err
		}
	}
	return s, nil
}

// combineNodes intersects the polygons of the nodes accepted by keep. It
// returns a nil polygon when no node is accepted.
func combineNodes(nodes []*clip.PathNode, limit geom.Box, keep func(*clip.PathNode) bool) (*geom.Polygon, geom.FillRule, geom.Antialias) {
	var poly *geom.Polygon
	var rule geom.FillRule
	var aa geom.Antialias
	for _, n := range nodes {
		if !keep(n) {
			continue
		}
		p := n.Path.FillToPolygon(n.Tolerance, limit)
		if poly == nil {
			poly, rule, aa = p, n.FillRule, n.Antialias
			continue
		}
		poly = tess.Intersect(poly, rule, p, n.FillRule)
		rule = geom.FillRuleWinding
	}
	return poly, rule, aa
}

func (c *Compositor) maskPass(s Surface, op Operator, poly *geom.Polygon, rule geom.FillRule, aa geom.Antialias) error {
	ext, err := NewPolygonRectangles(s, op, NewSolidPattern(White), poly, nil)
	if errors.Is(err, status.ErrNothingToDo) {
		return nil
	}
	if err != nil {
		return err
	}
	err = c.compositePolygon(ext, poly, rule, aa)
	if errors.Is(err, status.ErrNothingToDo) {
		return nil
	}
	if err == nil {
		s.SetClear(false)
	}
	return err
}
