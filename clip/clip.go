// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package clip describes the region drawing is restricted to.
//
// A Clip is a set of non-overlapping boxes refined by an optional chain of
// filled paths. Clips are immutable: every Intersect method returns a new
// clip and leaves the receiver untouched, so clips can be shared freely.
// A nil *Clip does not restrict drawing at all.
package clip

import (
	"errors"
	"image"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/status"
	"github.com/gogpu/spans/internal/sweep"
	"github.com/gogpu/spans/internal/tess"
	"github.com/gogpu/spans/path"
)

// PathNode is one filled path of a clip chain.
type PathNode struct {
	Path      *path.Path
	FillRule  geom.FillRule
	Antialias geom.Antialias
	Tolerance float64

	prev *PathNode
}

// Clip is an immutable clip region.
type Clip struct {
	extents image.Rectangle
	boxes   []geom.Box // normalized and pairwise disjoint
	path    *PathNode
	all     bool
}

var allClipped = &Clip{all: true}

// AllClipped returns the clip that hides everything.
func AllClipped() *Clip { return allClipped }

// FromRectangle returns the clip of an integer rectangle.
func FromRectangle(r image.Rectangle) *Clip {
	if r.Empty() {
		return allClipped
	}
	return &Clip{extents: r, boxes: []geom.Box{geom.BoxFromRectangle(r)}}
}

// FromBox returns the clip of a possibly fractional box.
func FromBox(b geom.Box) *Clip {
	b, _ = b.Normalize()
	if b.IsEmpty() {
		return allClipped
	}
	return &Clip{extents: b.RoundOut(), boxes: []geom.Box{b}}
}

// FromBoxes returns the clip covering the union of boxes.
func FromBoxes(b *geom.Boxes) (*Clip, error) {
	return (*Clip)(nil).IntersectBoxes(b)
}

func fromDisjoint(items []geom.Box) *Clip {
	if len(items) == 0 {
		return allClipped
	}
	c := &Clip{boxes: items}
	c.extents = geom.BoxesOf(items).Extents().RoundOut()
	return c
}

// IsAllClipped reports whether the clip hides everything.
func (c *Clip) IsAllClipped() bool {
	return c != nil && c.all
}

// HasPath reports whether the clip is refined by a path chain.
func (c *Clip) HasPath() bool {
	return c != nil && c.path != nil
}

// IsRegion reports whether the clip is exactly a set of pixel-aligned
// boxes. The nil and the all-clipped clips are regions.
func (c *Clip) IsRegion() bool {
	if c == nil || c.all {
		return true
	}
	if c.path != nil {
		return false
	}
	for _, b := range c.boxes {
		if !b.IsPixelAligned() {
			return false
		}
	}
	return true
}

// Boxes returns the clip boxes. The slice must not be modified.
func (c *Clip) Boxes() []geom.Box {
	if c == nil || c.all {
		return nil
	}
	return c.boxes
}

// Extents returns the integer bounds of the clip. The nil clip is
// unbounded.
func (c *Clip) Extents() image.Rectangle {
	switch {
	case c == nil:
		return geom.UnboundedRectangle
	case c.all:
		return image.Rectangle{}
	}
	return c.extents
}

// Paths returns the path chain, newest first.
func (c *Clip) Paths() []*PathNode {
	if c == nil {
		return nil
	}
	var out []*PathNode
	for n := c.path; n != nil; n = n.prev {
		out = append(out, n)
	}
	return out
}

// ContainsBox reports whether drawing inside b is unaffected by the clip.
func (c *Clip) ContainsBox(b geom.Box) bool {
	switch {
	case c == nil:
		return true
	case c.all || c.path != nil:
		return false
	}
	for _, cb := range c.boxes {
		if cb.Contains(b) {
			return true
		}
	}
	return false
}

// ContainsRectangle is ContainsBox for an integer rectangle.
func (c *Clip) ContainsRectangle(r image.Rectangle) bool {
	return c.ContainsBox(geom.BoxFromRectangle(r))
}

func (c *Clip) clone() *Clip {
	out := *c
	return &out
}

// IntersectRectangle returns the clip restricted to r.
func (c *Clip) IntersectRectangle(r image.Rectangle) *Clip {
	return c.IntersectBox(geom.BoxFromRectangle(r))
}

// IntersectBox returns the clip restricted to b.
func (c *Clip) IntersectBox(b geom.Box) *Clip {
	switch {
	case c == nil:
		return FromBox(b)
	case c.all:
		return c
	}
	b, _ = b.Normalize()
	if b.IsEmpty() {
		return allClipped
	}

	var items []geom.Box
	for _, cb := range c.boxes {
		if x := cb.Intersect(b); !x.IsEmpty() {
			items = append(items, x)
		}
	}
	out := fromDisjoint(items)
	if out.all {
		return out
	}
	out.path = c.path
	return out
}

// IntersectBoxes returns the clip restricted to the union of b.
func (c *Clip) IntersectBoxes(b *geom.Boxes) (*Clip, error) {
	if c.IsAllClipped() {
		return c, nil
	}
	if b.Len() == 0 {
		return allClipped, nil
	}
	disjoint, err := sweep.TessellateBoxes(b, geom.FillRuleWinding)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return fromDisjoint(disjoint.Items()), nil
	}

	out := fromDisjoint(geom.BoxesOf(c.boxes).Intersect(disjoint).Items())
	if out.all {
		return out, nil
	}
	out.path = c.path
	return out, nil
}

// IntersectPath returns the clip restricted to the fill of p. Rectilinear
// paths are reduced to boxes; others join the path chain.
func (c *Clip) IntersectPath(p *path.Path, rule geom.FillRule, tolerance float64, aa geom.Antialias) (*Clip, error) {
	if c.IsAllClipped() {
		return c, nil
	}
	boxes, err := p.FillRectilinearToBoxes(rule, aa)
	switch {
	case err == nil:
		return c.IntersectBoxes(boxes)
	case !errors.Is(err, status.ErrUnsupported):
		return nil, err
	}

	return c.withPath(p.Clone(), rule, tolerance, aa), nil
}

// withPath adds p to the path chain and shrinks the extents to its bounds.
func (c *Clip) withPath(p *path.Path, rule geom.FillRule, tolerance float64, aa geom.Antialias) *Clip {
	ext, ok := p.Extents()
	if !ok {
		return allClipped
	}
	out := c.IntersectRectangle(ext.RoundOut())
	if out.all {
		return out
	}
	out = out.clone()
	out.path = &PathNode{
		Path:      p,
		FillRule:  rule,
		Antialias: aa,
		Tolerance: tolerance,
		prev:      out.path,
	}
	return out
}

// Intersect returns the intersection of two clips.
func (c *Clip) Intersect(o *Clip) (*Clip, error) {
	switch {
	case o == nil:
		return c, nil
	case c == nil:
		return o, nil
	case c.all:
		return c, nil
	case o.all:
		return o, nil
	}
	out, err := c.IntersectBoxes(geom.BoxesOf(o.boxes))
	if err != nil || out.all {
		return out, err
	}
	nodes := o.Paths()
	for i := len(nodes) - 1; i >= 0 && !out.all; i-- {
		n := nodes[i]
		out = out.withPath(n.Path, n.FillRule, n.Tolerance, n.Antialias)
	}
	return out, nil
}

// Translate returns the clip moved by (dx, dy).
func (c *Clip) Translate(dx, dy float64) *Clip {
	if c == nil || c.all || (dx == 0 && dy == 0) {
		return c
	}
	fx, fy := geom.FromFloat(dx), geom.FromFloat(dy)
	items := make([]geom.Box, len(c.boxes))
	for i, b := range c.boxes {
		items[i] = b.Translate(fx, fy)
	}
	out := fromDisjoint(items)
	nodes := c.Paths()
	for i := len(nodes) - 1; i >= 0 && !out.all; i-- {
		n := nodes[i]
		out = out.withPath(n.Path.Translate(dx, dy), n.FillRule, n.Tolerance, n.Antialias)
	}
	return out
}

// WithoutPath returns the clip boxes without the path chain.
func (c *Clip) WithoutPath() *Clip {
	if c == nil || c.all || c.path == nil {
		return c
	}
	out := c.clone()
	out.path = nil
	return out
}

// Polygon returns the clip as a polygon with the fill rule and antialias
// it must be rendered with. A clip mixing antialias classes in its path
// chain, or the unbounded nil clip, cannot be expressed as one polygon and
// yields status.ErrUnsupported.
func (c *Clip) Polygon() (*geom.Polygon, geom.FillRule, geom.Antialias, error) {
	switch {
	case c == nil:
		return nil, 0, 0, status.ErrUnsupported
	case c.all:
		return geom.NewPolygon(), geom.FillRuleWinding, geom.AntialiasDefault, nil
	}

	if c.path == nil {
		aa := geom.AntialiasDefault
		if c.IsRegion() {
			aa = geom.AntialiasNone
		}
		return geom.PolygonFromBoxes(geom.BoxesOf(c.boxes)), geom.FillRuleWinding, aa, nil
	}

	aa := c.path.Antialias
	for n := c.path.prev; n != nil; n = n.prev {
		if n.Antialias != aa {
			return nil, 0, 0, status.ErrUnsupported
		}
	}

	limit := geom.BoxFromRectangle(c.extents)
	poly := c.path.Path.FillToPolygon(c.path.Tolerance, limit)
	rule := c.path.FillRule
	for n := c.path.prev; n != nil; n = n.prev {
		next := n.Path.FillToPolygon(n.Tolerance, limit)
		poly = tess.Intersect(poly, rule, next, n.FillRule)
		rule = geom.FillRuleWinding
	}
	return tess.IntersectBoxes(poly, rule, geom.BoxesOf(c.boxes)), geom.FillRuleWinding, aa, nil
}

// CopyRegion returns the clip without its path chain, with the boxes
// rounded out to whole pixels.
func (c *Clip) CopyRegion() (*Clip, error) {
	if c == nil || c.all {
		return c, nil
	}
	if c.IsRegion() {
		return c, nil
	}
	in := geom.NewBoxes()
	for _, b := range c.boxes {
		in.Add(geom.AntialiasDefault, geom.BoxFromRectangle(b.RoundOut()))
	}
	return FromBoxes(in)
}

// CopyPath returns the path chain bounded by the clip extents. The boxes
// are dropped.
func (c *Clip) CopyPath() *Clip {
	if c == nil || c.all {
		return c
	}
	out := FromRectangle(c.extents)
	if !out.all {
		out.path = c.path
	}
	return out
}

// ReduceToRectangle returns the part of the clip relevant to drawing
// inside r. It returns nil when the clip contains r entirely.
func (c *Clip) ReduceToRectangle(r image.Rectangle) *Clip {
	if c.IsAllClipped() {
		return c
	}
	if c.ContainsRectangle(r) {
		return nil
	}
	return c.IntersectRectangle(r)
}
