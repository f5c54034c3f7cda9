// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"math"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/status"
	"github.com/gogpu/spans/internal/sweep"
	"github.com/gogpu/spans/path"
)

// segment is an axis-aligned, non-degenerate piece of a subpath.
type segment struct {
	a, b path.Point
}

func (s segment) dir() Vec2 { return sub(s.b, s.a) }

// RectilinearToBoxes strokes a path made of horizontal and vertical lines
// into non-overlapping boxes. It returns status.ErrUnsupported when the
// stroke cannot be expressed exactly as boxes: curves, diagonal segments,
// round caps, non-miter joins or a miter limit that bevels right angles.
func RectilinearToBoxes(p *path.Path, style Style, aa geom.Antialias, limits ...geom.Box) (*geom.Boxes, error) {
	if style.Cap == LineCapRound || style.Join != LineJoinMiter || style.MiterLimit < math.Sqrt2 {
		return nil, status.ErrUnsupported
	}
	for _, el := range p.Elements() {
		switch el.(type) {
		case path.QuadTo, path.CubicTo:
			return nil, status.ErrUnsupported
		}
	}

	p = style.dashed(p, path.DefaultTolerance)
	hw := style.Width / 2
	in := geom.NewBoxes()
	in.Limit(limits)
	for _, sp := range p.Flatten(0) {
		segs, ok := segments(sp)
		if !ok {
			return nil, status.ErrUnsupported
		}
		if len(segs) == 0 {
			// a dot has no direction for a square cap
			if style.Cap == LineCapSquare {
				return nil, status.ErrUnsupported
			}
			continue
		}

		for i, s := range segs {
			var prev, next *segment
			if i > 0 {
				prev = &segs[i-1]
			} else if sp.Closed {
				prev = &segs[len(segs)-1]
			}
			if i < len(segs)-1 {
				next = &segs[i+1]
			} else if sp.Closed {
				next = &segs[0]
			}

			extStart := extends(prev, s, style.Cap)
			extEnd := extends(next, s, style.Cap)
			in.Add(aa, segmentBox(s, hw, extStart, extEnd))
		}
	}
	return sweep.TessellateBoxes(in, geom.FillRuleWinding)
}

// segments splits a flattened subpath into axis-aligned segments, dropping
// zero-length ones.
func segments(sp path.Subpath) ([]segment, bool) {
	pts := sp.Points
	n := len(pts) - 1
	if sp.Closed {
		n = len(pts)
	}
	var segs []segment
	for i := range n {
		s := segment{a: pts[i], b: pts[(i+1)%len(pts)]}
		if s.a == s.b {
			continue
		}
		if s.a.X != s.b.X && s.a.Y != s.b.Y {
			return nil, false
		}
		segs = append(segs, s)
	}
	return segs, true
}

// extends reports whether s reaches half a width past the end it shares
// with other. Miter corners and square caps extend; reversals do not.
func extends(other *segment, s segment, lineCap LineCap) bool {
	if other == nil {
		return lineCap == LineCapSquare
	}
	return other.dir().Dot(s.dir()) >= 0
}

func segmentBox(s segment, hw float64, extStart, extEnd bool) geom.Box {
	x0, y0, x1, y1 := s.a.X, s.a.Y, s.b.X, s.b.Y
	if x0 > x1 {
		x0, x1 = x1, x0
		extStart, extEnd = extEnd, extStart
	}
	if y0 > y1 {
		y0, y1 = y1, y0
		extStart, extEnd = extEnd, extStart
	}
	lo, hi := 0.0, 0.0
	if extStart {
		lo = hw
	}
	if extEnd {
		hi = hw
	}

	if s.a.Y == s.b.Y {
		x0, x1 = x0-lo, x1+hi
		y0, y1 = y0-hw, y1+hw
	} else {
		y0, y1 = y0-lo, y1+hi
		x0, x1 = x0-hw, x1+hw
	}
	return geom.Box{
		P1: geom.Pt(geom.FromFloat(x0), geom.FromFloat(y0)),
		P2: geom.Pt(geom.FromFloat(x1), geom.FromFloat(y1)),
	}
}
