package path

import (
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/status"
	"github.com/gogpu/spans/internal/sweep"
	"github.com/gogpu/spans/internal/tess"
)

func fixedPoint(p Point) geom.Point {
	return geom.Pt(geom.FromFloat(p.X), geom.FromFloat(p.Y))
}

// Extents returns a box containing every point and control point of the
// path, and false for an empty path.
func (p *Path) Extents() (geom.Box, bool) {
	var ext geom.Box
	found := false
	add := func(pt Point) {
		f := fixedPoint(pt)
		b := geom.Box{P1: f, P2: f}
		if !found {
			ext, found = b, true
			return
		}
		ext = ext.Union(b)
	}
	for _, el := range p.elements {
		switch e := el.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control)
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	return ext, found
}

// FillToPolygon returns the polygon of the path with every subpath closed.
// Limits clip the edges vertically and bound the polygon extents.
func (p *Path) FillToPolygon(tolerance float64, limits ...geom.Box) *geom.Polygon {
	poly := geom.NewPolygon(limits...)
	for _, sub := range p.Flatten(tolerance) {
		pts := sub.Points
		for i := range pts {
			poly.AddLine(fixedPoint(pts[i]), fixedPoint(pts[(i+1)%len(pts)]))
		}
	}
	return poly
}

// IsRectilinear reports whether the filled outline consists of horizontal
// and vertical segments only, counting the implicit closing segments.
func (p *Path) IsRectilinear() bool {
	for _, el := range p.elements {
		switch el.(type) {
		case QuadTo, CubicTo:
			return false
		}
	}
	for _, sub := range p.Flatten(0) {
		pts := sub.Points
		for i := range pts {
			a, b := fixedPoint(pts[i]), fixedPoint(pts[(i+1)%len(pts)])
			if a.X != b.X && a.Y != b.Y {
				return false
			}
		}
	}
	return true
}

// boxFromSubpath recognises a four-corner axis-aligned subpath. The box is
// reversed when the left side of the outline runs upwards.
func boxFromSubpath(pts []Point) (geom.Box, bool) {
	var q []geom.Point
	for _, pt := range pts {
		f := fixedPoint(pt)
		if len(q) == 0 || q[len(q)-1] != f {
			q = append(q, f)
		}
	}
	if len(q) > 1 && q[len(q)-1] == q[0] {
		q = q[:len(q)-1]
	}
	if len(q) != 4 {
		return geom.Box{}, false
	}

	horizontalFirst := q[0].Y == q[1].Y && q[1].X == q[2].X && q[2].Y == q[3].Y && q[3].X == q[0].X
	verticalFirst := q[0].X == q[1].X && q[1].Y == q[2].Y && q[2].X == q[3].X && q[3].Y == q[0].Y
	if !horizontalFirst && !verticalFirst {
		return geom.Box{}, false
	}

	// the vertical side with the smaller x is the left side
	var a, b geom.Point
	if horizontalFirst {
		a, b = q[1], q[2]
		if q[3].X < q[1].X {
			a, b = q[3], q[0]
		}
	} else {
		a, b = q[0], q[1]
		if q[2].X < q[0].X {
			a, b = q[2], q[3]
		}
	}
	x1, x2 := q[0].X, q[2].X
	left, right := min(x1, x2), max(x1, x2)
	top, bottom := min(q[0].Y, q[2].Y), max(q[0].Y, q[2].Y)
	if a.Y < b.Y {
		return geom.Box{P1: geom.Pt(left, top), P2: geom.Pt(right, bottom)}, true
	}
	return geom.Box{P1: geom.Pt(right, top), P2: geom.Pt(left, bottom)}, true
}

// Boxes returns the subpaths as directed boxes when every subpath is an
// axis-aligned rectangle.
func (p *Path) Boxes() ([]geom.Box, bool) {
	var out []geom.Box
	for _, sub := range p.Flatten(0) {
		b, ok := boxFromSubpath(sub.Points)
		if !ok {
			return nil, false
		}
		out = append(out, b)
	}
	return out, true
}

// FillRectilinearToBoxes reduces the fill of a rectilinear path to
// non-overlapping boxes. Box subpaths go through the rectangular sweep;
// other rectilinear outlines through the polygon tessellator. Non
// rectilinear paths are rejected with status.ErrUnsupported.
func (p *Path) FillRectilinearToBoxes(rule geom.FillRule, aa geom.Antialias, limits ...geom.Box) (*geom.Boxes, error) {
	if !p.IsRectilinear() {
		return nil, status.ErrUnsupported
	}

	if boxes, ok := p.Boxes(); ok {
		in := geom.NewBoxes()
		in.Limit(limits)
		for _, b := range boxes {
			in.Add(aa, b)
		}
		return sweep.TessellateBoxes(in, rule)
	}

	out := geom.NewBoxes()
	out.Limit(limits)
	for _, t := range tess.Traps(p.FillToPolygon(0, limits...), rule).Items() {
		out.Add(aa, t.Box())
	}
	return out, nil
}
