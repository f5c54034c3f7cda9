package path

import "math"

// DefaultTolerance is the maximum distance between a curve and its
// flattened approximation, in pixels.
const DefaultTolerance = 0.1

// Subpath is a flattened subpath. Closed subpaths do not repeat their first
// point.
type Subpath struct {
	Points []Point
	Closed bool
}

// Flatten converts the path into polylines, one per subpath. A subpath
// made of a lone MoveTo is dropped; a closed one is kept so that strokes can
// draw its caps.
func (p *Path) Flatten(tolerance float64) []Subpath {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var subs []Subpath
	var cur []Point
	var current Point
	flush := func(closed bool) {
		if closed && len(cur) > 1 && cur[len(cur)-1] == cur[0] {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 1 || (closed && len(cur) == 1) {
			subs = append(subs, Subpath{Points: cur, Closed: closed})
		}
		cur = nil
	}
	begin := func() {
		if len(cur) == 0 {
			cur = append(cur, current)
		}
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			flush(false)
			current = e.Point
			cur = append(cur, current)

		case LineTo:
			begin()
			current = e.Point
			cur = append(cur, current)

		case QuadTo:
			begin()
			flattenQuadraticRec(current, e.Control, e.Point, tolerance, &cur)
			current = e.Point

		case CubicTo:
			begin()
			flattenCubicRec(current, e.Control1, e.Control2, e.Point, tolerance, &cur)
			current = e.Point

		case Close:
			if len(cur) > 0 {
				current = cur[0]
				flush(true)
			}
		}
	}
	flush(false)
	return subs
}

// flattenQuadraticRec recursively subdivides a quadratic Bezier curve.
func flattenQuadraticRec(p0, p1, p2 Point, tolerance float64, points *[]Point) {
	if distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)

	flattenQuadraticRec(p0, q0, q2, tolerance, points)
	flattenQuadraticRec(q2, q1, p2, tolerance, points)
}

// flattenCubicRec recursively subdivides a cubic Bezier curve using de
// Casteljau's algorithm.
func flattenCubicRec(p0, p1, p2, p3 Point, tolerance float64, points *[]Point) {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)
	if math.Max(d1, d2) < tolerance {
		*points = append(*points, p3)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	flattenCubicRec(p0, q0, r0, s, tolerance, points)
	flattenCubicRec(s, r1, q2, p3, tolerance, points)
}

// distanceToLine returns the distance from p to the segment a-b.
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLen := ab.Length()
	if abLen < 1e-10 {
		return p.Distance(a)
	}

	t := p.Sub(a).Dot(ab) / (abLen * abLen)
	switch {
	case t < 0:
		return p.Distance(a)
	case t > 1:
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
