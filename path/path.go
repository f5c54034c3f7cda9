// Package path provides float64 vector paths and their reduction to the
// fixed-point geometry the compositor consumes.
package path

import "math"

// Point is a 2D point in device space.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Mul scales p by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the distance from the origin.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Element is a single path command.
type Element interface {
	isElement()
}

// MoveTo starts a new subpath.
type MoveTo struct {
	Point Point
}

func (MoveTo) isElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isElement() {}

// EndPoint returns the point an element ends at, if any.
func EndPoint(el Element) (Point, bool) {
	switch e := el.(type) {
	case MoveTo:
		return e.Point, true
	case LineTo:
		return e.Point, true
	case QuadTo:
		return e.Point, true
	case CubicTo:
		return e.Point, true
	}
	return Point{}, false
}

// Path is a sequence of subpaths.
type Path struct {
	elements []Element
	start    Point
	current  Point
}

// New returns an empty path.
func New() *Path {
	return &Path{elements: make([]Element, 0, 16)}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to (x, y). Without a current point it starts a
// subpath instead.
func (p *Path) LineTo(x, y float64) {
	if len(p.elements) == 0 {
		p.MoveTo(x, y)
		return
	}
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadTo draws a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if len(p.elements) == 0 {
		p.MoveTo(cx, cy)
	}
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.elements) == 0 {
		p.MoveTo(c1x, c1y)
	}
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{Control1: Pt(c1x, c1y), Control2: Pt(c2x, c2y), Point: pt})
	p.current = pt
}

// Close closes the current subpath by returning to its start.
func (p *Path) Close() {
	if len(p.elements) == 0 {
		return
	}
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Append adds an element as if the matching builder method was called.
func (p *Path) Append(el Element) {
	switch e := el.(type) {
	case MoveTo:
		p.MoveTo(e.Point.X, e.Point.Y)
	case LineTo:
		p.LineTo(e.Point.X, e.Point.Y)
	case QuadTo:
		p.QuadTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
	case CubicTo:
		p.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
	case Close:
		p.Close()
	}
}

// Rectangle adds a closed rectangle subpath, drawn right, down, left, up.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a circle using four cubic Bezier curves.
func (p *Path) Circle(cx, cy, r float64) {
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	offset := r * k

	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+offset, cx+offset, cy+r, cx, cy+r)
	p.CubicTo(cx-offset, cy+r, cx-r, cy+offset, cx-r, cy)
	p.CubicTo(cx-r, cy-offset, cx-offset, cy-r, cx, cy-r)
	p.CubicTo(cx+offset, cy-r, cx+r, cy-offset, cx+r, cy)
	p.Close()
}

// Elements returns the path elements.
func (p *Path) Elements() []Element {
	return p.elements
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	c := *p
	c.elements = append([]Element(nil), p.elements...)
	return &c
}

// Translate returns a copy of the path moved by (dx, dy).
func (p *Path) Translate(dx, dy float64) *Path {
	d := Pt(dx, dy)
	out := New()
	for _, el := range p.elements {
		switch e := el.(type) {
		case MoveTo:
			out.elements = append(out.elements, MoveTo{Point: e.Point.Add(d)})
		case LineTo:
			out.elements = append(out.elements, LineTo{Point: e.Point.Add(d)})
		case QuadTo:
			out.elements = append(out.elements, QuadTo{Control: e.Control.Add(d), Point: e.Point.Add(d)})
		case CubicTo:
			out.elements = append(out.elements, CubicTo{Control1: e.Control1.Add(d), Control2: e.Control2.Add(d), Point: e.Point.Add(d)})
		case Close:
			out.elements = append(out.elements, e)
		}
	}
	out.start = p.start.Add(d)
	out.current = p.current.Add(d)
	return out
}
