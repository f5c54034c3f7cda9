// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"math"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/path"
)

// Expander converts stroked paths to fill outlines.
type Expander struct {
	style Style

	// tolerance bounds the flattening error of curves in the input.
	tolerance float64

	forward  *builder
	backward *builder
	output   *builder

	startPt   path.Point
	startNorm Vec2
	startTan  Vec2
	lastPt    path.Point
	lastTan   Vec2
	lastNorm  Vec2 // normal at lastPt, scaled by the half width

	// joins that turn less than this are drawn as plain continuations
	joinThresh float64
}

// NewExpander returns an expander for style.
func NewExpander(style Style) *Expander {
	return &Expander{
		style:     style,
		tolerance: path.DefaultTolerance,
	}
}

// SetTolerance sets the curve flattening tolerance. Non-positive values
// are ignored.
func (e *Expander) SetTolerance(tolerance float64) {
	if tolerance > 0 {
		e.tolerance = tolerance
	}
}

// Expand returns the outline of p, to be filled with the non-zero rule.
func (e *Expander) Expand(p *path.Path) *path.Path {
	e.reset()
	p = e.style.dashed(p, e.tolerance)
	for _, sub := range p.Flatten(e.tolerance) {
		pts := sub.Points
		e.startPt, e.lastPt = pts[0], pts[0]
		for _, pt := range pts[1:] {
			e.lineTo(pt)
		}
		if sub.Closed && e.lastPt != e.startPt {
			e.lineTo(e.startPt)
		}

		if e.forward.isEmpty() {
			e.dot(e.startPt)
			continue
		}
		if sub.Closed {
			e.finishClosed()
		} else {
			e.finish()
		}
	}
	return e.output.build()
}

// ToPolygon expands p and returns the outline polygon, clipped to limits.
func (e *Expander) ToPolygon(p *path.Path, limits ...geom.Box) *geom.Polygon {
	return e.Expand(p).FillToPolygon(e.tolerance, limits...)
}

func (e *Expander) reset() {
	e.forward = newBuilder()
	e.backward = newBuilder()
	e.output = newBuilder()
	e.startPt = path.Point{}
	e.startNorm = Vec2{}
	e.startTan = Vec2{}
	e.lastPt = path.Point{}
	e.lastTan = Vec2{}
	e.lastNorm = Vec2{}
	e.joinThresh = 2.0 * e.tolerance / e.style.Width
}

func (e *Expander) lineTo(pt path.Point) {
	if pt == e.lastPt {
		return
	}
	tangent := sub(pt, e.lastPt)
	e.doJoin(tangent)
	e.lastTan = tangent
	e.doLine(tangent, pt)
}

// dot draws the cap-only shape of a zero-length subpath.
func (e *Expander) dot(center path.Point) {
	r := e.style.Width / 2
	switch e.style.Cap {
	case LineCapRound:
		e.output.moveTo(path.Point{X: center.X + r, Y: center.Y})
		e.roundJoin(e.output, center, Vec2{X: r}, 2*math.Pi)
		e.output.close()
	case LineCapSquare:
		e.output.moveTo(path.Point{X: center.X - r, Y: center.Y - r})
		e.output.lineTo(path.Point{X: center.X + r, Y: center.Y - r})
		e.output.lineTo(path.Point{X: center.X + r, Y: center.Y + r})
		e.output.lineTo(path.Point{X: center.X - r, Y: center.Y + r})
		e.output.close()
	}
}

// doJoin connects the segment starting at lastPt with tangent tan0 to the
// previous one.
func (e *Expander) doJoin(tan0 Vec2) {
	scale := 0.5 * e.style.Width / tan0.Length()
	norm := tan0.Perp().Scale(scale)
	p0 := e.lastPt

	if e.forward.isEmpty() {
		e.forward.moveTo(offset(p0, norm.Neg()))
		e.backward.moveTo(offset(p0, norm))
		e.startTan = tan0
		e.startNorm = norm
		return
	}

	ab := e.lastTan
	cd := tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)

	// Nearly straight: connect both sides without a join shape so that
	// flattened curves stay continuous.
	if dot > 0.0 && math.Abs(cross) < hypot*e.joinThresh {
		e.forward.lineTo(offset(p0, norm.Neg()))
		e.backward.lineTo(offset(p0, norm))
		return
	}

	switch e.style.Join {
	case LineJoinBevel:
		e.forward.lineTo(offset(p0, norm.Neg()))
		e.backward.lineTo(offset(p0, norm))
	case LineJoinMiter:
		limitSq := e.style.MiterLimit * e.style.MiterLimit
		if 2.0*hypot < (hypot+dot)*limitSq {
			e.miterPoint(p0, norm, ab, cd, cross)
		}
		e.forward.lineTo(offset(p0, norm.Neg()))
		e.backward.lineTo(offset(p0, norm))
	case LineJoinRound:
		lastNorm := ab.Perp().Scale(0.5 * e.style.Width / ab.Length())
		angle := math.Atan2(cross, dot)
		if angle > 0.0 {
			e.backward.lineTo(offset(p0, norm))
			e.roundJoin(e.forward, p0, lastNorm.Neg(), angle)
		} else {
			e.forward.lineTo(offset(p0, norm.Neg()))
			e.roundJoin(e.backward, p0, lastNorm, angle)
		}
	}
}

// miterPoint adds the outer corner of a miter join to the side the
// segments turn away from.
func (e *Expander) miterPoint(p0 path.Point, norm, ab, cd Vec2, cross float64) {
	lastNorm := ab.Perp().Scale(0.5 * e.style.Width / ab.Length())

	switch {
	case cross > 0.0:
		fpLast := offset(p0, lastNorm.Neg())
		fpThis := offset(p0, norm.Neg())
		h := ab.Cross(sub(fpThis, fpLast)) / cross
		e.forward.lineTo(offset(fpThis, cd.Scale(-h)))
		e.backward.lineTo(p0)
	case cross < 0.0:
		fpLast := offset(p0, lastNorm)
		fpThis := offset(p0, norm)
		h := ab.Cross(sub(fpThis, fpLast)) / cross
		e.backward.lineTo(offset(fpThis, cd.Scale(-h)))
		e.forward.lineTo(p0)
	}
}

func (e *Expander) doLine(tangent Vec2, p1 path.Point) {
	norm := tangent.Perp().Scale(0.5 * e.style.Width / tangent.Length())
	e.forward.lineTo(offset(p1, norm.Neg()))
	e.backward.lineTo(offset(p1, norm))
	e.lastPt = p1
	e.lastNorm = norm
}

// finish closes an open subpath: forward side, end cap, reversed backward
// side, start cap.
func (e *Expander) finish() {
	e.output.appendPath(e.forward)
	e.applyCap(e.lastPt, e.lastNorm.Neg(), false)
	e.appendReversed(e.backward)
	e.applyCap(e.startPt, e.startNorm, true)

	e.forward = newBuilder()
	e.backward = newBuilder()
}

// finishClosed emits a closed subpath as two loops of opposite direction.
func (e *Expander) finishClosed() {
	e.doJoin(e.startTan)

	e.output.appendPath(e.forward)
	e.output.close()

	if n := len(e.backward.elements); n > 0 {
		last, _ := path.EndPoint(e.backward.elements[n-1])
		e.output.moveTo(last)
	}
	e.appendReversed(e.backward)
	e.output.close()

	e.forward = newBuilder()
	e.backward = newBuilder()
}

func (e *Expander) applyCap(center path.Point, norm Vec2, closePath bool) {
	switch e.style.Cap {
	case LineCapButt:
		if !closePath {
			e.output.lineTo(offset(center, norm.Neg()))
		}
	case LineCapRound:
		e.roundJoin(e.output, center, norm, math.Pi)
	case LineCapSquare:
		// corners of the unit square (+1,+1), (-1,+1), (-1,0) in the frame
		// spanned by norm and its perpendicular
		e.output.lineTo(capPoint(center, norm, 1, 1))
		e.output.lineTo(capPoint(center, norm, -1, 1))
		if !closePath {
			e.output.lineTo(capPoint(center, norm, -1, 0))
		}
	}
	if closePath {
		e.output.close()
	}
}

func capPoint(center path.Point, norm Vec2, x, y float64) path.Point {
	return path.Point{
		X: norm.X*x - norm.Y*y + center.X,
		Y: norm.Y*x + norm.X*y + center.Y,
	}
}

// roundJoin adds a circular arc of the given signed angle around center,
// starting at center+norm, as cubic segments of at most 90 degrees.
func (e *Expander) roundJoin(out *builder, center path.Point, norm Vec2, angle float64) {
	n := max(int(math.Ceil(math.Abs(angle)/(math.Pi/2))), 1)
	step := angle / float64(n)
	a := norm.Angle()
	radius := norm.Length()
	for range n {
		arcSegment(out, center, radius, a, a+step)
		a += step
	}
}

func arcSegment(out *builder, center path.Point, radius, a0, a1 float64) {
	da := a1 - a0
	t := math.Tan(da / 2)
	alpha := math.Sin(da) * (math.Sqrt(4+3*t*t) - 1) / 3

	cos0, sin0 := math.Cos(a0), math.Sin(a0)
	cos1, sin1 := math.Cos(a1), math.Sin(a1)

	p1 := path.Point{X: center.X + radius*cos0, Y: center.Y + radius*sin0}
	p2 := path.Point{X: center.X + radius*cos1, Y: center.Y + radius*sin1}
	c1 := path.Point{X: p1.X - alpha*radius*sin0, Y: p1.Y + alpha*radius*cos0}
	c2 := path.Point{X: p2.X + alpha*radius*sin1, Y: p2.Y - alpha*radius*cos1}

	out.cubicTo(c1, c2, p2)
}

// appendReversed appends the backward side from its end to its start.
func (e *Expander) appendReversed(b *builder) {
	elems := b.elements
	for i := len(elems) - 1; i >= 1; i-- {
		end, _ := path.EndPoint(elems[i-1])
		switch el := elems[i].(type) {
		case path.LineTo:
			e.output.lineTo(end)
		case path.CubicTo:
			e.output.cubicTo(el.Control2, el.Control1, end)
		}
	}
}

// builder collects elements without the bookkeeping of path.Path so that
// sides can be reversed and concatenated.
type builder struct {
	elements []path.Element
}

func newBuilder() *builder {
	return &builder{elements: make([]path.Element, 0, 64)}
}

func (b *builder) isEmpty() bool { return len(b.elements) == 0 }

func (b *builder) moveTo(p path.Point) {
	b.elements = append(b.elements, path.MoveTo{Point: p})
}

func (b *builder) lineTo(p path.Point) {
	b.elements = append(b.elements, path.LineTo{Point: p})
}

func (b *builder) cubicTo(c1, c2, p path.Point) {
	b.elements = append(b.elements, path.CubicTo{Control1: c1, Control2: c2, Point: p})
}

func (b *builder) close() {
	b.elements = append(b.elements, path.Close{})
}

func (b *builder) appendPath(other *builder) {
	b.elements = append(b.elements, other.elements...)
}

func (b *builder) build() *path.Path {
	p := path.New()
	for _, el := range b.elements {
		p.Append(el)
	}
	return p
}
