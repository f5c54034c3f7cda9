// Package raster converts boxes and polygons into coverage spans.
//
// A converter accumulates geometry and then hands rows of spans to a
// Renderer. Span i covers pixels [X_i, X_{i+1}) of every row in the call;
// the final span only terminates its predecessor.
package raster

import (
	"image"

	"github.com/gogpu/spans/geom"
)

// Span is the start of a run of constant coverage (0 = none, 255 = full).
// Inverse marks a run outside the geometry that must still be composited
// with zero coverage, as unbounded operators require; other zero-coverage
// runs may be skipped.
type Span struct {
	X        int
	Coverage uint8
	Inverse  bool
}

// Renderer consumes span rows. Spans are only valid during the call.
type Renderer interface {
	// RenderRows is called for the height rows starting at y, which all
	// share the same spans. A call without spans means the rows have no
	// coverage.
	RenderRows(y, height int, spans []Span) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(y, height int, spans []Span) error

// RenderRows calls f.
func (f RendererFunc) RenderRows(y, height int, spans []Span) error {
	return f(y, height, spans)
}

// Converter turns accumulated geometry into spans.
type Converter interface {
	// Generate sends every row to r. The first renderer error aborts
	// generation and is returned.
	Generate(r Renderer) error
}

// Complement forwards rows to next and fills in everything a converter
// left out: rows it skipped and the parts of each row before the first and
// after the last span are delivered as Inverse spans, and zero-coverage
// runs inside a row are marked Inverse. Rows are clipped to extents. Call
// Flush after generation to deliver the rows below the last one seen.
type Complement struct {
	next    Renderer
	extents image.Rectangle
	nextY   int
	buf     []Span
}

// NewComplement returns a Complement covering extents.
func NewComplement(extents image.Rectangle, next Renderer) *Complement {
	return &Complement{next: next, extents: extents, nextY: extents.Min.Y}
}

// RenderRows implements Renderer.
func (c *Complement) RenderRows(y, height int, spans []Span) error {
	y0 := max(y, c.extents.Min.Y)
	y1 := min(y+height, c.extents.Max.Y)
	if err := c.gap(y0); err != nil {
		return err
	}
	if y1 <= y0 {
		return nil
	}
	c.nextY = max(c.nextY, y1)
	if len(spans) == 0 {
		return c.next.RenderRows(y0, y1-y0, c.outside())
	}

	minX, maxX := c.extents.Min.X, c.extents.Max.X
	c.buf = c.buf[:0]
	if spans[0].X > minX {
		c.buf = append(c.buf, Span{X: minX, Inverse: true})
	}
	for _, s := range spans[:len(spans)-1] {
		s.Inverse = s.Coverage == 0
		c.buf = append(c.buf, s)
	}
	last := spans[len(spans)-1].X
	if last < maxX {
		c.buf = append(c.buf, Span{X: last, Inverse: true})
		last = maxX
	}
	c.buf = append(c.buf, Span{X: last})
	return c.next.RenderRows(y0, y1-y0, c.buf)
}

// Flush delivers the rows between the last row seen and the bottom of the
// extents.
func (c *Complement) Flush() error {
	return c.gap(c.extents.Max.Y)
}

// gap delivers the skipped rows above y.
func (c *Complement) gap(y int) error {
	y = min(y, c.extents.Max.Y)
	if y <= c.nextY {
		return nil
	}
	y0 := c.nextY
	c.nextY = y
	return c.next.RenderRows(y0, y-y0, c.outside())
}

func (c *Complement) outside() []Span {
	c.buf = append(c.buf[:0], Span{X: c.extents.Min.X, Inverse: true}, Span{X: c.extents.Max.X})
	return c.buf
}

type nilConverter struct{}

func (nilConverter) Generate(Renderer) error { return nil }

// NilConverter returns a converter that produces nothing.
func NilConverter() Converter { return nilConverter{} }

type errorConverter struct{ err error }

func (c errorConverter) Generate(Renderer) error { return c.err }

// ErrorConverter returns a converter whose Generate fails with err. It
// stands in for a converter that could not be built.
func ErrorConverter(err error) Converter { return errorConverter{err: err} }

// coverageToAlpha maps an area in 1/64 x 1/64 pixel units, scaled by the
// winding, to an 8-bit coverage. Windings beyond one saturate.
func coverageToAlpha(area int) uint8 {
	if area < 0 {
		area = -area
	}
	c := area >> (2*geom.FracBits - 8)
	if c > 256 {
		c = 256
	}
	return uint8(c - c>>8)
}
