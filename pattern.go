package spans

import (
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/spans/geom"
)

// Pattern is a source or mask for compositing.
type Pattern interface {
	// Extents returns the device area where the pattern can be
	// non-transparent. Unlimited patterns return geom.UnboundedRectangle.
	Extents() image.Rectangle

	// IsOpaque reports whether every pixel sampled from area is opaque.
	IsOpaque(area image.Rectangle) bool

	// IsClear reports whether the pattern is fully transparent.
	IsClear() bool
}

// SolidPattern is a uniform color.
type SolidPattern struct {
	Color Color
}

// NewSolidPattern returns a pattern painting c everywhere.
func NewSolidPattern(c Color) *SolidPattern {
	return &SolidPattern{Color: c}
}

// Extents implements Pattern.
func (p *SolidPattern) Extents() image.Rectangle { return geom.UnboundedRectangle }

// IsOpaque implements Pattern.
func (p *SolidPattern) IsOpaque(image.Rectangle) bool { return p.Color.IsOpaque() }

// IsClear implements Pattern.
func (p *SolidPattern) IsClear() bool { return p.Color.IsClear() }

// Extend controls sampling outside the pattern surface.
type Extend uint8

// Extend modes.
const (
	ExtendNone Extend = iota
	ExtendRepeat
	ExtendReflect
	ExtendPad
)

// String returns the extend mode name.
func (e Extend) String() string {
	switch e {
	case ExtendNone:
		return "none"
	case ExtendRepeat:
		return "repeat"
	case ExtendReflect:
		return "reflect"
	case ExtendPad:
		return "pad"
	}
	return "unknown"
}

// Filter selects the resampling filter of a surface pattern.
type Filter uint8

// Filters.
const (
	FilterNearest Filter = iota
	FilterBilinear
)

// SurfacePattern samples another surface. Matrix maps user space to
// pattern space.
type SurfacePattern struct {
	Surface Surface
	Matrix  matrix.Matrix
	Extend  Extend
	Filter  Filter
}

// NewSurfacePattern returns an untransformed pattern over s.
func NewSurfacePattern(s Surface) *SurfacePattern {
	return &SurfacePattern{Surface: s, Matrix: matrix.Identity, Filter: FilterBilinear}
}

// IsRecording reports whether the pattern samples a recording surface.
func (p *SurfacePattern) IsRecording() bool {
	_, ok := p.Surface.(Recording)
	return ok
}

func (p *SurfacePattern) surfaceBounds() (image.Rectangle, bool) {
	if r, ok := p.Surface.(Recording); ok && r.IsUnbounded() {
		return geom.UnboundedRectangle, false
	}
	return p.Surface.Bounds(), true
}

// Extents implements Pattern.
func (p *SurfacePattern) Extents() image.Rectangle {
	if p.Extend != ExtendNone {
		return geom.UnboundedRectangle
	}
	b, ok := p.surfaceBounds()
	if !ok {
		return geom.UnboundedRectangle
	}
	inv, ok := invert(p.Matrix)
	if !ok {
		return image.Rectangle{}
	}
	r := transformRect(inv, b)
	if p.Filter == FilterBilinear && !isIntegerTranslation(p.Matrix) {
		r = r.Inset(-1)
	}
	return r
}

// IsOpaque implements Pattern. Only surfaces that know their content is
// opaque and cover the whole sample qualify.
func (p *SurfacePattern) IsOpaque(area image.Rectangle) bool {
	o, ok := p.Surface.(interface{ IsOpaque() bool })
	if !ok || !o.IsOpaque() {
		return false
	}
	if p.Extend == ExtendRepeat || p.Extend == ExtendReflect || p.Extend == ExtendPad {
		return true
	}
	b, _ := p.surfaceBounds()
	return area.In(b)
}

// IsClear implements Pattern.
func (p *SurfacePattern) IsClear() bool {
	return p.Surface.Bounds().Empty()
}

// SampledArea returns the pattern pixels needed to composite the device
// area r.
func (p *SurfacePattern) SampledArea(r image.Rectangle) image.Rectangle {
	if tx, ty, ok := IntegerTranslation(p.Matrix); ok {
		return r.Add(image.Pt(tx, ty))
	}
	x0, y0, x1, y1 := transformBounds(p.Matrix, r)
	pad := 0.0
	if p.Filter == FilterBilinear {
		pad = 0.5
	}
	return image.Rect(
		int(math.Floor(x0-pad)), int(math.Floor(y0-pad)),
		int(math.Ceil(x1+pad)), int(math.Ceil(y1+pad)),
	).Intersect(geom.UnboundedRectangle)
}

// sampledArea returns the pattern area read when compositing r, or r itself
// for patterns that are not read from a surface.
func sampledArea(p Pattern, r image.Rectangle) image.Rectangle {
	if sp, ok := p.(*SurfacePattern); ok {
		return sp.SampledArea(r)
	}
	return r
}

// TranslatePattern returns p as seen from a user space moved by (dx, dy).
func TranslatePattern(p Pattern, dx, dy float64) Pattern {
	sp, ok := p.(*SurfacePattern)
	if !ok || (dx == 0 && dy == 0) {
		return p
	}
	c := *sp
	m := sp.Matrix
	c.Matrix[4] = m[4] - (m[0]*dx + m[2]*dy)
	c.Matrix[5] = m[5] - (m[1]*dx + m[3]*dy)
	return &c
}

// Apply maps (x, y) through m.
func Apply(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// invert returns the inverse of m, or false when m is singular.
func invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return matrix.Matrix{}, false
	}
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	return matrix.Matrix{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}, true
}

// Invert returns the inverse of m, or false when m is singular.
func Invert(m matrix.Matrix) (matrix.Matrix, bool) { return invert(m) }

func isTranslation(m matrix.Matrix) bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1
}

// IntegerTranslation returns the offsets of m if it is a translation by
// whole pixels.
func IntegerTranslation(m matrix.Matrix) (tx, ty int, ok bool) {
	if !isTranslation(m) {
		return 0, 0, false
	}
	if m[4] != math.Trunc(m[4]) || m[5] != math.Trunc(m[5]) {
		return 0, 0, false
	}
	if math.Abs(m[4]) > math.MaxInt32 || math.Abs(m[5]) > math.MaxInt32 {
		return 0, 0, false
	}
	return int(m[4]), int(m[5]), true
}

func isIntegerTranslation(m matrix.Matrix) bool {
	_, _, ok := IntegerTranslation(m)
	return ok
}

func transformBounds(m matrix.Matrix, r image.Rectangle) (x0, y0, x1, y1 float64) {
	corners := [4][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
	}
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := Apply(m, c[0], c[1])
		x0, x1 = min(x0, x), max(x1, x)
		y0, y1 = min(y0, y), max(y1, y)
	}
	return x0, y0, x1, y1
}

func transformRect(m matrix.Matrix, r image.Rectangle) image.Rectangle {
	x0, y0, x1, y1 := transformBounds(m, r)
	b := geom.Box{
		P1: geom.Pt(geom.FromFloat(x0), geom.FromFloat(y0)),
		P2: geom.Pt(geom.FromFloat(x1), geom.FromFloat(y1)),
	}
	return b.RoundOut()
}
