package spans

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/spans/geom"
)

// fakeSurface is a pixel-less surface with fixed bounds.
type fakeSurface struct {
	bounds image.Rectangle
	opaque bool
	clear  bool
}

func (s *fakeSurface) Kind() SurfaceKind              { return KindImage }
func (s *fakeSurface) Bounds() image.Rectangle        { return s.bounds }
func (s *fakeSurface) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (s *fakeSurface) IsClear() bool                  { return s.clear }
func (s *fakeSurface) SetClear(clear bool)            { s.clear = clear }
func (s *fakeSurface) IsOpaque() bool                 { return s.opaque }

func translate(tx, ty float64) matrix.Matrix { return matrix.Matrix{1, 0, 0, 1, tx, ty} }

func patternOf(s Surface, m matrix.Matrix) *SurfacePattern {
	p := NewSurfacePattern(s)
	p.Matrix = m
	return p
}

func repeated(s Surface) *SurfacePattern {
	p := patternOf(s, matrix.Identity)
	p.Extend = ExtendRepeat
	return p
}

func TestIntegerTranslation(t *testing.T) {
	tests := []struct {
		name   string
		m      matrix.Matrix
		tx, ty int
		ok     bool
	}{
		{"identity", matrix.Identity, 0, 0, true},
		{"whole pixels", translate(3, -7), 3, -7, true},
		{"fractional", translate(0.5, 0), 0, 0, false},
		{"scale", matrix.Scale(2, 2), 0, 0, false},
		{"shear", matrix.Matrix{1, 0.5, 0, 1, 0, 0}, 0, 0, false},
		{"huge", translate(1e12, 0), 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ty, ok := IntegerTranslation(tt.m)
			if tx != tt.tx || ty != tt.ty || ok != tt.ok {
				t.Errorf("IntegerTranslation(%v) = (%d, %d, %v), want (%d, %d, %v)",
					tt.m, tx, ty, ok, tt.tx, tt.ty, tt.ok)
			}
		})
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		m    matrix.Matrix
		ok   bool
	}{
		{"identity", matrix.Identity, true},
		{"translate", translate(10, 20), true},
		{"scale", matrix.Scale(2, 0.5), true},
		{"rotate", matrix.Matrix{0, 1, -1, 0, 5, 5}, true},
		{"singular", matrix.Matrix{1, 2, 2, 4, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := Invert(tt.m)
			if ok != tt.ok {
				t.Fatalf("Invert(%v) ok = %v, want %v", tt.m, ok, tt.ok)
			}
			if !ok {
				return
			}
			x, y := Apply(tt.m, 3, -4)
			x, y = Apply(inv, x, y)
			if math.Abs(x-3) > 1e-9 || math.Abs(y+4) > 1e-9 {
				t.Errorf("inverse round trip = (%v, %v), want (3, -4)", x, y)
			}
		})
	}
}

func TestSurfacePatternExtents(t *testing.T) {
	s := &fakeSurface{bounds: image.Rect(0, 0, 10, 10)}

	tests := []struct {
		name string
		p    *SurfacePattern
		want image.Rectangle
	}{
		{"identity", patternOf(s, matrix.Identity), image.Rect(0, 0, 10, 10)},
		{"translated", patternOf(s, translate(-5, 2)), image.Rect(5, -2, 15, 8)},
		{"scaled bilinear", patternOf(s, matrix.Scale(0.5, 0.5)), image.Rect(-1, -1, 21, 21)},
		{"repeat", repeated(s), geom.UnboundedRectangle},
		{"singular", patternOf(s, matrix.Matrix{}), image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Extents(); got != tt.want {
				t.Errorf("Extents() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSurfacePatternSampledArea(t *testing.T) {
	s := &fakeSurface{bounds: image.Rect(0, 0, 10, 10)}
	r := image.Rect(4, 4, 8, 8)

	tests := []struct {
		name   string
		m      matrix.Matrix
		filter Filter
		want   image.Rectangle
	}{
		{"translation", translate(1, 2), FilterBilinear, image.Rect(5, 6, 9, 10)},
		{"scale nearest", matrix.Scale(0.5, 0.5), FilterNearest, image.Rect(2, 2, 4, 4)},
		{"scale bilinear", matrix.Scale(0.5, 0.5), FilterBilinear, image.Rect(1, 1, 5, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := patternOf(s, tt.m)
			p.Filter = tt.filter
			if got := p.SampledArea(r); got != tt.want {
				t.Errorf("SampledArea(%v) = %v, want %v", r, got, tt.want)
			}
		})
	}
}

func TestPatternOpacity(t *testing.T) {
	opaque := &fakeSurface{bounds: image.Rect(0, 0, 10, 10), opaque: true}

	tests := []struct {
		name string
		p    Pattern
		area image.Rectangle
		want bool
	}{
		{"opaque solid", NewSolidPattern(Red), image.Rect(0, 0, 100, 100), true},
		{"translucent solid", NewSolidPattern(RGBA(1, 0, 0, 0.5)), image.Rect(0, 0, 1, 1), false},
		{"surface inside", patternOf(opaque, matrix.Identity), image.Rect(2, 2, 8, 8), true},
		{"surface beyond", patternOf(opaque, matrix.Identity), image.Rect(2, 2, 12, 8), false},
		{"surface repeated", repeated(opaque), image.Rect(-20, -20, 40, 40), true},
		{"unknown content", patternOf(&fakeSurface{bounds: image.Rect(0, 0, 10, 10)}, matrix.Identity), image.Rect(2, 2, 8, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsOpaque(tt.area); got != tt.want {
				t.Errorf("IsOpaque(%v) = %v, want %v", tt.area, got, tt.want)
			}
		})
	}
}

func TestTranslatePattern(t *testing.T) {
	s := &fakeSurface{bounds: image.Rect(0, 0, 10, 10)}
	p := patternOf(s, matrix.Identity)

	moved := TranslatePattern(p, 5, 6).(*SurfacePattern)
	if got, want := moved.Extents(), image.Rect(5, 6, 15, 16); got != want {
		t.Errorf("Extents() after TranslatePattern = %v, want %v", got, want)
	}
	if p.Matrix != matrix.Identity {
		t.Error("TranslatePattern modified its argument")
	}

	solid := NewSolidPattern(Red)
	if TranslatePattern(solid, 5, 6) != Pattern(solid) {
		t.Error("TranslatePattern copied a solid pattern")
	}
}
