package spans_test

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/path"
	"github.com/gogpu/spans/surface"
)

const size = 24

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

// checker returns a destination whose pixels alternate between opaque
// white and half-transparent blue.
func checker() *surface.ImageSurface {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, white)
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 128, 128})
			}
		}
	}
	return surface.FromRGBA(img)
}

func opaque(c color.RGBA) *surface.ImageSurface {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetRGBA(x, y, c)
		}
	}
	return surface.FromRGBA(img)
}

func rect(x, y, w, h float64) *path.Path {
	p := path.New()
	p.Rectangle(x, y, w, h)
	return p
}

func circle(cx, cy, r float64) *path.Path {
	p := path.New()
	p.Circle(cx, cy, r)
	return p
}

// general returns a compositor that always takes the scan-converter path.
func general(opts ...surface.BackendOption) *spans.Compositor {
	return spans.NewCompositor(surface.NewImageBackend(opts...),
		spans.WithAlignedFastPaths(false), spans.WithClipPolygonReduction(false))
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func near(a, b color.RGBA, tol int) bool {
	return diff(a.R, b.R) <= tol && diff(a.G, b.G) <= tol && diff(a.B, b.B) <= tol && diff(a.A, b.A) <= tol
}

func compare(t *testing.T, got, want *surface.ImageSurface, tol int) {
	t.Helper()
	for y := range size {
		for x := range size {
			if g, w := got.PixelAt(x, y), want.PixelAt(x, y); !near(g, w, tol) {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func regionClip(rs ...image.Rectangle) *clip.Clip {
	b := geom.NewBoxes()
	for _, r := range rs {
		b.Add(geom.AntialiasDefault, geom.BoxFromRectangle(r))
	}
	cl, err := clip.FromBoxes(b)
	if err != nil {
		panic(err)
	}
	return cl
}

func pathClip(p *path.Path, aa geom.Antialias) *clip.Clip {
	cl, err := (*clip.Clip)(nil).IntersectPath(p, geom.FillRuleWinding, 0.05, aa)
	if err != nil {
		panic(err)
	}
	return cl
}

type drawFunc func(c *spans.Compositor, dst spans.Surface) error

func fillWith(op spans.Operator, src spans.Pattern, p *path.Path, aa geom.Antialias, cl *clip.Clip) drawFunc {
	return func(c *spans.Compositor, dst spans.Surface) error {
		return c.Fill(dst, op, src, p, geom.FillRuleWinding, 0.05, aa, cl)
	}
}

func TestAlignedMatchesGeneral(t *testing.T) {
	redSrc := spans.NewSolidPattern(spans.Red)
	halfGreen := spans.NewSolidPattern(spans.RGBA(0, 1, 0, 0.5))

	img := opaque(color.RGBA{10, 200, 30, 255})
	upload := spans.NewSurfacePattern(img)
	upload.Matrix = matrix.Matrix{1, 0, 0, 1, 3, 2}

	two := regionClip(image.Rect(0, 0, 10, 24), image.Rect(14, 4, 24, 20))

	tests := []struct {
		name string
		draw drawFunc
	}{
		{"solid over", fillWith(spans.OperatorOver, redSrc, rect(4, 4, 10, 8), geom.AntialiasDefault, nil)},
		{"translucent over", fillWith(spans.OperatorOver, halfGreen, rect(2, 3, 15, 9), geom.AntialiasDefault, nil)},
		{"source", fillWith(spans.OperatorSource, halfGreen, rect(2, 3, 15, 9), geom.AntialiasDefault, nil)},
		{"clear", fillWith(spans.OperatorClear, redSrc, rect(5, 5, 4, 4), geom.AntialiasDefault, nil)},
		{"image upload", fillWith(spans.OperatorSource, upload, rect(0, 0, 12, 12), geom.AntialiasDefault, nil)},
		{"image over", fillWith(spans.OperatorOver, upload, rect(6, 6, 12, 12), geom.AntialiasDefault, nil)},
		{"region clip", fillWith(spans.OperatorOver, redSrc, rect(2, 2, 20, 20), geom.AntialiasDefault, two)},
		{"unbounded in", fillWith(spans.OperatorIn, halfGreen, rect(4, 4, 8, 8), geom.AntialiasDefault, two)},
		{"paint dest-out", func(c *spans.Compositor, dst spans.Surface) error {
			return c.Paint(dst, spans.OperatorDestOut, halfGreen, two)
		}},
		{"solid mask", func(c *spans.Compositor, dst spans.Surface) error {
			return c.Mask(dst, spans.OperatorOver, upload, spans.NewSolidPattern(spans.RGBA(0, 0, 0, 0.5)), nil)
		}},
		{"rectilinear stroke", func(c *spans.Compositor, dst spans.Surface) error {
			return c.Stroke(dst, spans.OperatorOver, redSrc, rect(4, 4, 12, 12), spans.DefaultStroke().WithWidth(2),
				0.05, geom.AntialiasDefault, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fast, slow := checker(), checker()
			if err := tt.draw(spans.NewCompositor(surface.NewImageBackend()), fast); err != nil {
				t.Fatalf("fast path failed: %v", err)
			}
			if err := tt.draw(general(), slow); err != nil {
				t.Fatalf("general path failed: %v", err)
			}
			compare(t, fast, slow, 1)
		})
	}
}

func TestUnboundedFixupRegionClip(t *testing.T) {
	cl := regionClip(image.Rect(0, 0, 12, 12), image.Rect(12, 12, 24, 24))
	geometry := image.Rect(4, 4, 16, 16)

	for _, c := range []*spans.Compositor{spans.NewCompositor(surface.NewImageBackend()), general()} {
		dst := opaque(white)
		err := c.Fill(dst, spans.OperatorIn, spans.NewSolidPattern(spans.Red),
			rect(4, 4, 12, 12), geom.FillRuleWinding, 0.05, geom.AntialiasDefault, cl)
		if err != nil {
			t.Fatalf("Fill failed: %v", err)
		}

		for y := range size {
			for x := range size {
				pt := image.Pt(x, y)
				inClip := pt.In(image.Rect(0, 0, 12, 12)) || pt.In(image.Rect(12, 12, 24, 24))
				want := white
				switch {
				case inClip && pt.In(geometry):
					want = red
				case inClip:
					want = color.RGBA{}
				}
				if got := dst.PixelAt(x, y); got != want {
					t.Fatalf("PixelAt(%d, %d) = %v, want %v", x, y, got, want)
				}
			}
		}
	}
}

func TestUnboundedFixupPathClip(t *testing.T) {
	cl := pathClip(circle(12, 12, 10), geom.AntialiasDefault)

	tests := []struct {
		name string
		c    *spans.Compositor
	}{
		{"default", spans.NewCompositor(surface.NewImageBackend())},
		{"general", general()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := opaque(white)
			err := tt.c.Fill(dst, spans.OperatorIn, spans.NewSolidPattern(spans.Red),
				rect(10, 0, 4, 24), geom.FillRuleWinding, 0.05, geom.AntialiasDefault, cl)
			if err != nil {
				t.Fatalf("Fill failed: %v", err)
			}

			checks := []struct {
				name string
				x, y int
				want color.RGBA
			}{
				{"geometry in clip", 12, 12, red},
				{"geometry in clip near edge", 11, 4, red},
				{"clip outside geometry", 6, 12, color.RGBA{}},
				{"clip outside geometry right", 18, 12, color.RGBA{}},
				{"outside clip", 0, 0, white},
				{"geometry outside clip", 12, 23, white},
			}
			for _, ck := range checks {
				if got := dst.PixelAt(ck.x, ck.y); got != ck.want {
					t.Errorf("%s: PixelAt(%d, %d) = %v, want %v", ck.name, ck.x, ck.y, got, ck.want)
				}
			}

			// The clip edge blends the cleared area with the untouched one.
			if got := dst.PixelAt(6, 20); got == white || got == (color.RGBA{}) {
				t.Errorf("PixelAt(6, 20) = %v, want partial coverage", got)
			}
		})
	}
}

func TestSourceThroughMask(t *testing.T) {
	mask := spans.NewSolidPattern(spans.RGBA(0, 0, 0, 0.5))
	src := spans.NewSolidPattern(spans.Red)
	cl := regionClip(image.Rect(4, 4, 20, 20))

	tests := []struct {
		name string
		lerp bool
	}{
		{"lerp", true},
		{"no lerp", false},
	}

	var results []*surface.ImageSurface
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := opaque(white)
			c := spans.NewCompositor(surface.NewImageBackend(surface.WithLerp(tt.lerp)))
			if err := c.Mask(dst, spans.OperatorSource, src, mask, cl); err != nil {
				t.Fatalf("Mask failed: %v", err)
			}
			want := color.RGBA{255, 128, 128, 255}
			if got := dst.PixelAt(10, 10); !near(got, want, 1) {
				t.Errorf("PixelAt(10, 10) = %v, want %v", got, want)
			}
			if got := dst.PixelAt(2, 2); got != white {
				t.Errorf("PixelAt(2, 2) = %v, want %v", got, white)
			}
			results = append(results, dst)
		})
	}
	if len(results) == 2 {
		compare(t, results[0], results[1], 1)
	}
}

func TestClipSurfaceMixedAntialias(t *testing.T) {
	tri := path.New()
	tri.MoveTo(0, 0)
	tri.LineTo(24, 0)
	tri.LineTo(0, 24)
	tri.Close()

	cl := pathClip(circle(12, 12, 10), geom.AntialiasDefault)
	cl, err := cl.IntersectPath(tri, geom.FillRuleWinding, 0.05, geom.AntialiasNone)
	if err != nil {
		t.Fatalf("IntersectPath failed: %v", err)
	}
	if _, _, _, err := cl.Polygon(); !errors.Is(err, spans.ErrUnsupported) {
		t.Fatalf("Polygon() error = %v, want ErrUnsupported for mixed antialias", err)
	}

	tests := []struct {
		name string
		op   spans.Operator
	}{
		{"over", spans.OperatorOver},
		{"in", spans.OperatorIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := opaque(white)
			c := spans.NewCompositor(surface.NewImageBackend())
			err := c.Fill(dst, tt.op, spans.NewSolidPattern(spans.Red), rect(0, 0, 24, 24),
				geom.FillRuleWinding, 0.05, geom.AntialiasDefault, cl)
			if err != nil {
				t.Fatalf("Fill failed: %v", err)
			}
			if got := dst.PixelAt(8, 8); got != red {
				t.Errorf("PixelAt(8, 8) = %v, want %v", got, red)
			}
			for _, pt := range []image.Point{{20, 20}, {1, 1}, {23, 12}} {
				if got := dst.PixelAt(pt.X, pt.Y); got != white {
					t.Errorf("PixelAt(%d, %d) = %v, want %v", pt.X, pt.Y, got, white)
				}
			}
		})
	}
}

func TestUnsupportedNeverSurfaces(t *testing.T) {
	ops := []spans.Operator{
		spans.OperatorClear, spans.OperatorSource, spans.OperatorOver, spans.OperatorIn,
		spans.OperatorOut, spans.OperatorAtop, spans.OperatorDest, spans.OperatorDestOver,
		spans.OperatorDestIn, spans.OperatorDestOut, spans.OperatorDestAtop, spans.OperatorXor,
		spans.OperatorAdd,
	}
	img := opaque(color.RGBA{0, 0, 200, 255})
	scaled := spans.NewSurfacePattern(img)
	scaled.Matrix = matrix.Scale(0.5, 0.5)
	scaled.Extend = spans.ExtendRepeat

	sources := map[string]spans.Pattern{
		"solid":  spans.NewSolidPattern(spans.RGBA(1, 0, 0, 0.75)),
		"image":  spans.NewSurfacePattern(img),
		"scaled": scaled,
	}
	clips := map[string]*clip.Clip{
		"none":   nil,
		"region": regionClip(image.Rect(2, 2, 10, 10), image.Rect(12, 3, 22, 21)),
		"path":   pathClip(circle(12, 12, 9), geom.AntialiasDefault),
		"mono":   pathClip(circle(12, 12, 9), geom.AntialiasNone),
	}
	shapes := map[string]*path.Path{
		"aligned":    rect(4, 4, 12, 12),
		"fractional": rect(4.5, 4.25, 11, 9.5),
		"circle":     circle(11, 13, 7.5),
	}

	for _, lerp := range []bool{true, false} {
		c := spans.NewCompositor(surface.NewImageBackend(surface.WithLerp(lerp)))
		for _, op := range ops {
			for sn, src := range sources {
				for cn, cl := range clips {
					for pn, p := range shapes {
						name := fmt.Sprintf("lerp=%v/%s/%s/%s/%s", lerp, op, sn, cn, pn)
						if err := c.Fill(checker(), op, src, p, geom.FillRuleWinding, 0.1, geom.AntialiasDefault, cl); err != nil {
							t.Errorf("%s: Fill failed: %v", name, err)
						}
					}
					mask := spans.NewSolidPattern(spans.RGBA(0, 0, 0, 0.5))
					if err := c.Mask(checker(), op, src, mask, cl); err != nil {
						t.Errorf("lerp=%v/%s/%s/%s: Mask failed: %v", lerp, op, sn, cn, err)
					}
				}
			}
		}
	}
}

func TestDestinationClearTracking(t *testing.T) {
	c := spans.NewCompositor(surface.NewImageBackend())
	dst := surface.NewImageSurface(image.Rect(0, 0, size, size))
	if !dst.IsClear() {
		t.Fatal("new surface is not clear")
	}

	src := spans.NewSolidPattern(spans.Red)
	if err := c.Fill(dst, spans.OperatorOver, src, rect(2, 2, 4, 4), geom.FillRuleWinding, 0.1, geom.AntialiasDefault, nil); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if dst.IsClear() {
		t.Error("IsClear() = true after drawing")
	}

	if err := c.Paint(dst, spans.OperatorClear, src, nil); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}
	if !dst.IsClear() {
		t.Error("IsClear() = false after an unclipped CLEAR")
	}
	if got := dst.PixelAt(3, 3); got != (color.RGBA{}) {
		t.Errorf("PixelAt(3, 3) = %v, want transparent", got)
	}
}

func TestBoundedClearKeepsDestinationDirty(t *testing.T) {
	black := spans.NewSolidPattern(spans.Black)

	tests := []struct {
		name string
		draw func(c *spans.Compositor, dst spans.Surface) error
	}{
		{"fill", func(c *spans.Compositor, dst spans.Surface) error {
			return c.Fill(dst, spans.OperatorClear, black, rect(0, 0, 2, 2), geom.FillRuleWinding, 0.1, geom.AntialiasDefault, nil)
		}},
		{"stroke", func(c *spans.Compositor, dst spans.Surface) error {
			return c.Stroke(dst, spans.OperatorClear, black, rect(0, 0, 2, 2), spans.DefaultStroke(), 0.1, geom.AntialiasDefault, nil)
		}},
		{"mask", func(c *spans.Compositor, dst spans.Surface) error {
			return c.Mask(dst, spans.OperatorClear, black, spans.NewSolidPattern(spans.RGBA(0, 0, 0, 0.5)), nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := spans.NewCompositor(surface.NewImageBackend())
			dst := surface.NewImageSurface(image.Rect(0, 0, size, size))
			if err := c.Paint(dst, spans.OperatorSource, spans.NewSolidPattern(spans.Red), nil); err != nil {
				t.Fatalf("Paint failed: %v", err)
			}
			if err := tt.draw(c, dst); err != nil {
				t.Fatalf("CLEAR %s failed: %v", tt.name, err)
			}
			if dst.IsClear() {
				t.Errorf("IsClear() = true after a bounded CLEAR %s", tt.name)
			}

			if err := c.Paint(dst, spans.OperatorClear, black, nil); err != nil {
				t.Fatalf("Paint failed: %v", err)
			}
			if got := dst.PixelAt(10, 10); got != (color.RGBA{}) {
				t.Errorf("PixelAt(10, 10) after Paint(CLEAR) = %v, want transparent", got)
			}
		})
	}
}

func TestStrategyFallbackLogged(t *testing.T) {
	orig := spans.Logger()
	t.Cleanup(func() { spans.SetLogger(orig) })

	var buf bytes.Buffer
	spans.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	mask := spans.NewSolidPattern(spans.RGBA(0, 0, 0, 0.5))
	c := spans.NewCompositor(surface.NewImageBackend(surface.WithLerp(false)))
	if err := c.Mask(opaque(white), spans.OperatorSource, spans.NewSolidPattern(spans.Red), mask,
		regionClip(image.Rect(4, 4, 20, 20))); err != nil {
		t.Fatalf("Mask failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "masked SOURCE needs lerp") {
		t.Errorf("log output = %q, want the lerp fallback at DEBUG", out)
	}
	if strings.Contains(out, "not handled by any strategy") {
		t.Errorf("log output = %q, want no unhandled request", out)
	}
}
