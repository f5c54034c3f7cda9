// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/blend"
	"github.com/gogpu/spans/internal/cache"
)

// BackendOption configures an ImageBackend during creation.
type BackendOption func(*ImageBackend)

// WithLerp sets whether the backend advertises direct SOURCE compositing
// through a mask. Without it the compositor routes masked SOURCE through
// the span renderer.
func WithLerp(enabled bool) BackendOption {
	return func(b *ImageBackend) {
		b.lerp = enabled
	}
}

// WithScratchPoolSize sets how many idle scratch surfaces of each size and
// format are kept for reuse. Zero disables pooling.
func WithScratchPoolSize(n int) BackendOption {
	return func(b *ImageBackend) {
		b.poolSize = n
	}
}

// WithSnapshotCacheSize sets how many rendered recording patterns are
// kept for reuse. Zero renders a recording every time it is sampled.
func WithSnapshotCacheSize(n int) BackendOption {
	return func(b *ImageBackend) {
		b.snapshotSize = n
	}
}

// ImageBackend implements spans.Backend for ImageSurface destinations.
type ImageBackend struct {
	lerp         bool
	poolSize     int
	pool         *scratchPool
	snapshotSize int
	snapshots    *cache.Cache[snapshotKey, *ImageSurface]
}

// NewImageBackend returns a backend with LERP support, a scratch pool of
// eight surfaces per bucket and four cached recording snapshots.
func NewImageBackend(opts ...BackendOption) *ImageBackend {
	b := &ImageBackend{lerp: true, poolSize: 8, snapshotSize: 4}
	for _, opt := range opts {
		opt(b)
	}
	b.pool = newScratchPool(b.poolSize)
	b.snapshots = cache.New[snapshotKey, *ImageSurface](b.snapshotSize, nil)
	return b
}

var _ spans.Backend = (*ImageBackend)(nil)

func imageSurface(s spans.Surface) (*ImageSurface, error) {
	if is, ok := s.(*ImageSurface); ok {
		return is, nil
	}
	return nil, spans.ErrUnsupported
}

func pixelOf(c spans.Color) blend.Pixel {
	p := c.Premultiplied()
	return blend.Pixel{p.R, p.G, p.B, p.A}
}

// FillBoxes implements spans.Backend.
func (b *ImageBackend) FillBoxes(dst spans.Surface, op spans.Operator, c spans.Color, boxes *geom.Boxes) error {
	d, err := imageSurface(dst)
	if err != nil {
		return err
	}
	f := op.Factors()
	px := pixelOf(c)
	if f.IsClear() {
		px = blend.Pixel{}
	}
	fill := image.NewUniform(rgbaOf(px))

	for _, box := range boxes.Items() {
		r := box.RoundOut().Intersect(d.Bounds())
		if r.Empty() {
			continue
		}
		if f.IsClear() || f.IsSource() {
			draw.Draw(d.Image().(draw.Image), r, fill, image.Point{}, draw.Src)
			continue
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				d.set(x, y, f.Blend(px, d.at(x, y)))
			}
		}
	}
	return nil
}

// CompositeBoxes implements spans.Backend.
func (b *ImageBackend) CompositeBoxes(dst spans.Surface, op spans.Operator, src, mask spans.Surface,
	srcOff, maskOff, dstOff image.Point, boxes *geom.Boxes, extents image.Rectangle) error {
	if op == spans.OperatorSource && mask != nil && !b.lerp {
		return spans.ErrUnsupported
	}
	d, err := imageSurface(dst)
	if err != nil {
		return err
	}
	s, err := imageSurface(src)
	if err != nil {
		return err
	}
	var m *ImageSurface
	if mask != nil {
		if m, err = imageSurface(mask); err != nil {
			return err
		}
	}

	f := op.Factors()
	for _, box := range boxes.Items() {
		r := box.RoundOut().Intersect(extents).Add(dstOff).Intersect(d.Bounds())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				sx, sy := x-dstOff.X, y-dstOff.Y
				sp := s.at(sx+srcOff.X, sy+srcOff.Y)
				if m == nil {
					d.set(x, y, f.Blend(sp, d.at(x, y)))
					continue
				}
				ma := m.alphaAt(sx+maskOff.X, sy+maskOff.Y)
				d.set(x, y, f.BlendMasked(sp, d.at(x, y), ma))
			}
		}
	}
	return nil
}

// DrawImageBoxes implements spans.Backend.
func (b *ImageBackend) DrawImageBoxes(dst, src spans.Surface, boxes *geom.Boxes, dx, dy int) error {
	return b.copyBoxes(dst, src, boxes, image.Rectangle{}, false, dx, dy)
}

// CopyBoxes implements spans.Backend.
func (b *ImageBackend) CopyBoxes(dst, src spans.Surface, boxes *geom.Boxes, extents image.Rectangle, dx, dy int) error {
	return b.copyBoxes(dst, src, boxes, extents, true, dx, dy)
}

func (b *ImageBackend) copyBoxes(dst, src spans.Surface, boxes *geom.Boxes, extents image.Rectangle, limit bool, dx, dy int) error {
	d, err := imageSurface(dst)
	if err != nil {
		return err
	}
	s, err := imageSurface(src)
	if err != nil {
		return err
	}
	// an alpha source reads as black, which draw would convert to white
	if d.Format() != s.Format() {
		return spans.ErrUnsupported
	}

	off := image.Pt(dx, dy)
	di := d.Image().(draw.Image)
	for _, box := range boxes.Items() {
		r := box.RoundOut().Intersect(d.Bounds())
		if limit {
			r = r.Intersect(extents)
		}
		if r.Empty() {
			continue
		}
		draw.Draw(di, r, s.Image(), r.Min.Add(off), draw.Src)
	}
	return nil
}

// NewScratch implements spans.Backend.
func (b *ImageBackend) NewScratch(format gputypes.TextureFormat, bounds image.Rectangle) (spans.Surface, error) {
	return b.pool.get(format, bounds)
}

// Release implements spans.Backend.
func (b *ImageBackend) Release(s spans.Surface) {
	if is, ok := s.(*ImageSurface); ok {
		b.pool.put(is)
	}
}

// HasLerp implements spans.Backend.
func (b *ImageBackend) HasLerp() bool { return b.lerp }
