// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/internal/blend"
)

func rgbaOf(p blend.Pixel) color.RGBA {
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// PatternToSurface implements spans.Backend. Image sources under a whole
// pixel translation are returned as they are, with the translation as
// offset. Everything else is resampled into a scratch covering extents.
func (b *ImageBackend) PatternToSurface(dst spans.Surface, p spans.Pattern, isMask bool,
	extents, sample image.Rectangle) (spans.Surface, image.Point, error) {
	format := gputypes.TextureFormatRGBA8Unorm
	if isMask {
		format = gputypes.TextureFormatR8Unorm
	}

	switch p := p.(type) {
	case *spans.SolidPattern:
		s, err := b.pool.get(format, extents)
		if err != nil {
			return nil, image.Point{}, err
		}
		if !p.IsClear() {
			u := image.NewUniform(rgbaOf(pixelOf(p.Color)))
			draw.Draw(s.Image().(draw.Image), extents, u, image.Point{}, draw.Src)
			s.clear = false
		}
		return s, image.Point{}, nil
	case *spans.SurfacePattern:
		return b.surfacePattern(p, format, extents, sample)
	}
	return nil, image.Point{}, spans.ErrUnsupported
}

func (b *ImageBackend) surfacePattern(p *spans.SurfacePattern, format gputypes.TextureFormat,
	extents, sample image.Rectangle) (spans.Surface, image.Point, error) {
	src, extend, err := b.sourceImage(p, sample)
	if err != nil {
		return nil, image.Point{}, err
	}

	if tx, ty, ok := spans.IntegerTranslation(p.Matrix); ok {
		off := image.Pt(tx, ty)
		if extend == spans.ExtendNone || extents.Add(off).In(src.Bounds()) {
			return src, off, nil
		}
	}

	out, err := b.pool.get(format, extents)
	if err != nil {
		b.Release(src)
		return nil, image.Point{}, err
	}
	resample(out, src, p, extend)
	b.Release(src)
	return out, image.Point{}, nil
}

// sourceImage returns the pixels behind p. Recordings are replayed into a
// surface covering the sampled pattern area, or the whole recording when
// it repeats. Unbounded recordings cannot repeat.
func (b *ImageBackend) sourceImage(p *spans.SurfacePattern, sample image.Rectangle) (*ImageSurface, spans.Extend, error) {
	switch s := p.Surface.(type) {
	case *ImageSurface:
		return s, p.Extend, nil
	case spans.Recording:
		r, extend := sample, p.Extend
		switch {
		case s.IsUnbounded():
			extend = spans.ExtendNone
		case extend == spans.ExtendNone:
			r = r.Intersect(s.Bounds())
		default:
			r = s.Bounds()
		}
		out, err := b.snapshot(s, r)
		return out, extend, err
	}
	return nil, 0, spans.ErrUnsupported
}

// snapshotKey identifies the rendering of one recording area. Recordings
// that report a generation are cached until they change.
type snapshotKey struct {
	rec        spans.Recording
	area       image.Rectangle
	generation uint64
}

type generational interface {
	Generation() uint64
}

// snapshot renders area of rec. Cached snapshots are not pooled, so
// releasing them is a no-op and they stay valid for later lookups.
func (b *ImageBackend) snapshot(rec spans.Recording, area image.Rectangle) (*ImageSurface, error) {
	g, cacheable := rec.(generational)
	cacheable = cacheable && b.snapshotSize > 0
	var key snapshotKey
	if cacheable {
		key = snapshotKey{rec: rec, area: area, generation: g.Generation()}
		if out, ok := b.snapshots.Get(key); ok {
			return out, nil
		}
	}

	var (
		out *ImageSurface
		err error
	)
	if cacheable {
		out, err = newSurface(gputypes.TextureFormatRGBA8Unorm, area, spans.KindScratch)
	} else {
		out, err = b.pool.get(gputypes.TextureFormatRGBA8Unorm, area)
	}
	if err != nil {
		return nil, err
	}

	spans.Logger().Debug("surface: replaying recording pattern", "area", area, "cached", cacheable)
	if err := rec.Replay(spans.NewCompositor(b), out, 0, 0, nil); err != nil {
		b.Release(out)
		return nil, err
	}
	if cacheable {
		// Older generations of the same recording can no longer be hit.
		b.snapshots.Remove(func(k snapshotKey) bool { return k.rec == rec && k.generation != key.generation })
		b.snapshots.Put(key, out)
	}
	return out, nil
}

// resample fills out with src seen through the pattern matrix.
func resample(out, src *ImageSurface, p *spans.SurfacePattern, extend spans.Extend) {
	if src.Bounds().Empty() {
		return
	}
	inv, ok := spans.Invert(p.Matrix)
	if !ok {
		return
	}
	out.clear = false

	if extend == spans.ExtendNone && (src.rgba != nil || out.alpha != nil) {
		var interp draw.Interpolator = draw.BiLinear
		if p.Filter == spans.FilterNearest {
			interp = draw.NearestNeighbor
		}
		s2d := f64.Aff3{inv[0], inv[2], inv[4], inv[1], inv[3], inv[5]}
		interp.Transform(out.Image().(draw.Image), s2d, src.Image(), src.Bounds(), draw.Src, nil)
		return
	}

	r := out.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			px, py := spans.Apply(p.Matrix, float64(x)+0.5, float64(y)+0.5)
			out.set(x, y, sampleAt(src, px, py, extend, p.Filter))
		}
	}
}

const maxCoord = 1 << 30

func floorInt(v float64) int {
	return int(math.Floor(max(-maxCoord, min(maxCoord, v))))
}

func sampleAt(src *ImageSurface, px, py float64, extend spans.Extend, filter spans.Filter) blend.Pixel {
	if filter == spans.FilterNearest {
		return fetch(src, floorInt(px), floorInt(py), extend)
	}

	fx, fy := px-0.5, py-0.5
	x0, y0 := floorInt(fx), floorInt(fy)
	wx := uint32(max(0, min(256, (fx-float64(x0))*256)))
	wy := uint32(max(0, min(256, (fy-float64(y0))*256)))

	p00 := fetch(src, x0, y0, extend)
	p10 := fetch(src, x0+1, y0, extend)
	p01 := fetch(src, x0, y0+1, extend)
	p11 := fetch(src, x0+1, y0+1, extend)

	var out blend.Pixel
	for i := range out {
		top := uint32(p00[i])*(256-wx) + uint32(p10[i])*wx
		bottom := uint32(p01[i])*(256-wx) + uint32(p11[i])*wx
		out[i] = byte((top*(256-wy) + bottom*wy + 1<<15) >> 16)
	}
	return out
}

// fetch reads the source pixel at (x, y) after applying extend.
func fetch(src *ImageSurface, x, y int, extend spans.Extend) blend.Pixel {
	r := src.Bounds()
	switch extend {
	case spans.ExtendRepeat:
		x = r.Min.X + mod(x-r.Min.X, r.Dx())
		y = r.Min.Y + mod(y-r.Min.Y, r.Dy())
	case spans.ExtendReflect:
		x = r.Min.X + reflect(x-r.Min.X, r.Dx())
		y = r.Min.Y + reflect(y-r.Min.Y, r.Dy())
	case spans.ExtendPad:
		x = max(r.Min.X, min(r.Max.X-1, x))
		y = max(r.Min.Y, min(r.Max.Y-1, y))
	}
	return src.at(x, y)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

func reflect(a, n int) int {
	a = mod(a, 2*n)
	if a >= n {
		a = 2*n - 1 - a
	}
	return a
}
