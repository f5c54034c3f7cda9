// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/blend"
	"github.com/gogpu/spans/internal/raster"
)

// spanRenderer composites coverage rows onto an ImageSurface. Every pixel
// becomes lerp(d, op(src IN mask·coverage, d), clip).
//
// For unbounded operators the rows pass through a raster.Complement first,
// so the parts of the unbounded area the converter skipped arrive as
// Inverse spans and are cleared as the operator requires.
type spanRenderer struct {
	backend *ImageBackend
	dst     *ImageSurface
	op      blend.Factors

	solid bool
	color blend.Pixel
	src   *ImageSurface
	srcP  spans.Pattern
	off   image.Point

	mask    *ImageSurface
	maskP   spans.Pattern
	maskOff image.Point

	clip *ImageSurface

	bounded    bool
	extents    image.Rectangle
	complement *raster.Complement
}

// NewRenderer implements spans.Backend.
func (b *ImageBackend) NewRenderer(ext *spans.CompositeRectangles, _ geom.Antialias, clipMask spans.Surface) (spans.SpanRenderer, error) {
	d, err := imageSurface(ext.Surface)
	if err != nil {
		return nil, err
	}
	r := &spanRenderer{
		backend: b,
		dst:     d,
		op:      ext.Op.Factors(),
		bounded: ext.IsBounded != 0,
		extents: ext.Unbounded.Intersect(d.Bounds()),
	}
	if !r.bounded {
		r.complement = raster.NewComplement(r.extents, raster.RendererFunc(r.renderRows))
	}

	if clipMask != nil {
		if r.clip, err = imageSurface(clipMask); err != nil {
			return nil, err
		}
	}

	if s, ok := ext.Source.(*spans.SolidPattern); ok {
		r.solid = true
		r.color = pixelOf(s.Color)
	} else {
		s, off, err := b.PatternToSurface(d, ext.Source, false, ext.Bounded, ext.SourceSampleArea)
		if err != nil {
			return nil, err
		}
		r.srcP, r.off = ext.Source, off
		if r.src, err = imageSurface(s); err != nil {
			r.release()
			return nil, err
		}
	}

	if ext.MaskPattern != nil {
		m, off, err := b.PatternToSurface(d, ext.MaskPattern, true, ext.Bounded, ext.MaskSampleArea)
		if err != nil {
			r.release()
			return nil, err
		}
		r.maskP, r.maskOff = ext.MaskPattern, off
		if r.mask, err = imageSurface(m); err != nil {
			r.release()
			return nil, err
		}
	}
	return r, nil
}

// RenderRows implements spans.SpanRenderer.
func (r *spanRenderer) RenderRows(y, height int, ss []spans.Span) error {
	if r.complement != nil {
		return r.complement.RenderRows(y, height, ss)
	}
	return r.renderRows(y, height, ss)
}

func (r *spanRenderer) renderRows(y, height int, ss []spans.Span) error {
	y0 := max(y, r.extents.Min.Y)
	y1 := min(y+height, r.extents.Max.Y)
	for row := y0; row < y1; row++ {
		for i := 0; i+1 < len(ss); i++ {
			if ss[i].Coverage == 0 && !ss[i].Inverse {
				continue
			}
			r.span(row, ss[i].X, ss[i+1].X, ss[i].Coverage)
		}
	}
	return nil
}

// span composites [x0, x1) of row y with coverage cov.
func (r *spanRenderer) span(y, x0, x1 int, cov uint8) {
	x0 = max(x0, r.extents.Min.X)
	x1 = min(x1, r.extents.Max.X)
	for x := x0; x < x1; x++ {
		m := cov
		if r.mask != nil && m != 0 {
			m = mul(m, r.mask.alphaAt(x+r.maskOff.X, y+r.maskOff.Y))
		}
		s := r.color
		if !r.solid {
			s = r.src.at(x+r.off.X, y+r.off.Y)
		}
		d := r.dst.at(x, y)
		out := r.op.BlendMasked(s, d, m)
		if r.clip != nil {
			out = blend.Lerp(d, out, r.clip.alphaAt(x, y))
		}
		r.dst.set(x, y, out)
	}
}

func mul(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 1
	return uint8((t + t>>8) >> 8)
}

// Finish implements spans.SpanRenderer.
func (r *spanRenderer) Finish(err error) error {
	if err == nil && r.complement != nil {
		err = r.complement.Flush()
	}
	r.release()
	return err
}

func (r *spanRenderer) release() {
	if r.src != nil && !isPatternSurface(r.srcP, r.src) {
		r.backend.Release(r.src)
	}
	if r.mask != nil && !isPatternSurface(r.maskP, r.mask) {
		r.backend.Release(r.mask)
	}
	r.src, r.mask = nil, nil
}

func isPatternSurface(p spans.Pattern, s *ImageSurface) bool {
	sp, ok := p.(*spans.SurfacePattern)
	return ok && sp.Surface == spans.Surface(s)
}
