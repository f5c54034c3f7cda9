// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/internal/blend"
)

// ImageSurface is a CPU surface backed by an *image.RGBA or, for alpha
// masks, an *image.Alpha. Its bounds are absolute: a surface created over
// image.Rect(10, 10, 20, 20) is addressed with those coordinates.
//
// Example:
//
//	s := surface.NewImageSurface(image.Rect(0, 0, 800, 600))
//	c := spans.NewCompositor(surface.NewImageBackend())
//	_ = c.Paint(s, spans.OperatorSource, spans.NewSolidPattern(spans.White), nil)
//	img := s.RGBA()
type ImageSurface struct {
	rgba  *image.RGBA
	alpha *image.Alpha
	kind  spans.SurfaceKind
	clear bool

	// pooled is set for scratch surfaces owned by a pool.
	pooled bool
}

// NewImageSurface creates a transparent RGBA surface covering r.
func NewImageSurface(r image.Rectangle) *ImageSurface {
	return &ImageSurface{rgba: image.NewRGBA(r), kind: spans.KindImage, clear: true}
}

// NewAlphaSurface creates a transparent alpha-only surface covering r.
func NewAlphaSurface(r image.Rectangle) *ImageSurface {
	return &ImageSurface{alpha: image.NewAlpha(r), kind: spans.KindImage, clear: true}
}

// FromRGBA wraps an existing image. Drawing writes into img directly.
func FromRGBA(img *image.RGBA) *ImageSurface {
	return &ImageSurface{rgba: img, kind: spans.KindImage}
}

// FromAlpha wraps an existing alpha image.
func FromAlpha(img *image.Alpha) *ImageSurface {
	return &ImageSurface{alpha: img, kind: spans.KindImage}
}

func newSurface(format gputypes.TextureFormat, r image.Rectangle, kind spans.SurfaceKind) (*ImageSurface, error) {
	var s *ImageSurface
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		s = NewImageSurface(r)
	case gputypes.TextureFormatR8Unorm:
		s = NewAlphaSurface(r)
	default:
		return nil, spans.ErrUnsupported
	}
	s.kind = kind
	return s, nil
}

// Kind implements spans.Surface.
func (s *ImageSurface) Kind() spans.SurfaceKind { return s.kind }

// Bounds implements spans.Surface.
func (s *ImageSurface) Bounds() image.Rectangle {
	if s.alpha != nil {
		return s.alpha.Rect
	}
	return s.rgba.Rect
}

// Format implements spans.Surface.
func (s *ImageSurface) Format() gputypes.TextureFormat {
	if s.alpha != nil {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// IsClear implements spans.Surface.
func (s *ImageSurface) IsClear() bool { return s.clear }

// SetClear implements spans.Surface.
func (s *ImageSurface) SetClear(clear bool) { s.clear = clear }

// IsOpaque reports whether every pixel has full alpha. Alpha surfaces used
// as sources carry no color and are never opaque.
func (s *ImageSurface) IsOpaque() bool {
	if s.rgba == nil || s.clear {
		return false
	}
	r := s.rgba.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := s.rgba.Pix[s.rgba.PixOffset(r.Min.X, y):]
		for i := 3; i < 4*r.Dx(); i += 4 {
			if row[i] != 0xff {
				return false
			}
		}
	}
	return true
}

// RGBA returns the backing RGBA image, or nil for alpha surfaces.
func (s *ImageSurface) RGBA() *image.RGBA { return s.rgba }

// Alpha returns the backing alpha image, or nil for RGBA surfaces.
func (s *ImageSurface) Alpha() *image.Alpha { return s.alpha }

// Image returns the backing image.
func (s *ImageSurface) Image() image.Image {
	if s.alpha != nil {
		return s.alpha
	}
	return s.rgba
}

// PixelAt returns the premultiplied pixel at (x, y). Pixels outside the
// surface are transparent and alpha surfaces read as black.
func (s *ImageSurface) PixelAt(x, y int) color.RGBA {
	p := s.at(x, y)
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (s *ImageSurface) at(x, y int) blend.Pixel {
	if !(image.Point{X: x, Y: y}).In(s.Bounds()) {
		return blend.Pixel{}
	}
	if s.alpha != nil {
		return blend.Pixel{3: s.alpha.Pix[s.alpha.PixOffset(x, y)]}
	}
	i := s.rgba.PixOffset(x, y)
	return blend.Pixel(s.rgba.Pix[i : i+4])
}

func (s *ImageSurface) alphaAt(x, y int) byte {
	if !(image.Point{X: x, Y: y}).In(s.Bounds()) {
		return 0
	}
	if s.alpha != nil {
		return s.alpha.Pix[s.alpha.PixOffset(x, y)]
	}
	return s.rgba.Pix[s.rgba.PixOffset(x, y)+3]
}

// set stores p; callers keep (x, y) inside the bounds.
func (s *ImageSurface) set(x, y int, p blend.Pixel) {
	if s.alpha != nil {
		s.alpha.Pix[s.alpha.PixOffset(x, y)] = p[3]
		return
	}
	i := s.rgba.PixOffset(x, y)
	copy(s.rgba.Pix[i:i+4], p[:])
}

func (s *ImageSurface) zero() {
	if s.alpha != nil {
		clear(s.alpha.Pix)
	} else {
		clear(s.rgba.Pix)
	}
	s.clear = true
}
