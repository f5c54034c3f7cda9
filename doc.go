// Package spans is a software 2D compositing core.
//
// # Overview
//
// spans turns filled and stroked vector paths into pixel coverage and
// composites that coverage onto a destination surface under a clip. It is
// organised the way a span compositor is: every drawing operation is first
// described by its composite rectangles, then reduced to the cheapest
// geometry that represents it exactly.
//
//   - Pixel-aligned boxes take the aligned fast paths: direct fills, image
//     uploads and recording replays.
//   - Other boxes go through the rectangular coverage converter.
//   - Everything else becomes a polygon scan-converted by the antialiased or
//     the monochrome converter.
//
// Unbounded operators such as IN or SOURCE additionally clear the part of
// the clip the shape does not cover.
//
// # Quick Start
//
//	backend := surface.NewImageBackend()
//	dst := surface.NewImageSurface(image.Rect(0, 0, 256, 256))
//	c := spans.NewCompositor(backend)
//
//	p := path.New()
//	p.Circle(128, 128, 100)
//	err := c.Fill(dst, spans.OperatorOver, spans.NewSolidPattern(spans.Red), p,
//		geom.FillRuleWinding, path.DefaultTolerance, geom.AntialiasDefault, nil)
//
// # Architecture
//
// The module is organised into:
//   - Public API: Compositor, Operator, Color, Pattern, Backend, Surface
//   - geom: fixed-point boxes, lines, trapezoids and polygons
//   - path, clip: float paths and immutable clips
//   - surface, recording: the image backend and the recording surface
//   - Internal: sweep (rectangular tessellator), tess (polygon bands),
//     raster (scan converters), blend (Porter-Duff), stroke (outlines)
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Geometry is snapped to 26.6 fixed point before tessellation
package spans

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
