// Package recording provides a surface that captures compositing commands
// instead of pixels.
//
// A recording is built with the same operations the compositor offers
// (Paint, Mask, Fill and Stroke) and later replayed onto any destination.
// Wrapped in a spans.SurfacePattern it becomes a pattern source: when the
// pattern is an integer translation of a pixel-aligned area the compositor
// replays the commands directly onto the destination, otherwise the backend
// renders the recording into a scratch surface and samples it.
//
// # Basic Usage
//
//	rec := recording.NewSurface(image.Rect(0, 0, 64, 64))
//
//	p := path.New()
//	p.Circle(32, 32, 24)
//	rec.Fill(spans.OperatorOver, spans.NewSolidPattern(spans.Red), p,
//		geom.FillRuleWinding, 0.1, geom.AntialiasDefault, nil)
//
//	c := spans.NewCompositor(surface.NewImageBackend())
//	dst := surface.NewImageSurface(image.Rect(0, 0, 256, 256))
//	err := rec.Replay(c, dst, 100, 100, nil)
//
// Paths are cloned into a ResourcePool when recorded, so callers may keep
// editing them. Patterns and clips are immutable and shared.
//
// # Bounded and Unbounded Recordings
//
// NewSurface limits every command to its extents. NewUnboundedSurface keeps
// commands unclipped; such a recording cannot be repeated as a pattern and
// is always sampled with spans.ExtendNone.
package recording
