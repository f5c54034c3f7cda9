// Package surface provides the CPU image backend for the spans compositor.
//
// ImageSurface stores premultiplied RGBA8 pixels in an *image.RGBA, or
// alpha-only pixels in an *image.Alpha for masks. ImageBackend implements
// every spans.Backend callback on those surfaces:
//
//   - FillBoxes, CompositeBoxes, DrawImageBoxes and CopyBoxes for
//     pixel-aligned boxes
//   - PatternToSurface, which resamples surface patterns through their
//     matrix and replays recordings
//   - NewRenderer, the span renderer the scan converters draw through
//   - NewScratch and Release, backed by a pool of scratch surfaces keyed
//     by size and format
//
// Sampled recordings are rendered once and kept in a small LRU cache until
// the recording changes. WithSnapshotCacheSize(0) renders them on every
// use.
//
// # Usage
//
//	dst := surface.NewImageSurface(image.Rect(0, 0, 256, 256))
//	c := spans.NewCompositor(surface.NewImageBackend())
//
//	p := path.New()
//	p.Circle(128, 128, 96)
//	err := c.Fill(dst, spans.OperatorOver, spans.NewSolidPattern(spans.Red),
//		p, geom.FillRuleWinding, path.DefaultTolerance, geom.AntialiasDefault, nil)
//
// # Registry
//
// A Registry maps names to backend factories so that tools can select a
// backend by name:
//
//	r := surface.NewDefaultRegistry()
//	b, err := r.NewBackendByName("image", surface.WithScratchPoolSize(4))
package surface
