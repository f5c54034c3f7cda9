package spans

// CompositorOption configures a Compositor during creation.
//
// Example:
//
//	// Default: every fast path enabled
//	c := spans.NewCompositor(backend)
//
//	// Route everything through the scan converters
//	c := spans.NewCompositor(backend,
//		spans.WithAlignedFastPaths(false),
//		spans.WithClipPolygonReduction(false))
type CompositorOption func(*compositorOptions)

// compositorOptions holds optional configuration for Compositor creation.
type compositorOptions struct {
	alignedFastPaths bool
	clipReduction    bool
}

// defaultOptions returns the default compositor options.
func defaultOptions() compositorOptions {
	return compositorOptions{
		alignedFastPaths: true,
		clipReduction:    true,
	}
}

// WithAlignedFastPaths enables or disables the pixel-aligned box fast
// paths: direct fills, image uploads and recording replays. When disabled,
// aligned boxes are composited through the rectangular scan converter.
func WithAlignedFastPaths(enabled bool) CompositorOption {
	return func(o *compositorOptions) {
		o.alignedFastPaths = enabled
	}
}

// WithClipPolygonReduction enables or disables folding a path clip into
// the drawn geometry for bounded operators. When disabled, path clips are
// always applied through a clip mask.
func WithClipPolygonReduction(enabled bool) CompositorOption {
	return func(o *compositorOptions) {
		o.clipReduction = enabled
	}
}
