package spans

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/raster"
)

// Span is the start of a run of constant coverage within a row.
type Span = raster.Span

// SurfaceKind identifies the storage behind a surface.
type SurfaceKind uint8

// Surface kinds.
const (
	// KindImage is client-owned pixel memory.
	KindImage SurfaceKind = iota
	// KindScratch is a temporary surface owned by a backend.
	KindScratch
	// KindRecording is a command list.
	KindRecording
)

// String returns the kind name.
func (k SurfaceKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindScratch:
		return "scratch"
	case KindRecording:
		return "recording"
	}
	return "unknown"
}

// maskFormat is the format of clip mask scratch surfaces.
const maskFormat = gputypes.TextureFormatR8Unorm

// Surface is a compositing destination or pattern source.
type Surface interface {
	Kind() SurfaceKind
	Bounds() image.Rectangle
	Format() gputypes.TextureFormat

	// IsClear reports whether the surface is known to be fully
	// transparent.
	IsClear() bool
	SetClear(clear bool)
}

// Recording is a surface that stores drawing commands instead of pixels.
type Recording interface {
	Surface

	// IsUnbounded reports whether the recording has no fixed extents.
	IsUnbounded() bool

	// Replay draws the recorded commands onto dst through c, moved by
	// (dx, dy) and restricted to cl.
	Replay(c *Compositor, dst Surface, dx, dy float64, cl *clip.Clip) error
}

// SpanRenderer composites coverage rows onto a destination.
type SpanRenderer interface {
	RenderRows(y, height int, spans []Span) error

	// Finish completes rendering after generation ended with err and
	// releases the renderer's resources. It returns the first error.
	Finish(err error) error
}

// Backend provides the pixel operations the compositor is built on.
//
// Box coordinates are destination coordinates. A source offset off means
// destination pixel p reads the source at p+off. Methods return
// ErrUnsupported when they cannot handle a request so that the compositor
// can take a more general path.
type Backend interface {
	// FillBoxes composites the solid color c over pixel-aligned boxes.
	FillBoxes(dst Surface, op Operator, c Color, boxes *geom.Boxes) error

	// CompositeBoxes composites src through the optional mask over
	// pixel-aligned boxes, restricted to extents.
	CompositeBoxes(dst Surface, op Operator, src, mask Surface,
		srcOff, maskOff, dstOff image.Point,
		boxes *geom.Boxes, extents image.Rectangle) error

	// DrawImageBoxes copies image pixels into the boxes.
	DrawImageBoxes(dst, src Surface, boxes *geom.Boxes, dx, dy int) error

	// CopyBoxes copies pixels between surfaces of the same kind.
	CopyBoxes(dst, src Surface, boxes *geom.Boxes, extents image.Rectangle, dx, dy int) error

	// PatternToSurface renders the part of p needed for the device area
	// extents, reading at most the pattern area sample. The result must
	// be passed to Release unless it is the pattern's own surface.
	PatternToSurface(dst Surface, p Pattern, isMask bool, extents, sample image.Rectangle) (Surface, image.Point, error)

	// NewRenderer returns a renderer compositing ext's source through
	// span coverage. A non-nil clipMask is an alpha surface covering
	// ext.Unbounded that modulates every pixel.
	NewRenderer(ext *CompositeRectangles, aa geom.Antialias, clipMask Surface) (SpanRenderer, error)

	// NewScratch returns a transparent surface with the given absolute
	// bounds.
	NewScratch(format gputypes.TextureFormat, bounds image.Rectangle) (Surface, error)

	// Release returns a surface obtained from the backend. Surfaces the
	// backend does not own are left alone.
	Release(s Surface)

	// HasLerp reports whether SOURCE through a mask can be composited
	// directly as an interpolation.
	HasLerp() bool
}
