package spans

import "github.com/gogpu/spans/internal/stroke"

// LineCap specifies the shape of line endpoints.
type LineCap = stroke.LineCap

// LineJoin specifies the shape of line joins.
type LineJoin = stroke.LineJoin

// Dash is a dash pattern of alternating dash and gap lengths.
type Dash = stroke.Dash

// Line caps.
const (
	LineCapButt   = stroke.LineCapButt
	LineCapRound  = stroke.LineCapRound
	LineCapSquare = stroke.LineCapSquare
)

// Line joins.
const (
	LineJoinMiter = stroke.LineJoinMiter
	LineJoinRound = stroke.LineJoinRound
	LineJoinBevel = stroke.LineJoinBevel
)

// NewDash creates a dash pattern from alternating dash and gap lengths.
// It returns nil when no length is positive.
func NewDash(lengths ...float64) *Dash {
	return stroke.NewDash(lengths...)
}

// Stroke defines the style for stroking paths.
type Stroke struct {
	// Width is the line width in pixels. Default: 1.0
	Width float64

	// Cap is the shape of line endpoints. Default: LineCapButt
	Cap LineCap

	// Join is the shape of line joins. Default: LineJoinMiter
	Join LineJoin

	// MiterLimit is the ratio of miter length to width above which a
	// miter join is drawn as a bevel. Default: 10.0
	MiterLimit float64

	// Dash is nil for a solid line.
	Dash *Dash
}

// DefaultStroke returns a solid 1-pixel line with butt caps and miter joins.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 10.0,
	}
}

// WithWidth returns a copy of the Stroke with the given width.
func (s Stroke) WithWidth(w float64) Stroke {
	s.Width = w
	return s
}

// WithCap returns a copy of the Stroke with the given line cap style.
func (s Stroke) WithCap(lineCap LineCap) Stroke {
	s.Cap = lineCap
	return s
}

// WithJoin returns a copy of the Stroke with the given line join style.
func (s Stroke) WithJoin(join LineJoin) Stroke {
	s.Join = join
	return s
}

// WithMiterLimit returns a copy of the Stroke with the given miter limit.
func (s Stroke) WithMiterLimit(limit float64) Stroke {
	s.MiterLimit = limit
	return s
}

// WithDashPattern returns a copy of the Stroke dashed with the given
// lengths.
//
// Example:
//
//	stroke.WithDashPattern(5, 3) // 5 units dash, 3 units gap
func (s Stroke) WithDashPattern(lengths ...float64) Stroke {
	s.Dash = NewDash(lengths...)
	return s
}

// WithDashOffset returns a copy of the Stroke with the dash offset set.
// If there is no dash pattern, this has no effect.
func (s Stroke) WithDashOffset(offset float64) Stroke {
	if s.Dash != nil {
		d := *s.Dash
		d.Offset = offset
		s.Dash = &d
	}
	return s
}

// IsDashed returns true if this stroke has a dash pattern.
func (s Stroke) IsDashed() bool {
	return s.Dash.IsDashed()
}

// style converts s to the stroker's style.
func (s Stroke) style() stroke.Style {
	return stroke.Style{
		Width:      s.Width,
		Cap:        s.Cap,
		Join:       s.Join,
		MiterLimit: s.MiterLimit,
		Dash:       s.Dash,
	}
}

// Expansion returns how far the stroke outline can reach beyond the path.
func (s Stroke) Expansion() float64 {
	return s.style().Expansion()
}
