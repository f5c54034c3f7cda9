package stroke

import (
	"math"

	"github.com/gogpu/spans/path"
)

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt ends the stroke exactly at the endpoint.
	LineCapButt LineCap = iota
	// LineCapRound adds a semicircle of radius width/2.
	LineCapRound
	// LineCapSquare extends the stroke by width/2 beyond the endpoint.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter extends the outer sides to a sharp corner, subject to
	// the miter limit.
	LineJoinMiter LineJoin = iota
	// LineJoinRound joins with a circular arc.
	LineJoinRound
	// LineJoinBevel cuts the corner with a straight line.
	LineJoinBevel
)

// Style describes how a path is stroked.
type Style struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64

	// Dash is nil for a solid line.
	Dash *Dash
}

// dashed returns p split into dashes, or p itself for a solid line.
func (s Style) dashed(p *path.Path, tolerance float64) *path.Path {
	if !s.Dash.IsDashed() {
		return p
	}
	return s.Dash.Apply(p, tolerance)
}

// DefaultStyle returns a one pixel wide stroke with butt caps and miter
// joins limited to 10, the usual 2D API defaults.
func DefaultStyle() Style {
	return Style{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 10.0,
	}
}

// Expansion returns how far the outline can reach beyond the path.
func (s Style) Expansion() float64 {
	r := s.Width / 2
	if s.Join == LineJoinMiter && s.MiterLimit > 1 {
		r *= s.MiterLimit
	}
	if s.Cap == LineCapSquare {
		r = max(r, s.Width/2*math.Sqrt2)
	}
	return r
}
