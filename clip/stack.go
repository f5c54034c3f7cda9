package clip

import (
	"image"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/path"
)

// Stack tracks the current clip across nested save/restore scopes.
type Stack struct {
	saved   []*Clip
	current *Clip
}

// NewStack creates a stack whose current clip is initial.
func NewStack(initial *Clip) *Stack {
	return &Stack{
		saved:   make([]*Clip, 0, 8),
		current: initial,
	}
}

// Current returns the effective clip.
func (s *Stack) Current() *Clip {
	return s.current
}

// Push saves the current clip.
func (s *Stack) Push() {
	s.saved = append(s.saved, s.current)
}

// Pop restores the most recently saved clip.
// If the stack is empty, this is a no-op.
func (s *Stack) Pop() {
	if len(s.saved) == 0 {
		return
	}
	last := len(s.saved) - 1
	s.current = s.saved[last]
	s.saved = s.saved[:last]
}

// IntersectRectangle narrows the current clip to r.
func (s *Stack) IntersectRectangle(r image.Rectangle) {
	s.current = s.current.IntersectRectangle(r)
}

// IntersectPath narrows the current clip to the fill of p.
func (s *Stack) IntersectPath(p *path.Path, rule geom.FillRule, tolerance float64, aa geom.Antialias) error {
	c, err := s.current.IntersectPath(p, rule, tolerance, aa)
	if err != nil {
		return err
	}
	s.current = c
	return nil
}

// Depth returns the number of saved clips.
func (s *Stack) Depth() int {
	return len(s.saved)
}

// Reset drops every saved clip and makes initial current.
func (s *Stack) Reset(initial *Clip) {
	s.saved = s.saved[:0]
	s.current = initial
}
