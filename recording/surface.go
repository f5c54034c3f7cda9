// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/path"
)

// Surface records compositing commands instead of pixels. Used as the
// source of a spans.SurfacePattern it is replayed onto the destination, or
// rendered into a scratch surface when it must be resampled.
//
// A bounded recording clips every command to its extents. An unbounded
// recording has no extents and cannot be repeated.
//
// Surface is not safe for concurrent use.
type Surface struct {
	extents   image.Rectangle
	unbounded bool

	commands   []Command
	resources  *ResourcePool
	ink        image.Rectangle
	clear      bool
	generation uint64
}

var _ spans.Recording = (*Surface)(nil)

// NewSurface returns an empty recording limited to extents.
func NewSurface(extents image.Rectangle) *Surface {
	return &Surface{extents: extents, resources: NewResourcePool(), clear: true}
}

// NewUnboundedSurface returns an empty recording without extents.
func NewUnboundedSurface() *Surface {
	return &Surface{extents: geom.UnboundedRectangle, unbounded: true, resources: NewResourcePool(), clear: true}
}

// Kind implements spans.Surface.
func (s *Surface) Kind() spans.SurfaceKind { return spans.KindRecording }

// Bounds implements spans.Surface.
func (s *Surface) Bounds() image.Rectangle { return s.extents }

// Format implements spans.Surface. Recordings replay in color.
func (s *Surface) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// IsClear implements spans.Surface.
func (s *Surface) IsClear() bool { return s.clear }

// SetClear implements spans.Surface.
func (s *Surface) SetClear(clear bool) { s.clear = clear }

// IsUnbounded implements spans.Recording.
func (s *Surface) IsUnbounded() bool { return s.unbounded }

// Commands returns the recorded commands.
func (s *Surface) Commands() []Command { return s.commands }

// Resources returns the resource pool.
func (s *Surface) Resources() *ResourcePool { return s.resources }

// InkExtents returns the union of the areas the recorded commands can
// change.
func (s *Surface) InkExtents() image.Rectangle { return s.ink }

// limit returns cl restricted to the recording extents, or nil when the
// command would draw nothing.
func (s *Surface) limit(cl *clip.Clip) *clip.Clip {
	if !s.unbounded {
		cl = cl.IntersectRectangle(s.extents)
	}
	return cl
}

func (s *Surface) reset() {
	s.commands = s.commands[:0]
	s.resources.Clear()
	s.ink = image.Rectangle{}
	s.clear = true
	s.generation++
}

func (s *Surface) record(cmd Command, op spans.Operator, cl *clip.Clip, ink image.Rectangle) {
	if op.Bounds()&spans.BoundByMask == 0 {
		ink = s.extents
	}
	ink = ink.Intersect(cl.Extents())
	s.ink = s.ink.Union(ink)
	s.commands = append(s.commands, cmd)
	s.clear = false
	s.generation++
}

// Generation changes whenever the recorded content does. Backends use it
// to invalidate cached renderings of the recording.
func (s *Surface) Generation() uint64 { return s.generation }

// Paint records painting src through cl. An unclipped CLEAR discards
// everything recorded so far.
func (s *Surface) Paint(op spans.Operator, src spans.Pattern, cl *clip.Clip) error {
	if op == spans.OperatorClear && cl == nil {
		s.reset()
		return nil
	}
	cl = s.limit(cl)
	if cl.IsAllClipped() {
		return nil
	}
	s.record(PaintCommand{Common{op, src, cl}}, op, cl, src.Extents())
	return nil
}

// Mask records painting src through the alpha of mask.
func (s *Surface) Mask(op spans.Operator, src, mask spans.Pattern, cl *clip.Clip) error {
	if mask == nil {
		return fmt.Errorf("recording: mask: %w", spans.ErrInvalid)
	}
	cl = s.limit(cl)
	if cl.IsAllClipped() {
		return nil
	}
	s.record(MaskCommand{Common{op, src, cl}, mask}, op, cl, mask.Extents())
	return nil
}

// Fill records filling p.
func (s *Surface) Fill(op spans.Operator, src spans.Pattern, p *path.Path,
	rule geom.FillRule, tolerance float64, aa geom.Antialias, cl *clip.Clip) error {
	if p == nil {
		return fmt.Errorf("recording: fill: %w", spans.ErrInvalid)
	}
	cl = s.limit(cl)
	if cl.IsAllClipped() {
		return nil
	}
	var ink image.Rectangle
	if box, ok := p.Extents(); ok {
		ink = box.RoundOut()
	}
	ref := s.resources.AddPath(p)
	s.record(FillCommand{Common{op, src, cl}, ref, rule, tolerance, aa}, op, cl, ink)
	return nil
}

// Stroke records stroking p.
func (s *Surface) Stroke(op spans.Operator, src spans.Pattern, p *path.Path,
	style spans.Stroke, tolerance float64, aa geom.Antialias, cl *clip.Clip) error {
	if p == nil {
		return fmt.Errorf("recording: stroke: %w", spans.ErrInvalid)
	}
	cl = s.limit(cl)
	if cl.IsAllClipped() {
		return nil
	}
	var ink image.Rectangle
	if box, ok := p.Extents(); ok {
		r := geom.FromFloat(style.Expansion())
		box.P1.X -= r
		box.P1.Y -= r
		box.P2.X += r
		box.P2.Y += r
		ink = box.RoundOut()
	}
	ref := s.resources.AddPath(p)
	s.record(StrokeCommand{Common{op, src, cl}, ref, style, tolerance, aa}, op, cl, ink)
	return nil
}

// Replay implements spans.Recording. Every command is drawn onto dst
// through c, moved by (dx, dy) and restricted to cl.
func (s *Surface) Replay(c *spans.Compositor, dst spans.Surface, dx, dy float64, cl *clip.Clip) error {
	if cl.IsAllClipped() {
		return nil
	}
	for i, cmd := range s.commands {
		if err := s.replayCommand(c, dst, cmd, dx, dy, cl); err != nil {
			return fmt.Errorf("recording: replay %s command %d: %w", cmd.Type(), i, err)
		}
	}
	return nil
}

func (s *Surface) replayCommand(c *spans.Compositor, dst spans.Surface, cmd Command, dx, dy float64, cl *clip.Clip) error {
	common := func(cm Common) (spans.Operator, spans.Pattern, *clip.Clip, error) {
		cc, err := cm.Clip.Translate(dx, dy).Intersect(cl)
		return cm.Op, spans.TranslatePattern(cm.Source, dx, dy), cc, err
	}
	translated := func(ref PathRef) (*path.Path, error) {
		p := s.resources.GetPath(ref)
		if p == nil {
			return nil, errors.New("dangling path reference")
		}
		return p.Translate(dx, dy), nil
	}

	switch cmd := cmd.(type) {
	case PaintCommand:
		op, src, cc, err := common(cmd.Common)
		if err != nil {
			return err
		}
		return c.Paint(dst, op, src, cc)
	case MaskCommand:
		op, src, cc, err := common(cmd.Common)
		if err != nil {
			return err
		}
		return c.Mask(dst, op, src, spans.TranslatePattern(cmd.Mask, dx, dy), cc)
	case FillCommand:
		op, src, cc, err := common(cmd.Common)
		if err != nil {
			return err
		}
		p, err := translated(cmd.Path)
		if err != nil {
			return err
		}
		return c.Fill(dst, op, src, p, cmd.Rule, cmd.Tolerance, cmd.Antialias, cc)
	case StrokeCommand:
		op, src, cc, err := common(cmd.Common)
		if err != nil {
			return err
		}
		p, err := translated(cmd.Path)
		if err != nil {
			return err
		}
		return c.Stroke(dst, op, src, p, cmd.Stroke, cmd.Tolerance, cmd.Antialias, cc)
	}
	return fmt.Errorf("unknown command %T", cmd)
}
