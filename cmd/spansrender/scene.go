package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/path"
	"github.com/gogpu/spans/recording"
)

// scene is the decoded form of a scene file.
type scene struct {
	Width      int
	Height     int
	Background string
	Tolerance  float64
	// Record draws through a recording surface that is replayed at the end.
	Record bool
	Ops    []operation `toml:"op"`
}

type operation struct {
	Kind      string // paint, mask, fill, stroke, clip, save or restore
	Operator  string
	Color     string
	MaskAlpha float64 `toml:"mask_alpha"`
	FillRule  string  `toml:"fill_rule"`
	Antialias string
	Shapes    []shape `toml:"shape"`
	Clip      []shape `toml:"clip"`
	Stroke    strokeStyle
}

type shape struct {
	Type   string // rect, rounded, circle, ellipse or polygon
	X, Y   float64
	W, H   float64
	R      float64
	RX     float64 `toml:"rx"`
	RY     float64 `toml:"ry"`
	Points [][2]float64
}

type strokeStyle struct {
	Width      float64
	Cap        string
	Join       string
	MiterLimit float64 `toml:"miter_limit"`
	Dash       []float64
}

func decodeScene(data string) (*scene, error) {
	s := &scene{Tolerance: 0.1}
	md, err := toml.Decode(data, s)
	if err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	for _, key := range md.Undecoded() {
		spans.Logger().Warn("unknown scene key", "key", key.String())
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scene size %dx%d: %w", s.Width, s.Height, spans.ErrInvalid)
	}
	return s, nil
}

func loadScene(name string) (*scene, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return decodeScene(string(data))
}

// drawer receives the scene operations: either a compositor bound to the
// destination or a recording surface.
type drawer interface {
	Paint(op spans.Operator, src spans.Pattern, cl *clip.Clip) error
	Mask(op spans.Operator, src, mask spans.Pattern, cl *clip.Clip) error
	Fill(op spans.Operator, src spans.Pattern, p *path.Path, rule geom.FillRule, tolerance float64, aa geom.Antialias, cl *clip.Clip) error
	Stroke(op spans.Operator, src spans.Pattern, p *path.Path, style spans.Stroke, tolerance float64, aa geom.Antialias, cl *clip.Clip) error
}

type direct struct {
	c   *spans.Compositor
	dst spans.Surface
}

func (d direct) Paint(op spans.Operator, src spans.Pattern, cl *clip.Clip) error {
	return d.c.Paint(d.dst, op, src, cl)
}

func (d direct) Mask(op spans.Operator, src, mask spans.Pattern, cl *clip.Clip) error {
	return d.c.Mask(d.dst, op, src, mask, cl)
}

func (d direct) Fill(op spans.Operator, src spans.Pattern, p *path.Path, rule geom.FillRule, tolerance float64, aa geom.Antialias, cl *clip.Clip) error {
	return d.c.Fill(d.dst, op, src, p, rule, tolerance, aa, cl)
}

func (d direct) Stroke(op spans.Operator, src spans.Pattern, p *path.Path, style spans.Stroke, tolerance float64, aa geom.Antialias, cl *clip.Clip) error {
	return d.c.Stroke(d.dst, op, src, p, style, tolerance, aa, cl)
}

// render draws the scene onto dst.
func (s *scene) render(c *spans.Compositor, dst spans.Surface) error {
	bounds := image.Rect(0, 0, s.Width, s.Height)
	if s.Background != "" {
		bg := spans.NewSolidPattern(spans.Hex(s.Background))
		if err := c.Paint(dst, spans.OperatorSource, bg, nil); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}

	var (
		d   drawer = direct{c, dst}
		rec *recording.Surface
	)
	if s.Record {
		rec = recording.NewSurface(bounds)
		d = rec
	}

	clips := clip.NewStack(nil)
	for i, op := range s.Ops {
		if err := s.draw(d, clips, op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	if clips.Depth() > 0 {
		spans.Logger().Warn("unbalanced save", "depth", clips.Depth())
	}

	if rec != nil {
		spans.Logger().Debug("replaying recording", "commands", len(rec.Commands()), "ink", rec.InkExtents())
		return rec.Replay(c, dst, 0, 0, nil)
	}
	return nil
}

func (s *scene) draw(d drawer, clips *clip.Stack, o operation) error {
	switch o.Kind {
	case "save":
		clips.Push()
		return nil
	case "restore":
		if clips.Depth() == 0 {
			return fmt.Errorf("restore without save: %w", spans.ErrInvalid)
		}
		clips.Pop()
		return nil
	}

	op := spans.OperatorOver
	if o.Operator != "" {
		var ok bool
		if op, ok = spans.ParseOperator(strings.ToLower(o.Operator)); !ok {
			return fmt.Errorf("operator %q: %w", o.Operator, spans.ErrInvalid)
		}
	}
	src := spans.NewSolidPattern(spans.Hex(o.Color))
	rule, err := parseFillRule(o.FillRule)
	if err != nil {
		return err
	}
	aa, err := parseAntialias(o.Antialias)
	if err != nil {
		return err
	}
	if o.Kind == "clip" {
		return s.narrow(clips, o.Shapes, rule, aa)
	}
	cl, err := s.clipOf(clips.Current(), o.Clip, rule, aa)
	if err != nil {
		return err
	}

	switch o.Kind {
	case "paint":
		return d.Paint(op, src, cl)
	case "mask":
		mask := spans.NewSolidPattern(spans.RGBA(0, 0, 0, o.MaskAlpha))
		return d.Mask(op, src, mask, cl)
	case "fill":
		p, err := buildPath(o.Shapes)
		if err != nil {
			return err
		}
		return d.Fill(op, src, p, rule, s.Tolerance, aa, cl)
	case "stroke":
		p, err := buildPath(o.Shapes)
		if err != nil {
			return err
		}
		style, err := o.Stroke.style()
		if err != nil {
			return err
		}
		return d.Stroke(op, src, p, style, s.Tolerance, aa, cl)
	}
	return fmt.Errorf("kind %q: %w", o.Kind, spans.ErrInvalid)
}

// narrow intersects the current clip of clips with every shape. It lasts
// until the enclosing restore.
func (s *scene) narrow(clips *clip.Stack, shapes []shape, rule geom.FillRule, aa geom.Antialias) error {
	if len(shapes) == 0 {
		return fmt.Errorf("clip without shapes: %w", spans.ErrInvalid)
	}
	for _, sh := range shapes {
		if r, ok := sh.rectangle(); ok {
			clips.IntersectRectangle(r)
			continue
		}
		p, err := buildPath([]shape{sh})
		if err != nil {
			return fmt.Errorf("clip: %w", err)
		}
		if err := clips.IntersectPath(p, rule, s.Tolerance, aa); err != nil {
			return fmt.Errorf("clip: %w", err)
		}
	}
	return nil
}

// clipOf returns base narrowed by the shapes of a single operation.
func (s *scene) clipOf(base *clip.Clip, shapes []shape, rule geom.FillRule, aa geom.Antialias) (*clip.Clip, error) {
	cl := base
	for _, sh := range shapes {
		if r, ok := sh.rectangle(); ok {
			cl = cl.IntersectRectangle(r)
			continue
		}
		p, err := buildPath([]shape{sh})
		if err != nil {
			return nil, fmt.Errorf("clip: %w", err)
		}
		if cl, err = cl.IntersectPath(p, rule, s.Tolerance, aa); err != nil {
			return nil, fmt.Errorf("clip: %w", err)
		}
	}
	return cl, nil
}

// rectangle reports the integer rectangle covered by a rect shape.
func (sh shape) rectangle() (image.Rectangle, bool) {
	if sh.Type != "rect" || !isInteger(sh.X, sh.Y, sh.W, sh.H) {
		return image.Rectangle{}, false
	}
	return image.Rect(int(sh.X), int(sh.Y), int(sh.X+sh.W), int(sh.Y+sh.H)), true
}

func isInteger(vs ...float64) bool {
	for _, v := range vs {
		if v != float64(int(v)) {
			return false
		}
	}
	return true
}

func buildPath(shapes []shape) (*path.Path, error) {
	if len(shapes) == 0 {
		return nil, errors.New("no shapes")
	}
	p := path.New()
	for _, sh := range shapes {
		switch sh.Type {
		case "rect":
			p.Rectangle(sh.X, sh.Y, sh.W, sh.H)
		case "rounded":
			p.RoundedRectangle(sh.X, sh.Y, sh.W, sh.H, sh.R)
		case "circle":
			p.Circle(sh.X, sh.Y, sh.R)
		case "ellipse":
			p.Ellipse(sh.X, sh.Y, sh.RX, sh.RY)
		case "polygon", "polyline":
			if len(sh.Points) < 2 {
				return nil, fmt.Errorf("%s needs at least two points", sh.Type)
			}
			p.MoveTo(sh.Points[0][0], sh.Points[0][1])
			for _, pt := range sh.Points[1:] {
				p.LineTo(pt[0], pt[1])
			}
			if sh.Type == "polygon" {
				p.Close()
			}
		default:
			return nil, fmt.Errorf("shape %q: %w", sh.Type, spans.ErrInvalid)
		}
	}
	return p, nil
}

func parseFillRule(name string) (geom.FillRule, error) {
	switch strings.ToLower(name) {
	case "", "winding", "nonzero":
		return geom.FillRuleWinding, nil
	case "evenodd", "even-odd":
		return geom.FillRuleEvenOdd, nil
	}
	return 0, fmt.Errorf("fill rule %q: %w", name, spans.ErrInvalid)
}

func parseAntialias(name string) (geom.Antialias, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return geom.AntialiasDefault, nil
	case "none":
		return geom.AntialiasNone, nil
	case "fast":
		return geom.AntialiasFast, nil
	case "good":
		return geom.AntialiasGood, nil
	case "best":
		return geom.AntialiasBest, nil
	}
	return 0, fmt.Errorf("antialias %q: %w", name, spans.ErrInvalid)
}

func (st strokeStyle) style() (spans.Stroke, error) {
	style := spans.DefaultStroke()
	if st.Width > 0 {
		style.Width = st.Width
	}
	if st.MiterLimit > 0 {
		style.MiterLimit = st.MiterLimit
	}
	switch strings.ToLower(st.Cap) {
	case "", "butt":
	case "round":
		style.Cap = spans.LineCapRound
	case "square":
		style.Cap = spans.LineCapSquare
	default:
		return style, fmt.Errorf("line cap %q: %w", st.Cap, spans.ErrInvalid)
	}
	switch strings.ToLower(st.Join) {
	case "", "miter":
	case "round":
		style.Join = spans.LineJoinRound
	case "bevel":
		style.Join = spans.LineJoinBevel
	default:
		return style, fmt.Errorf("line join %q: %w", st.Join, spans.ErrInvalid)
	}
	if len(st.Dash) > 0 {
		style.Dash = spans.NewDash(st.Dash...)
	}
	return style, nil
}
