package stroke

import (
	"math"

	"github.com/gogpu/spans/path"
)

// Dash is a dash pattern of alternating dash and gap lengths. An odd-length
// array repeats once to make the cycle even.
type Dash struct {
	Array  []float64
	Offset float64
}

// NewDash returns a dash pattern from the given lengths. Negative lengths
// are taken as absolute values. It returns nil when no length is positive.
func NewDash(lengths ...float64) *Dash {
	positive := false
	norm := make([]float64, len(lengths))
	for i, l := range lengths {
		norm[i] = math.Abs(l)
		if norm[i] > 0 {
			positive = true
		}
	}
	if !positive {
		return nil
	}
	return &Dash{Array: norm}
}

// IsDashed reports whether d describes a dashed line.
func (d *Dash) IsDashed() bool {
	if d == nil {
		return false
	}
	for _, l := range d.Array {
		if l > 0 {
			return true
		}
	}
	return false
}

// PatternLength returns the length of one full cycle.
func (d *Dash) PatternLength() float64 {
	if d == nil {
		return 0
	}
	var total float64
	for _, l := range d.Array {
		total += l
	}
	if len(d.Array)%2 != 0 {
		total *= 2
	}
	return total
}

func (d *Dash) length(i int) float64 {
	return d.Array[i%len(d.Array)]
}

func (d *Dash) cycle() int {
	if len(d.Array)%2 != 0 {
		return 2 * len(d.Array)
	}
	return len(d.Array)
}

// start returns the pattern state at the beginning of a subpath: the
// current entry, whether it is a dash, and how much of it remains.
func (d *Dash) start() (idx int, on bool, remaining float64) {
	total := d.PatternLength()
	off := math.Mod(d.Offset, total)
	if off < 0 {
		off += total
	}
	n := d.cycle()
	for idx = 0; ; idx = (idx + 1) % n {
		l := d.length(idx)
		if off < l || (off == l && l == 0) {
			return idx, idx%2 == 0, l - off
		}
		off -= l
	}
}

// Apply splits every subpath of p into its dashes. Each dash becomes an
// open subpath; a closed subpath that starts and ends inside a dash has
// its first and last pieces joined.
func (d *Dash) Apply(p *path.Path, tolerance float64) *path.Path {
	out := path.New()
	for _, sub := range p.Flatten(tolerance) {
		pts := sub.Points
		if sub.Closed {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		dashes, whole := d.split(pts, sub.Closed)
		if whole {
			out.MoveTo(pts[0].X, pts[0].Y)
			for _, pt := range pts[1 : len(pts)-1] {
				out.LineTo(pt.X, pt.Y)
			}
			out.Close()
			continue
		}
		for _, dash := range dashes {
			out.MoveTo(dash[0].X, dash[0].Y)
			for _, pt := range dash[1:] {
				out.LineTo(pt.X, pt.Y)
			}
		}
	}
	return out
}

// split returns the dashes along pts. whole is set when a closed subpath
// lies entirely inside one dash and stays closed.
func (d *Dash) split(pts []path.Point, closed bool) (dashes [][]path.Point, whole bool) {
	n := d.cycle()
	idx, on, remaining := d.start()
	startsOn := on

	var cur []path.Point
	if on {
		cur = []path.Point{pts[0]}
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.Distance(b)
		pos := 0.0
		for segLen-pos > remaining {
			pos += remaining
			pt := a.Lerp(b, pos/segLen)
			if on {
				dashes = append(dashes, append(cur, pt))
				cur = nil
			} else {
				cur = []path.Point{pt}
			}
			idx = (idx + 1) % n
			on = !on
			remaining = d.length(idx)
		}
		remaining -= segLen - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) > 0 {
		switch {
		case closed && startsOn && len(dashes) == 0:
			return nil, true
		case closed && startsOn:
			dashes[0] = append(cur, dashes[0][1:]...)
		default:
			dashes = append(dashes, cur)
		}
	}
	return dashes, false
}
