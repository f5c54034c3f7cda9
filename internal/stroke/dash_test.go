package stroke

import (
	"fmt"
	"math"
	"testing"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/tess"
	"github.com/gogpu/spans/path"
)

func countElements(p *path.Path) (moves, closes int) {
	for _, el := range p.Elements() {
		switch el.(type) {
		case path.MoveTo:
			moves++
		case path.Close:
			closes++
		}
	}
	return moves, closes
}

// TestNewDash tests dash pattern construction.
func TestNewDash(t *testing.T) {
	if d := NewDash(); d != nil {
		t.Errorf("NewDash() = %v, want nil", d)
	}
	if d := NewDash(0, 0); d != nil {
		t.Errorf("NewDash(0, 0) = %v, want nil", d)
	}

	tests := []struct {
		lengths []float64
		want    float64
	}{
		{[]float64{5, 3}, 8},
		{[]float64{5}, 10},
		{[]float64{-4, 2}, 6},
		{[]float64{1, 2, 3}, 12},
	}
	for _, tt := range tests {
		d := NewDash(tt.lengths...)
		if got := d.PatternLength(); got != tt.want {
			t.Errorf("NewDash(%v).PatternLength() = %v, want %v", tt.lengths, got, tt.want)
		}
		if !d.IsDashed() {
			t.Errorf("NewDash(%v).IsDashed() = false, want true", tt.lengths)
		}
	}

	var nilDash *Dash
	if nilDash.IsDashed() {
		t.Error("nil IsDashed() = true, want false")
	}
}

// TestDashApply tests the splitting of subpaths into dashes.
func TestDashApply(t *testing.T) {
	tests := []struct {
		name       string
		path       *path.Path
		dash       *Dash
		wantMoves  int
		wantCloses int
		wantStartX float64
	}{
		{"line", line(0, 5, 20, 5), NewDash(5, 5), 2, 0, 0},
		{"offset into gap", line(0, 5, 20, 5), &Dash{Array: []float64{5, 5}, Offset: 5}, 2, 0, 5},
		{"closed joins ends", square(), &Dash{Array: []float64{10, 10}, Offset: 5}, 2, 0, 0},
		{"closed single dash", square(), NewDash(100, 10), 1, 1, 0},
		{"zero length dashes", line(0, 5, 20, 5), NewDash(0, 10), 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.dash.Apply(tt.path, path.DefaultTolerance)
			moves, closes := countElements(out)
			if moves != tt.wantMoves || closes != tt.wantCloses {
				t.Errorf("Apply() moves, closes = %d, %d, want %d, %d", moves, closes, tt.wantMoves, tt.wantCloses)
			}
			first, ok := out.Elements()[0].(path.MoveTo)
			if !ok {
				t.Fatalf("first element = %T, want MoveTo", out.Elements()[0])
			}
			if first.Point.X != tt.wantStartX {
				t.Errorf("first dash starts at x = %v, want %v", first.Point.X, tt.wantStartX)
			}
		})
	}
}

// TestDashedStrokeArea tests that both stroke routes honor dashes.
func TestDashedStrokeArea(t *testing.T) {
	style := Style{Width: 2, Cap: LineCapButt, Join: LineJoinMiter, MiterLimit: 10, Dash: NewDash(5, 5)}
	p := line(0, 5, 20, 5)

	boxes, err := RectilinearToBoxes(p, style, geom.AntialiasDefault)
	if err != nil {
		t.Fatalf("RectilinearToBoxes() error = %v", err)
	}
	if got := boxesArea(boxes); got != 20 {
		t.Errorf("boxes area = %v, want 20", got)
	}

	poly := NewExpander(style).ToPolygon(p)
	if got := trapsArea(tess.Traps(poly, geom.FillRuleWinding)); math.Abs(got-20) > 0.01 {
		t.Errorf("outline area = %v, want 20", got)
	}

	style.Cap = LineCapSquare
	boxes, err = RectilinearToBoxes(p, style, geom.AntialiasDefault)
	if err != nil {
		t.Fatalf("RectilinearToBoxes(square) error = %v", err)
	}
	// dashes of 7 x 2 at -1..6 and 9..16
	if got := boxesArea(boxes); got != 28 {
		t.Errorf("square cap boxes area = %v, want 28", got)
	}
}

func TestDashedBoxesMatchExpander(t *testing.T) {
	for _, offset := range []float64{0, 3, 7, 11} {
		t.Run(fmt.Sprintf("offset %v", offset), func(t *testing.T) {
			style := Style{
				Width: 2, Cap: LineCapButt, Join: LineJoinMiter, MiterLimit: 10,
				Dash: &Dash{Array: []float64{6, 4}, Offset: offset},
			}
			boxes, err := RectilinearToBoxes(square(), style, geom.AntialiasDefault)
			if err != nil {
				t.Fatalf("RectilinearToBoxes() error = %v", err)
			}
			got := boxesArea(boxes)
			want := trapsArea(tess.Traps(NewExpander(style).ToPolygon(square()), geom.FillRuleWinding))
			if math.Abs(got-want) > 0.05 {
				t.Errorf("boxes area = %v, expander area = %v", got, want)
			}
		})
	}
}
