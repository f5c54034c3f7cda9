package main

import (
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/spans"
)

const testScene = `
width = 20
height = 20
background = "#ffffff"

[[op]]
kind = "fill"
color = "#ff0000"
[[op.shape]]
type = "rect"
x = 2
y = 2
w = 6
h = 6

[[op]]
kind = "fill"
color = "#0000ff"
antialias = "none"
[[op.shape]]
type = "circle"
x = 10
y = 10
r = 8
[[op.clip]]
type = "rect"
x = 10
y = 0
w = 10
h = 20

[[op]]
kind = "stroke"
color = "#00ff00"
stroke = { width = 2, cap = "square" }
[[op.shape]]
type = "polyline"
points = [[1, 18], [8, 18]]
`

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	green = color.RGBA{0, 255, 0, 255}
)

func TestRenderScene(t *testing.T) {
	s, err := decodeScene(testScene)
	if err != nil {
		t.Fatalf("decodeScene failed: %v", err)
	}
	if len(s.Ops) != 3 || s.Ops[2].Stroke.Width != 2 {
		t.Fatalf("decoded scene = %+v", s)
	}

	dst, err := renderScene(s, "", false)
	if err != nil {
		t.Fatalf("renderScene failed: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"red square", 4, 4, red},
		{"clipped circle", 5, 10, white},
		{"visible circle", 15, 10, blue},
		{"outside circle", 19, 0, white},
		{"stroke", 4, 18, green},
		{"square cap", 8, 18, green},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dst.PixelAt(tt.x, tt.y); got != tt.want {
				t.Errorf("PixelAt(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

const clipStackScene = `
width = 10
height = 10
background = "#ffffff"

[[op]]
kind = "save"

[[op]]
kind = "clip"
[[op.shape]]
type = "rect"
w = 5
h = 10

[[op]]
kind = "clip"
[[op.shape]]
type = "circle"
x = 5
y = 5
r = 3

[[op]]
kind = "paint"
color = "#ff0000"

[[op]]
kind = "restore"

[[op]]
kind = "fill"
color = "#0000ff"
[[op.shape]]
type = "rect"
y = 9
w = 10
h = 1
`

func TestSceneClipStack(t *testing.T) {
	s, err := decodeScene(clipStackScene)
	if err != nil {
		t.Fatalf("decodeScene failed: %v", err)
	}
	for _, record := range []bool{false, true} {
		s.Record = record
		dst, err := renderScene(s, "", false)
		if err != nil {
			t.Fatalf("renderScene(record=%v) failed: %v", record, err)
		}

		tests := []struct {
			name string
			x, y int
			want color.RGBA
		}{
			{"inside both clips", 3, 5, red},
			{"outside circle", 0, 0, white},
			{"outside rectangle", 7, 5, white},
			{"after restore", 8, 9, blue},
		}
		for _, tt := range tests {
			if got := dst.PixelAt(tt.x, tt.y); got != tt.want {
				t.Errorf("record=%v %s: PixelAt(%d, %d) = %v, want %v", record, tt.name, tt.x, tt.y, got, tt.want)
			}
		}
	}
}

func TestRecordedSceneMatchesDirect(t *testing.T) {
	s, err := decodeScene(testScene)
	if err != nil {
		t.Fatalf("decodeScene failed: %v", err)
	}
	direct, err := renderScene(s, "", false)
	if err != nil {
		t.Fatalf("renderScene failed: %v", err)
	}

	s.Record = true
	recorded, err := renderScene(s, "", false)
	if err != nil {
		t.Fatalf("renderScene (recorded) failed: %v", err)
	}

	for y := range s.Height {
		for x := range s.Width {
			if a, b := direct.PixelAt(x, y), recorded.PixelAt(x, y); a != b {
				t.Fatalf("pixel (%d, %d): direct %v, recorded %v", x, y, a, b)
			}
		}
	}
}

func TestSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
	}{
		{"no size", `background = "#fff"`},
		{"bad operator", "width = 4\nheight = 4\n[[op]]\nkind = \"paint\"\noperator = \"blend\""},
		{"bad kind", "width = 4\nheight = 4\n[[op]]\nkind = \"smear\""},
		{"bad shape", "width = 4\nheight = 4\n[[op]]\nkind = \"fill\"\n[[op.shape]]\ntype = \"star\""},
		{"bad fill rule", "width = 4\nheight = 4\n[[op]]\nkind = \"paint\"\nfill_rule = \"odd\""},
		{"restore without save", "width = 4\nheight = 4\n[[op]]\nkind = \"restore\""},
		{"clip without shapes", "width = 4\nheight = 4\n[[op]]\nkind = \"clip\""},
		{"bad cap", "width = 4\nheight = 4\n[[op]]\nkind = \"stroke\"\nstroke = { cap = \"arrow\" }\n[[op.shape]]\ntype = \"rect\"\nw = 2\nh = 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := decodeScene(tt.scene)
			if err == nil {
				_, err = renderScene(s, "", false)
			}
			if !errors.Is(err, spans.ErrInvalid) {
				t.Errorf("error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestUnknownBackend(t *testing.T) {
	s, err := decodeScene(testScene)
	if err != nil {
		t.Fatalf("decodeScene failed: %v", err)
	}
	if _, err := renderScene(s, "vulkan", false); err == nil {
		t.Error("renderScene with an unknown backend succeeded")
	}
}

func TestRunWritesPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scene.toml")
	out := filepath.Join(dir, "scene.png")
	if err := os.WriteFile(in, []byte(testScene), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := run(in, out, "image", "error", true); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if got := img.Bounds().Dx(); got != 20 {
		t.Errorf("width = %d, want 20", got)
	}
	r, g, b, _ := img.At(4, 4).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("At(4, 4) = %v, want red", img.At(4, 4))
	}
}
