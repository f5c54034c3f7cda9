// Command spansrender renders a TOML scene file into a PNG image.
//
// Usage:
//
//	spansrender -in scene.toml -out scene.png [-backend image] [-log-level debug]
//
// A scene names its size, an optional background color and a list of
// operations:
//
//	width = 200
//	height = 120
//	background = "#ffffff"
//
//	[[op]]
//	kind = "fill"
//	color = "#ff000080"
//	[[op.shape]]
//	type = "circle"
//	x = 60
//	y = 60
//	r = 40
//
//	[[op]]
//	kind = "stroke"
//	color = "#0000ff"
//	stroke = { width = 4, join = "round" }
//	[[op.shape]]
//	type = "rounded"
//	x = 100
//	y = 20
//	w = 80
//	h = 80
//	r = 12
//
// Operations of kind "clip" narrow the clip of every later operation until
// the matching "restore"; "save" marks the point to restore to. A single
// operation can also carry its own [[op.clip]] shapes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/gogpu/spans"
	"github.com/gogpu/spans/surface"
)

func main() {
	var (
		in       = flag.String("in", "", "scene file (TOML)")
		out      = flag.String("out", "out.png", "output PNG file")
		backend  = flag.String("backend", "", "backend name (default: best available)")
		logLevel = flag.String("log-level", "warn", "log level: debug, info, warn or error")
		noFast   = flag.Bool("no-fast-paths", false, "disable the pixel-aligned fast paths")
	)
	flag.Parse()

	if err := run(*in, *out, *backend, *logLevel, *noFast); err != nil {
		fmt.Fprintln(os.Stderr, "spansrender:", err)
		os.Exit(1)
	}
}

func run(in, out, backendName, logLevel string, noFast bool) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	spans.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if in == "" {
		return errors.New("missing -in")
	}
	s, err := loadScene(in)
	if err != nil {
		return err
	}

	dst, err := renderScene(s, backendName, noFast)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	spans.Logger().Info("rendered", "out", out, "width", s.Width, "height", s.Height, "ops", len(s.Ops))
	return nil
}

func renderScene(s *scene, backendName string, noFast bool) (*surface.ImageSurface, error) {
	reg := surface.NewDefaultRegistry()
	var (
		b   spans.Backend
		err error
	)
	if backendName != "" {
		b, err = reg.NewBackendByName(backendName)
	} else {
		b, err = reg.NewBackend()
	}
	if err != nil {
		return nil, err
	}

	c := spans.NewCompositor(b,
		spans.WithAlignedFastPaths(!noFast),
		spans.WithClipPolygonReduction(!noFast),
	)
	dst := surface.NewImageSurface(image.Rect(0, 0, s.Width, s.Height))
	if err := s.render(c, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
