package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/qr-edgemap/internal/edgemap"
)

// squareImage is white with a black square over its middle half.
func squareImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.White
			if x >= size/4 && x < 3*size/4 && y >= size/4 && y < 3*size/4 {
				c = color.Black
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.in != pipeName || opts.out != pipeName {
		t.Errorf("in/out: got %q/%q, want -/-", opts.in, opts.out)
	}
	if got := opts.settings.Pipeline; got.Iterations != 9 || got.Threshold != 70 || got.Formula != edgemap.SumOfAbsolutes {
		t.Errorf("pipeline: got %+v", got)
	}
	if opts.settings.Pipeline.KeepStages {
		t.Error("stages should only be kept when plotting")
	}
	if opts.plotStage != string(edgemap.StageBinary) {
		t.Errorf("plot stage: got %q", opts.plotStage)
	}
}

func TestParseFlags_ConfigAndOverrides(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "edgemap.yaml")
	writeFile(t, cfg, "iterations: 2\nthreshold: 40\nmagnitude_formula: euclidean\n")

	t.Run("file only", func(t *testing.T) {
		opts, err := parseFlags([]string{"-config", cfg}, io.Discard)
		if err != nil {
			t.Fatalf("parseFlags failed: %v", err)
		}
		// Unset flags must not clobber the file with their defaults.
		got := opts.settings.Pipeline
		if got.Iterations != 2 || got.Threshold != 40 || got.Formula != edgemap.Euclidean {
			t.Errorf("pipeline: got %+v", got)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		opts, err := parseFlags([]string{
			"-config", cfg,
			"-threshold", "100",
			"-formula", "sum-abs",
			"-region", "1,2,30,40",
			"-plot", "figure.png",
			"-plot-stage", "smoothed",
		}, io.Discard)
		if err != nil {
			t.Fatalf("parseFlags failed: %v", err)
		}
		got := opts.settings
		if got.Pipeline.Iterations != 2 || got.Pipeline.Threshold != 100 || got.Pipeline.Formula != edgemap.SumOfAbsolutes {
			t.Errorf("pipeline: got %+v", got.Pipeline)
		}
		if want := image.Rect(1, 2, 31, 42); got.Overlay.Region != want {
			t.Errorf("region: got %v, want %v", got.Overlay.Region, want)
		}
		if !got.Pipeline.KeepStages {
			t.Error("plotting requires the intermediate stages")
		}
		if opts.plotStage != string(edgemap.StageSmoothed) {
			t.Errorf("plot stage: got %q", opts.plotStage)
		}
	})
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"unknown flag", []string{"-bogus"}, true},
		{"positional argument", []string{"image.png"}, true},
		{"threshold out of range", []string{"-threshold", "256"}, false},
		{"negative iterations", []string{"-iterations", "-1"}, false},
		{"unknown formula", []string{"-formula", "manhattan"}, false},
		{"bad region", []string{"-region", "1,2,3"}, false},
		{"bad color", []string{"-color", "green"}, false},
		{"max dim too small", []string{"-max-dim", "2"}, false},
		{"unknown stage", []string{"-plot-stage", "edges"}, false},
		{"missing config", []string{"-config", "/nonexistent/edgemap.json"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, io.Discard)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, errUsage); got != tt.usage {
				t.Errorf("usage error: got %v, want %v (%v)", got, tt.usage, err)
			}
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-h"}, &stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("got %v, want flag.ErrHelp", err)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("-threshold")) {
		t.Errorf("usage does not list flags:\n%s", stderr.String())
	}
}

func TestRun_Pipes(t *testing.T) {
	var in bytes.Buffer
	if err := png.Encode(&in, squareImage(60)); err != nil {
		t.Fatalf("failed to encode input: %v", err)
	}

	var out bytes.Buffer
	if err := run(nil, &in, &out, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	img, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 60 {
		t.Errorf("output size: got %dx%d, want 60x60", b.Dx(), b.Dy())
	}

	edges := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			switch g {
			case 255:
				edges++
			case 0:
			default:
				t.Fatalf("pixel (%d,%d) = %d, want 0 or 255", x, y, g)
			}
		}
	}
	if edges == 0 {
		t.Error("square produced no edge pixels")
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, squareImage(80))
	dst := filepath.Join(dir, "edges.png")
	overlay := filepath.Join(dir, "overlay.png")
	figure := filepath.Join(dir, "figure.png")

	args := []string{
		"-in", src,
		"-out", dst,
		"-max-dim", "40",
		"-overlay", overlay,
		"-plot", figure,
		"-plot-stage", "magnitude",
	}
	if err := run(args, nil, nil, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("edge map not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("edge map is not a PNG: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 40 {
		t.Errorf("downscaled size: got %dx%d, want 40x40", cfg.Width, cfg.Height)
	}

	for _, path := range []string{overlay, figure} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("%s not written: %v", filepath.Base(path), err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", filepath.Base(path))
		}
	}
}

func TestRun_PlotInput(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, squareImage(40))
	figure := filepath.Join(dir, "input.svg")

	opts, err := parseFlags([]string{"-plot", figure, "-plot-stage", "input"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.plotStage != "input" || opts.settings.Pipeline.KeepStages {
		t.Errorf("input preview: stage %q, keep stages %v", opts.plotStage, opts.settings.Pipeline.KeepStages)
	}

	args := []string{"-in", src, "-out", filepath.Join(dir, "edges.png"), "-plot", figure, "-plot-stage", "input"}
	if err := run(args, nil, nil, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	info, err := os.Stat(figure)
	if err != nil {
		t.Fatalf("figure not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("figure is empty")
	}
}

func TestRun_InputErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing input", func(t *testing.T) {
		err := run([]string{"-in", filepath.Join(dir, "missing.png"), "-out", filepath.Join(dir, "out.png")}, nil, nil, io.Discard)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("garbage on stdin", func(t *testing.T) {
		var out bytes.Buffer
		err := run(nil, bytes.NewBufferString("not an image"), &out, io.Discard)
		if err == nil {
			t.Fatal("expected error")
		}
		if out.Len() != 0 {
			t.Error("nothing should be written on failure")
		}
	})

	t.Run("too small", func(t *testing.T) {
		src := writePNG(t, dir, squareImage(2))
		err := run([]string{"-in", src, "-out", filepath.Join(dir, "out.png")}, nil, nil, io.Discard)
		if !errors.Is(err, edgemap.ErrTooSmall) {
			t.Errorf("got %v, want ErrTooSmall", err)
		}
	})
}

func TestServe(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "edgemap.json")
	writeFile(t, cfg, `{"threshold": 50}`)

	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	var out bytes.Buffer
	if err := serve([]string{"-config", cfg}, in, &out, io.Discard); err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte(`"id":1`)) {
		t.Errorf("no ping response: %s", out.String())
	}
}

func TestServe_BadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "edgemap.json")
	writeFile(t, cfg, `{"threshold": 500}`)

	err := serve([]string{"-config", cfg}, bytes.NewBuffer(nil), io.Discard, io.Discard)
	if !errors.Is(err, edgemap.ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}
