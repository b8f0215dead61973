package imaging

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// fromRows builds a grid from literal rows, failing the test on ragged input.
func fromRows[T grid.Number](t *testing.T, rows [][]T) *grid.Grid[T] {
	t.Helper()
	g, err := grid.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return g
}

func TestGreyImage(t *testing.T) {
	g := fromRows(t, [][]int{
		{0, 128, 255},
		{1, 2, 3},
	})
	img, err := GreyImage(g)
	if err != nil {
		t.Fatalf("GreyImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", b.Dx(), b.Dy())
	}
	if got := img.GrayAt(1, 0).Y; got != 128 {
		t.Errorf("(1,0): got %d, want 128", got)
	}
	if got := img.GrayAt(2, 1).Y; got != 3 {
		t.Errorf("(2,1): got %d, want 3", got)
	}
}

func TestGreyImage_OutOfRange(t *testing.T) {
	for _, v := range []int{-1, 256} {
		g := grid.Filled(3, 3, 0)
		g.Set(1, 1, v)
		if _, err := GreyImage(g); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("value %d: got %v, want ErrOutOfRange", v, err)
		}
	}
}

func TestWriteGrey(t *testing.T) {
	g := grid.Filled(4, 3, 255)
	g.Set(0, 0, 0)
	path := filepath.Join(t.TempDir(), "edges.png")

	if err := WriteGrey(path, g); err != nil {
		t.Fatalf("WriteGrey failed: %v", err)
	}

	cache := NewImageCache()
	ch, err := LoadChannels(cache, path, 0)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if ch.R.At(0, 0) != 0 || ch.G.At(3, 2) != 255 {
		t.Errorf("reloaded values: (0,0)=%d (3,2)=%d", ch.R.At(0, 0), ch.G.At(3, 2))
	}
}

func TestWriteGrey_BadExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.unknown")
	if err := WriteGrey(path, grid.Filled(3, 3, 0)); err == nil {
		t.Error("WriteGrey should fail for an unsupported extension")
	}
}

func TestEncodeGrey(t *testing.T) {
	g := fromRows(t, [][]int{
		{0, 255, 0},
		{255, 0, 255},
		{0, 255, 0},
	})
	var buf bytes.Buffer
	if err := EncodeGrey(&buf, g); err != nil {
		t.Fatalf("EncodeGrey failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			got := int(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			if got != g.At(x, y) {
				t.Errorf("(%d,%d): got %d, want %d", x, y, got, g.At(x, y))
			}
		}
	}
}

func TestStageGrey(t *testing.T) {
	t.Run("integer in range kept", func(t *testing.T) {
		g := grid.Filled(3, 3, 40)
		img, err := StageGrey(g)
		if err != nil {
			t.Fatalf("StageGrey failed: %v", err)
		}
		if got := img.GrayAt(1, 1).Y; got != 40 {
			t.Errorf("got %d, want 40", got)
		}
	})
	t.Run("signed stretched", func(t *testing.T) {
		g := fromRows(t, [][]float64{{-10, 0, 10}})
		img, err := StageGrey(g)
		if err != nil {
			t.Fatalf("StageGrey failed: %v", err)
		}
		want := []uint8{0, 128, 255}
		for x, w := range want {
			if got := img.GrayAt(x, 0).Y; got != w {
				t.Errorf("x=%d: got %d, want %d", x, got, w)
			}
		}
	})
}
