package grid

import (
	"errors"
	"fmt"
	"math"
)

// MinDimension is the smallest width or height that has at least one
// interior pixel.
const MinDimension = 3

// BorderValue is written to every border pixel by the convolution stages.
const BorderValue = 0

// ErrRagged is returned when rows of different lengths are supplied.
var ErrRagged = errors.New("grid rows have unequal length")

// Number is the set of element types a Grid can hold.
type Number interface {
	~int | ~float64
}

// Grid is a dense W x H array of values stored row-major.
type Grid[T Number] struct {
	Width  int
	Height int
	Pix    []T
}

// IntGrid holds integer channel or greyscale values.
type IntGrid = Grid[int]

// RealGrid holds intermediate filter output.
type RealGrid = Grid[float64]

// New allocates a zero-initialised grid. It panics on negative dimensions,
// like make does for negative lengths.
func New[T Number](width, height int) *Grid[T] {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", width, height))
	}
	return &Grid[T]{
		Width:  width,
		Height: height,
		Pix:    make([]T, width*height),
	}
}

// NewInt allocates a zero-initialised IntGrid.
func NewInt(width, height int) *IntGrid { return New[int](width, height) }

// NewReal allocates a zero-initialised RealGrid.
func NewReal(width, height int) *RealGrid { return New[float64](width, height) }

// Filled returns a grid with every pixel set to v.
func Filled[T Number](width, height int, v T) *Grid[T] {
	g := New[T](width, height)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

// FromRows builds a grid from a slice of rows. Every row must have the same
// length; the data is copied.
func FromRows[T Number](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 {
		return New[T](0, 0), nil
	}
	width := len(rows[0])
	g := New[T](width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", y, len(row), width, ErrRagged)
		}
		copy(g.Row(y), row)
	}
	return g, nil
}

// At returns the value at column x, row y.
func (g *Grid[T]) At(x, y int) T {
	return g.Pix[y*g.Width+x]
}

// Set stores v at column x, row y.
func (g *Grid[T]) Set(x, y int, v T) {
	g.Pix[y*g.Width+x] = v
}

// Row returns row y. The slice aliases the grid's storage.
func (g *Grid[T]) Row(y int) []T {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// Rows copies the grid into a slice of rows.
func (g *Grid[T]) Rows() [][]T {
	rows := make([][]T, g.Height)
	for y := range rows {
		rows[y] = append([]T(nil), g.Row(y)...)
	}
	return rows
}

// Size returns the grid's width and height.
func (g *Grid[T]) Size() (w, h int) {
	return g.Width, g.Height
}

// SameSize reports whether g is w x h.
func (g *Grid[T]) SameSize(w, h int) bool {
	return g.Width == w && g.Height == h
}

// Clone returns a deep copy of g.
func (g *Grid[T]) Clone() *Grid[T] {
	c := New[T](g.Width, g.Height)
	copy(c.Pix, g.Pix)
	return c
}

// IsInterior reports whether (x, y) has all eight neighbours inside the grid.
func (g *Grid[T]) IsInterior(x, y int) bool {
	return x >= 1 && y >= 1 && x <= g.Width-2 && y <= g.Height-2
}

// Float64s returns the grid values converted to float64. For a RealGrid the
// grid's own storage is returned.
func (g *Grid[T]) Float64s() []float64 {
	if f, ok := any(g.Pix).([]float64); ok {
		return f
	}
	out := make([]float64, len(g.Pix))
	for i, v := range g.Pix {
		out[i] = float64(v)
	}
	return out
}

// ToReal converts any grid to a RealGrid copy.
func ToReal[T Number](g *Grid[T]) *RealGrid {
	r := NewReal(g.Width, g.Height)
	for i, v := range g.Pix {
		r.Pix[i] = float64(v)
	}
	return r
}

// CheckFinite returns an error naming the first NaN or infinite pixel.
func CheckFinite[T Number](g *Grid[T]) error {
	for i, v := range g.Pix {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite value %v at (%d,%d)", f, i%g.Width, i/g.Width)
		}
	}
	return nil
}
