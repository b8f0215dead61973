package edgemap

import (
	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// VerticalEdges correlates g with the vertical Sobel kernel
//
//	-1  0  1
//	-2  0  2
//	-1  0  1
//
// and divides by 8. Output is signed and unclamped; border pixels are
// grid.BorderValue.
func VerticalEdges[T grid.Number](g *grid.Grid[T]) *grid.RealGrid {
	return filter(g, grid.SobelVertical, false, nil)
}

// HorizontalEdges correlates g with the horizontal Sobel kernel
//
//	 1  2  1
//	 0  0  0
//	-1 -2 -1
//
// and divides by 8. Output is signed and unclamped; border pixels are
// grid.BorderValue.
func HorizontalEdges[T grid.Number](g *grid.Grid[T]) *grid.RealGrid {
	return filter(g, grid.SobelHorizontal, false, nil)
}

// filter applies k to every interior pixel of g, divides by k.Divisor and
// passes the result through post when it is non-nil. Border pixels are set
// to grid.BorderValue rather than copied from g.
func filter[T grid.Number](g *grid.Grid[T], k grid.Kernel, concurrent bool, post func(float64) float64) *grid.RealGrid {
	out := grid.NewReal(g.Width, g.Height)
	if g.Width < grid.MinDimension || g.Height < grid.MinDimension {
		fillBorder(out)
		return out
	}

	div := float64(k.Divisor)
	forRows(1, g.Height-1, concurrent, func(y int) {
		dst := out.Row(y)
		for x := 1; x < g.Width-1; x++ {
			v := grid.Correlate(g, k, x, y) / div
			if post != nil {
				v = post(v)
			}
			dst[x] = v
		}
	})
	fillBorder(out)
	return out
}

// fillBorder writes grid.BorderValue to the outer 1-pixel frame of g.
func fillBorder(g *grid.RealGrid) {
	if g.Width == 0 || g.Height == 0 {
		return
	}
	top, bottom := g.Row(0), g.Row(g.Height-1)
	for x := range top {
		top[x] = grid.BorderValue
		bottom[x] = grid.BorderValue
	}
	for y := 0; y < g.Height; y++ {
		g.Set(0, y, grid.BorderValue)
		g.Set(g.Width-1, y, grid.BorderValue)
	}
}
