package edgemap

import (
	"math"

	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// BoxSmooth applies one 3x3 averaging pass: each interior pixel becomes
// |sum of its neighbourhood| / 9. Border pixels are grid.BorderValue.
func BoxSmooth[T grid.Number](g *grid.Grid[T]) *grid.RealGrid {
	return filter(g, grid.Box, false, math.Abs)
}

// SmoothN applies BoxSmooth n times, each pass reading the complete output
// of the previous one. n = 0 returns a copy of g as a RealGrid.
func SmoothN[T grid.Number](g *grid.Grid[T], n int) *grid.RealGrid {
	return smoothN(g, n, false)
}

func smoothN[T grid.Number](g *grid.Grid[T], n int, concurrent bool) *grid.RealGrid {
	if n <= 0 {
		return grid.ToReal(g)
	}
	out := filter(g, grid.Box, concurrent, math.Abs)
	for i := 1; i < n; i++ {
		out = filter(out, grid.Box, concurrent, math.Abs)
	}
	return out
}
