package edgemap

import (
	"math"

	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// Output range of Normalize.
const (
	outMin = 0
	outMax = 255
)

// Normalize linearly rescales g so that its minimum maps to 0 and its
// maximum to 255, rounding to the nearest integer.
//
// The first pass finds the minimum and maximum over every pixel, border
// included; the second rescales. A flat grid (min == max) yields all zeros.
// Normalize is not idempotent in general: applying it to its own output
// returns the same grid only when that output already spans 0-255, which
// holds for every non-flat input but not for arbitrary IntGrids.
func Normalize[T grid.Number](g *grid.Grid[T]) *grid.IntGrid {
	return normalize(g, false)
}

func normalize[T grid.Number](g *grid.Grid[T], concurrent bool) *grid.IntGrid {
	out := grid.NewInt(g.Width, g.Height)
	if len(g.Pix) == 0 {
		return out
	}

	low, high := valueRange(g)
	if low == high {
		return out
	}
	scale := float64(outMax-outMin) / (high - low)

	forRows(0, g.Height, concurrent, func(y int) {
		src, dst := g.Row(y), out.Row(y)
		for x, v := range src {
			d := float64(v) - low
			if d == 0 {
				dst[x] = outMin
				continue
			}
			dst[x] = int(math.RoundToEven(d*scale + outMin))
		}
	})
	return out
}

// valueRange returns the smallest and largest value in g.
func valueRange[T grid.Number](g *grid.Grid[T]) (low, high float64) {
	low, high = float64(g.Pix[0]), float64(g.Pix[0])
	for _, v := range g.Pix[1:] {
		f := float64(v)
		if f < low {
			low = f
		}
		if f > high {
			high = f
		}
	}
	return low, high
}
