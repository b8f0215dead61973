package edgemap

import "github.com/ironsheep/qr-edgemap/internal/grid"

// Binary output values.
const (
	Background = 0
	Foreground = 255
)

// Threshold returns a copy of g where every pixel >= t is Foreground and
// every other pixel is Background.
func Threshold(g *grid.IntGrid, t int) *grid.IntGrid {
	return threshold(g, t, false)
}

func threshold(g *grid.IntGrid, t int, concurrent bool) *grid.IntGrid {
	out := grid.NewInt(g.Width, g.Height)
	forRows(0, g.Height, concurrent, func(y int) {
		src, dst := g.Row(y), out.Row(y)
		for x, v := range src {
			if v >= t {
				dst[x] = Foreground
			} else {
				dst[x] = Background
			}
		}
	})
	return out
}
