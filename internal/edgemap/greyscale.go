package edgemap

import (
	"fmt"
	"math"

	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// ITU-R BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Luma returns 0.299*r + 0.587*g + 0.114*b rounded half to even.
func Luma(r, g, b int) int {
	return int(math.RoundToEven(lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b)))
}

// Greyscale reduces three channel grids to one luma grid.
//
// The channel grids must share the same dimensions and hold values in 0-255.
// They are read only; the result is a new grid.
func Greyscale(r, g, b *grid.IntGrid) (*grid.IntGrid, error) {
	ch := Channels{R: r, G: g, B: b}
	if err := ch.validateShape(); err != nil {
		return nil, err
	}
	if err := ch.validateRange(); err != nil {
		return nil, err
	}
	return greyscale(ch, false), nil
}

// greyscale expects channels that already passed validation.
func greyscale(ch Channels, concurrent bool) *grid.IntGrid {
	w, h := ch.R.Size()
	out := grid.NewInt(w, h)
	forRows(0, h, concurrent, func(y int) {
		rr, gr, br := ch.R.Row(y), ch.G.Row(y), ch.B.Row(y)
		dst := out.Row(y)
		for x := range dst {
			dst[x] = Luma(rr[x], gr[x], br[x])
		}
	})
	return out
}

// Channels holds the red, green and blue planes of an image.
type Channels struct {
	R, G, B *grid.IntGrid
}

// Size returns the dimensions of the red plane.
func (c Channels) Size() (w, h int) {
	if c.R == nil {
		return 0, 0
	}
	return c.R.Size()
}

// Validate checks that all planes are present, equally sized, at least
// grid.MinDimension in each direction, and hold 8-bit values.
func (c Channels) Validate() error {
	if err := c.validateShape(); err != nil {
		return err
	}
	w, h := c.Size()
	if w < grid.MinDimension || h < grid.MinDimension {
		return fmt.Errorf("image is %dx%d: %w", w, h, ErrTooSmall)
	}
	return c.validateRange()
}

func (c Channels) validateShape() error {
	planes := []struct {
		name string
		g    *grid.IntGrid
	}{{"red", c.R}, {"green", c.G}, {"blue", c.B}}

	for _, p := range planes {
		if p.g == nil {
			return fmt.Errorf("%s: %w", p.name, ErrMissingChannel)
		}
		if len(p.g.Pix) != p.g.Width*p.g.Height {
			return fmt.Errorf("%s plane has %d values for %dx%d: %w",
				p.name, len(p.g.Pix), p.g.Width, p.g.Height, ErrDimensionMismatch)
		}
	}
	w, h := c.R.Size()
	for _, p := range planes[1:] {
		if !p.g.SameSize(w, h) {
			return fmt.Errorf("%s plane is %dx%d, red plane is %dx%d: %w",
				p.name, p.g.Width, p.g.Height, w, h, ErrDimensionMismatch)
		}
	}
	return nil
}

func (c Channels) validateRange() error {
	for _, p := range []struct {
		name string
		g    *grid.IntGrid
	}{{"red", c.R}, {"green", c.G}, {"blue", c.B}} {
		for i, v := range p.g.Pix {
			if v < 0 || v > 255 {
				return fmt.Errorf("%s value %d at (%d,%d): %w",
					p.name, v, i%p.g.Width, i/p.g.Width, ErrChannelRange)
			}
		}
	}
	return nil
}
