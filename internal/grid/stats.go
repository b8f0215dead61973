package grid

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the value distribution of a grid.
type Summary struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`

	// NonZero is the number of pixels whose value is not 0.
	NonZero int `json:"non_zero"`
}

// Summarize computes min, max, mean and standard deviation over every pixel,
// border included. An empty grid yields a zero Summary with its dimensions.
func Summarize[T Number](g *Grid[T]) Summary {
	s := Summary{Width: g.Width, Height: g.Height}
	if len(g.Pix) == 0 {
		return s
	}
	data := g.Float64s()
	s.Min = floats.Min(data)
	s.Max = floats.Max(data)
	if len(data) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	} else {
		s.Mean = data[0]
	}
	for _, v := range data {
		if v != 0 {
			s.NonZero++
		}
	}
	return s
}
