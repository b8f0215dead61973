package grid

// Kernel is a 3x3 correlation kernel with integer weights and a divisor.
// Weights are indexed [row][column] with the centre at [1][1].
type Kernel struct {
	Name    string
	Weights [3][3]int
	Divisor int
}

var (
	// SobelVertical responds to intensity changes along x, i.e. vertical edges.
	SobelVertical = Kernel{
		Name: "sobel-vertical",
		Weights: [3][3]int{
			{-1, 0, 1},
			{-2, 0, 2},
			{-1, 0, 1},
		},
		Divisor: 8,
	}

	// SobelHorizontal responds to intensity changes along y, i.e. horizontal
	// edges. Positive output means the row above is brighter than the row below.
	SobelHorizontal = Kernel{
		Name: "sobel-horizontal",
		Weights: [3][3]int{
			{1, 2, 1},
			{0, 0, 0},
			{-1, -2, -1},
		},
		Divisor: 8,
	}

	// Box is the uniform 3x3 averaging kernel.
	Box = Kernel{
		Name: "box",
		Weights: [3][3]int{
			{1, 1, 1},
			{1, 1, 1},
			{1, 1, 1},
		},
		Divisor: 9,
	}
)

// Correlate returns the weighted sum of the 3x3 neighbourhood centred on
// (x, y), without dividing. The kernel is not flipped. (x, y) must be an
// interior pixel of g.
func Correlate[T Number](g *Grid[T], k Kernel, x, y int) float64 {
	var sum float64
	for ky := 0; ky < 3; ky++ {
		row := g.Row(y + ky - 1)
		for kx := 0; kx < 3; kx++ {
			w := k.Weights[ky][kx]
			if w == 0 {
				continue
			}
			sum += float64(w) * float64(row[x+kx-1])
		}
	}
	return sum
}

// Sum returns the total of all kernel weights.
func (k Kernel) Sum() int {
	total := 0
	for _, row := range k.Weights {
		for _, w := range row {
			total += w
		}
	}
	return total
}
