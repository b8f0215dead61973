package edgemap

import "github.com/anthonynsimon/bild/parallel"

// forRows calls fn(y) for every y in [from, to). When concurrent is set the
// range is split across CPUs; forRows returns only after every row is done.
func forRows(from, to int, concurrent bool, fn func(y int)) {
	if to <= from {
		return
	}
	if !concurrent {
		for y := from; y < to; y++ {
			fn(y)
		}
		return
	}
	parallel.Line(to-from, func(start, end int) {
		for y := start; y < end; y++ {
			fn(from + y)
		}
	})
}
