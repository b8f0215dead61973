package edgemap

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// MagnitudeFormula selects how two directional gradients are merged.
type MagnitudeFormula int

const (
	// SumOfAbsolutes computes sqrt(v²) + sqrt(h²), i.e. |v| + |h|. It is the
	// default and reproduces the reference edge maps.
	SumOfAbsolutes MagnitudeFormula = iota

	// Euclidean computes sqrt(v² + h²).
	Euclidean
)

// String returns the formula's configuration name.
func (f MagnitudeFormula) String() string {
	switch f {
	case SumOfAbsolutes:
		return "sum-abs"
	case Euclidean:
		return "euclidean"
	default:
		return fmt.Sprintf("MagnitudeFormula(%d)", int(f))
	}
}

// ParseMagnitudeFormula accepts "sum-abs" (or "l1") and "euclidean" (or "l2").
// The empty string selects SumOfAbsolutes.
func ParseMagnitudeFormula(s string) (MagnitudeFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum-abs", "l1":
		return SumOfAbsolutes, nil
	case "euclidean", "l2":
		return Euclidean, nil
	default:
		return 0, fmt.Errorf("unknown magnitude formula %q: %w", s, ErrInvalidConfig)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f MagnitudeFormula) MarshalText() ([]byte, error) {
	if f != SumOfAbsolutes && f != Euclidean {
		return nil, fmt.Errorf("magnitude formula %d: %w", int(f), ErrInvalidConfig)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *MagnitudeFormula) UnmarshalText(text []byte) error {
	parsed, err := ParseMagnitudeFormula(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f MagnitudeFormula) apply(v, h float64) float64 {
	if f == Euclidean {
		return math.Sqrt(v*v + h*h)
	}
	return math.Sqrt(v*v) + math.Sqrt(h*h)
}

// Combine merges vertical and horizontal gradient grids into a gradient
// magnitude grid using formula f. Both grids must have the same size and
// contain only finite values.
func Combine(vertical, horizontal *grid.RealGrid, f MagnitudeFormula) (*grid.RealGrid, error) {
	return combine(vertical, horizontal, f, false)
}

func combine(vertical, horizontal *grid.RealGrid, f MagnitudeFormula, concurrent bool) (*grid.RealGrid, error) {
	if f != SumOfAbsolutes && f != Euclidean {
		return nil, fmt.Errorf("magnitude formula %v: %w", f, ErrInvalidConfig)
	}
	if !horizontal.SameSize(vertical.Width, vertical.Height) {
		return nil, fmt.Errorf("vertical %dx%d, horizontal %dx%d: %w",
			vertical.Width, vertical.Height, horizontal.Width, horizontal.Height, ErrDimensionMismatch)
	}
	if err := grid.CheckFinite(vertical); err != nil {
		return nil, fmt.Errorf("vertical gradient: %v: %w", err, ErrNonFinite)
	}
	if err := grid.CheckFinite(horizontal); err != nil {
		return nil, fmt.Errorf("horizontal gradient: %v: %w", err, ErrNonFinite)
	}

	out := grid.NewReal(vertical.Width, vertical.Height)
	forRows(0, out.Height, concurrent, func(y int) {
		vr, hr, dst := vertical.Row(y), horizontal.Row(y), out.Row(y)
		for x := range dst {
			dst[x] = f.apply(vr[x], hr[x])
		}
	})
	return out, nil
}
