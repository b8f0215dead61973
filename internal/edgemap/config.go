package edgemap

import "fmt"

// Reference parameters.
const (
	DefaultIterations = 9
	DefaultThreshold  = 70
)

// Config holds the run parameters of the pipeline.
type Config struct {
	// Iterations is the number of box smoothing passes. Must be >= 0.
	Iterations int `json:"iterations"`

	// Threshold is the binarization cutoff in 0-255, applied to the
	// normalized smoothed magnitude.
	Threshold int `json:"threshold"`

	// Formula selects how the two Sobel gradients are combined.
	Formula MagnitudeFormula `json:"formula"`

	// Parallel computes rows within each stage concurrently. Results are
	// identical to a sequential run.
	Parallel bool `json:"parallel"`

	// KeepStages retains every intermediate grid in Result.Stages.
	KeepStages bool `json:"keep_stages"`
}

// DefaultConfig returns the reference configuration: 9 smoothing passes,
// threshold 70, sum-of-absolutes magnitude.
func DefaultConfig() Config {
	return Config{
		Iterations: DefaultIterations,
		Threshold:  DefaultThreshold,
		Formula:    SumOfAbsolutes,
	}
}

// Validate reports whether the configuration can be run.
func (c Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("iterations %d must not be negative: %w", c.Iterations, ErrInvalidConfig)
	}
	if c.Threshold < outMin || c.Threshold > outMax {
		return fmt.Errorf("threshold %d outside %d-%d: %w", c.Threshold, outMin, outMax, ErrInvalidConfig)
	}
	if c.Formula != SumOfAbsolutes && c.Formula != Euclidean {
		return fmt.Errorf("magnitude formula %v: %w", c.Formula, ErrInvalidConfig)
	}
	return nil
}
