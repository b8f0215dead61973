package edgemap

import "errors"

var (
	// ErrDimensionMismatch is returned when grids that must share a size do not.
	ErrDimensionMismatch = errors.New("grid dimensions do not match")

	// ErrTooSmall is returned when the image has no interior pixels.
	ErrTooSmall = errors.New("image smaller than 3x3")

	// ErrChannelRange is returned for channel values outside 0-255.
	ErrChannelRange = errors.New("channel value outside 0-255")

	// ErrNonFinite is returned for NaN or infinite grid values.
	ErrNonFinite = errors.New("grid contains non-finite values")

	// ErrMissingChannel is returned when a channel grid is nil.
	ErrMissingChannel = errors.New("missing channel grid")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")
)
