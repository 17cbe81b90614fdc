package shot

import "errors"

var (
	// ErrInvalidWindow is returned when the analysis window is empty, negative,
	// or reaches past the frames the source can supply.
	ErrInvalidWindow = errors.New("invalid analysis window")

	// ErrShortSource is returned when the source stops before the end of the window.
	ErrShortSource = errors.New("frame source ended before the analysis window")

	// ErrDegenerateSeries is returned when there are too few frame distances
	// to estimate a standard deviation.
	ErrDegenerateSeries = errors.New("distance series too short")

	// ErrInvalidTolerance is returned for a gradual-transition tolerance below 1.
	ErrInvalidTolerance = errors.New("tolerance must be a positive integer")
)
