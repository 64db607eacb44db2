package pattern

import "errors"

// Sentinel errors shared by the pattern, noise, hopfield and centroid
// packages. Callers match them with errors.Is; wrapping sites add context
// with fmt.Errorf("...: %w", err).
var (
	// ErrDimensionMismatch is returned when a pattern's length disagrees with
	// the engine size or with the grid side length it is interpreted against.
	ErrDimensionMismatch = errors.New("pattern: dimension mismatch")

	// ErrNonBinary is returned when a pattern holds a value other than -1 or +1.
	ErrNonBinary = errors.New("pattern: value is not -1 or +1")

	// ErrInvalidNoiseFraction is returned for a noise fraction outside [0, 1].
	ErrInvalidNoiseFraction = errors.New("pattern: noise fraction must be within [0, 1]")

	// ErrInvalidSide is returned for a negative or oversized grid side length.
	ErrInvalidSide = errors.New("pattern: grid side out of range")
)
