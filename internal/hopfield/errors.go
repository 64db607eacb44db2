package hopfield

import "errors"

var (
	// ErrInvalidSize is returned by New for a non-positive unit count.
	ErrInvalidSize = errors.New("hopfield: size must be > 0")

	// ErrInvalidIterations is returned for a negative sweep count.
	ErrInvalidIterations = errors.New("hopfield: iterations must be >= 0")

	// ErrOutOfRange is returned by Weight for indices outside [0, size).
	ErrOutOfRange = errors.New("hopfield: index out of range")

	// ErrAsymmetry is returned by Validate when W[i][j] != W[j][i].
	ErrAsymmetry = errors.New("hopfield: weight matrix is not symmetric")

	// ErrNonZeroDiagonal is returned by Validate when a self-connection is set.
	ErrNonZeroDiagonal = errors.New("hopfield: weight matrix diagonal is not zero")
)
