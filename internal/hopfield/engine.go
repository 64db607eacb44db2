// Package hopfield implements a binary Hopfield network: an associative
// memory that absorbs patterns into a symmetric weight matrix with the
// unnormalized Hebbian rule and reconstructs them from corrupted inputs by
// asynchronous threshold updates.
//
// An Engine is safe for concurrent use. Train takes an exclusive lock;
// Recall, Energy and the accessors share a read lock, so any number of
// recalls may run in parallel against a matrix that is not being trained.
package hopfield

import (
	"fmt"
	"sync"

	"github.com/nvandessel/hopfield/internal/pattern"
)

// DefaultIterations is the number of sweeps Recall callers use when they
// have no reason to pick another value.
const DefaultIterations = 5

// Engine holds the N×N weight matrix of one network.
type Engine struct {
	mu      sync.RWMutex
	size    int
	weights []float64 // row-major, W[i][j] at i*size + j
	trained int       // patterns absorbed over the engine's lifetime
}

// New returns an engine for patterns of length size with all weights zero.
func New(size int) (*Engine, error) {
	if size <= 0 {
		return nil, fmt.Errorf("new engine of size %d: %w", size, ErrInvalidSize)
	}
	return &Engine{
		size:    size,
		weights: make([]float64, size*size),
	}, nil
}

// Size returns N, the number of units.
func (e *Engine) Size() int {
	return e.size
}

// Trained returns how many patterns have been absorbed so far.
func (e *Engine) Trained() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trained
}

// Train adds the outer product p⊗p of every pattern to the weights, then
// zeroes the diagonal once. Weights accumulate across calls and are never
// divided by the pattern count. All patterns are validated before any
// weight changes; calling Train with no patterns is a no-op.
func (e *Engine) Train(patterns ...pattern.Pattern) error {
	for k, p := range patterns {
		if err := e.checkPattern(p); err != nil {
			return fmt.Errorf("train pattern %d: %w", k, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.size
	for _, p := range patterns {
		for i := 0; i < n; i++ {
			pi := float64(p[i])
			row := e.weights[i*n : (i+1)*n]
			for j, pj := range p {
				row[j] += pi * float64(pj)
			}
		}
	}
	for i := 0; i < n; i++ {
		e.weights[i*n+i] = 0
	}
	e.trained += len(patterns)

	return nil
}

// Weight returns W[i][j].
func (e *Engine) Weight(i, j int) (float64, error) {
	if i < 0 || i >= e.size || j < 0 || j >= e.size {
		return 0, fmt.Errorf("weight(%d,%d): %w", i, j, ErrOutOfRange)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights[i*e.size+j], nil
}

// Weights returns a copy of the matrix as rows.
func (e *Engine) Weights() [][]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([][]float64, e.size)
	for i := range out {
		out[i] = make([]float64, e.size)
		copy(out[i], e.weights[i*e.size:(i+1)*e.size])
	}
	return out
}

// Validate checks the structural invariants of the weight matrix: symmetry
// and a zero diagonal. Both hold by construction; Validate exists so
// callers can assert them after training.
func (e *Engine) Validate() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := e.size
	for i := 0; i < n; i++ {
		if e.weights[i*n+i] != 0 {
			return fmt.Errorf("W[%d][%d] = %v: %w", i, i, e.weights[i*n+i], ErrNonZeroDiagonal)
		}
		for j := i + 1; j < n; j++ {
			if e.weights[i*n+j] != e.weights[j*n+i] {
				return fmt.Errorf("W[%d][%d] = %v, W[%d][%d] = %v: %w",
					i, j, e.weights[i*n+j], j, i, e.weights[j*n+i], ErrAsymmetry)
			}
		}
	}
	return nil
}

// checkPattern rejects patterns of the wrong length or with non-binary units.
func (e *Engine) checkPattern(p pattern.Pattern) error {
	if len(p) != e.size {
		return fmt.Errorf("length %d, engine size %d: %w", len(p), e.size, pattern.ErrDimensionMismatch)
	}
	return p.Validate()
}
