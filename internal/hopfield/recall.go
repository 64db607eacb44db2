package hopfield

import (
	"fmt"

	"github.com/nvandessel/hopfield/internal/pattern"
)

// Recall runs exactly iterations sweeps over a copy of p and returns it.
//
// Each sweep visits units in ascending index order. Unit i becomes Active
// when the dot product of row i with the current state is >= 0 and
// Inactive otherwise; later units in the same sweep see the new value of
// earlier ones. Ties at zero resolve to Active. No convergence check is
// made. iterations == 0 returns an unmodified copy.
func (e *Engine) Recall(p pattern.Pattern, iterations int) (pattern.Pattern, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("recall: %d: %w", iterations, ErrInvalidIterations)
	}
	if err := e.checkPattern(p); err != nil {
		return nil, fmt.Errorf("recall: %w", err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	state := p.Clone()
	for it := 0; it < iterations; it++ {
		e.sweep(state)
	}
	return state, nil
}

// RecallUntilStable sweeps like Recall but stops after the first sweep that
// leaves every unit unchanged, or after maxIterations sweeps. It returns the
// final state and the number of sweeps run, including the stable one.
func (e *Engine) RecallUntilStable(p pattern.Pattern, maxIterations int) (pattern.Pattern, int, error) {
	if maxIterations < 0 {
		return nil, 0, fmt.Errorf("recall: %d: %w", maxIterations, ErrInvalidIterations)
	}
	if err := e.checkPattern(p); err != nil {
		return nil, 0, fmt.Errorf("recall: %w", err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	state := p.Clone()
	sweeps := 0
	for sweeps < maxIterations {
		sweeps++
		if e.sweep(state) == 0 {
			break
		}
	}
	return state, sweeps, nil
}

// Energy returns E = -1/2 Σ W[i][j]·x[i]·x[j]. Asynchronous updates never
// increase it.
func (e *Engine) Energy(p pattern.Pattern) (float64, error) {
	if err := e.checkPattern(p); err != nil {
		return 0, fmt.Errorf("energy: %w", err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	n := e.size
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(p[i]) * e.activation(i, p)
	}
	return -0.5 * sum, nil
}

// sweep updates every unit of state in place, in ascending order, and
// returns how many units changed. Callers hold the read lock.
func (e *Engine) sweep(state pattern.Pattern) int {
	changed := 0
	for i := range state {
		next := pattern.Inactive
		if e.activation(i, state) >= 0 {
			next = pattern.Active
		}
		if state[i] != next {
			state[i] = next
			changed++
		}
	}
	return changed
}

// activation is the dot product of row i with state.
func (e *Engine) activation(i int, state pattern.Pattern) float64 {
	row := e.weights[i*e.size : (i+1)*e.size]
	var sum float64
	for j, w := range row {
		sum += w * float64(state[j])
	}
	return sum
}
