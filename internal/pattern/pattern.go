// Package pattern defines the signed binary patterns stored and recalled by
// the associative memory, and the generator for the reference disk pattern.
package pattern

import (
	"fmt"
	"math"
)

// Unit is the state of a single neuron. Only Inactive and Active are valid.
type Unit int8

const (
	Inactive Unit = -1
	Active   Unit = 1
)

// Valid reports whether u is one of the two legal states.
func (u Unit) Valid() bool {
	return u == Inactive || u == Active
}

// Flip returns the opposite state.
func (u Unit) Flip() Unit {
	return -u
}

// Pattern is a fixed-length sequence of units. When it encodes a 2D grid of
// side S it is flattened row-major, so cell (row, col) lives at row*S + col.
type Pattern []Unit

// FromInts converts plain integers into a Pattern, rejecting anything other
// than -1 and +1.
func FromInts(values []int) (Pattern, error) {
	p := make(Pattern, len(values))
	for i, v := range values {
		u := Unit(v)
		if v < math.MinInt8 || v > math.MaxInt8 || !u.Valid() {
			return nil, fmt.Errorf("index %d value %d: %w", i, v, ErrNonBinary)
		}
		p[i] = u
	}
	return p, nil
}

// Ints returns the pattern as plain integers, for JSON boundaries.
func (p Pattern) Ints() []int {
	out := make([]int, len(p))
	for i, u := range p {
		out[i] = int(u)
	}
	return out
}

// Validate checks that every element is -1 or +1.
func (p Pattern) Validate() error {
	for i, u := range p {
		if !u.Valid() {
			return fmt.Errorf("index %d value %d: %w", i, u, ErrNonBinary)
		}
	}
	return nil
}

// Clone returns an independent copy. A nil pattern clones to an empty one.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and q have the same length and elements.
func (p Pattern) Equal(q Pattern) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Invert returns a copy with every unit flipped.
func (p Pattern) Invert() Pattern {
	out := make(Pattern, len(p))
	for i, u := range p {
		out[i] = u.Flip()
	}
	return out
}

// ActiveCount returns the number of Active units.
func (p Pattern) ActiveCount() int {
	n := 0
	for _, u := range p {
		if u == Active {
			n++
		}
	}
	return n
}

// Side returns the grid side length S when len(p) == S*S.
func (p Pattern) Side() (int, bool) {
	s := int(math.Sqrt(float64(len(p))))
	for s*s > len(p) {
		s--
	}
	for (s+1)*(s+1) <= len(p) {
		s++
	}
	return s, s*s == len(p)
}

// Hamming returns the number of positions at which a and b differ.
func Hamming(a, b Pattern) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("hamming: lengths %d and %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}
