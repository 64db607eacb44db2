package pattern

import (
	"fmt"

	"github.com/nvandessel/hopfield/internal/constants"
)

// Disk returns a side×side grid, flattened row-major, with Active cells on a
// filled disk of radius side/4 centred at (side/2, side/2) and Inactive
// cells elsewhere. A cell (x, y) is on the disk when
// (x-c)² + (y-c)² <= r². Negative sides yield an empty pattern.
func Disk(side int) Pattern {
	if side <= 0 {
		return Pattern{}
	}

	center := side / 2
	radius := side / 4
	p := make(Pattern, side*side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			dx, dy := x-center, y-center
			if dx*dx+dy*dy <= radius*radius {
				p[x*side+y] = Active
			} else {
				p[x*side+y] = Inactive
			}
		}
	}
	return p
}

// ValidateSide rejects grid sides outside [0, constants.MaxSide].
func ValidateSide(side int) error {
	if side < 0 || side > constants.MaxSide {
		return fmt.Errorf("side %d (max %d): %w", side, constants.MaxSide, ErrInvalidSide)
	}
	return nil
}
