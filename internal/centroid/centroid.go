// Package centroid locates the mean position of the active cells of a
// pattern viewed as a square grid.
package centroid

import (
	"fmt"

	"github.com/nvandessel/hopfield/internal/pattern"
)

// Point is a grid coordinate. Row indexes the outer (x) dimension of the
// row-major layout produced by pattern.Disk.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Locate treats p as a side×side grid and returns the mean row and mean
// column of its Active cells, each truncated toward zero. The boolean is
// false when no cell is Active.
func Locate(p pattern.Pattern, side int) (Point, bool, error) {
	if err := pattern.ValidateSide(side); err != nil {
		return Point{}, false, fmt.Errorf("locate: %w", err)
	}
	if len(p) != side*side {
		return Point{}, false, fmt.Errorf("locate: length %d, grid %dx%d: %w",
			len(p), side, side, pattern.ErrDimensionMismatch)
	}

	var rows, cols, n int
	for r := 0; r < side; r++ {
		for c := 0; c < side; c++ {
			if p[r*side+c] == pattern.Active {
				rows += r
				cols += c
				n++
			}
		}
	}
	if n == 0 {
		return Point{}, false, nil
	}
	return Point{Row: rows / n, Col: cols / n}, true, nil
}
