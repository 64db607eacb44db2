package centroid_test

import (
	"testing"

	"github.com/nvandessel/hopfield/internal/centroid"
	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/pattern"
	"github.com/stretchr/testify/require"
)

func grid(side int, active ...[2]int) pattern.Pattern {
	p := make(pattern.Pattern, side*side)
	for i := range p {
		p[i] = pattern.Inactive
	}
	for _, rc := range active {
		p[rc[0]*side+rc[1]] = pattern.Active
	}
	return p
}

func TestLocate_DiskCentre(t *testing.T) {
	for _, side := range []int{1, 4, 8, 10, 15, 32} {
		pt, ok, err := centroid.Locate(pattern.Disk(side), side)
		require.NoError(t, err)
		require.True(t, ok, "side %d", side)
		require.Equal(t, centroid.Point{Row: side / 2, Col: side / 2}, pt, "side %d", side)
	}
}

func TestLocate_Absent(t *testing.T) {
	pt, ok, err := centroid.Locate(grid(5), 5)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, centroid.Point{}, pt)

	_, ok, err = centroid.Locate(pattern.Pattern{}, 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocate_Truncates(t *testing.T) {
	// Rows 0 and 1 average to 0.5, cols 2 and 3 average to 2.5.
	pt, ok, err := centroid.Locate(grid(4, [2]int{0, 2}, [2]int{1, 3}), 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, centroid.Point{Row: 0, Col: 2}, pt)

	// Rows average 2/3 and cols 5/3; rounding would give (1, 2).
	pt, ok, err = centroid.Locate(grid(3, [2]int{0, 2}, [2]int{1, 1}, [2]int{1, 2}), 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, centroid.Point{Row: 0, Col: 1}, pt)
}

func TestLocate_RowMajorOrientation(t *testing.T) {
	pt, ok, err := centroid.Locate(grid(6, [2]int{4, 1}), 6)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, centroid.Point{Row: 4, Col: 1}, pt)
}

func TestLocate_InvertedDisk(t *testing.T) {
	// The complement of the radius-2 disk on a 10x10 grid has 87 cells
	// whose row sum is 450 - 65 = 385, so both means truncate to 4.
	pt, ok, err := centroid.Locate(pattern.Disk(10).Invert(), 10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, centroid.Point{Row: 4, Col: 4}, pt)
}

func TestLocate_DimensionMismatch(t *testing.T) {
	_, _, err := centroid.Locate(pattern.Disk(10), 9)
	require.ErrorIs(t, err, pattern.ErrDimensionMismatch)

	_, _, err = centroid.Locate(pattern.Disk(3), -3)
	require.ErrorIs(t, err, pattern.ErrInvalidSide)

	// 1<<32 squared wraps to 0; the side must be rejected before indexing.
	require.NotPanics(t, func() {
		_, _, err = centroid.Locate(pattern.Pattern{}, 1<<32)
	})
	require.ErrorIs(t, err, pattern.ErrInvalidSide)

	_, _, err = centroid.Locate(pattern.Pattern{}, constants.MaxSide+1)
	require.ErrorIs(t, err, pattern.ErrInvalidSide)
}

func TestPoint_String(t *testing.T) {
	require.Equal(t, "(5, 5)", centroid.Point{Row: 5, Col: 5}.String())
}
