package pattern

import (
	"errors"
	"testing"

	"github.com/nvandessel/hopfield/internal/constants"
)

func TestDisk_TenByTen(t *testing.T) {
	p := Disk(10)

	if len(p) != 100 {
		t.Fatalf("len(Disk(10)) = %d, want 100", len(p))
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Disk(10) not binary: %v", err)
	}

	// Radius 2 around (5,5): the centre, 4 cells at distance 1, 4 diagonals
	// at distance sqrt(2) and 4 cells at distance 2.
	if got := p.ActiveCount(); got != 13 {
		t.Errorf("ActiveCount() = %d, want 13", got)
	}

	active := [][2]int{{5, 5}, {3, 5}, {7, 5}, {5, 3}, {5, 7}, {4, 4}, {6, 6}}
	for _, c := range active {
		if p[c[0]*10+c[1]] != Active {
			t.Errorf("cell %v = %d, want Active", c, p[c[0]*10+c[1]])
		}
	}
	inactive := [][2]int{{0, 0}, {3, 3}, {7, 7}, {5, 8}, {2, 5}, {9, 9}}
	for _, c := range inactive {
		if p[c[0]*10+c[1]] != Inactive {
			t.Errorf("cell %v = %d, want Inactive", c, p[c[0]*10+c[1]])
		}
	}
}

func TestDisk_Degenerate(t *testing.T) {
	tests := []struct {
		name       string
		side       int
		wantLen    int
		wantActive int
	}{
		{"zero side", 0, 0, 0},
		{"negative side", -3, 0, 0},
		{"single cell", 1, 1, 1},
		{"two by two", 2, 4, 1},
		{"three by three", 3, 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Disk(tt.side)
			if len(p) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(p), tt.wantLen)
			}
			if got := p.ActiveCount(); got != tt.wantActive {
				t.Errorf("ActiveCount() = %d, want %d", got, tt.wantActive)
			}
		})
	}
}

func TestDisk_Deterministic(t *testing.T) {
	if !Disk(16).Equal(Disk(16)) {
		t.Error("Disk(16) differs between calls")
	}
}

func TestFromInts(t *testing.T) {
	tests := []struct {
		name    string
		input   []int
		wantErr bool
	}{
		{"valid", []int{1, -1, 1}, false},
		{"empty", []int{}, false},
		{"zero", []int{1, 0, -1}, true},
		{"two", []int{2}, true},
		{"wraps to -1 as int8", []int{255}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromInts(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNonBinary) {
					t.Errorf("FromInts(%v) error = %v, want ErrNonBinary", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromInts(%v) unexpected error: %v", tt.input, err)
			}
			got := p.Ints()
			for i := range got {
				if got[i] != tt.input[i] {
					t.Errorf("round trip [%d] = %d, want %d", i, got[i], tt.input[i])
				}
			}
		})
	}
}

func TestValidate_RejectsNonBinary(t *testing.T) {
	p := Pattern{Active, 0, Inactive}
	if err := p.Validate(); !errors.Is(err, ErrNonBinary) {
		t.Errorf("Validate() = %v, want ErrNonBinary", err)
	}
}

func TestClone_Independent(t *testing.T) {
	p := Pattern{Active, Inactive}
	c := p.Clone()
	c[0] = Inactive
	if p[0] != Active {
		t.Error("mutating clone changed original")
	}
}

func TestInvert(t *testing.T) {
	p := Disk(8)
	inv := p.Invert()
	d, err := Hamming(p, inv)
	if err != nil {
		t.Fatal(err)
	}
	if d != len(p) {
		t.Errorf("Hamming(p, Invert(p)) = %d, want %d", d, len(p))
	}
}

func TestSide(t *testing.T) {
	tests := []struct {
		n        int
		wantSide int
		wantOK   bool
	}{
		{0, 0, true},
		{1, 1, true},
		{4, 2, true},
		{99, 9, false},
		{100, 10, true},
		{101, 10, false},
	}

	for _, tt := range tests {
		p := make(Pattern, tt.n)
		side, ok := p.Side()
		if side != tt.wantSide || ok != tt.wantOK {
			t.Errorf("Side() for len %d = (%d, %v), want (%d, %v)", tt.n, side, ok, tt.wantSide, tt.wantOK)
		}
	}
}

func TestHamming_LengthMismatch(t *testing.T) {
	_, err := Hamming(Pattern{Active}, Pattern{Active, Active})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Hamming() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestValidateSide(t *testing.T) {
	if err := ValidateSide(-1); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("ValidateSide(-1) = %v, want ErrInvalidSide", err)
	}
	if err := ValidateSide(0); err != nil {
		t.Errorf("ValidateSide(0) = %v, want nil", err)
	}
	if err := ValidateSide(constants.MaxSide); err != nil {
		t.Errorf("ValidateSide(MaxSide) = %v, want nil", err)
	}
	for _, side := range []int{constants.MaxSide + 1, 1 << 31, 1 << 32} {
		if err := ValidateSide(side); !errors.Is(err, ErrInvalidSide) {
			t.Errorf("ValidateSide(%d) = %v, want ErrInvalidSide", side, err)
		}
	}
}
