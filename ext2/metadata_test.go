package ext2

import "testing"

func TestIsRedundancyGroup(t *testing.T) {
	redundant := map[uint32]bool{
		0: true, 1: true, 3: true, 5: true, 7: true, 9: true, 25: true,
		27: true, 49: true, 81: true, 125: true, 343: true,
	}
	nonRedundant := []uint32{2, 4, 6, 8, 10, 11, 26, 50, 100}

	for g, want := range redundant {
		if got := isRedundancyGroup(g); got != want {
			t.Errorf("isRedundancyGroup(%d) = %v, want %v", g, got, want)
		}
	}
	for _, g := range nonRedundant {
		if isRedundancyGroup(g) {
			t.Errorf("isRedundancyGroup(%d) = true, want false", g)
		}
	}
}

func TestIsPowerOf(t *testing.T) {
	cases := []struct {
		n, base uint32
		want    bool
	}{
		// isPowerOf only needs to classify n >= base; isRedundancyGroup
		// handles n <= 1 itself before ever calling it.
		{1, 3, false},
		{3, 3, true},
		{9, 3, true},
		{27, 3, true},
		{2, 3, false},
		{0, 3, false},
		{5, 5, true},
		{10, 5, false},
	}
	for _, c := range cases {
		if got := isPowerOf(c.n, c.base); got != c.want {
			t.Errorf("isPowerOf(%d, %d) = %v, want %v", c.n, c.base, got, c.want)
		}
	}
}
