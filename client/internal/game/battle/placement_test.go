package battle

import "testing"

func TestToGridFloorsPerAxis(t *testing.T) {
	cases := []struct {
		x, z  float64
		cell  float64
		wantX int
		wantZ int
	}{
		{0, 0, 32, 0, 0},
		{31.9, 31.9, 32, 0, 0},
		{32, 32, 32, 1, 1},
		{65, 100, 32, 2, 3},
		{-0.1, -32, 32, -1, -1},
		{-33, 95.5, 32, -2, 2},
	}
	for _, c := range cases {
		got := ToGrid(c.x, c.z, c.cell)
		if got.X != c.wantX || got.Z != c.wantZ {
			t.Fatalf("ToGrid(%v,%v,%v) = (%d,%d), want (%d,%d)",
				c.x, c.z, c.cell, got.X, got.Z, c.wantX, c.wantZ)
		}
	}
}

func TestToGridDoesNotClamp(t *testing.T) {
	// The battlefield mapper has no bounds; wildly off-map positions still
	// produce a coordinate and the simulator decides validity.
	got := ToGrid(1e6, -1e6, 32)
	if got.X != 31250 || got.Z != -31250 {
		t.Fatalf("got (%d,%d)", got.X, got.Z)
	}
}
