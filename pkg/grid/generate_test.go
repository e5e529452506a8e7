package grid

import (
	"testing"
)

// assertNoOverlap fails the test if any two placements intersect.
func assertNoOverlap(t *testing.T, a Arrangement) {
	t.Helper()
	for i := range a {
		for j := i + 1; j < len(a); j++ {
			if a[i].Intersects(a[j]) {
				t.Errorf("placements %s %+v and %s %+v overlap", a[i].ID, a[i], a[j].ID, a[j])
			}
		}
	}
}

// assertInBounds fails the test if any placement lies outside the grid.
func assertInBounds(t *testing.T, a Arrangement, columns int) {
	t.Helper()
	for _, p := range a {
		if p.X < 0 || p.Y < 0 || p.X+p.W > columns {
			t.Errorf("placement %s %+v outside %d-column grid", p.ID, p, columns)
		}
	}
}

func TestDeriveBreakpointScenarioA(t *testing.T) {
	canonical := Arrangement{
		{ID: "A", X: 0, Y: 0, W: 6, H: 2},
		{ID: "B", X: 6, Y: 0, W: 6, H: 2},
	}

	got := DeriveBreakpoint(canonical, 12, 6, nil)

	want := Arrangement{
		{ID: "A", X: 0, Y: 0, W: 3, H: 2},
		{ID: "B", X: 3, Y: 0, W: 3, H: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDeriveBreakpointScenarioB(t *testing.T) {
	canonical := Arrangement{
		{ID: "A", X: 0, Y: 0, W: 12, H: 1},
		{ID: "B", X: 0, Y: 1, W: 4, H: 3},
		{ID: "C", X: 4, Y: 1, W: 8, H: 3},
	}

	got := DeriveBreakpoint(canonical, 12, 10, nil)

	byID := make(map[string]Placement, len(got))
	for _, p := range got {
		byID[p.ID] = p
	}

	if a := byID["A"]; a.X != 0 || a.W != 10 {
		t.Errorf("A = %+v, want full span x:0 w:10", a)
	}
	if sum := byID["B"].W + byID["C"].W; sum != 10 {
		t.Errorf("B.W + C.W = %d, want 10", sum)
	}
	assertNoOverlap(t, got)
	assertInBounds(t, got, 10)
}

func TestDeriveBreakpointQuarterRowStaysIntact(t *testing.T) {
	// Four quarter-width widgets fill a 12-column row. Halving the grid
	// must keep all four on the row, flush with the right edge; rounding
	// must never push the last widget past the target width.
	canonical := Arrangement{
		{ID: "a", X: 0, Y: 0, W: 3, H: 1},
		{ID: "b", X: 3, Y: 0, W: 3, H: 1},
		{ID: "c", X: 6, Y: 0, W: 3, H: 1},
		{ID: "d", X: 9, Y: 0, W: 3, H: 1},
	}

	got := DeriveBreakpoint(canonical, 12, 6, nil)

	sum := 0
	for _, p := range got {
		if p.Y != 0 {
			t.Errorf("%s: Y = %d, want 0 (row must survive the rescale)", p.ID, p.Y)
		}
		sum += p.W
	}
	if sum != 6 {
		t.Errorf("row widths sum to %d, want 6", sum)
	}
	assertNoOverlap(t, got)
	assertInBounds(t, got, 6)
}

func TestDeriveBreakpointProperties(t *testing.T) {
	tests := []struct {
		name       string
		canonical  Arrangement
		sourceCols int
		targetCols int
	}{
		{
			name: "dense three rows",
			canonical: Arrangement{
				{ID: "a", X: 0, Y: 0, W: 6, H: 2},
				{ID: "b", X: 6, Y: 0, W: 6, H: 2},
				{ID: "c", X: 0, Y: 2, W: 4, H: 1},
				{ID: "d", X: 4, Y: 2, W: 4, H: 1},
				{ID: "e", X: 8, Y: 2, W: 4, H: 1},
				{ID: "f", X: 0, Y: 3, W: 12, H: 2},
			},
			sourceCols: 12,
			targetCols: 6,
		},
		{
			name: "sparse with gaps",
			canonical: Arrangement{
				{ID: "a", X: 1, Y: 0, W: 3, H: 1},
				{ID: "b", X: 7, Y: 2, W: 5, H: 2},
				{ID: "c", X: 0, Y: 5, W: 2, H: 1},
			},
			sourceCols: 12,
			targetCols: 10,
		},
		{
			name: "tall narrow widgets",
			canonical: Arrangement{
				{ID: "a", X: 0, Y: 0, W: 1, H: 5},
				{ID: "b", X: 1, Y: 0, W: 1, H: 5},
				{ID: "c", X: 2, Y: 0, W: 1, H: 5},
				{ID: "d", X: 3, Y: 0, W: 9, H: 5},
			},
			sourceCols: 12,
			targetCols: 6,
		},
		{
			name: "overfull row squeezes through search",
			canonical: Arrangement{
				{ID: "a", X: 0, Y: 0, W: 2, H: 1},
				{ID: "b", X: 2, Y: 0, W: 2, H: 1},
				{ID: "c", X: 4, Y: 0, W: 2, H: 1},
				{ID: "d", X: 6, Y: 0, W: 2, H: 1},
				{ID: "e", X: 8, Y: 0, W: 2, H: 1},
				{ID: "f", X: 10, Y: 0, W: 2, H: 1},
			},
			sourceCols: 12,
			targetCols: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveBreakpoint(tt.canonical, tt.sourceCols, tt.targetCols, nil)

			if len(got) != len(tt.canonical) {
				t.Fatalf("len = %d, want %d (no widget may vanish)", len(got), len(tt.canonical))
			}
			assertNoOverlap(t, got)
			assertInBounds(t, got, tt.targetCols)
			for _, p := range got {
				if p.W < 1 || p.H < 1 {
					t.Errorf("%s: degenerate size %+v", p.ID, p)
				}
			}
		})
	}
}

func TestDeriveAllIdentityPass(t *testing.T) {
	canonical := Arrangement{
		{ID: "a", X: 0, Y: 0, W: 6, H: 2, Locked: true},
		{ID: "b", X: 6, Y: 0, W: 6, H: 2},
	}

	out := DeriveAll(canonical, DefaultProfiles())

	wide := out["wide"]
	if len(wide) != len(canonical) {
		t.Fatalf("wide len = %d, want %d", len(wide), len(canonical))
	}
	for i := range canonical {
		if wide[i] != canonical[i] {
			t.Errorf("wide[%d] = %+v, want canonical %+v", i, wide[i], canonical[i])
		}
	}
}

func TestDeriveAllEveryProfilePresent(t *testing.T) {
	canonical := Arrangement{
		{ID: "a", X: 0, Y: 0, W: 12, H: 1},
		{ID: "b", X: 0, Y: 1, W: 6, H: 2},
		{ID: "c", X: 6, Y: 1, W: 6, H: 2},
	}
	profiles := DefaultProfiles()

	out := DeriveAll(canonical, profiles)

	if len(out) != len(profiles) {
		t.Fatalf("derived %d breakpoints, want %d", len(out), len(profiles))
	}
	for _, p := range profiles {
		arr, ok := out[p.Name]
		if !ok {
			t.Errorf("missing breakpoint %q", p.Name)
			continue
		}
		assertNoOverlap(t, arr)
		assertInBounds(t, arr, p.Columns)
	}
}

func TestDeriveAllLockPropagation(t *testing.T) {
	canonical := Arrangement{
		{ID: "a", X: 0, Y: 0, W: 6, H: 2},
		{ID: "b", X: 6, Y: 0, W: 6, H: 2, Locked: true},
		{ID: "c", X: 0, Y: 2, W: 12, H: 1},
	}

	out := DeriveAll(canonical, DefaultProfiles())

	for name, arr := range out {
		for _, p := range arr {
			want := p.ID == "b"
			if p.Locked != want {
				t.Errorf("%s/%s: Locked = %v, want %v", name, p.ID, p.Locked, want)
			}
		}
	}
}

func TestDeriveAllEmptyProfiles(t *testing.T) {
	out := DeriveAll(Arrangement{{ID: "a", W: 1, H: 1}}, nil)
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}

func TestDeriveNormalizeRoundTrip(t *testing.T) {
	canonical := Arrangement{
		{ID: "A", X: 0, Y: 0, W: 12, H: 1},
		{ID: "B", X: 0, Y: 1, W: 4, H: 3},
		{ID: "C", X: 4, Y: 1, W: 8, H: 3},
	}

	derived := DeriveBreakpoint(canonical, 12, 10, nil)
	back := Normalize(derived, 10, 12)

	byID := make(map[string]Placement, len(back))
	for _, p := range back {
		byID[p.ID] = p
	}
	for _, orig := range canonical {
		got, ok := byID[orig.ID]
		if !ok {
			t.Fatalf("widget %s lost in round trip", orig.ID)
		}
		// Rounding tolerance: each coordinate within one cell.
		if abs(got.X-orig.X) > 1 || abs(got.W-orig.W) > 1 {
			t.Errorf("%s: round trip %+v, want within 1 cell of %+v", orig.ID, got, orig)
		}
		if got.Y != orig.Y || got.H != orig.H {
			t.Errorf("%s: vertical axis changed: %+v, want y:%d h:%d", orig.ID, got, orig.Y, orig.H)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
