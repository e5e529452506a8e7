package grid

import (
	"errors"
	"sort"
)

var (
	// ErrInvalidPlacementID is returned by [Arrangement.Validate] when a
	// placement has an empty ID. Every widget needs a stable identifier so
	// lock flags and edits can be matched across breakpoints.
	ErrInvalidPlacementID = errors.New("placement ID must not be empty")

	// ErrDuplicatePlacementID is returned by [Arrangement.Validate] when two
	// placements share an ID.
	ErrDuplicatePlacementID = errors.New("duplicate placement ID")

	// ErrInvalidSize is returned by [Arrangement.Validate] when a placement
	// has a width or height below one cell.
	ErrInvalidSize = errors.New("placement width and height must be at least 1")

	// ErrOutOfBounds is returned by [Arrangement.Validate] when a placement
	// lies outside the grid: negative origin or right edge past the column
	// count.
	ErrOutOfBounds = errors.New("placement outside grid bounds")

	// ErrOverlap is returned by [Arrangement.Validate] when two placements'
	// cell rectangles intersect.
	ErrOverlap = errors.New("placements overlap")
)

// Placement is one widget's position and size on the grid, in cell units.
// It occupies the half-open rectangle [X, X+W) × [Y, Y+H).
//
// MinW and MinH are hints for the editing client and are carried through
// derivation untouched. Locked marks a placement that automatic
// rearrangement heuristics must not move relative to other widgets; its
// geometry is still rescaled across breakpoints.
type Placement struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	MinW   int    `json:"min_w,omitempty"`
	MinH   int    `json:"min_h,omitempty"`
	Locked bool   `json:"locked,omitempty"`
}

// Intersects reports whether the cell rectangles of p and q share any cell.
// Touching edges do not count as an intersection.
func (p Placement) Intersects(q Placement) bool {
	return p.X < q.X+q.W && p.X+p.W > q.X &&
		p.Y < q.Y+q.H && p.Y+p.H > q.Y
}

// Arrangement is an ordered collection of placements for one breakpoint.
// A valid arrangement has no two placements whose cell rectangles overlap.
type Arrangement []Placement

// Clone returns a copy of the arrangement. Placements are value types, so
// the copy is fully independent.
func (a Arrangement) Clone() Arrangement {
	if a == nil {
		return nil
	}
	out := make(Arrangement, len(a))
	copy(out, a)
	return out
}

// Validate checks the arrangement against the grid invariants for the given
// column count: non-empty unique IDs, W and H at least 1, placements inside
// [0, columns), and no pairwise overlap. It returns the first violated
// sentinel error, or nil.
//
// The derivation functions in this package do not validate their inputs
// (they are best-effort solvers fed by trusted producers); Validate is the
// entry point for checking externally supplied arrangements before they are
// persisted.
func (a Arrangement) Validate(columns int) error {
	seen := make(map[string]bool, len(a))
	for i, p := range a {
		if p.ID == "" {
			return ErrInvalidPlacementID
		}
		if seen[p.ID] {
			return ErrDuplicatePlacementID
		}
		seen[p.ID] = true
		if p.W < 1 || p.H < 1 {
			return ErrInvalidSize
		}
		if p.X < 0 || p.Y < 0 || p.X+p.W > columns {
			return ErrOutOfBounds
		}
		for _, q := range a[:i] {
			if p.Intersects(q) {
				return ErrOverlap
			}
		}
	}
	return nil
}

// LockStates returns a lookup from placement ID to lock flag. The result is
// what [DeriveBreakpoint] expects as its lock-state argument, so derived
// arrangements stamp flags from the canonical data rather than from
// whatever survived the geometric transform.
func LockStates(a Arrangement) map[string]bool {
	m := make(map[string]bool, len(a))
	for _, p := range a {
		m[p.ID] = p.Locked
	}
	return m
}

// sortByPosition orders placements top-to-bottom, then left-to-right.
// The sort is stable so equal positions keep their input order, which in
// turn keeps placement priority deterministic.
func sortByPosition(a Arrangement) {
	sort.SliceStable(a, func(i, j int) bool {
		if a[i].Y != a[j].Y {
			return a[i].Y < a[j].Y
		}
		return a[i].X < a[j].X
	})
}
