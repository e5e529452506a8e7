package grid

// Compact closes vertical gaps in an arrangement: every placement moves as
// far up as it can without colliding with already-compacted items,
// processed top-to-bottom then left-to-right so upper items settle first.
//
// Each placement first tries to slide straight up at its existing x,
// one row at a time while the footprint stays free. When even its original
// cell is blocked (an earlier item settled there), it falls back to the
// full top-left-priority search of [Occupancy.BestPosition].
//
// The result is ordered by final (y, x) position, so compacting an
// already gap-free arrangement returns it unchanged and a second pass is
// a no-op. Compact is independent of breakpoint derivation; it reuses
// the same occupancy primitive but is not part of the derivation path.
func Compact(items Arrangement, columns int) Arrangement {
	sorted := items.Clone()
	sortByPosition(sorted)

	occ := NewOccupancy(columns)
	out := make(Arrangement, 0, len(sorted))
	for _, p := range sorted {
		if occ.CanPlace(p.X, p.Y, p.W, p.H) {
			for p.Y > 0 && occ.CanPlace(p.X, p.Y-1, p.W, p.H) {
				p.Y--
			}
		} else {
			p.X, p.Y = occ.BestPosition(p.X, p.Y, p.W, p.H)
		}
		occ.Occupy(p.X, p.Y, p.W, p.H)
		out = append(out, p)
	}
	sortByPosition(out)
	return out
}
