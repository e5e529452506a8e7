package grid

// DeriveBreakpoint derives one target breakpoint's collision-free
// arrangement from the canonical arrangement.
//
// The canonical placements are rescaled from sourceCols to targetCols (see
// scaleToColumns), re-sorted top-to-bottom then left-to-right, and resolved
// one by one against a fresh [Occupancy]: each placement takes its
// preferred cell when free, otherwise the best position the search finds,
// and is claimed immediately so earlier items keep priority over later
// ones.
//
// locked maps placement IDs to the canonical lock flag and is stamped onto
// the output directly - the geometric transform does not carry the flag
// reliably, so it is always reapplied from canonical data. A nil map means
// "take the flags from canonical" (see [LockStates]).
func DeriveBreakpoint(canonical Arrangement, sourceCols, targetCols int, locked map[string]bool) Arrangement {
	if locked == nil {
		locked = LockStates(canonical)
	}

	scaled := scaleToColumns(canonical, sourceCols, targetCols)
	sortByPosition(scaled)

	occ := NewOccupancy(targetCols)
	out := make(Arrangement, 0, len(scaled))
	for _, p := range scaled {
		p.X, p.Y = occ.BestPosition(p.X, p.Y, p.W, p.H)
		occ.Occupy(p.X, p.Y, p.W, p.H)
		p.Locked = locked[p.ID]
		out = append(out, p)
	}
	return out
}

// DeriveAll derives an arrangement for every profile in the set, keyed by
// profile name.
//
// The canonical profile (largest column count) is an identity pass: the
// canonical arrangement is returned as-is apart from lock stamping. Every
// other profile is derived independently, straight from the canonical
// arrangement - derivations never cascade from another derived breakpoint,
// so a narrow breakpoint cannot inherit a wider one's compromises.
//
// An empty profile set yields an empty map.
func DeriveAll(canonical Arrangement, profiles ProfileSet) map[string]Arrangement {
	out := make(map[string]Arrangement, len(profiles))
	if len(profiles) == 0 {
		return out
	}

	cp := profiles.Canonical()
	locked := LockStates(canonical)

	for _, p := range profiles {
		if p.Name == cp.Name {
			identity := canonical.Clone()
			for i := range identity {
				identity[i].Locked = locked[identity[i].ID]
			}
			out[p.Name] = identity
			continue
		}
		out[p.Name] = DeriveBreakpoint(canonical, cp.Columns, p.Columns, locked)
	}
	return out
}
