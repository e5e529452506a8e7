package grid

// Normalize maps an arrangement edited at a non-canonical breakpoint back
// into canonical column coordinates so the edit can be persisted.
//
// Widths and x positions are proportionally rescaled and clamped into the
// canonical grid; a width never drops below one cell, and x is clamped so
// the placement stays inside the right edge. Y and H pass through
// unchanged - the vertical axis is breakpoint-independent.
//
// Normalize performs no collision resolution: an edit that is valid at a
// narrow breakpoint can, after rescaling, overlap in canonical space.
// Callers that persist the result should run it through [Compact] first
// (the layouts service does exactly that).
func Normalize(edited Arrangement, sourceCols, canonicalCols int) Arrangement {
	out := make(Arrangement, 0, len(edited))
	for _, p := range edited {
		w := scaleSpan(p.W, sourceCols, canonicalCols)
		if w > canonicalCols {
			w = canonicalCols
		}
		x := scaleOffset(p.X, sourceCols, canonicalCols)
		if x < 0 {
			x = 0
		}
		if x > canonicalCols-w {
			x = canonicalCols - w
		}
		p.X = x
		p.W = w
		out = append(out, p)
	}
	return out
}
