package grid

import "math"

// scaleToColumns rescales an arrangement from sourceCols to targetCols,
// row by row. Placements sharing a Y coordinate form a row; each row is
// re-laid left to right with a running cursor and proportionally scaled
// widths.
//
// Widths come from cumulative scaled edges: each item spans from the
// scaled position of the width consumed before it to the scaled position
// including it, so per-item rounding never accumulates across a row. Two
// anchoring rules absorb the residual error into the rightmost item:
//
//   - Full-span rule: if the row originally filled the entire source width,
//     its last item is stretched to consume every remaining target column.
//   - Right-edge rule: an item that touched the source grid's right edge is
//     likewise stretched to the target grid's right edge, even when its row
//     did not fully span.
//
// Together they guarantee that any row flush with the right edge at the
// source width is flush at the target width, with no gap and no overflow.
//
// The result can still collide across rows (different rows shrink by
// different amounts); callers resolve that with [Occupancy.BestPosition].
func scaleToColumns(items Arrangement, sourceCols, targetCols int) Arrangement {
	if sourceCols == targetCols {
		return items.Clone()
	}

	sorted := items.Clone()
	sortByPosition(sorted)

	out := make(Arrangement, 0, len(sorted))
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Y == sorted[start].Y {
			end++
		}
		row := sorted[start:end]

		first, last := row[0], row[len(row)-1]
		fullSpan := first.X == 0 && last.X+last.W == sourceCols

		cx := 0
		sw := 0
		for i, p := range row {
			sw += p.W
			var w int
			switch {
			case fullSpan && i == len(row)-1:
				w = targetCols - cx
			case p.X+p.W == sourceCols:
				w = targetCols - cx
			default:
				w = scaleOffset(sw, sourceCols, targetCols) - cx
				if w > targetCols-cx {
					w = targetCols - cx
				}
			}
			if w < 1 {
				// A row with more items than target columns: keep every
				// widget at least one cell wide and let conflict search
				// sort out the spillover.
				w = 1
			}
			p.X = cx
			p.W = w
			out = append(out, p)
			cx += w
		}
		start = end
	}
	return out
}

// scaleSpan proportionally rescales a width between column counts,
// rounding to the nearest cell and never dropping below one.
func scaleSpan(w, sourceCols, targetCols int) int {
	scaled := int(math.Round(float64(w) / float64(sourceCols) * float64(targetCols)))
	return max(1, scaled)
}

// scaleOffset proportionally rescales an x coordinate between column
// counts, rounding to the nearest cell.
func scaleOffset(x, sourceCols, targetCols int) int {
	return int(math.Round(float64(x) / float64(sourceCols) * float64(targetCols)))
}
