package grid

// MaxRows bounds the vertical extent tracked during one derivation pass.
// Dashboards are tens of widgets on grids a handful of rows tall, so 100
// rows is a generous practical ceiling, not an architectural limit. When a
// grid somehow exhausts it, placement degrades instead of failing (see
// [Occupancy.BestPosition]).
const MaxRows = 100

// Occupancy tracks claimed grid cells during one layout-generation pass.
// It is a MaxRows × columns boolean matrix with bounded-footprint query and
// mark operations. There is no unmark: one instance serves exactly one pass
// and is discarded afterwards. Concurrent passes must each allocate their
// own instance.
type Occupancy struct {
	columns int
	cells   []bool // row-major, MaxRows × columns
}

// NewOccupancy creates an empty occupancy matrix for a grid with the given
// column count.
func NewOccupancy(columns int) *Occupancy {
	return &Occupancy{
		columns: columns,
		cells:   make([]bool, MaxRows*columns),
	}
}

// Columns returns the column count the matrix was sized for.
func (o *Occupancy) Columns() int { return o.columns }

// CanPlace reports whether the footprint (x, y, w, h) lies inside the grid
// and covers no claimed cell.
func (o *Occupancy) CanPlace(x, y, w, h int) bool {
	if x < 0 || y < 0 || x+w > o.columns || y+h > MaxRows {
		return false
	}
	for row := y; row < y+h; row++ {
		base := row * o.columns
		for col := x; col < x+w; col++ {
			if o.cells[base+col] {
				return false
			}
		}
	}
	return true
}

// Occupy claims every cell in the footprint (x, y, w, h). Cells outside the
// grid are ignored, so the degenerate overlap fallback of
// [Occupancy.BestPosition] cannot corrupt the matrix.
func (o *Occupancy) Occupy(x, y, w, h int) {
	for row := max(y, 0); row < min(y+h, MaxRows); row++ {
		base := row * o.columns
		for col := max(x, 0); col < min(x+w, o.columns); col++ {
			o.cells[base+col] = true
		}
	}
}

// BestPosition resolves a preferred footprint to a free position:
//
//  1. The preferred cell itself, if free.
//  2. The first free fit in the same row, scanning x from 0.
//  3. The first free fit anywhere, scanning rows top to bottom and columns
//     left to right (top-left priority).
//  4. If the tracked grid is exhausted: column 0 of the first entirely
//     empty row, or (0, 0) if none exists. This last resort can silently
//     produce overlap - the solver degrades layout quality rather than
//     failing.
//
// BestPosition does not claim the returned position; callers follow up with
// [Occupancy.Occupy] so earlier items keep placement priority over later
// ones.
func (o *Occupancy) BestPosition(x, y, w, h int) (int, int) {
	if o.CanPlace(x, y, w, h) {
		return x, y
	}
	for nx := 0; nx+w <= o.columns; nx++ {
		if o.CanPlace(nx, y, w, h) {
			return nx, y
		}
	}
	for ny := 0; ny+h <= MaxRows; ny++ {
		for nx := 0; nx+w <= o.columns; nx++ {
			if o.CanPlace(nx, ny, w, h) {
				return nx, ny
			}
		}
	}
	if row, ok := o.firstEmptyRow(); ok {
		return 0, row
	}
	return 0, 0
}

// firstEmptyRow returns the index of the first row with no claimed cell.
func (o *Occupancy) firstEmptyRow() (int, bool) {
	for row := 0; row < MaxRows; row++ {
		empty := true
		base := row * o.columns
		for col := 0; col < o.columns; col++ {
			if o.cells[base+col] {
				empty = false
				break
			}
		}
		if empty {
			return row, true
		}
	}
	return 0, false
}
