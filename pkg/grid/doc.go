// Package grid derives responsive grid layouts for dashboard widgets.
//
// # Overview
//
// Stacklume stores exactly one arrangement per dashboard: the canonical
// arrangement, expressed in the column space of the widest configured
// breakpoint. Every narrower breakpoint's arrangement is a derived view,
// recomputed on demand and never persisted. This package owns both
// directions of that mapping:
//
//   - [DeriveAll] turns the canonical arrangement into one collision-free
//     arrangement per configured breakpoint.
//   - [Normalize] maps an arrangement edited at a narrower breakpoint back
//     into canonical column coordinates so it can be persisted.
//
// A companion routine, [Compact], closes vertical gaps in an arrangement
// without reordering it.
//
// # Coordinate Model
//
// All geometry is in abstract grid-cell units. A [Placement] occupies the
// half-open cell rectangle [X, X+W) × [Y, Y+H). Rows are unbounded in
// principle; the derivation pass tracks occupancy up to [MaxRows] rows,
// which is a generous practical ceiling rather than a hard limit. The
// vertical axis is never rescaled across breakpoints - only widths and
// horizontal positions change with the column count.
//
// # Derivation
//
// Deriving a breakpoint is a two-stage process. First the canonical
// arrangement is rescaled row by row: each row's widgets keep their order
// and are re-laid left to right with proportionally scaled widths, with two
// anchoring rules that keep rows flush with the right edge (naive rounding
// would otherwise leave one-cell gaps or overflow). Second, because
// row-local rescaling can still collide across rows once everything lands
// on a smaller grid, each placement is resolved against an occupancy
// matrix: its preferred cell first, then the same row, then a full
// top-left-priority scan.
//
// The solver is best-effort by design. It never returns an error; when the
// grid is genuinely exhausted it degrades to overlapping placements rather
// than failing (see [Occupancy]).
//
// # Locked Widgets
//
// A locked placement is excluded from automatic rearrangement heuristics by
// the editing client; its geometry is still rescaled like any other widget.
// The lock flag does not survive the geometric transform reliably, so the
// generator stamps it from a canonical lookup passed in by the caller.
//
// # Concurrency
//
// Every function in this package is a pure function of its arguments: no
// package state, no retained allocations. Per-breakpoint derivations may
// run concurrently as long as each call keeps its own [Occupancy] instance,
// which [DeriveBreakpoint] always allocates internally.
package grid
