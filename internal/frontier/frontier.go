// Package frontier is Component F: a read-only projection of a storage
// snapshot exposing the frontier cells and the active-cell constraints that
// bound them. Reducer, segmentation, and CSP all read through a View rather
// than the raw snapshot.
package frontier

import (
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

// Filter selects which frontier cells View exposes.
type Filter int

const (
	// FilterAll includes every cell in frontier_set.
	FilterAll Filter = iota
	// FilterToProcess includes only frontier_focus = TO_PROCESS cells.
	FilterToProcess
)

// View is a read-only projection over a storage snapshot.
type View struct {
	snap  storage.Snapshot
	cells []model.Coord
}

// New builds a View over snap, filtered per filter.
func New(snap storage.Snapshot, filter Filter) *View {
	var cells []model.Coord
	for _, c := range snap.FrontierSet() {
		if filter == FilterAll {
			cells = append(cells, c)
			continue
		}
		cell, ok := snap.Cell(c)
		if ok && cell.FrontierFocus == model.FrontierToProcess {
			cells = append(cells, c)
		}
	}
	return &View{snap: snap, cells: cells}
}

// FrontierCells returns the filtered coordinates, lexicographically sorted.
func (v *View) FrontierCells() []model.Coord {
	return v.cells
}

// ConstraintsFor returns the 8-neighbors of c currently classified ACTIVE.
func (v *View) ConstraintsFor(c model.Coord) []model.Coord {
	var out []model.Coord
	for _, n := range v.snap.Neighbors8(c) {
		cell, ok := v.snap.Cell(n)
		if ok && cell.SolverStatus == model.StatusActive {
			out = append(out, n)
		}
	}
	return out
}

// EffectiveValue returns number_value(a) minus the count of 8-neighbors of a
// currently classified MINE.
func (v *View) EffectiveValue(a model.Coord) int {
	cell, ok := v.snap.Cell(a)
	if !ok || cell.NumberValue == nil {
		return 0
	}
	value := *cell.NumberValue
	for _, n := range v.snap.Neighbors8(a) {
		nc, ok := v.snap.Cell(n)
		if ok && nc.SolverStatus == model.StatusMine {
			value--
		}
	}
	return value
}

// UnknownNeighbors returns the 8-neighbors of a whose logical_state is
// UNREVEALED and that are not pending a visualize request.
func (v *View) UnknownNeighbors(a model.Coord) []model.Coord {
	var out []model.Coord
	for _, n := range v.snap.Neighbors8(a) {
		cell, ok := v.snap.Cell(n)
		if !ok {
			continue
		}
		if cell.LogicalState == model.LogicalUnrevealed && !v.snap.InToVisualizeSet(n) {
			out = append(out, n)
		}
	}
	return out
}

// ActiveCells returns every coordinate in active_set (ACTIVE and not pending
// a visualize request): the cells whose constraints the reducer and CSP use.
func (v *View) ActiveCells() []model.Coord {
	return v.snap.ActiveSet()
}
