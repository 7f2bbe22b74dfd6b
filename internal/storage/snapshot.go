package storage

import "github.com/kestrelbyte/minecore/internal/model"

// Snapshot is an immutable, independent view of storage at a point in time.
// Every downstream component (analyzer, focus, frontier, reducer, segment,
// csp, action, sweep) reads from a Snapshot instead of the live Grid, so a
// long-running pipeline step never observes a write made mid-computation.
type Snapshot struct {
	cells       map[model.Coord]model.Cell
	known       map[model.Coord]struct{}
	revealed    map[model.Coord]struct{}
	active      map[model.Coord]struct{}
	frontier    map[model.Coord]struct{}
	toVisualize map[model.Coord]struct{}
}

// Cell returns the cell at coord and whether it exists.
func (s Snapshot) Cell(coord model.Coord) (model.Cell, bool) {
	c, ok := s.cells[coord]
	return c, ok
}

// Len returns the number of cells known to storage.
func (s Snapshot) Len() int {
	return len(s.cells)
}

// KnownSet returns the coordinates with solver_status other than NONE or
// OUT_OF_SCOPE.
func (s Snapshot) KnownSet() []model.Coord {
	return coordsOf(s.known)
}

// RevealedSet returns the coordinates whose logical_state is OPEN_NUMBER,
// EMPTY, or CONFIRMED_MINE.
func (s Snapshot) RevealedSet() []model.Coord {
	return coordsOf(s.revealed)
}

// ActiveSet returns the coordinates with solver_status ACTIVE that are not
// pending a visualize request.
func (s Snapshot) ActiveSet() []model.Coord {
	return coordsOf(s.active)
}

// FrontierSet returns the coordinates with solver_status FRONTIER.
func (s Snapshot) FrontierSet() []model.Coord {
	return coordsOf(s.frontier)
}

// ToVisualizeSet returns the coordinates pending a reveal request.
func (s Snapshot) ToVisualizeSet() []model.Coord {
	return coordsOf(s.toVisualize)
}

// InActiveSet, InFrontierSet, InToVisualizeSet report set membership without
// allocating a slice; prefer these in per-coordinate hot paths.
func (s Snapshot) InActiveSet(c model.Coord) bool {
	_, ok := s.active[c]
	return ok
}

func (s Snapshot) InFrontierSet(c model.Coord) bool {
	_, ok := s.frontier[c]
	return ok
}

func (s Snapshot) InToVisualizeSet(c model.Coord) bool {
	_, ok := s.toVisualize[c]
	return ok
}

// Neighbors8 returns the 8 coordinates surrounding c (Component C).
func (s Snapshot) Neighbors8(c model.Coord) [8]model.Coord {
	return model.Neighbors8(c)
}

// UnknownNeighbors returns the neighbors of c that storage has never seen.
func (s Snapshot) UnknownNeighbors(c model.Coord) []model.Coord {
	var out []model.Coord
	for _, n := range model.Neighbors8(c) {
		if _, ok := s.cells[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

func coordsOf(set map[model.Coord]struct{}) []model.Coord {
	out := make([]model.Coord, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return model.SortCoords(out)
}
