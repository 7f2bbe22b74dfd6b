// Package storage is the sparse cell map plus its five derived index sets,
// with invariant enforcement on every write and neighbor enumeration.
//
// Storage is the only component that owns the cell map. Every
// other component reads a Snapshot — an immutable value safe to hold across
// goroutines, guarded by a mutex for writers and handed out as plain maps to
// readers.
package storage

import (
	"sync"

	"github.com/kestrelbyte/minecore/internal/model"
)

// Grid is the storage component. Zero value is not usable; use New.
type Grid struct {
	mu          sync.RWMutex
	cells       map[model.Coord]model.Cell
	known       map[model.Coord]struct{}
	revealed    map[model.Coord]struct{}
	active      map[model.Coord]struct{}
	frontier    map[model.Coord]struct{}
	toVisualize map[model.Coord]struct{}
}

// New returns an empty Grid.
func New() *Grid {
	return &Grid{
		cells:       make(map[model.Coord]model.Cell),
		known:       make(map[model.Coord]struct{}),
		revealed:    make(map[model.Coord]struct{}),
		active:      make(map[model.Coord]struct{}),
		frontier:    make(map[model.Coord]struct{}),
		toVisualize: make(map[model.Coord]struct{}),
	}
}

// FromSnapshot builds a new, independent Grid seeded with snap's cells and
// to_visualize_set, with the four auto-sets recomputed from scratch. The
// pipeline orchestrator uses this to give each run_iteration call its own
// exclusively-owned mutable runtime snapshot, distinct from
// the shared committed Grid.
func FromSnapshot(snap Snapshot) *Grid {
	g := New()
	for coord, cell := range snap.cells {
		g.cells[coord] = cell.Clone()
	}
	for _, coord := range snap.ToVisualizeSet() {
		g.toVisualize[coord] = struct{}{}
	}
	for coord := range g.cells {
		g.recompute(coord)
	}
	return g
}

// ApplyUpsert is the only way to mutate storage. It:
//
//  1. validates the cell-consistency invariants on every written cell,
//     panicking with *InvariantError on the first violation (fatal
//     precondition failure — not recoverable);
//  2. writes the cells;
//  3. applies explicit to_visualize_set add/remove (unknown coordinates in
//     remove are silently ignored);
//  4. recomputes known_set, revealed_set, active_set, frontier_set over the
//     touched region — the written coordinates and their 8-neighbors only.
func (g *Grid) ApplyUpsert(u *model.Upsert) {
	if u == nil || u.IsEmpty() {
		return
	}

	for _, c := range u.Cells {
		if err := validateCell(c); err != nil {
			panic(&InvariantError{Coord: c.Coord, Err: err})
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	touched := make(map[model.Coord]struct{}, len(u.Cells)*9)
	for coord, c := range u.Cells {
		g.cells[coord] = c
		touched[coord] = struct{}{}
		for _, n := range model.Neighbors8(coord) {
			touched[n] = struct{}{}
		}
	}

	for _, coord := range u.ToVisualizeAdd {
		g.toVisualize[coord] = struct{}{}
	}
	for _, coord := range u.ToVisualizeRemove {
		delete(g.toVisualize, coord) // missing coordinate: silently ignored
	}

	for coord := range touched {
		g.recompute(coord)
	}
}

// recompute re-derives which of the four auto-sets coord belongs to, per the
// current cell state. Must be called with g.mu held for writing.
func (g *Grid) recompute(coord model.Coord) {
	cell, ok := g.cells[coord]
	if !ok {
		delete(g.known, coord)
		delete(g.revealed, coord)
		delete(g.active, coord)
		delete(g.frontier, coord)
		return
	}

	if cell.SolverStatus != model.StatusNone && cell.SolverStatus != model.StatusOutOfScope {
		g.known[coord] = struct{}{}
	} else {
		delete(g.known, coord)
	}

	switch cell.LogicalState {
	case model.LogicalOpenNumber, model.LogicalEmpty, model.LogicalConfirmedMine:
		g.revealed[coord] = struct{}{}
	default:
		delete(g.revealed, coord)
	}

	if cell.SolverStatus == model.StatusActive {
		if _, inToVisualize := g.toVisualize[coord]; !inToVisualize {
			g.active[coord] = struct{}{}
		} else {
			delete(g.active, coord)
		}
	} else {
		delete(g.active, coord)
	}

	if cell.SolverStatus == model.StatusFrontier {
		g.frontier[coord] = struct{}{}
	} else {
		delete(g.frontier, coord)
	}
}

// Snapshot returns a read-only, independent view of the current state.
func (g *Grid) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return Snapshot{
		cells:       copyCells(g.cells),
		known:       copyCoordSet(g.known),
		revealed:    copyCoordSet(g.revealed),
		active:      copyCoordSet(g.active),
		frontier:    copyCoordSet(g.frontier),
		toVisualize: copyCoordSet(g.toVisualize),
	}
}

// Neighbors returns the 8 coordinates surrounding (x, y). Callers filter by
// set membership on a Snapshot as needed.
func Neighbors(c model.Coord) [8]model.Coord {
	return model.Neighbors8(c)
}

func copyCells(in map[model.Coord]model.Cell) map[model.Coord]model.Cell {
	out := make(map[model.Coord]model.Cell, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}

func copyCoordSet(in map[model.Coord]struct{}) map[model.Coord]struct{} {
	out := make(map[model.Coord]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
