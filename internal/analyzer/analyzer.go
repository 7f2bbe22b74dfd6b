// Package analyzer is Component D: the sole authority for topological
// solver_status. It reclassifies cells the vision collaborator tagged
// JUST_VISUALIZED and initializes their focus; it never touches any other
// cell.
package analyzer

import (
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

// Run reclassifies every JUST_VISUALIZED cell in snap and returns the upsert
// that applies the new classification. Cells not tagged JUST_VISUALIZED are
// left untouched.
func Run(snap storage.Snapshot) *model.Upsert {
	out := model.NewUpsert()

	for _, coord := range snap.KnownSet() {
		cell, ok := snap.Cell(coord)
		if !ok || cell.SolverStatus != model.StatusJustVisualized {
			continue
		}
		out.Put(classify(snap, cell))
	}

	return out
}

func classify(snap storage.Snapshot, cell model.Cell) model.Cell {
	switch {
	case cell.LogicalState == model.LogicalConfirmedMine:
		cell.SolverStatus = model.StatusMine
		cell.ActiveFocus = model.FocusUnset
		cell.FrontierFocus = model.FrontierFocusUnset

	case cell.LogicalState == model.LogicalOpenNumber && hasUnrevealedNeighbor(snap, cell.Coord):
		cell.SolverStatus = model.StatusActive
		cell.ActiveFocus = model.FocusToReduce
		cell.FrontierFocus = model.FrontierFocusUnset

	case cell.LogicalState == model.LogicalOpenNumber:
		cell.SolverStatus = model.StatusSolved
		cell.ActiveFocus = model.FocusUnset
		cell.FrontierFocus = model.FrontierFocusUnset

	case cell.LogicalState == model.LogicalEmpty:
		cell.SolverStatus = model.StatusSolved
		cell.ActiveFocus = model.FocusUnset
		cell.FrontierFocus = model.FrontierFocusUnset

	case cell.LogicalState == model.LogicalUnrevealed && hasActiveNeighbor(snap, cell.Coord):
		cell.SolverStatus = model.StatusFrontier
		cell.FrontierFocus = model.FrontierToProcess
		cell.ActiveFocus = model.FocusUnset

	default: // UNREVEALED, no ACTIVE neighbor
		cell.SolverStatus = model.StatusNone
		cell.ActiveFocus = model.FocusUnset
		cell.FrontierFocus = model.FrontierFocusUnset
	}

	return cell
}

// hasUnrevealedNeighbor reports whether coord has at least one 8-neighbor
// whose logical_state is UNREVEALED. Missing neighbors (grid edge) are
// treated as unknown, never as UNREVEALED.
func hasUnrevealedNeighbor(snap storage.Snapshot, coord model.Coord) bool {
	for _, n := range snap.Neighbors8(coord) {
		nc, ok := snap.Cell(n)
		if ok && nc.LogicalState == model.LogicalUnrevealed {
			return true
		}
	}
	return false
}

// hasActiveNeighbor reports whether coord has at least one 8-neighbor
// currently classified ACTIVE.
func hasActiveNeighbor(snap storage.Snapshot, coord model.Coord) bool {
	for _, n := range snap.Neighbors8(coord) {
		nc, ok := snap.Cell(n)
		if ok && nc.SolverStatus == model.StatusActive {
			return true
		}
	}
	return false
}
