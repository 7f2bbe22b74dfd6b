// Package focus is Component E: the stateless focus actualizer. Whenever a
// cell's topology changes, its neighborhood's prior inference may have gone
// stale; Actualize repromotes REDUCED/PROCESSED neighbors back to
// TO_REDUCE/TO_PROCESS so the reducer and CSP revisit them next pass.
package focus

import (
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

// Actualize takes the set of coordinates whose solver_status just changed to
// one of {ACTIVE, SOLVED, MINE, TO_VISUALIZE} and returns an upsert
// repromoting their neighbors' stale focus. Same inputs always
// produce the same output; the function holds no state between calls.
func Actualize(snap storage.Snapshot, changed []model.Coord) *model.Upsert {
	out := model.NewUpsert()
	visited := make(map[model.Coord]struct{})

	for _, c := range changed {
		for _, n := range snap.Neighbors8(c) {
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}

			cell, ok := snap.Cell(n)
			if !ok {
				continue
			}

			switch {
			case cell.SolverStatus == model.StatusActive && cell.ActiveFocus == model.FocusReduced:
				cell.ActiveFocus = model.FocusToReduce
				out.Put(cell)
			case cell.SolverStatus == model.StatusFrontier && cell.FrontierFocus == model.FrontierProcessed:
				cell.FrontierFocus = model.FrontierToProcess
				out.Put(cell)
			}
		}
	}

	return out
}
