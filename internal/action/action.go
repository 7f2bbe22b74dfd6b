// Package action is Component J: converts the reducer and CSP's safe/flag/
// guess coordinates into an ordered decision batch and the upsert that
// commits those decisions (and the per-pass focus demotions) to storage.
package action

import (
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

// Input collects everything the action mapper needs from the reducer and
// CSP stages of one iteration.
type Input struct {
	Safe  []model.Coord
	Flag  []model.Coord
	Guess model.Coord
	// HasGuess reports whether Guess carries a value; CSP may produce none.
	HasGuess bool

	// ReducedActives are every ACTIVE cell the reducer/CSP processed this
	// pass that produced no further deduction for itself; demoted to
	// REDUCED.
	ReducedActives []model.Coord
	// ProcessedFrontier are every TO_PROCESS frontier cell whose component
	// was processed this pass; demoted to PROCESSED.
	ProcessedFrontier []model.Coord
}

// Result is the action mapper's output: an ordered decision batch plus the
// upsert that realizes it in storage.
type Result struct {
	Decisions []model.Action
	Upsert    *model.Upsert
}

// Run builds the decision batch and upsert for Input. Ordering
// is FLAG (all, lexicographic), then SAFE (all, lexicographic), then at most
// one GUESS.
func Run(snap storage.Snapshot, in Input) Result {
	upsert := model.NewUpsert()
	var decisions []model.Action

	flag := model.SortCoords(in.Flag)
	for _, c := range flag {
		decisions = append(decisions, model.Action{Kind: model.ActionFlag, Coord: c})
		upsert.Put(model.Cell{
			Coord:        c,
			RawState:     model.RawFlag,
			LogicalState: model.LogicalConfirmedMine,
			SolverStatus: model.StatusMine,
		})
	}

	safe := model.SortCoords(in.Safe)
	for _, c := range safe {
		decisions = append(decisions, model.Action{Kind: model.ActionSafe, Coord: c})
		putToVisualize(snap, upsert, c)
	}

	if in.HasGuess {
		decisions = append(decisions, model.Action{Kind: model.ActionGuess, Coord: in.Guess})
		putToVisualize(snap, upsert, in.Guess)
	}

	for _, a := range in.ReducedActives {
		cell, ok := snap.Cell(a)
		if !ok {
			continue
		}
		cell.ActiveFocus = model.FocusReduced
		upsert.Put(cell)
	}

	for _, f := range in.ProcessedFrontier {
		cell, ok := snap.Cell(f)
		if !ok {
			continue
		}
		cell.FrontierFocus = model.FrontierProcessed
		upsert.Put(cell)
	}

	return Result{Decisions: decisions, Upsert: upsert}
}

// putToVisualize stages the SolverStatus = TO_VISUALIZE transition for a
// safe or guess coordinate: logical_state is left UNREVEALED, focus is
// cleared, and the coordinate is queued for the vision collaborator.
func putToVisualize(snap storage.Snapshot, upsert *model.Upsert, c model.Coord) {
	cell, ok := snap.Cell(c)
	if !ok {
		cell = model.Cell{Coord: c, LogicalState: model.LogicalUnrevealed}
	}
	cell.SolverStatus = model.StatusToVisualize
	cell.ActiveFocus = model.FocusUnset
	cell.FrontierFocus = model.FrontierFocusUnset
	upsert.Put(cell)
	upsert.ToVisualizeAdd = append(upsert.ToVisualizeAdd, c)
}
