// Package pipeline is Component L: the single sequential orchestrator that
// runs one game iteration end to end and performs the one consolidated
// storage commit the whole core is built around.
package pipeline

import (
	"context"

	"github.com/kestrelbyte/minecore/internal/action"
	"github.com/kestrelbyte/minecore/internal/analyzer"
	"github.com/kestrelbyte/minecore/internal/config"
	"github.com/kestrelbyte/minecore/internal/csp"
	"github.com/kestrelbyte/minecore/internal/focus"
	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/logx"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/reducer"
	"github.com/kestrelbyte/minecore/internal/segment"
	"github.com/kestrelbyte/minecore/internal/stats"
	"github.com/kestrelbyte/minecore/internal/storage"
	"github.com/kestrelbyte/minecore/internal/sweep"
)

// changeTrackedStatuses are the SolverStatus values the focus actualizer
// cares about when deciding whose neighborhood to repromote.
var changeTrackedStatuses = map[model.SolverStatus]struct{}{
	model.StatusActive:      {},
	model.StatusSolved:      {},
	model.StatusMine:        {},
	model.StatusToVisualize: {},
}

// Orchestrator owns the committed Grid and runs iterations against it. It is
// the only writer of that Grid.
type Orchestrator struct {
	grid   *storage.Grid
	cfg    config.SolverConfig
	stats  *stats.Provider
	logger *logx.Logger
}

// New builds an Orchestrator over grid. grid must not be mutated by any
// other caller once an Orchestrator owns it.
func New(grid *storage.Grid, cfg config.SolverConfig, statsProvider *stats.Provider, logger *logx.Logger) *Orchestrator {
	if statsProvider == nil {
		statsProvider = stats.NewProvider()
	}
	if logger == nil {
		logger = logx.Default()
	}
	return &Orchestrator{grid: grid, cfg: cfg, stats: statsProvider, logger: logger}
}

// IterationResult is run_iteration's return value: the decision batch plus
// this iteration's stats snapshot.
type IterationResult struct {
	Decisions []model.Action
	Stats     stats.Snapshot
}

// RunIteration is the core's single public entry point. Storage
// is mutated exactly once, in the final step, regardless of how many
// intermediate phases ran.
func (o *Orchestrator) RunIteration(ctx context.Context, observationBatch []ObservationEntry) (IterationResult, error) {
	observationUpsert, err := buildObservationUpsert(observationBatch)
	if err != nil {
		return IterationResult{}, err
	}

	// Step 1: seed the exclusively-owned runtime snapshot from committed storage.
	runtime := storage.FromSnapshot(o.grid.Snapshot())
	final := model.NewUpsert()

	// Step 2: apply observation_batch to runtime.
	runtime.ApplyUpsert(observationUpsert)
	final.Merge(observationUpsert)

	// Step 3: State Analyzer.
	analyzerUpsert := analyzer.Run(runtime.Snapshot())
	runtime.ApplyUpsert(analyzerUpsert)
	final.Merge(analyzerUpsert)

	// Step 4: Focus Actualizer over coordinates whose topology just changed.
	changed := filterByStatus(analyzerUpsert, changeTrackedStatuses)
	focusUpsert := focus.Actualize(runtime.Snapshot(), changed)
	runtime.ApplyUpsert(focusUpsert)
	final.Merge(focusUpsert)

	// Step 5: Frontier view + Reducer.
	beforeReduce := runtime.Snapshot()
	view := frontier.New(beforeReduce, frontier.FilterAll)
	reducerResult := reducer.Run(beforeReduce, view)
	runtime.ApplyUpsert(reducerResult.Upsert)
	final.Merge(reducerResult.Upsert)

	safe := append([]model.Coord{}, reducerResult.Safe...)
	flag := append([]model.Coord{}, reducerResult.Flag...)
	reducedActives := append([]model.Coord{}, reducerResult.ReducedActives...)
	var processedFrontier []model.Coord
	var cspResults []csp.Result

	// Step 6: Segmentation + CSP over any remaining TO_PROCESS frontier cells.
	toProcessView := frontier.New(runtime.Snapshot(), frontier.FilterToProcess)
	if len(toProcessView.FrontierCells()) > 0 {
		components := segment.Build(toProcessView)
		for _, comp := range components {
			result := csp.Enumerate(toProcessView, comp, o.cfg.MaxComponentSize)
			cspResults = append(cspResults, result)

			if result.Skipped {
				o.stats.RecordComponentSkipped(ctx)
				continue
			}
			o.stats.RecordComponentEnumerated(ctx)
			if len(result.Safe) == 0 && len(result.Flag) == 0 && len(result.Probabilities) == 0 {
				o.stats.RecordContradiction(ctx)
				continue
			}

			safe = append(safe, result.Safe...)
			flag = append(flag, result.Flag...)
			processedFrontier = append(processedFrontier, comp.FrontierCells...)
		}

		componentUpsert := demoteComponentCells(runtime.Snapshot(), processedFrontier)
		runtime.ApplyUpsert(componentUpsert)
		final.Merge(componentUpsert)
	}

	// Step 7: Focus Actualizer again over coordinates whose solver_status
	// changed across steps 5-6.
	afterReduce := runtime.Snapshot()
	changed2 := diffSolverStatus(beforeReduce, afterReduce)
	focusUpsert2 := focus.Actualize(afterReduce, changed2)
	runtime.ApplyUpsert(focusUpsert2)
	final.Merge(focusUpsert2)

	// Step 8: Action Mapper.
	var guessCoord model.Coord
	hasGuess := false
	if len(safe) == 0 && len(flag) == 0 && o.cfg.AllowGuess {
		if g, ok := csp.SelectGuess(cspResults); ok {
			guessCoord = g
			hasGuess = true
		}
	}

	actionResult := action.Run(runtime.Snapshot(), action.Input{
		Safe:              model.SortCoords(safe),
		Flag:              model.SortCoords(flag),
		Guess:             guessCoord,
		HasGuess:          hasGuess,
		ReducedActives:    reducedActives,
		ProcessedFrontier: processedFrontier,
	})
	runtime.ApplyUpsert(actionResult.Upsert)
	final.Merge(actionResult.Upsert)

	decisions := actionResult.Decisions

	// Step 9: Sweep.
	if o.cfg.EnableSweep {
		decisions = append(decisions, sweep.Run(runtime.Snapshot())...)
	}

	// Step 10: the one consolidated commit.
	o.grid.ApplyUpsert(final)
	o.stats.RecordIterationRun(ctx)
	o.stats.RecordCellsCommitted(ctx, len(final.Cells))

	return IterationResult{Decisions: decisions, Stats: o.stats.Snapshot(ctx)}, nil
}

// filterByStatus returns the coordinates in u whose written cell's
// SolverStatus is in statuses.
func filterByStatus(u *model.Upsert, statuses map[model.SolverStatus]struct{}) []model.Coord {
	var out []model.Coord
	for coord, cell := range u.Cells {
		if _, ok := statuses[cell.SolverStatus]; ok {
			out = append(out, coord)
		}
	}
	return out
}

// diffSolverStatus returns coordinates whose SolverStatus differs between
// before and after.
func diffSolverStatus(before, after storage.Snapshot) []model.Coord {
	var out []model.Coord
	for _, coord := range after.KnownSet() {
		afterCell, _ := after.Cell(coord)
		beforeCell, ok := before.Cell(coord)
		if !ok || beforeCell.SolverStatus != afterCell.SolverStatus {
			out = append(out, coord)
		}
	}
	return out
}

// demoteComponentCells builds the upsert that demotes every active
// constraining a processed frontier cell to REDUCED and every processed
// frontier cell to PROCESSED.
func demoteComponentCells(snap storage.Snapshot, processedFrontier []model.Coord) *model.Upsert {
	out := model.NewUpsert()
	seenActives := make(map[model.Coord]struct{})

	view := frontier.New(snap, frontier.FilterAll)
	for _, f := range processedFrontier {
		cell, ok := snap.Cell(f)
		if ok {
			cell.FrontierFocus = model.FrontierProcessed
			out.Put(cell)
		}
		for _, a := range view.ConstraintsFor(f) {
			if _, seen := seenActives[a]; seen {
				continue
			}
			seenActives[a] = struct{}{}
			if ac, ok := snap.Cell(a); ok {
				ac.ActiveFocus = model.FocusReduced
				out.Put(ac)
			}
		}
	}

	return out
}
