// Package sweep is Component K: a bonus pass that proposes chord-style SAFE
// actions the game engine may resolve for free, without mutating storage.
package sweep

import (
	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

// Run returns bonus SAFE actions for the ACTIVE 8-neighbors of every cell
// currently in to_visualize_set whose effective_value > 0. It is
// purely a read over snap and never produces an upsert.
func Run(snap storage.Snapshot) []model.Action {
	view := frontier.New(snap, frontier.FilterAll)

	var actions []model.Action
	seen := make(map[model.Coord]struct{})

	for _, c := range snap.ToVisualizeSet() {
		for _, n := range snap.Neighbors8(c) {
			cell, ok := snap.Cell(n)
			if !ok || cell.SolverStatus != model.StatusActive {
				continue
			}
			if view.EffectiveValue(n) <= 0 {
				continue
			}
			if _, already := seen[n]; already {
				continue
			}
			seen[n] = struct{}{}
			actions = append(actions, model.Action{Kind: model.ActionSafe, Coord: n})
		}
	}

	return sortActions(actions)
}

func sortActions(actions []model.Action) []model.Action {
	coords := make([]model.Coord, len(actions))
	for i, a := range actions {
		coords[i] = a.Coord
	}
	sorted := model.SortCoords(coords)

	out := make([]model.Action, len(sorted))
	for i, c := range sorted {
		out[i] = model.Action{Kind: model.ActionSafe, Coord: c}
	}
	return out
}
