// Package csp is Component I: the exact, bounded backtracking enumerator run
// over one connected component at a time. It proves safe/flag coordinates
// with certainty and, failing that, supplies mine probabilities for guess
// selection.
package csp

import (
	"sort"

	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/segment"
)

// Result is the per-component output of Enumerate.
type Result struct {
	Component     segment.Component
	Safe          []model.Coord
	Flag          []model.Coord
	Probabilities map[model.Coord]float64
	Skipped       bool
}

type constraint struct {
	vars []model.Coord
	k    int
}

// Enumerate runs the exact bounded CSP over comp's frontier cells, using
// view to read each active's effective_value and unknown_neighbors. If
// comp has more variables than maxComponentSize, enumeration is skipped
//.
func Enumerate(view *frontier.View, comp segment.Component, maxComponentSize int) Result {
	vars := orderByDegreeDescending(view, comp)

	if len(vars) > maxComponentSize {
		return Result{Component: comp, Skipped: true}
	}

	memberSet := make(map[model.Coord]struct{}, len(vars))
	for _, v := range vars {
		memberSet[v] = struct{}{}
	}

	var constraints []constraint
	for _, a := range comp.ActiveCells {
		s := make([]model.Coord, 0)
		for _, n := range view.UnknownNeighbors(a) {
			if _, ok := memberSet[n]; ok {
				s = append(s, n)
			}
		}
		if len(s) == 0 {
			continue
		}
		constraints = append(constraints, constraint{vars: s, k: view.EffectiveValue(a)})
	}

	index := make(map[model.Coord]int, len(vars))
	for i, v := range vars {
		index[v] = i
	}

	assigned := make([]int8, len(vars)) // -1 unassigned, 0, 1
	for i := range assigned {
		assigned[i] = -1
	}

	onesCount := make([]int, len(vars))
	totalValid := 0

	var backtrack func(pos int)
	backtrack = func(pos int) {
		if pos == len(vars) {
			if satisfiesAll(constraints, index, assigned) {
				totalValid++
				for i, v := range assigned {
					if v == 1 {
						onesCount[i]++
					}
				}
			}
			return
		}

		for _, val := range [2]int8{0, 1} {
			assigned[pos] = val
			if prunedOK(constraints, index, assigned) {
				backtrack(pos + 1)
			}
		}
		assigned[pos] = -1
	}

	if len(vars) > 0 {
		backtrack(0)
	} else if satisfiesAll(constraints, index, assigned) {
		totalValid = 1
	}

	return buildResult(comp, vars, onesCount, totalValid)
}

// prunedOK checks every constraint against the partial assignment: the
// mines still required must be neither negative nor more than the
// constraint's unassigned variables, so a branch is cut before it reaches a
// full assignment.
func prunedOK(constraints []constraint, index map[model.Coord]int, assigned []int8) bool {
	for _, c := range constraints {
		assignedOnes := 0
		assignedCount := 0
		for _, v := range c.vars {
			val := assigned[index[v]]
			if val == -1 {
				continue
			}
			assignedCount++
			if val == 1 {
				assignedOnes++
			}
		}
		r := c.k - assignedOnes
		u := len(c.vars) - assignedCount
		if r < 0 || r > u {
			return false
		}
	}
	return true
}

// satisfiesAll checks that every constraint is exactly met by a complete
// assignment.
func satisfiesAll(constraints []constraint, index map[model.Coord]int, assigned []int8) bool {
	for _, c := range constraints {
		ones := 0
		for _, v := range c.vars {
			if assigned[index[v]] == 1 {
				ones++
			}
		}
		if ones != c.k {
			return false
		}
	}
	return true
}

func buildResult(comp segment.Component, vars []model.Coord, onesCount []int, totalValid int) Result {
	result := Result{Component: comp, Probabilities: make(map[model.Coord]float64, len(vars))}

	if totalValid == 0 {
		// Contradictory constraints: a data condition, not a bug.
		// No safe/flag/probabilities; the affected actives stay TO_REDUCE.
		return result
	}

	for i, v := range vars {
		if onesCount[i] == totalValid {
			result.Flag = append(result.Flag, v)
			continue
		}
		if onesCount[i] == 0 {
			result.Safe = append(result.Safe, v)
			continue
		}
		result.Probabilities[v] = float64(onesCount[i]) / float64(totalValid)
	}

	result.Safe = model.SortCoords(result.Safe)
	result.Flag = model.SortCoords(result.Flag)
	return result
}

// orderByDegreeDescending returns comp's frontier cells ordered by the
// number of constraints (active cells) they appear in, descending, with a
// lexicographic coordinate tie-break.
func orderByDegreeDescending(view *frontier.View, comp segment.Component) []model.Coord {
	degree := make(map[model.Coord]int, len(comp.FrontierCells))
	for _, c := range comp.FrontierCells {
		degree[c] = len(view.ConstraintsFor(c))
	}

	vars := make([]model.Coord, len(comp.FrontierCells))
	copy(vars, comp.FrontierCells)

	sort.Slice(vars, func(i, j int) bool {
		if degree[vars[i]] != degree[vars[j]] {
			return degree[vars[i]] > degree[vars[j]]
		}
		return vars[i].Less(vars[j])
	})

	return vars
}

// SelectGuess picks, across every non-skipped component result, the
// coordinate with the lowest non-zero probability of being a mine, with a
// lexicographic coordinate tie-break. Returns
// false if no probability data is available anywhere.
func SelectGuess(results []Result) (model.Coord, bool) {
	var best model.Coord
	found := false
	bestProb := 1.0

	for _, r := range results {
		coords := make([]model.Coord, 0, len(r.Probabilities))
		for c := range r.Probabilities {
			coords = append(coords, c)
		}
		for _, c := range model.SortCoords(coords) {
			p := r.Probabilities[c]
			if p <= 0 {
				continue
			}
			if !found || p < bestProb || (p == bestProb && c.Less(best)) {
				best = c
				bestProb = p
				found = true
			}
		}
	}

	return best, found
}
