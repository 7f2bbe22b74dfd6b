// Package reducer is Component G: the deterministic local constraint
// propagation stage (R1 trivial-zero, R2 trivial-full, R3 subset inference)
// run over ACTIVE cells with active_focus = TO_REDUCE.
package reducer

import (
	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

// decision tags a coordinate as deduced safe or flag during this reducer
// run; it is purely local bookkeeping so that one deduction can feed the
// next within the same fixed-point loop, before anything commits to storage.
type decision int

const (
	undecided decision = iota
	decidedSafe
	decidedFlag
)

// Result is the output of one reducer run.
type Result struct {
	Safe           []model.Coord
	Flag           []model.Coord
	ReducedActives []model.Coord
	Upsert         *model.Upsert
}

// constraint is the local working copy of one active cell's bookkeeping:
// which of its original unknown neighbors remain undecided, and how many of
// those must still be mines.
type constraint struct {
	coord      model.Coord
	unresolved map[model.Coord]struct{}
	remaining  int
}

// Run propagates R1/R2 to a fixed point, then applies R3 once over every
// pair of actives sharing an unknown neighbor, repeating until a full pass
// yields no new deduction. Each pass re-examines all such pairs, not only
// those touching cells decided in the previous pass.
func Run(snap storage.Snapshot, view *frontier.View) Result {
	actives := toReduceActives(snap, view)

	decided := make(map[model.Coord]decision)
	constraints := make(map[model.Coord]*constraint, len(actives))
	reverseIndex := make(map[model.Coord][]model.Coord)

	for _, a := range actives {
		un := view.UnknownNeighbors(a)
		c := &constraint{
			coord:      a,
			unresolved: make(map[model.Coord]struct{}, len(un)),
			remaining:  view.EffectiveValue(a),
		}
		for _, n := range un {
			c.unresolved[n] = struct{}{}
			reverseIndex[n] = append(reverseIndex[n], a)
		}
		constraints[a] = c
	}

	for {
		changed := applyR1R2(constraints, decided)
		changed = applyR3(actives, constraints, decided, reverseIndex) || changed
		if !changed {
			break
		}
	}

	return buildResult(snap, actives, decided)
}

// toReduceActives returns ACTIVE cells with active_focus = TO_REDUCE, in
// lexicographic order (deterministic iteration for reproducible output).
func toReduceActives(snap storage.Snapshot, view *frontier.View) []model.Coord {
	var out []model.Coord
	for _, a := range view.ActiveCells() {
		cell, ok := snap.Cell(a)
		if ok && cell.ActiveFocus == model.FocusToReduce {
			out = append(out, a)
		}
	}
	return model.SortCoords(out)
}

// applyR1R2 runs trivial-zero and trivial-full to a fixed point, returning
// whether any new decision was made.
func applyR1R2(constraints map[model.Coord]*constraint, decided map[model.Coord]decision) bool {
	any := false
	for {
		progressed := false
		for _, c := range constraints {
			if len(c.unresolved) == 0 {
				continue
			}
			switch {
			case c.remaining == 0:
				decideAll(c, constraints, decided, decidedSafe)
				progressed = true
			case c.remaining == len(c.unresolved):
				decideAll(c, constraints, decided, decidedFlag)
				progressed = true
			}
		}
		if !progressed {
			break
		}
		any = true
	}
	return any
}

// decideAll marks every coordinate still unresolved in c with kind, and
// retracts it from every constraint's unresolved set (subtracting from
// remaining when it is a flag decision).
func decideAll(c *constraint, constraints map[model.Coord]*constraint, decided map[model.Coord]decision, kind decision) {
	coords := make([]model.Coord, 0, len(c.unresolved))
	for coord := range c.unresolved {
		coords = append(coords, coord)
		if _, already := decided[coord]; already {
			continue
		}
		decided[coord] = kind
	}
	for _, other := range constraints {
		for _, coord := range coords {
			if _, present := other.unresolved[coord]; !present {
				continue
			}
			delete(other.unresolved, coord)
			if kind == decidedFlag {
				other.remaining--
			}
		}
	}
}

// applyR3 runs subset inference once over pairs sharing at least one
// unresolved unknown neighbor (via reverseIndex), returning whether any new
// decision was made.
func applyR3(actives []model.Coord, constraints map[model.Coord]*constraint, decided map[model.Coord]decision, reverseIndex map[model.Coord][]model.Coord) bool {
	changed := false
	pairs := candidatePairs(actives, reverseIndex)

	for _, p := range pairs {
		a, b := constraints[p[0]], constraints[p[1]]
		if a == nil || b == nil || len(a.unresolved) == 0 || len(b.unresolved) == 0 {
			continue
		}
		if isSubset(a.unresolved, b.unresolved) {
			if applySubsetInference(a, b, constraints, decided) {
				changed = true
			}
		}
		if isSubset(b.unresolved, a.unresolved) {
			if applySubsetInference(b, a, constraints, decided) {
				changed = true
			}
		}
	}

	if changed {
		// R1/R2 may now fire again on cells whose remaining/unresolved
		// shrank as a side effect of subset inference.
		applyR1R2(constraints, decided)
	}

	return changed
}

// applySubsetInference applies the difference-of-remaining-mines rule to a
// pair whose unresolved(small) ⊆ unresolved(big); it does not check the
// inclusion itself, applyR3 does before calling it: the coordinates in
// big's unresolved set but not small's either all share the same mine count
// as the gap between the two constraints' remaining counts, or all are
// safe. Returns whether it decided anything.
func applySubsetInference(small, big *constraint, constraints map[model.Coord]*constraint, decided map[model.Coord]decision) bool {
	d := make(map[model.Coord]struct{})
	for coord := range big.unresolved {
		if _, inSmall := small.unresolved[coord]; !inSmall {
			d[coord] = struct{}{}
		}
	}
	if len(d) == 0 {
		return false
	}
	k := big.remaining - small.remaining

	var kind decision
	switch {
	case k == 0:
		kind = decidedSafe
	case k == len(d):
		kind = decidedFlag
	default:
		return false
	}

	dc := &constraint{unresolved: d}
	decideAll(dc, constraints, decided, kind)
	return true
}

// isSubset reports whether every element of a is present in b.
func isSubset(a, b map[model.Coord]struct{}) bool {
	if len(a) == 0 || len(a) > len(b) {
		return len(a) == 0
	}
	for coord := range a {
		if _, ok := b[coord]; !ok {
			return false
		}
	}
	return true
}

// candidatePairs enumerates active-cell pairs sharing at least one unknown
// neighbor, using the reverse index so unrelated actives are never compared
//.
func candidatePairs(actives []model.Coord, reverseIndex map[model.Coord][]model.Coord) [][2]model.Coord {
	seen := make(map[[2]model.Coord]struct{})
	var pairs [][2]model.Coord
	for _, touching := range reverseIndex {
		for i := 0; i < len(touching); i++ {
			for j := i + 1; j < len(touching); j++ {
				a, b := touching[i], touching[j]
				key := [2]model.Coord{a, b}
				if !a.Less(b) {
					key = [2]model.Coord{b, a}
				}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				pairs = append(pairs, key)
			}
		}
	}
	return pairs
}

// buildResult assembles the final Result from accumulated decisions. Every
// active cell fed to the reducer is demoted to REDUCED: the loop above runs
// until no further deduction is possible, so by the time we reach this
// point each of them has produced all the deductions it is going to.
func buildResult(snap storage.Snapshot, actives []model.Coord, decided map[model.Coord]decision) Result {
	var safe, flag []model.Coord
	for coord, kind := range decided {
		switch kind {
		case decidedSafe:
			safe = append(safe, coord)
		case decidedFlag:
			flag = append(flag, coord)
		}
	}
	safe = model.SortCoords(safe)
	flag = model.SortCoords(flag)

	upsert := model.NewUpsert()
	for _, a := range actives {
		cell, ok := snap.Cell(a)
		if !ok {
			continue
		}
		cell.ActiveFocus = model.FocusReduced
		upsert.Put(cell)
	}

	return Result{
		Safe:           safe,
		Flag:           flag,
		ReducedActives: actives,
		Upsert:         upsert,
	}
}
