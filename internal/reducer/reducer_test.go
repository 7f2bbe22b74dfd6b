package reducer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/reducer"
	"github.com/kestrelbyte/minecore/internal/storage"
)

func activeNumber(coord model.Coord, value int) model.Cell {
	return model.Cell{
		Coord:        coord,
		LogicalState: model.LogicalOpenNumber,
		NumberValue:  model.IntPtr(value),
		SolverStatus: model.StatusActive,
		ActiveFocus:  model.FocusToReduce,
	}
}

func unrevealed(coord model.Coord) model.Cell {
	return model.Cell{
		Coord:        coord,
		LogicalState: model.LogicalUnrevealed,
		SolverStatus: model.StatusNone,
	}
}

func TestRun_R1TrivialZeroMarksAllUnknownsSafe(t *testing.T) {
	g := storage.New()
	active := model.Coord{X: 1, Y: 1}
	n1, n2 := model.Coord{X: 0, Y: 0}, model.Coord{X: 2, Y: 2}

	u := model.NewUpsert()
	u.Put(activeNumber(active, 0))
	u.Put(unrevealed(n1))
	u.Put(unrevealed(n2))
	g.ApplyUpsert(u)

	snap := g.Snapshot()
	view := frontier.New(snap, frontier.FilterAll)
	result := reducer.Run(snap, view)

	assert.ElementsMatch(t, []model.Coord{n1, n2}, result.Safe)
	assert.Empty(t, result.Flag)
}

func TestRun_R2TrivialFullMarksAllUnknownsFlag(t *testing.T) {
	g := storage.New()
	active := model.Coord{X: 1, Y: 1}
	n1, n2 := model.Coord{X: 0, Y: 0}, model.Coord{X: 2, Y: 2}

	u := model.NewUpsert()
	u.Put(activeNumber(active, 2))
	u.Put(unrevealed(n1))
	u.Put(unrevealed(n2))
	g.ApplyUpsert(u)

	snap := g.Snapshot()
	view := frontier.New(snap, frontier.FilterAll)
	result := reducer.Run(snap, view)

	assert.ElementsMatch(t, []model.Coord{n1, n2}, result.Flag)
	assert.Empty(t, result.Safe)
}

func TestRun_R3SubsetInferenceDerivesSafeDifference(t *testing.T) {
	// a = (1,1), value 1, unknown neighbors {u1, u2}
	// b = (2,1), value 1, unknown neighbors {u1, u2, u3} (superset by one)
	// unresolved(a) subset of unresolved(b), k = remaining(b)-remaining(a) = 0
	// => u3 is safe.
	g := storage.New()
	a := model.Coord{X: 1, Y: 1}
	b := model.Coord{X: 2, Y: 1}
	u1 := model.Coord{X: 2, Y: 0}
	u2 := model.Coord{X: 2, Y: 2}
	u3 := model.Coord{X: 3, Y: 1}

	up := model.NewUpsert()
	up.Put(activeNumber(a, 1))
	up.Put(activeNumber(b, 1))
	up.Put(unrevealed(u1))
	up.Put(unrevealed(u2))
	up.Put(unrevealed(u3))
	g.ApplyUpsert(up)

	snap := g.Snapshot()
	view := frontier.New(snap, frontier.FilterAll)
	result := reducer.Run(snap, view)

	assert.Contains(t, result.Safe, u3)
}

func TestRun_DemotesAllProcessedActivesToReduced(t *testing.T) {
	g := storage.New()
	active := model.Coord{X: 1, Y: 1}
	n1 := model.Coord{X: 0, Y: 0}

	u := model.NewUpsert()
	u.Put(activeNumber(active, 0))
	u.Put(unrevealed(n1))
	g.ApplyUpsert(u)

	snap := g.Snapshot()
	view := frontier.New(snap, frontier.FilterAll)
	result := reducer.Run(snap, view)

	cell := result.Upsert.Cells[active]
	assert.Equal(t, model.FocusReduced, cell.ActiveFocus)
	assert.Equal(t, model.StatusActive, cell.SolverStatus)
	assert.NotNil(t, cell.NumberValue)
}

func TestRun_NoActivesToReduceIsNoOp(t *testing.T) {
	g := storage.New()
	snap := g.Snapshot()
	view := frontier.New(snap, frontier.FilterAll)
	result := reducer.Run(snap, view)

	assert.Empty(t, result.Safe)
	assert.Empty(t, result.Flag)
	assert.True(t, result.Upsert.IsEmpty())
}
