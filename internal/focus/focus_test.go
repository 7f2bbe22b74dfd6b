package focus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelbyte/minecore/internal/focus"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

func TestActualize_RepromotesReducedActiveNeighbor(t *testing.T) {
	g := storage.New()
	changedCoord := model.Coord{X: 0, Y: 0}
	neighborCoord := model.Coord{X: 1, Y: 0}

	seed := model.NewUpsert()
	seed.Put(model.Cell{
		Coord:        neighborCoord,
		LogicalState: model.LogicalOpenNumber,
		NumberValue:  model.IntPtr(2),
		SolverStatus: model.StatusActive,
		ActiveFocus:  model.FocusReduced,
	})
	g.ApplyUpsert(seed)

	out := focus.Actualize(g.Snapshot(), []model.Coord{changedCoord})
	cell, ok := out.Cells[neighborCoord]
	if assert.True(t, ok) {
		assert.Equal(t, model.FocusToReduce, cell.ActiveFocus)
	}
}

func TestActualize_RepromotesProcessedFrontierNeighbor(t *testing.T) {
	g := storage.New()
	changedCoord := model.Coord{X: 0, Y: 0}
	neighborCoord := model.Coord{X: -1, Y: -1}

	seed := model.NewUpsert()
	seed.Put(model.Cell{
		Coord:         neighborCoord,
		LogicalState:  model.LogicalUnrevealed,
		SolverStatus:  model.StatusFrontier,
		FrontierFocus: model.FrontierProcessed,
	})
	g.ApplyUpsert(seed)

	out := focus.Actualize(g.Snapshot(), []model.Coord{changedCoord})
	cell, ok := out.Cells[neighborCoord]
	if assert.True(t, ok) {
		assert.Equal(t, model.FrontierToProcess, cell.FrontierFocus)
	}
}

func TestActualize_LeavesActiveFocusToReduceAlone(t *testing.T) {
	g := storage.New()
	changedCoord := model.Coord{X: 0, Y: 0}
	neighborCoord := model.Coord{X: 1, Y: 0}

	seed := model.NewUpsert()
	seed.Put(model.Cell{
		Coord:        neighborCoord,
		LogicalState: model.LogicalOpenNumber,
		NumberValue:  model.IntPtr(1),
		SolverStatus: model.StatusActive,
		ActiveFocus:  model.FocusToReduce,
	})
	g.ApplyUpsert(seed)

	out := focus.Actualize(g.Snapshot(), []model.Coord{changedCoord})
	assert.True(t, out.IsEmpty())
}

func TestActualize_EmptyChangeSetIsNoOp(t *testing.T) {
	g := storage.New()
	out := focus.Actualize(g.Snapshot(), nil)
	assert.True(t, out.IsEmpty())
}
