package frontier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/storage"
)

func buildBasicBoard() *storage.Grid {
	g := storage.New()
	active := model.Coord{X: 0, Y: 0}
	frontierCoord := model.Coord{X: 1, Y: 0}

	u := model.NewUpsert()
	u.Put(model.Cell{
		Coord:        active,
		LogicalState: model.LogicalOpenNumber,
		NumberValue:  model.IntPtr(1),
		SolverStatus: model.StatusActive,
		ActiveFocus:  model.FocusToReduce,
	})
	u.Put(model.Cell{
		Coord:         frontierCoord,
		LogicalState:  model.LogicalUnrevealed,
		SolverStatus:  model.StatusFrontier,
		FrontierFocus: model.FrontierToProcess,
	})
	g.ApplyUpsert(u)
	return g
}

func TestView_FrontierCellsFilterToProcess(t *testing.T) {
	g := buildBasicBoard()
	v := frontier.New(g.Snapshot(), frontier.FilterToProcess)
	assert.Equal(t, []model.Coord{{X: 1, Y: 0}}, v.FrontierCells())
}

func TestView_ConstraintsFor(t *testing.T) {
	g := buildBasicBoard()
	v := frontier.New(g.Snapshot(), frontier.FilterAll)
	assert.Equal(t, []model.Coord{{X: 0, Y: 0}}, v.ConstraintsFor(model.Coord{X: 1, Y: 0}))
}

func TestView_EffectiveValueSubtractsKnownMines(t *testing.T) {
	g := storage.New()
	active := model.Coord{X: 0, Y: 0}
	mine := model.Coord{X: 1, Y: 0}

	u := model.NewUpsert()
	u.Put(model.Cell{
		Coord:        active,
		LogicalState: model.LogicalOpenNumber,
		NumberValue:  model.IntPtr(2),
		SolverStatus: model.StatusActive,
		ActiveFocus:  model.FocusToReduce,
	})
	u.Put(model.Cell{
		Coord:        mine,
		LogicalState: model.LogicalConfirmedMine,
		SolverStatus: model.StatusMine,
	})
	g.ApplyUpsert(u)

	v := frontier.New(g.Snapshot(), frontier.FilterAll)
	assert.Equal(t, 1, v.EffectiveValue(active))
}

func TestView_UnknownNeighborsExcludesToVisualize(t *testing.T) {
	g := storage.New()
	active := model.Coord{X: 0, Y: 0}
	pending := model.Coord{X: 1, Y: 0}

	u := model.NewUpsert()
	u.Put(model.Cell{
		Coord:        active,
		LogicalState: model.LogicalOpenNumber,
		NumberValue:  model.IntPtr(1),
		SolverStatus: model.StatusActive,
		ActiveFocus:  model.FocusToReduce,
	})
	u.Put(model.Cell{
		Coord:        pending,
		LogicalState: model.LogicalUnrevealed,
		SolverStatus: model.StatusToVisualize,
	})
	u.ToVisualizeAdd = []model.Coord{pending}
	g.ApplyUpsert(u)

	v := frontier.New(g.Snapshot(), frontier.FilterAll)
	assert.NotContains(t, v.UnknownNeighbors(active), pending)
}
