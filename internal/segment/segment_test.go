package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/segment"
	"github.com/kestrelbyte/minecore/internal/storage"
)

func activeNumber(coord model.Coord, value int) model.Cell {
	return model.Cell{
		Coord:        coord,
		LogicalState: model.LogicalOpenNumber,
		NumberValue:  model.IntPtr(value),
		SolverStatus: model.StatusActive,
		ActiveFocus:  model.FocusReduced,
	}
}

func toProcessFrontier(coord model.Coord) model.Cell {
	return model.Cell{
		Coord:         coord,
		LogicalState:  model.LogicalUnrevealed,
		SolverStatus:  model.StatusFrontier,
		FrontierFocus: model.FrontierToProcess,
	}
}

func TestBuild_TwoDisjointComponents(t *testing.T) {
	g := storage.New()
	u := model.NewUpsert()

	// Component 1: active a constrains f1, f2.
	a := model.Coord{X: 0, Y: 0}
	f1 := model.Coord{X: 1, Y: 0}
	f2 := model.Coord{X: -1, Y: 0}
	u.Put(activeNumber(a, 1))
	u.Put(toProcessFrontier(f1))
	u.Put(toProcessFrontier(f2))

	// Component 2: active b constrains f3, far away from component 1.
	b := model.Coord{X: 10, Y: 10}
	f3 := model.Coord{X: 11, Y: 10}
	u.Put(activeNumber(b, 1))
	u.Put(toProcessFrontier(f3))

	g.ApplyUpsert(u)

	view := frontier.New(g.Snapshot(), frontier.FilterToProcess)
	components := segment.Build(view)

	assert.Len(t, components, 2)

	var sizes []int
	for _, c := range components {
		sizes = append(sizes, len(c.FrontierCells))
	}
	assert.ElementsMatch(t, []int{2, 1}, sizes)
}

func TestBuild_SharedActiveLinksComponent(t *testing.T) {
	g := storage.New()
	u := model.NewUpsert()

	a := model.Coord{X: 0, Y: 0}
	f1 := model.Coord{X: 1, Y: 0}
	f2 := model.Coord{X: 1, Y: 1}
	u.Put(activeNumber(a, 1))
	u.Put(toProcessFrontier(f1))
	u.Put(toProcessFrontier(f2))
	g.ApplyUpsert(u)

	view := frontier.New(g.Snapshot(), frontier.FilterToProcess)
	components := segment.Build(view)

	if assert.Len(t, components, 1) {
		assert.ElementsMatch(t, []model.Coord{f1, f2}, components[0].FrontierCells)
		assert.Equal(t, []model.Coord{a}, components[0].ActiveCells)
	}
}

func TestBuild_EmptyFrontierYieldsNoComponents(t *testing.T) {
	g := storage.New()
	view := frontier.New(g.Snapshot(), frontier.FilterToProcess)
	assert.Empty(t, segment.Build(view))
}
