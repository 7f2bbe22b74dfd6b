package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordLess(t *testing.T) {
	assert.True(t, Coord{0, 0}.Less(Coord{1, 0}))
	assert.True(t, Coord{0, 0}.Less(Coord{0, 1}))
	assert.False(t, Coord{1, 0}.Less(Coord{0, 0}))
	assert.False(t, Coord{0, 0}.Less(Coord{0, 0}))
}

func TestSortCoords(t *testing.T) {
	in := []Coord{{1, 1}, {-1, -1}, {0, 1}, {0, -1}, {1, -1}}
	got := SortCoords(in)
	want := []Coord{{-1, -1}, {0, -1}, {0, 1}, {1, -1}, {1, 1}}
	assert.Equal(t, want, got)
	// original untouched
	assert.Equal(t, Coord{1, 1}, in[0])
}

func TestNeighbors8(t *testing.T) {
	n := Neighbors8(Coord{0, 0})
	want := [8]Coord{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	assert.Equal(t, want, n)
}

func TestDeriveLogicalState(t *testing.T) {
	cases := []struct {
		raw  RawState
		want LogicalState
	}{
		{RawUnrevealed, LogicalUnrevealed},
		{RawQuestion, LogicalUnrevealed},
		{RawNumber1, LogicalOpenNumber},
		{RawNumber8, LogicalOpenNumber},
		{RawFlag, LogicalConfirmedMine},
		{RawExploded, LogicalConfirmedMine},
		{RawEmpty, LogicalEmpty},
		{RawDecor, LogicalEmpty},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DeriveLogicalState(c.raw), "raw=%v", c.raw)
	}
}

func TestCellCloneIsIndependent(t *testing.T) {
	c := Cell{Coord: Coord{1, 2}, NumberValue: IntPtr(3)}
	clone := c.Clone()
	*clone.NumberValue = 9
	assert.Equal(t, 3, *c.NumberValue)
	assert.Equal(t, 9, *clone.NumberValue)
}

func TestUpsertMerge(t *testing.T) {
	u := NewUpsert()
	u.Put(Cell{Coord: Coord{0, 0}, SolverStatus: StatusActive})
	u.ToVisualizeAdd = append(u.ToVisualizeAdd, Coord{1, 1})

	other := NewUpsert()
	other.Put(Cell{Coord: Coord{0, 0}, SolverStatus: StatusSolved})
	other.Put(Cell{Coord: Coord{2, 2}, SolverStatus: StatusMine})

	u.Merge(other)

	assert.Equal(t, StatusSolved, u.Cells[Coord{0, 0}].SolverStatus)
	assert.Equal(t, StatusMine, u.Cells[Coord{2, 2}].SolverStatus)
	assert.Contains(t, u.ToVisualizeAdd, Coord{1, 1})
}
