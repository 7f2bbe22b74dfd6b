// Package checkpoint defines the optional persisted-state boundary the core
// itself does not require: storage is in-memory and sufficient
// on its own, but a cmd driver that restarts between iterations needs
// somewhere to save and reload the cell map.
package checkpoint

import (
	"context"

	"github.com/kestrelbyte/minecore/internal/model"
)

// State is what a Store persists: the cell map plus the one derived set that
// is not algorithmically recomputable from cells alone, to_visualize_set
//.
// known/revealed/active/frontier are recomputed from cells when the loaded
// cells are applied to a storage.Grid with ApplyUpsert.
type State struct {
	Cells       []model.Cell
	ToVisualize []model.Coord
}

// Store persists and restores a State.
type Store interface {
	Save(ctx context.Context, state State) error
	Load(ctx context.Context) (State, error)
}
