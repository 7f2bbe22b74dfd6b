package pipeline

import (
	"github.com/kestrelbyte/minecore/internal/model"
)

// ObservationEntry is one row of the external vision collaborator's
// observation batch. NumberValue must be present iff
// LogicalState is OPEN_NUMBER.
type ObservationEntry struct {
	Coord        model.Coord
	RawState     model.RawState
	LogicalState model.LogicalState
	NumberValue  *int
}

// buildObservationUpsert validates every entry and returns the upsert that
// tags them JUST_VISUALIZED. Vision never writes any other solver_status,
// and focus fields are always absent here — they stay unset until the
// analyzer classifies the cell.
func buildObservationUpsert(entries []ObservationEntry) (*model.Upsert, error) {
	out := model.NewUpsert()

	for _, e := range entries {
		if model.DeriveLogicalState(e.RawState) != e.LogicalState {
			return nil, model.ErrInconsistentRaw
		}
		if e.LogicalState == model.LogicalOpenNumber && e.NumberValue == nil {
			return nil, model.ErrNumberValueMissing
		}
		if e.LogicalState != model.LogicalOpenNumber && e.NumberValue != nil {
			return nil, model.ErrNumberValuePresent
		}

		out.Put(model.Cell{
			Coord:        e.Coord,
			RawState:     e.RawState,
			LogicalState: e.LogicalState,
			NumberValue:  e.NumberValue,
			SolverStatus: model.StatusJustVisualized,
		})
	}

	return out, nil
}
