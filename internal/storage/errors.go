package storage

import (
	"errors"
	"fmt"

	"github.com/kestrelbyte/minecore/internal/model"
)

// Sentinel causes wrapped by InvariantError; see validateCell.
var (
	errActiveFocusRequired    = errors.New("solver_status ACTIVE requires active_focus to be TO_REDUCE or REDUCED")
	errActiveFocusForbidden   = errors.New("active_focus must be absent outside solver_status ACTIVE")
	errFrontierFocusRequired  = errors.New("solver_status FRONTIER requires frontier_focus to be TO_PROCESS or PROCESSED")
	errFrontierFocusForbidden = errors.New("frontier_focus must be absent outside solver_status FRONTIER")
)

// InvariantError reports a cell-consistency invariant violation on a specific
// cell. It is
// a programming-error signal, not a data condition: ApplyUpsert
// panics with this type rather than returning it, because a caller that
// constructed an inconsistent write has a bug the storage layer cannot
// repair on its behalf.
type InvariantError struct {
	Coord model.Coord
	Err   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation at %s: %v", e.Coord, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
