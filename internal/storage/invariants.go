package storage

import (
	"github.com/kestrelbyte/minecore/internal/model"
)

// validateCell checks the cell-consistency invariants on a single written
// cell: logical-state/number-value agreement and focus-field presence rules.
// The derived-sets invariant is enforced structurally — callers have no way
// to write the derived sets directly.
func validateCell(c model.Cell) error {
	// Invariant 1 (both directions): OPEN_NUMBER iff number_value present.
	if c.LogicalState != model.LogicalOpenNumber && c.NumberValue != nil {
		return model.ErrNumberValuePresent
	}
	if c.LogicalState == model.LogicalOpenNumber && c.NumberValue == nil {
		return model.ErrNumberValueMissing
	}

	switch c.SolverStatus {
	case model.StatusActive:
		// Invariant 2.
		if c.ActiveFocus != model.FocusToReduce && c.ActiveFocus != model.FocusReduced {
			return errActiveFocusRequired
		}
		if c.FrontierFocus != model.FrontierFocusUnset {
			return errFrontierFocusForbidden
		}
	case model.StatusFrontier:
		// Invariant 3.
		if c.FrontierFocus != model.FrontierToProcess && c.FrontierFocus != model.FrontierProcessed {
			return errFrontierFocusRequired
		}
		if c.ActiveFocus != model.FocusUnset {
			return errActiveFocusForbidden
		}
	default:
		// Invariant 4.
		if c.ActiveFocus != model.FocusUnset {
			return errActiveFocusForbidden
		}
		if c.FrontierFocus != model.FrontierFocusUnset {
			return errFrontierFocusForbidden
		}
	}

	return nil
}
