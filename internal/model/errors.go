package model

import "errors"

// Sentinel errors for malformed observation-batch entries. These
// are data-validation failures the vision collaborator can trigger; they are
// distinct from storage's invariant violations, which indicate a programming
// bug rather than bad input.
var (
	ErrNumberValueMissing = errors.New("logical state is OPEN_NUMBER but number_value is absent")
	ErrNumberValuePresent = errors.New("number_value is present but logical state is not OPEN_NUMBER")
	ErrInconsistentRaw    = errors.New("logical_state is not consistent with raw_state per the §3.1 mapping")
	ErrNotJustVisualized  = errors.New("observation batch entry must classify as JUST_VISUALIZED")
)
