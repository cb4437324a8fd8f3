package tryplot

import "errors"

var (
	ErrUnknownTryType = errors.New("unknown try type")
	ErrUnknownTeam    = errors.New("unknown team")
	ErrUnknownPhase   = errors.New("unknown phase")
	ErrUnknownZone    = errors.New("unknown zone")
	ErrInvalidQuarter = errors.New("quarter must be between 1 and 4")
	ErrTryNotFound    = errors.New("try not found")
	ErrDuplicateID    = errors.New("duplicate try id")
	ErrMissingID      = errors.New("try id required")
	ErrZoneMismatch   = errors.New("zone does not match try position")

	// Controller transitions that are unavailable in the current state.
	ErrNoTypeSelected = errors.New("no try type selected")
	ErrNotPlacing     = errors.New("not placing a try")
	ErrNotEditing     = errors.New("not editing a try")
	ErrNoSurface      = errors.New("pointer surface has no area")
	ErrBusy           = errors.New("another interaction is in progress")
	ErrEditIncomplete = errors.New("quarter and phase must both be selected")
)
