package adjust

import "errors"

// Sentinel kinds for adjustment errors.
var (
	// ErrInvalidZone reports a zone outside [1,18] supplied deliberately.
	// Out-of-range zones are rejected, never clamped.
	ErrInvalidZone = errors.New("zone out of range")

	// ErrInvalidTable reports a multiplier table that fails validation.
	ErrInvalidTable = errors.New("invalid zone multiplier table")
)
