package apperrors

import (
	"errors"
	"fmt"
)

// Core error taxonomy. Every failure a service can return to a caller is one
// of these sentinels (or wraps one), so callers branch with errors.Is instead
// of matching message strings.
var (
	// Event gating
	ErrEventNotFound = errors.New("event not found")
	ErrEventOnHold   = errors.New("event is on hold")
	ErrEventClosed   = errors.New("event registration is closed")

	// Waitlist membership
	ErrAlreadyJoined    = errors.New("user already joined this event")
	ErrWaitlistFull     = errors.New("waiting list is full")
	ErrMissingLocation  = errors.New("event requires a join location")
	ErrNotOnWaitingList = errors.New("user is not on the waiting list")

	// Lottery
	ErrSelectionCountRequired = errors.New("selection count required for events without capacity")

	// Organizer gate
	ErrOrganizerBanned = errors.New("organizer is banned")

	// Persistence-layer transient failures. The operation is not applied;
	// retrying is the caller's decision.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InvalidTransitionError reports a status transition that is not an edge of
// the entrant state machine.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot apply %q in status %q", e.Event, e.From)
}

// IsInvalidTransition reports whether err is (or wraps) an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
