package entrants

import (
	"time"

	"entrantly/internal/shared/apperrors"
)

// TransitionEvent names the cause of an entrant status change. Every status
// mutation in the system goes through Apply with one of these.
type TransitionEvent string

const (
	// EventSelected fires when the lottery draws the entrant.
	EventSelected TransitionEvent = "selected"
	// EventAccept fires when an invited entrant accepts.
	EventAccept TransitionEvent = "accept"
	// EventDecline fires when an invited entrant declines.
	EventDecline TransitionEvent = "decline"
	// EventInviteExpired fires when the invitation window elapses.
	EventInviteExpired TransitionEvent = "invite_expired"
	// EventSelfLeave fires when a waiting entrant leaves on their own.
	EventSelfLeave TransitionEvent = "self_leave"
	// EventOrganizerCancel fires when the organizer cancels a waiting entrant.
	EventOrganizerCancel TransitionEvent = "organizer_cancel"
	// EventRejoin fires when a cancelled entrant joins again.
	EventRejoin TransitionEvent = "rejoin"
)

// transitions is the complete status graph. A missing edge means the
// transition is invalid; there is no other path to change a status.
var transitions = map[EntrantStatus]map[TransitionEvent]EntrantStatus{
	StatusWaiting: {
		EventSelected:        StatusInvited,
		EventSelfLeave:       StatusCancelled,
		EventOrganizerCancel: StatusCancelled,
	},
	StatusInvited: {
		EventAccept:        StatusAccepted,
		EventDecline:       StatusDeclined,
		EventInviteExpired: StatusUninvited,
	},
	StatusCancelled: {
		EventRejoin: StatusWaiting,
	},
}

// CanTransition checks whether ev is a legal transition from the given status
func CanTransition(from EntrantStatus, ev TransitionEvent) bool {
	edges, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = edges[ev]
	return ok
}

// Apply mutates the record according to the transition graph. It is the only
// place record statuses change. Timestamps and side fields are stamped here
// so every caller produces identical records for the same transition.
func Apply(record *EntrantRecord, ev TransitionEvent, now time.Time) error {
	edges, ok := transitions[record.Status]
	if !ok {
		return &apperrors.InvalidTransitionError{From: string(record.Status), Event: string(ev)}
	}
	next, ok := edges[ev]
	if !ok {
		return &apperrors.InvalidTransitionError{From: string(record.Status), Event: string(ev)}
	}

	record.Status = next

	switch ev {
	case EventSelected:
		t := now
		record.InvitedAt = &t
	case EventAccept, EventDecline:
		t := now
		record.RespondedAt = &t
	case EventSelfLeave:
		record.SelfInitiated = true
	case EventOrganizerCancel:
		record.SelfInitiated = false
	case EventRejoin:
		// A re-join starts a fresh cycle on the same record.
		record.JoinedAt = now
		record.SelfInitiated = false
		record.InvitedAt = nil
		record.InviteExpiresAt = nil
		record.RespondedAt = nil
	}

	return nil
}
