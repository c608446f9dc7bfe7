package events

// LifecycleStatus represents the lifecycle state of an event
type LifecycleStatus string

const (
	// StatusActive accepts joins and lottery runs inside the registration window.
	StatusActive LifecycleStatus = "ACTIVE"

	// StatusOnHold blocks joins and lottery runs, typically cascaded from an
	// organizer ban. Existing entrant records are untouched.
	StatusOnHold LifecycleStatus = "ON_HOLD"

	// StatusClosed permanently ends registration.
	StatusClosed LifecycleStatus = "CLOSED"
)

// IsValid checks if the lifecycle status is valid
func (s LifecycleStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to the target status
func (s LifecycleStatus) CanTransitionTo(target LifecycleStatus) bool {
	validTransitions := map[LifecycleStatus][]LifecycleStatus{
		StatusActive: {StatusOnHold, StatusClosed},
		StatusOnHold: {StatusActive, StatusClosed},
		StatusClosed: {}, // Terminal state
	}

	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
