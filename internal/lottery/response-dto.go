package lottery

import "time"

// RunRequest is the payload for triggering a lottery run. Count is required
// for events without a capacity, optional otherwise.
type RunRequest struct {
	Count *int `json:"count" validate:"omitempty,min=1"`
}

// RunResult reports the outcome of one lottery run
type RunResult struct {
	EventID          string     `json:"event_id"`
	Invited          []string   `json:"invited"`
	RemainingWaiting int        `json:"remaining_waiting"`
	InviteExpiresAt  *time.Time `json:"invite_expires_at,omitempty"`
}
