package entrants

import "time"

// EntrantResponse is the API representation of an entrant record
type EntrantResponse struct {
	ID              string        `json:"id"`
	EventID         string        `json:"event_id"`
	UserID          string        `json:"user_id"`
	Status          EntrantStatus `json:"status"`
	JoinedAt        time.Time     `json:"joined_at"`
	SelfInitiated   bool          `json:"self_initiated"`
	InvitedAt       *time.Time    `json:"invited_at,omitempty"`
	InviteExpiresAt *time.Time    `json:"invite_expires_at,omitempty"`
	RespondedAt     *time.Time    `json:"responded_at,omitempty"`
}

// CohortCountsResponse reports per-status entrant counts for an event
type CohortCountsResponse struct {
	EventID   string `json:"event_id"`
	Waiting   int    `json:"waiting"`
	Invited   int    `json:"invited"`
	Accepted  int    `json:"accepted"`
	Declined  int    `json:"declined"`
	Uninvited int    `json:"uninvited"`
	Cancelled int    `json:"cancelled"`
}

// CancelCohortResponse reports how many waiting entrants were cancelled
type CancelCohortResponse struct {
	EventID   string `json:"event_id"`
	Cancelled int    `json:"cancelled"`
}
