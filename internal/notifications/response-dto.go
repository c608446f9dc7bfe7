package notifications

import (
	"time"

	"entrantly/internal/entrants"
)

// LogEntryResponse is the API representation of a notification log entry
type LogEntryResponse struct {
	ID            string                 `json:"id"`
	EventID       string                 `json:"event_id"`
	UserID        string                 `json:"user_id"`
	StatusAtSend  entrants.EntrantStatus `json:"status_at_send"`
	Message       string                 `json:"message"`
	SentAt        time.Time              `json:"sent_at"`
	Delivered     bool                   `json:"delivered"`
	SkippedReason *string                `json:"skipped_reason,omitempty"`
}

// SkippedRecipient names a recipient the dispatch deliberately skipped
type SkippedRecipient struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// DispatchResult summarizes one cohort dispatch
type DispatchResult struct {
	EventID string             `json:"event_id"`
	Sent    int                `json:"sent"`
	Failed  int                `json:"failed"`
	Skipped []SkippedRecipient `json:"skipped"`
}

// PreferenceResponse is the API representation of a notification preference
type PreferenceResponse struct {
	UserID   string `json:"user_id"`
	OptedOut bool   `json:"opted_out"`
}
