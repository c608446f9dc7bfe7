package notifications

import (
	"time"

	"github.com/google/uuid"

	"entrantly/internal/entrants"
)

// SkipReasonOptedOut marks recipients excluded by their own preference.
const SkipReasonOptedOut = "opted out"

// NotificationLogEntry is the immutable record of one delivery attempt or
// skip. Entries are written once after the attempt and never updated.
type NotificationLogEntry struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID  string    `json:"user_id" gorm:"not null;size:128;index"`

	// StatusAtSend captures the entrant's status when the batch targeted
	// them, not their status now.
	StatusAtSend entrants.EntrantStatus `json:"status_at_send" gorm:"type:varchar(20);not null"`

	Message       string    `json:"message" gorm:"type:text;not null"`
	SentAt        time.Time `json:"sent_at" gorm:"not null"`
	Delivered     bool      `json:"delivered" gorm:"not null"`
	SkippedReason *string   `json:"skipped_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (NotificationLogEntry) TableName() string {
	return "notification_log_entries"
}

// ToResponse converts a log entry to its API representation
func (e *NotificationLogEntry) ToResponse() LogEntryResponse {
	return LogEntryResponse{
		ID:            e.ID.String(),
		EventID:       e.EventID.String(),
		UserID:        e.UserID,
		StatusAtSend:  e.StatusAtSend,
		Message:       e.Message,
		SentAt:        e.SentAt,
		Delivered:     e.Delivered,
		SkippedReason: e.SkippedReason,
	}
}

// NotificationPreference holds a user's opt-out flag. Absence of a row means
// notifications are on.
type NotificationPreference struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;size:128"`
	OptedOut  bool      `json:"opted_out" gorm:"not null;default:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}
