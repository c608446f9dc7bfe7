package entrants

import (
	"time"

	"github.com/google/uuid"
)

// EntrantStatus represents the participation status of an entrant in an event
type EntrantStatus string

const (
	// StatusWaiting means the entrant joined the waiting list and has not
	// been selected yet.
	StatusWaiting EntrantStatus = "WAITING"

	// StatusInvited means the entrant was selected by the lottery and may
	// accept or decline until the invitation deadline.
	StatusInvited EntrantStatus = "INVITED"

	// StatusAccepted means the entrant accepted the invitation. Terminal.
	StatusAccepted EntrantStatus = "ACCEPTED"

	// StatusDeclined means the entrant declined the invitation. Terminal for
	// this invitation cycle; feeds the replacement backfill.
	StatusDeclined EntrantStatus = "DECLINED"

	// StatusUninvited means the invitation window elapsed without a
	// response. Terminal; feeds the replacement backfill.
	StatusUninvited EntrantStatus = "UNINVITED"

	// StatusCancelled means the entrant left the waiting list or was
	// cancelled by the organizer. Terminal.
	StatusCancelled EntrantStatus = "CANCELLED"
)

// IsValid checks if the entrant status is valid
func (s EntrantStatus) IsValid() bool {
	switch s {
	case StatusWaiting, StatusInvited, StatusAccepted, StatusDeclined, StatusUninvited, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends an invitation cycle.
func (s EntrantStatus) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusDeclined, StatusUninvited, StatusCancelled:
		return true
	default:
		return false
	}
}

// ActiveStatuses are the statuses that occupy a limited waiting-list slot.
var ActiveStatuses = []EntrantStatus{StatusWaiting, StatusInvited, StatusAccepted}

// InvitedOrAccepted are the statuses bounded by event capacity.
var InvitedOrAccepted = []EntrantStatus{StatusInvited, StatusAccepted}

// EntrantRecord represents one user's participation in one event's waiting
// list. There is exactly one record per (event, user); re-joins reuse it.
type EntrantRecord struct {
	ID      uuid.UUID     `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID uuid.UUID     `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID  string        `json:"user_id" gorm:"not null;size:128;index"`
	Status  EntrantStatus `json:"status" gorm:"type:varchar(20);not null;index"`

	JoinedAt time.Time `json:"joined_at" gorm:"not null"`

	// Join location, captured only when the event requires geolocation.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// SelfInitiated distinguishes an entrant's own leave from an
	// organizer-side cancellation. Meaningful only when Status is CANCELLED.
	SelfInitiated bool `json:"self_initiated" gorm:"default:false"`

	InvitedAt       *time.Time `json:"invited_at,omitempty"`
	InviteExpiresAt *time.Time `json:"invite_expires_at,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsWaiting returns true if the entrant currently holds a waiting slot
func (r *EntrantRecord) IsWaiting() bool {
	return r.Status == StatusWaiting
}

// InviteExpired reports whether an INVITED record is past its deadline.
func (r *EntrantRecord) InviteExpired(now time.Time) bool {
	return r.Status == StatusInvited && r.InviteExpiresAt != nil && now.After(*r.InviteExpiresAt)
}

// ToResponse converts an EntrantRecord to its API representation
func (r *EntrantRecord) ToResponse() EntrantResponse {
	return EntrantResponse{
		ID:              r.ID.String(),
		EventID:         r.EventID.String(),
		UserID:          r.UserID,
		Status:          r.Status,
		JoinedAt:        r.JoinedAt,
		SelfInitiated:   r.SelfInitiated,
		InvitedAt:       r.InvitedAt,
		InviteExpiresAt: r.InviteExpiresAt,
		RespondedAt:     r.RespondedAt,
	}
}

// TableName specifies the table name for GORM
func (EntrantRecord) TableName() string {
	return "entrant_records"
}

// Redis Key Helpers

// GetEventLockKey returns the Redis key serializing mutations for one event
func GetEventLockKey(eventID uuid.UUID) string {
	return "entrants:lock:" + eventID.String()
}
