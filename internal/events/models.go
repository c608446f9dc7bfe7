package events

import (
	"time"

	"github.com/google/uuid"
)

// Event holds the registration metadata consulted by the waitlist and the
// lottery. Capacity and WaitlistLimit are nullable: absent means unlimited.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizerID string    `json:"organizer_id" gorm:"not null;size:128;index"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`

	// Capacity bounds count(INVITED ∪ ACCEPTED); nil means unlimited invitations.
	Capacity *int `json:"capacity" gorm:"check:capacity > 0"`

	// WaitlistLimit bounds count(WAITING ∪ INVITED ∪ ACCEPTED); nil means
	// unlimited waiting-list size.
	WaitlistLimit *int `json:"waitlist_limit" gorm:"check:waitlist_limit > 0"`

	RegistrationStart   time.Time       `json:"registration_start" gorm:"not null"`
	RegistrationEnd     time.Time       `json:"registration_end" gorm:"not null"`
	GeolocationRequired bool            `json:"geolocation_required" gorm:"default:false"`
	Status              LifecycleStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE';index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RegistrationOpenAt reports whether the registration window contains now.
func (e *Event) RegistrationOpenAt(now time.Time) bool {
	return !now.Before(e.RegistrationStart) && !now.After(e.RegistrationEnd)
}

// ToResponse converts an Event to its API representation
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:                  e.ID.String(),
		OrganizerID:         e.OrganizerID,
		Name:                e.Name,
		Description:         e.Description,
		Capacity:            e.Capacity,
		WaitlistLimit:       e.WaitlistLimit,
		RegistrationStart:   e.RegistrationStart,
		RegistrationEnd:     e.RegistrationEnd,
		GeolocationRequired: e.GeolocationRequired,
		Status:              e.Status,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// GetCacheKey returns the Redis cache key for an event snapshot
func GetCacheKey(eventID uuid.UUID) string {
	return "event:snapshot:" + eventID.String()
}
