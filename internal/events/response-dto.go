package events

import "time"

// EventResponse is the API representation of an event
type EventResponse struct {
	ID                  string          `json:"id"`
	OrganizerID         string          `json:"organizer_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Capacity            *int            `json:"capacity,omitempty"`
	WaitlistLimit       *int            `json:"waitlist_limit,omitempty"`
	RegistrationStart   time.Time       `json:"registration_start"`
	RegistrationEnd     time.Time       `json:"registration_end"`
	GeolocationRequired bool            `json:"geolocation_required"`
	Status              LifecycleStatus `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
