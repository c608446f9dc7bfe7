package events

import "time"

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Name                string    `json:"name" binding:"required,min=3,max=255" validate:"required,min=3,max=255"`
	Description         string    `json:"description" binding:"max=2000" validate:"max=2000"`
	Capacity            *int      `json:"capacity" binding:"omitempty,min=1" validate:"omitempty,min=1"`
	WaitlistLimit       *int      `json:"waitlist_limit" binding:"omitempty,min=1" validate:"omitempty,min=1"`
	RegistrationStart   time.Time `json:"registration_start" binding:"required" validate:"required"`
	RegistrationEnd     time.Time `json:"registration_end" binding:"required" validate:"required"`
	GeolocationRequired bool      `json:"geolocation_required"`
}

// UpdateEventRequest represents a partial update to an event
type UpdateEventRequest struct {
	Name                *string    `json:"name" binding:"omitempty,min=3,max=255" validate:"omitempty,min=3,max=255"`
	Description         *string    `json:"description" binding:"omitempty,max=2000" validate:"omitempty,max=2000"`
	Capacity            *int       `json:"capacity" binding:"omitempty,min=1" validate:"omitempty,min=1"`
	WaitlistLimit       *int       `json:"waitlist_limit" binding:"omitempty,min=1" validate:"omitempty,min=1"`
	RegistrationStart   *time.Time `json:"registration_start"`
	RegistrationEnd     *time.Time `json:"registration_end"`
	GeolocationRequired *bool      `json:"geolocation_required"`
}
