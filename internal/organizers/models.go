package organizers

import "time"

// Organizer tracks the moderation state of an event organizer. Rows are
// created lazily the first time an organizer is acted on.
type Organizer struct {
	ID        string     `json:"id" gorm:"primaryKey;size:128"`
	Banned    bool       `json:"banned" gorm:"not null;default:false"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Organizer) TableName() string {
	return "organizers"
}

// ToResponse converts an Organizer to its API representation
func (o *Organizer) ToResponse() OrganizerResponse {
	return OrganizerResponse{
		ID:       o.ID,
		Banned:   o.Banned,
		BannedAt: o.BannedAt,
	}
}

// OrganizerResponse is the API representation of an organizer
type OrganizerResponse struct {
	ID       string     `json:"id"`
	Banned   bool       `json:"banned"`
	BannedAt *time.Time `json:"banned_at,omitempty"`
}

// BanResponse reports the outcome of a ban, including the cascade
type BanResponse struct {
	OrganizerID  string `json:"organizer_id"`
	Banned       bool   `json:"banned"`
	EventsOnHold int64  `json:"events_on_hold"`
}
