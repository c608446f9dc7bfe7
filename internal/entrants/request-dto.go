package entrants

// JoinWaitlistRequest is the payload for joining an event's waiting list.
// Location is optional unless the event requires geolocation.
type JoinWaitlistRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

// HasLocation reports whether both coordinates were supplied
func (r *JoinWaitlistRequest) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}
