package notifications

// DispatchRequest is the payload for sending a notification to a cohort
type DispatchRequest struct {
	Statuses []string `json:"statuses" binding:"required,min=1" validate:"required,min=1"`
	Message  string   `json:"message" binding:"required" validate:"required,min=1,max=2000"`
}

// PreferenceRequest toggles the caller's opt-out flag
type PreferenceRequest struct {
	OptedOut *bool `json:"opted_out" binding:"required"`
}
