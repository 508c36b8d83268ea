package minutes

import "time"

// AddMinuteRequest represents the request to append a minute entry
type AddMinuteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// EditMinuteRequest represents the request to edit a minute entry
type EditMinuteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// PollRequest represents query parameters for the incremental poll
type PollRequest struct {
	// Since is the cursor returned by the previous poll. Zero means
	// "everything from the beginning".
	Since *time.Time `query:"since"`
}
