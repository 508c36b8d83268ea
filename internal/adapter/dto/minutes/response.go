package minutes

import "time"

// MinuteResponse represents one minute entry in API responses
type MinuteResponse struct {
	ID               string     `json:"id"`
	MeetingID        string     `json:"meeting_id"`
	AuthorID         string     `json:"author_id"`
	AuthorName       string     `json:"author_name,omitempty"`
	Content          string     `json:"content"`
	SortOrder        int        `json:"sort_order"`
	IsScribeAuthored bool       `json:"is_scribe_authored"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// LifecycleResponse is the meeting state snapshot carried on every poll
type LifecycleResponse struct {
	Status          string  `json:"status"`
	Started         bool    `json:"started"`
	Ended           bool    `json:"ended"`
	CurrentScribeID *string `json:"current_scribe_id,omitempty"`
}

// PollResponse represents the incremental poll result
type PollResponse struct {
	Updates    []*MinuteResponse `json:"updates"`
	DeletedIDs []string          `json:"deleted_ids"`
	Lifecycle  LifecycleResponse `json:"lifecycle"`
	NewCursor  time.Time         `json:"new_cursor"`
}

// MinuteListResponse represents the full ordered minutes of a meeting
type MinuteListResponse struct {
	Minutes []*MinuteResponse `json:"minutes"`
	Total   int               `json:"total"`
}
