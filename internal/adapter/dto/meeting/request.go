package meeting

import (
	"time"
)

// CreateMeetingRequest represents the request to schedule a meeting
type CreateMeetingRequest struct {
	Name            string    `json:"name" validate:"required,min=1,max=255"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=15"`
	VenueID         string    `json:"venue_id" validate:"required,uuid"`
	AttendeeIDs     []string  `json:"attendee_ids,omitempty" validate:"omitempty,dive,uuid"`
	DepartmentIDs   []string  `json:"department_ids,omitempty" validate:"omitempty,dive,uuid"`
	Priority        string    `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
	MeetingType     string    `json:"meeting_type,omitempty" validate:"omitempty,oneof=regular project training followup"`
	FollowupOf      *string   `json:"followup_of,omitempty" validate:"omitempty,uuid"`
}

// UpdateMeetingRequest represents the request to edit a meeting
type UpdateMeetingRequest struct {
	Name            *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" validate:"omitempty,min=15"`
	VenueID         *string    `json:"venue_id,omitempty" validate:"omitempty,uuid"`
	AttendeeIDs     []string   `json:"attendee_ids,omitempty" validate:"omitempty,dive,uuid"`
	DepartmentIDs   []string   `json:"department_ids,omitempty" validate:"omitempty,dive,uuid"`
	Priority        *string    `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status    *string    `query:"status" validate:"omitempty,oneof=pending_approval approved rejected cancelled completed"`
	VenueID   *string    `query:"venue_id" validate:"omitempty,uuid"`
	CreatorID *string    `query:"creator_id" validate:"omitempty,uuid"`
	From      *time.Time `query:"from"`
	To        *time.Time `query:"to"`
	Search    string     `query:"search"`
	Page      int        `query:"page" validate:"omitempty,min=1"`
	PageSize  int        `query:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string     `query:"sort_by" validate:"omitempty,oneof=start_time created_at meeting_number"`
	SortOrder string     `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// ApproveMeetingRequest represents the request to approve a meeting
type ApproveMeetingRequest struct {
	Comments string `json:"comments,omitempty" validate:"omitempty,max=1000"`
}

// RejectMeetingRequest represents the request to reject a meeting
type RejectMeetingRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

// CancelMeetingRequest represents the request to cancel a meeting
type CancelMeetingRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// AssignScribeRequest represents the request to assign the scribe role
type AssignScribeRequest struct {
	ScribeID string `json:"scribe_id" validate:"required,uuid"`
}
