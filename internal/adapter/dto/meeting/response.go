package meeting

import (
	"time"
)

// UserResponse is the public shape of a user referenced from a meeting
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// VenueResponse is the public shape of a venue
type VenueResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Capacity int    `json:"capacity"`
}

// AttendeeResponse represents one attendee of a meeting
type AttendeeResponse struct {
	UserID        string        `json:"user_id"`
	User          *UserResponse `json:"user,omitempty"`
	ViaDepartment bool          `json:"via_department"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID            string `json:"id"`
	MeetingNumber int    `json:"meeting_number"`
	Name          string `json:"name"`

	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`

	VenueID string         `json:"venue_id"`
	Venue   *VenueResponse `json:"venue,omitempty"`

	CreatorID string        `json:"creator_id"`
	Creator   *UserResponse `json:"creator,omitempty"`

	Status     string        `json:"status"`
	ApproverID *string       `json:"approver_id,omitempty"`
	Approver   *UserResponse `json:"approver,omitempty"`

	ApprovalComment *string    `json:"approval_comment,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectReason    *string    `json:"reject_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	CancelReason    *string    `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`

	Started   bool       `json:"started"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Ended     bool       `json:"ended"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	CurrentScribeID *string `json:"current_scribe_id,omitempty"`
	ParentMeetingID *string `json:"parent_meeting_id,omitempty"`

	Priority    string `json:"priority"`
	MeetingType string `json:"meeting_type"`

	Attendees []*AttendeeResponse `json:"attendees,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MeetingListResponse represents a paginated list of meetings
type MeetingListResponse struct {
	Meetings   []*MeetingResponse `json:"meetings"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
