package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus represents the workflow status of a meeting
type MeetingStatus string

const (
	MeetingStatusPendingApproval MeetingStatus = "pending_approval"
	MeetingStatusApproved        MeetingStatus = "approved"
	MeetingStatusRejected        MeetingStatus = "rejected"
	MeetingStatusCancelled       MeetingStatus = "cancelled"
	MeetingStatusCompleted       MeetingStatus = "completed"
)

// MeetingPriority represents how urgent a meeting is
type MeetingPriority string

const (
	MeetingPriorityLow    MeetingPriority = "low"
	MeetingPriorityNormal MeetingPriority = "normal"
	MeetingPriorityHigh   MeetingPriority = "high"
)

// MeetingType classifies a meeting
type MeetingType string

const (
	MeetingTypeRegular  MeetingType = "regular"
	MeetingTypeProject  MeetingType = "project"
	MeetingTypeTraining MeetingType = "training"
	MeetingTypeFollowup MeetingType = "followup"
)

// AutoCancelReason is the standard reason recorded when the scheduler
// cancels a meeting that was never started within its grace period.
const AutoCancelReason = "not started in time"

// MinDurationMinutes is the minimum meeting duration accepted at creation.
const MinDurationMinutes = 15

// Meeting represents a scheduled meeting occupying a venue and attendees
type Meeting struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingNumber int       `gorm:"uniqueIndex;not null" json:"meeting_number"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`

	StartTime       time.Time `gorm:"not null;index" json:"start_time"`
	DurationMinutes int       `gorm:"not null;check:duration_minutes >= 15" json:"duration_minutes"`

	VenueID   uuid.UUID `gorm:"type:uuid;not null;index" json:"venue_id"`
	Venue     *Venue    `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *User     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	Status     MeetingStatus `gorm:"type:varchar(20);not null;default:'pending_approval';index" json:"status"`
	ApproverID *uuid.UUID    `gorm:"type:uuid;index" json:"approver_id,omitempty"`
	Approver   *User         `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`

	ApprovalComment *string    `gorm:"type:text" json:"approval_comment,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectReason    *string    `gorm:"type:text" json:"reject_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	CancelReason    *string    `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`

	Started   bool       `gorm:"not null;default:false" json:"started"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Ended     bool       `gorm:"not null;default:false" json:"ended"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	CurrentScribeID *uuid.UUID `gorm:"type:uuid" json:"current_scribe_id,omitempty"`
	ParentMeetingID *uuid.UUID `gorm:"type:uuid;index" json:"parent_meeting_id,omitempty"`

	Priority    MeetingPriority `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	MeetingType MeetingType     `gorm:"type:varchar(20);not null;default:'regular'" json:"meeting_type"`

	ReminderSentAt *time.Time     `json:"reminder_sent_at,omitempty"`
	Metadata       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata,omitempty"`

	Attendees []*MeetingAttendee `gorm:"foreignKey:MeetingID" json:"attendees,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// EndTime derives the scheduled end instant from start and duration
func (m *Meeting) EndTime() time.Time {
	return m.StartTime.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

// IsTerminal reports whether the meeting status can never change again
func (m *Meeting) IsTerminal() bool {
	switch m.Status {
	case MeetingStatusRejected, MeetingStatusCancelled, MeetingStatusCompleted:
		return true
	}
	return false
}

// OccupiesResources reports whether the meeting counts as a booking for
// conflict purposes. Rejected and cancelled meetings never conflict, and
// completed meetings are historical.
func (m *Meeting) OccupiesResources() bool {
	return m.Status == MeetingStatusPendingApproval || m.Status == MeetingStatusApproved
}

// InProgress reports whether the meeting is currently running
func (m *Meeting) InProgress() bool {
	return m.Started && !m.Ended
}

// ActualDurationSeconds returns how long the meeting has been running at
// the given instant, 0 if it never started.
func (m *Meeting) ActualDurationSeconds(now time.Time) int {
	if !m.Started || m.StartedAt == nil {
		return 0
	}
	end := now
	if m.Ended && m.EndedAt != nil {
		end = *m.EndedAt
	}
	secs := int(end.Sub(*m.StartedAt).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// MeetingAttendee is one attendee snapshot row for a meeting. The set is
// frozen at creation/update time; later department changes do not alter it.
type MeetingAttendee struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID     uuid.UUID `gorm:"type:uuid;not null;index:idx_meeting_attendee,unique" json:"meeting_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_meeting_attendee,unique" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ViaDepartment bool      `gorm:"not null;default:false" json:"via_department"`
	CreatedAt     time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for MeetingAttendee
func (MeetingAttendee) TableName() string {
	return "meeting_attendees"
}
