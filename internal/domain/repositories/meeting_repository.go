package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create persists a new meeting together with its attendee snapshot
	// and assigns the next meeting number, all in one transaction.
	Create(ctx context.Context, meeting *entities.Meeting, attendees []*entities.MeetingAttendee) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByIDWithAttendees retrieves a meeting with its attendee snapshot preloaded
	FindByIDWithAttendees(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// Update updates an existing meeting
	Update(ctx context.Context, meeting *entities.Meeting) error

	// ReplaceAttendees swaps the attendee snapshot of a meeting
	ReplaceAttendees(ctx context.Context, meetingID uuid.UUID, attendees []*entities.MeetingAttendee) error

	// ListAttendeeIDs returns the user ids in the attendee snapshot
	ListAttendeeIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error)

	// List retrieves meetings with filters and pagination
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, int64, error)

	// FindVenueConflicts returns non-terminal meetings for the venue whose
	// booking window overlaps [start, end), excluding excludeID when non-nil.
	FindVenueConflicts(ctx context.Context, venueID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entities.Meeting, error)

	// FindAttendeeConflicts returns, per conflicting user, the non-terminal
	// meetings they attend whose booking window overlaps [start, end),
	// excluding excludeID when non-nil.
	FindAttendeeConflicts(ctx context.Context, userIDs []uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (map[uuid.UUID][]*entities.Meeting, error)

	// UpdateStatusIf performs a conditional status transition: the write
	// applies only while the row still holds the expected status. Returns
	// false when the guard failed (someone else transitioned first).
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next entities.MeetingStatus, updates map[string]interface{}) (bool, error)

	// MarkStartedIf sets started/started_at only while the meeting is
	// approved and not yet started. Returns false when the guard failed.
	MarkStartedIf(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// MarkEndedIf sets ended/ended_at and completes the meeting only while
	// it is approved, started and not yet ended. Returns false when the
	// guard failed.
	MarkEndedIf(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// UpdateScribe sets or clears the current scribe
	UpdateScribe(ctx context.Context, id uuid.UUID, scribeID *uuid.UUID) error

	// FindOverdueUnstarted returns approved, never-started meetings whose
	// scheduled end plus the grace period is before now.
	FindOverdueUnstarted(ctx context.Context, now time.Time, grace time.Duration) ([]*entities.Meeting, error)

	// FindElapsedStarted returns approved, started, not-ended meetings whose
	// scheduled end is before now.
	FindElapsedStarted(ctx context.Context, now time.Time) ([]*entities.Meeting, error)

	// FindNeedingReminder returns approved, not-ended meetings starting in
	// (from, to] that have no reminder recorded yet.
	FindNeedingReminder(ctx context.Context, from, to time.Time) ([]*entities.Meeting, error)

	// MarkReminderSentIf records the reminder timestamp only while none is
	// recorded. Returns false when another sweep got there first.
	MarkReminderSentIf(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Status     *entities.MeetingStatus
	VenueID    *uuid.UUID
	CreatorID  *uuid.UUID
	AttendeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Search     string
	Limit      int
	Offset     int
	SortBy     string // "start_time", "created_at", "meeting_number"
	SortOrder  string // "asc", "desc"
}
