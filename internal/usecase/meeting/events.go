package meeting

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// EventPublisher notifies external collaborators about lifecycle changes.
// Delivery and formatting are outside this service; implementations must
// tolerate being called for the same meeting more than once.
type EventPublisher interface {
	// MeetingReminder announces an upcoming meeting, once per attendee
	MeetingReminder(ctx context.Context, meeting *entities.Meeting, attendeeIDs []uuid.UUID) error

	// MeetingCancelled announces a cancellation with its reason
	MeetingCancelled(ctx context.Context, meeting *entities.Meeting, reason string) error

	// MeetingCompleted announces a completed meeting
	MeetingCompleted(ctx context.Context, meeting *entities.Meeting) error
}

// MinutesArchiver exports the final minutes of a completed meeting to
// durable object storage.
type MinutesArchiver interface {
	ArchiveMeeting(ctx context.Context, meetingID uuid.UUID) error
}

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) MeetingReminder(context.Context, *entities.Meeting, []uuid.UUID) error {
	return nil
}

func (NopPublisher) MeetingCancelled(context.Context, *entities.Meeting, string) error {
	return nil
}

func (NopPublisher) MeetingCompleted(context.Context, *entities.Meeting) error {
	return nil
}
