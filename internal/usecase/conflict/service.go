package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// Service answers whether a candidate booking window collides with
// existing non-terminal bookings for a venue or a set of attendees.
// It is the single gate in front of every booking write.
type Service struct {
	meetingRepo repositories.MeetingRepository
}

// NewService creates a new conflict service
func NewService(meetingRepo repositories.MeetingRepository) *Service {
	return &Service{meetingRepo: meetingRepo}
}

// CheckVenue returns a conflict error when the venue is already booked
// anywhere in [start, end). excludeID removes the meeting's own booking
// from the conflict set when editing.
func (s *Service) CheckVenue(ctx context.Context, venueID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	meetings, err := s.meetingRepo.FindVenueConflicts(ctx, venueID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to query venue conflicts: %w", err)
	}
	if len(meetings) == 0 {
		return nil
	}

	details := make([]apperrors.ConflictDetail, 0, len(meetings))
	for _, m := range meetings {
		details = append(details, toDetail(m))
	}
	return apperrors.ErrVenueConflict(venueID.String(), details)
}

// CheckAttendees returns a conflict error carrying, per conflicting user,
// the meetings that already occupy them in [start, end).
func (s *Service) CheckAttendees(ctx context.Context, userIDs []uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	byUser, err := s.meetingRepo.FindAttendeeConflicts(ctx, userIDs, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to query attendee conflicts: %w", err)
	}
	if len(byUser) == 0 {
		return nil
	}

	var details []apperrors.ConflictDetail
	for userID, meetings := range byUser {
		for _, m := range meetings {
			d := toDetail(m)
			d.UserID = userID.String()
			details = append(details, d)
		}
	}
	return apperrors.ErrAttendeeConflict(details)
}

func toDetail(m *entities.Meeting) apperrors.ConflictDetail {
	d := apperrors.ConflictDetail{
		MeetingID:     m.ID.String(),
		MeetingNumber: m.MeetingNumber,
		Name:          m.Name,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime(),
	}
	if m.Creator != nil {
		d.HostName = m.Creator.Name
	}
	return d
}
