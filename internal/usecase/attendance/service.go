package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// Thresholds holds the presence timing constants.
type Thresholds struct {
	// Liveness is the maximum heartbeat gap still counted as the same
	// continuous session.
	Liveness time.Duration
	// Staleness is how long a silent record stays online before the sweep
	// forces it offline.
	Staleness time.Duration
}

// DefaultThresholds returns the standard presence thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		Liveness:  15 * time.Second,
		Staleness: 30 * time.Second,
	}
}

// Service turns periodic liveness signals into session history, cumulative
// duration and an attendance percentage per (meeting, user) pair.
type Service struct {
	attendanceRepo repositories.AttendanceRepository
	meetingRepo    repositories.MeetingRepository
	thresholds     Thresholds
	logger         *zap.Logger
}

// NewService creates a new attendance service
func NewService(
	attendanceRepo repositories.AttendanceRepository,
	meetingRepo repositories.MeetingRepository,
	thresholds Thresholds,
	logger *zap.Logger,
) *Service {
	return &Service{
		attendanceRepo: attendanceRepo,
		meetingRepo:    meetingRepo,
		thresholds:     thresholds,
		logger:         logger,
	}
}

// Heartbeat records a liveness signal. The first heartbeat creates the
// record with one open session; a gap beyond the liveness threshold closes
// the previous session at the last known heartbeat and opens a new one at
// now; a gap within the threshold only advances the totals. Repeated
// heartbeats inside the threshold are idempotent with respect to session
// count and duration.
func (s *Service) Heartbeat(ctx context.Context, meetingID, userID uuid.UUID, now time.Time) (*entities.AttendanceRecord, error) {
	meeting, err := s.runningMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkMembership(ctx, meeting, userID); err != nil {
		return nil, err
	}

	record, err := s.attendanceRepo.FindByMeetingAndUser(ctx, meetingID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if record == nil {
		record = &entities.AttendanceRecord{
			MeetingID: meetingID,
			UserID:    userID,
		}
		record.OpenNewSession(now)
		record.IsOnline = true
		record.LastHeartbeatAt = &now
		record.Recompute(now, meeting.ActualDurationSeconds(now))
		if err := s.attendanceRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create attendance record: %w", err)
		}
		return record, nil
	}

	last := record.LastHeartbeatAt
	switch {
	case last == nil:
		// Record exists but every session was closed by leave or the sweep.
		record.OpenNewSession(now)
	case now.Sub(*last) > s.thresholds.Liveness:
		// Connectivity dropped: the old session truly ended at the last
		// heartbeat, not now. This yields disjoint sessions instead of one
		// artificially long one.
		record.CloseOpenSession(*last)
		record.OpenNewSession(now)
	default:
		if record.OpenSession() == nil {
			record.OpenNewSession(now)
		}
	}

	record.IsOnline = true
	record.LastHeartbeatAt = &now
	record.Recompute(now, meeting.ActualDurationSeconds(now))

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return record, nil
}

// Leave is the clean-disconnect path: it closes the open session at now
// and marks the user offline.
func (s *Service) Leave(ctx context.Context, meetingID, userID uuid.UUID, now time.Time) (*entities.AttendanceRecord, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	record, err := s.attendanceRepo.FindByMeetingAndUser(ctx, meetingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("attendance record")
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	record.CloseOpenSession(now)
	record.IsOnline = false
	record.LastHeartbeatAt = nil
	record.Recompute(now, meeting.ActualDurationSeconds(now))

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return record, nil
}

// GetAttendance retrieves all attendance records for a meeting
func (s *Service) GetAttendance(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	if _, err := s.meetingRepo.FindByID(ctx, meetingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	records, err := s.attendanceRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	return records, nil
}

// SweepStaleSessions closes sessions for clients that disappeared without
// calling Leave (closed tab, crash). A record silent for longer than the
// staleness threshold is closed at its last heartbeat and marked offline.
func (s *Service) SweepStaleSessions(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.thresholds.Staleness)
	records, err := s.attendanceRepo.FindStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("sweep.stale_sessions.query_failed", zap.Error(err))
		return 0
	}

	closed := 0
	for _, record := range records {
		if record.LastHeartbeatAt != nil {
			record.CloseOpenSession(*record.LastHeartbeatAt)
		} else {
			record.CloseOpenSession(now)
		}
		record.IsOnline = false
		record.LastHeartbeatAt = nil

		meeting, err := s.meetingRepo.FindByID(ctx, record.MeetingID)
		if err != nil {
			s.logger.Error("sweep.stale_sessions.meeting_failed",
				zap.String("meeting_id", record.MeetingID.String()), zap.Error(err))
			continue
		}
		record.Recompute(now, meeting.ActualDurationSeconds(now))

		if err := s.attendanceRepo.Update(ctx, record); err != nil {
			s.logger.Error("sweep.stale_sessions.update_failed",
				zap.String("meeting_id", record.MeetingID.String()),
				zap.String("user_id", record.UserID.String()), zap.Error(err))
			continue
		}
		closed++
	}
	return closed
}

// runningMeeting loads the meeting and requires it to be in progress
func (s *Service) runningMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	if !meeting.InProgress() {
		return nil, apperrors.ErrInvalidState("presence can only be reported while the meeting is running")
	}
	return meeting, nil
}

// checkMembership requires the user to be the creator, the scribe or an attendee
func (s *Service) checkMembership(ctx context.Context, meeting *entities.Meeting, userID uuid.UUID) error {
	if meeting.CreatorID == userID {
		return nil
	}
	if meeting.CurrentScribeID != nil && *meeting.CurrentScribeID == userID {
		return nil
	}
	attendeeIDs, err := s.meetingRepo.ListAttendeeIDs(ctx, meeting.ID)
	if err != nil {
		return fmt.Errorf("failed to load attendees: %w", err)
	}
	for _, id := range attendeeIDs {
		if id == userID {
			return nil
		}
	}
	return apperrors.ErrPermissionDenied("user is not part of this meeting")
}
