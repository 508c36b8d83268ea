package minutes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// LifecycleSnapshot is the meeting state piggybacked on every poll response
// so clients track scribe changes and lifecycle transitions without a
// second request.
type LifecycleSnapshot struct {
	Status          entities.MeetingStatus `json:"status"`
	Started         bool                   `json:"started"`
	Ended           bool                   `json:"ended"`
	CurrentScribeID *uuid.UUID             `json:"current_scribe_id,omitempty"`
}

// PollResult carries everything that changed after the client's cursor.
type PollResult struct {
	Updates    []*entities.Minute `json:"updates"`
	DeletedIDs []uuid.UUID        `json:"deleted_ids"`
	Lifecycle  LifecycleSnapshot  `json:"lifecycle"`
	NewCursor  time.Time          `json:"new_cursor"`
}

// Service implements collaborative minutes for a running meeting: ordered
// append, author-scoped edit and soft delete, and cursor-based polling.
type Service struct {
	minuteRepo  repositories.MinuteRepository
	meetingRepo repositories.MeetingRepository
}

// NewService creates a new minutes service
func NewService(minuteRepo repositories.MinuteRepository, meetingRepo repositories.MeetingRepository) *Service {
	return &Service{
		minuteRepo:  minuteRepo,
		meetingRepo: meetingRepo,
	}
}

// AddMinute appends a new entry. Authorship is exclusive: the assigned
// scribe when one exists, otherwise the creator. The meeting must be
// running, and the entry's order is assigned by the repository so
// concurrent adds never collide.
func (s *Service) AddMinute(ctx context.Context, meetingID, authorID uuid.UUID, content string) (*entities.Minute, error) {
	meeting, err := s.getMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.InProgress() {
		return nil, apperrors.ErrInvalidState("minutes can only be added while the meeting is running")
	}
	if err := checkAuthor(meeting, authorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrValidation("minute content must not be empty")
	}

	minute := &entities.Minute{
		MeetingID:        meetingID,
		AuthorID:         authorID,
		Content:          content,
		IsScribeAuthored: meeting.CurrentScribeID != nil && *meeting.CurrentScribeID == authorID,
	}
	if err := s.minuteRepo.Create(ctx, minute); err != nil {
		return nil, fmt.Errorf("failed to create minute: %w", err)
	}
	return minute, nil
}

// EditMinute replaces the content of an existing entry. Only the original
// author may edit, and only while the meeting has not ended. Order never
// changes on edit.
func (s *Service) EditMinute(ctx context.Context, minuteID, actorID uuid.UUID, content string) (*entities.Minute, error) {
	minute, err := s.getMinute(ctx, minuteID)
	if err != nil {
		return nil, err
	}
	meeting, err := s.getMeeting(ctx, minute.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Ended {
		return nil, apperrors.ErrInvalidState("minutes are locked once the meeting has ended")
	}
	if minute.AuthorID != actorID {
		return nil, apperrors.ErrNotMinuteAuthor()
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrValidation("minute content must not be empty")
	}

	minute.Content = content
	if err := s.minuteRepo.Update(ctx, minute); err != nil {
		return nil, fmt.Errorf("failed to update minute: %w", err)
	}
	return minute, nil
}

// DeleteMinute soft-deletes an entry so pollers can pick up the removal.
// The row keeps its order slot; later entries are never renumbered.
func (s *Service) DeleteMinute(ctx context.Context, minuteID, actorID uuid.UUID, now time.Time) error {
	minute, err := s.getMinute(ctx, minuteID)
	if err != nil {
		return err
	}
	meeting, err := s.getMeeting(ctx, minute.MeetingID)
	if err != nil {
		return err
	}
	if meeting.Ended {
		return apperrors.ErrInvalidState("minutes are locked once the meeting has ended")
	}
	if minute.AuthorID != actorID {
		return apperrors.ErrNotMinuteAuthor()
	}

	minute.SoftDelete(actorID, now)
	if err := s.minuteRepo.Update(ctx, minute); err != nil {
		return fmt.Errorf("failed to delete minute: %w", err)
	}
	return nil
}

// ListMinutes returns all live entries for a meeting in order
func (s *Service) ListMinutes(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error) {
	if _, err := s.getMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	minutes, err := s.minuteRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list minutes: %w", err)
	}
	return minutes, nil
}

// Poll returns entries created or edited after since, ids deleted after
// since, the current lifecycle snapshot and the cursor for the next call.
// The new cursor is taken before the queries run, so a write landing during
// the poll is delivered again next time rather than lost.
func (s *Service) Poll(ctx context.Context, meetingID uuid.UUID, since time.Time, now time.Time) (*PollResult, error) {
	meeting, err := s.getMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	newCursor := now
	updates, err := s.minuteRepo.FindUpdatedSince(ctx, meetingID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to poll minutes: %w", err)
	}
	deletedIDs, err := s.minuteRepo.FindDeletedSince(ctx, meetingID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to poll deleted minutes: %w", err)
	}

	return &PollResult{
		Updates:    updates,
		DeletedIDs: deletedIDs,
		Lifecycle: LifecycleSnapshot{
			Status:          meeting.Status,
			Started:         meeting.Started,
			Ended:           meeting.Ended,
			CurrentScribeID: meeting.CurrentScribeID,
		},
		NewCursor: newCursor,
	}, nil
}

// checkAuthor enforces exclusive authorship: while a scribe is assigned only
// the scribe may write; with no scribe the creator holds the pen.
func checkAuthor(meeting *entities.Meeting, authorID uuid.UUID) error {
	if meeting.CurrentScribeID != nil {
		if *meeting.CurrentScribeID == authorID {
			return nil
		}
		return apperrors.ErrPermissionDenied("only the assigned scribe may write minutes")
	}
	if meeting.CreatorID == authorID {
		return nil
	}
	return apperrors.ErrPermissionDenied("only the meeting creator may write minutes")
}

func (s *Service) getMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

func (s *Service) getMinute(ctx context.Context, minuteID uuid.UUID) (*entities.Minute, error) {
	minute, err := s.minuteRepo.FindByID(ctx, minuteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMinuteNotFound(minuteID.String())
		}
		return nil, fmt.Errorf("failed to get minute: %w", err)
	}
	if minute.Deleted {
		return nil, apperrors.ErrMinuteNotFound(minuteID.String())
	}
	return minute, nil
}
