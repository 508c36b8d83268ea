package meeting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
	"github.com/meetsched-team/meetsched/internal/usecase/conflict"
	usecaseErrors "github.com/meetsched-team/meetsched/internal/usecase/errors"
)

// Windows holds the wall-clock tolerances of the lifecycle state machine.
type Windows struct {
	// EarlyStart is how long before the scheduled start a meeting may be started.
	EarlyStart time.Duration
	// LateStart is how long after the scheduled end a meeting may still be
	// started before it is auto-cancelled.
	LateStart time.Duration
	// ReminderLead is how far ahead of the start reminders go out.
	ReminderLead time.Duration
	// ReminderSpan is the width of one reminder sweep window.
	ReminderSpan time.Duration
}

// DefaultWindows returns the standard tolerances
func DefaultWindows() Windows {
	return Windows{
		EarlyStart:   15 * time.Minute,
		LateStart:    60 * time.Minute,
		ReminderLead: 3 * time.Hour,
		ReminderSpan: 30 * time.Minute,
	}
}

// Service owns the meeting lifecycle: creation behind the conflict gate,
// the approval workflow, time-gated start/end, scribe assignment and the
// scheduler-driven automatic transitions.
type Service struct {
	meetingRepo    repositories.MeetingRepository
	userRepo       repositories.UserRepository
	venueRepo      repositories.VenueRepository
	departmentRepo repositories.DepartmentRepository
	conflicts      *conflict.Service
	publisher      EventPublisher
	archiver       MinutesArchiver
	windows        Windows
	clock          clock.Clock
	logger         *zap.Logger
}

// NewService creates a new meeting service. publisher and archiver may be
// nil; logger must not be.
func NewService(
	meetingRepo repositories.MeetingRepository,
	userRepo repositories.UserRepository,
	venueRepo repositories.VenueRepository,
	departmentRepo repositories.DepartmentRepository,
	conflicts *conflict.Service,
	publisher EventPublisher,
	archiver MinutesArchiver,
	windows Windows,
	clk clock.Clock,
	logger *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		meetingRepo:    meetingRepo,
		userRepo:       userRepo,
		venueRepo:      venueRepo,
		departmentRepo: departmentRepo,
		conflicts:      conflicts,
		publisher:      publisher,
		archiver:       archiver,
		windows:        windows,
		clock:          clk,
		logger:         logger,
	}
}

// CreateMeetingInput represents input for scheduling a meeting
type CreateMeetingInput struct {
	Name            string
	StartTime       time.Time
	DurationMinutes int
	VenueID         uuid.UUID
	CreatorID       uuid.UUID
	AttendeeIDs     []uuid.UUID
	DepartmentIDs   []uuid.UUID
	Priority        entities.MeetingPriority
	MeetingType     entities.MeetingType
	FollowupOf      *uuid.UUID
}

// CreateMeeting validates, checks conflicts and persists a new meeting.
// The attendee set is the deduplicated union of the explicit selections
// and the members of the given departments, snapshotted now.
func (s *Service) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error) {
	now := s.clock.Now()

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.ErrValidation("meeting name is required")
	}
	if input.DurationMinutes < entities.MinDurationMinutes {
		return nil, apperrors.ErrValidation(
			fmt.Sprintf("duration must be at least %d minutes", entities.MinDurationMinutes))
	}
	if !input.StartTime.After(now) {
		return nil, apperrors.ErrValidation("meeting start time must be in the future")
	}

	venue, err := s.venueRepo.FindByID(ctx, input.VenueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound(input.VenueID.String())
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if !venue.IsActive {
		return nil, apperrors.ErrValidation("venue is not available for booking")
	}

	creator, err := s.userRepo.FindByID(ctx, input.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("creator")
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	attendees, err := s.expandAttendees(ctx, input.AttendeeIDs, input.DepartmentIDs)
	if err != nil {
		return nil, err
	}

	// A follow-up with no selections inherits the parent's snapshot.
	if len(attendees) == 0 && input.FollowupOf != nil {
		parentIDs, err := s.meetingRepo.ListAttendeeIDs(ctx, *input.FollowupOf)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent attendees: %w", err)
		}
		for _, id := range parentIDs {
			attendees = append(attendees, &entities.MeetingAttendee{UserID: id})
		}
	}
	if len(attendees) == 0 {
		return nil, apperrors.ErrValidation("meeting needs at least one attendee")
	}

	start := input.StartTime
	end := start.Add(time.Duration(input.DurationMinutes) * time.Minute)

	if err := s.conflicts.CheckVenue(ctx, input.VenueID, start, end, nil); err != nil {
		return nil, err
	}
	attendeeIDs := make([]uuid.UUID, len(attendees))
	for i, a := range attendees {
		attendeeIDs[i] = a.UserID
	}
	if err := s.conflicts.CheckAttendees(ctx, attendeeIDs, start, end, nil); err != nil {
		return nil, err
	}

	status, approverID, err := s.resolveApproval(ctx, creator)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = entities.MeetingPriorityNormal
	}
	meetingType := input.MeetingType
	if meetingType == "" {
		meetingType = entities.MeetingTypeRegular
	}

	meeting := &entities.Meeting{
		Name:            strings.TrimSpace(input.Name),
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		VenueID:         input.VenueID,
		CreatorID:       input.CreatorID,
		Status:          status,
		ApproverID:      approverID,
		Priority:        priority,
		MeetingType:     meetingType,
		ParentMeetingID: input.FollowupOf,
	}
	if status == entities.MeetingStatusApproved {
		meeting.ApprovedAt = &now
	}

	if err := s.meetingRepo.Create(ctx, meeting, attendees); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return meeting, nil
}

// UpdateMeetingInput represents a partial meeting update
type UpdateMeetingInput struct {
	Name            *string
	StartTime       *time.Time
	DurationMinutes *int
	VenueID         *uuid.UUID
	AttendeeIDs     []uuid.UUID
	DepartmentIDs   []uuid.UUID
	Priority        *entities.MeetingPriority
}

// UpdateMeeting applies a patch to a not-yet-started meeting. Time, venue
// or attendee changes re-enter the conflict gate with the meeting's own
// booking excluded.
func (s *Service) UpdateMeeting(ctx context.Context, id, actorID uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != actorID {
		return nil, apperrors.ErrNotCreator()
	}
	if meeting.IsTerminal() {
		return nil, apperrors.ErrInvalidState("meeting can no longer be modified")
	}
	if meeting.Started {
		return nil, apperrors.ErrInvalidState("meeting has already started")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.ErrValidation("meeting name is required")
		}
		meeting.Name = strings.TrimSpace(*input.Name)
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes < entities.MinDurationMinutes {
			return nil, apperrors.ErrValidation(
				fmt.Sprintf("duration must be at least %d minutes", entities.MinDurationMinutes))
		}
		meeting.DurationMinutes = *input.DurationMinutes
	}
	if input.StartTime != nil {
		if !input.StartTime.After(s.clock.Now()) {
			return nil, apperrors.ErrValidation("meeting start time must be in the future")
		}
		meeting.StartTime = *input.StartTime
	}
	if input.VenueID != nil {
		venue, err := s.venueRepo.FindByID(ctx, *input.VenueID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrVenueNotFound(input.VenueID.String())
			}
			return nil, fmt.Errorf("failed to get venue: %w", err)
		}
		if !venue.IsActive {
			return nil, apperrors.ErrValidation("venue is not available for booking")
		}
		meeting.VenueID = *input.VenueID
	}
	if input.Priority != nil {
		meeting.Priority = *input.Priority
	}

	var newAttendees []*entities.MeetingAttendee
	attendeeIDs, err := s.meetingRepo.ListAttendeeIDs(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendees: %w", err)
	}
	if input.AttendeeIDs != nil || input.DepartmentIDs != nil {
		newAttendees, err = s.expandAttendees(ctx, input.AttendeeIDs, input.DepartmentIDs)
		if err != nil {
			return nil, err
		}
		if len(newAttendees) == 0 {
			return nil, apperrors.ErrValidation("meeting needs at least one attendee")
		}
		attendeeIDs = make([]uuid.UUID, len(newAttendees))
		for i, a := range newAttendees {
			attendeeIDs[i] = a.UserID
		}
	}

	// Self-exclusion: the meeting's own booking never conflicts with its edit.
	start := meeting.StartTime
	end := meeting.EndTime()
	if err := s.conflicts.CheckVenue(ctx, meeting.VenueID, start, end, &meeting.ID); err != nil {
		return nil, err
	}
	if err := s.conflicts.CheckAttendees(ctx, attendeeIDs, start, end, &meeting.ID); err != nil {
		return nil, err
	}

	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	if newAttendees != nil {
		if err := s.meetingRepo.ReplaceAttendees(ctx, meeting.ID, newAttendees); err != nil {
			return nil, fmt.Errorf("failed to update attendees: %w", err)
		}
	}
	return meeting, nil
}

// GetMeeting retrieves a meeting with its attendee snapshot
func (s *Service) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByIDWithAttendees(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(id.String())
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// ListMeetings retrieves meetings with filters
func (s *Service) ListMeetings(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	meetings, total, err := s.meetingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// Approve moves a pending meeting to approved. Only the designated
// approver may do this; the transition is conditional so a concurrent
// reject or cancel cannot be overwritten.
func (s *Service) Approve(ctx context.Context, id, actorID uuid.UUID, comments string) (*entities.Meeting, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.ApproverID == nil || *meeting.ApproverID != actorID {
		return nil, apperrors.ErrNotApprover()
	}

	now := s.clock.Now()
	updates := map[string]interface{}{"approved_at": now}
	if strings.TrimSpace(comments) != "" {
		updates["approval_comment"] = strings.TrimSpace(comments)
	}

	ok, err := s.meetingRepo.UpdateStatusIf(ctx, id,
		entities.MeetingStatusPendingApproval, entities.MeetingStatusApproved, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to approve meeting: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidState("meeting is not pending approval")
	}
	return s.getMeeting(ctx, id)
}

// Reject moves a pending meeting to rejected. A non-empty reason is required.
func (s *Service) Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (*entities.Meeting, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.ErrValidation("rejection requires a reason")
	}

	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.ApproverID == nil || *meeting.ApproverID != actorID {
		return nil, apperrors.ErrNotApprover()
	}

	now := s.clock.Now()
	ok, err := s.meetingRepo.UpdateStatusIf(ctx, id,
		entities.MeetingStatusPendingApproval, entities.MeetingStatusRejected,
		map[string]interface{}{
			"reject_reason": strings.TrimSpace(reason),
			"rejected_at":   now,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to reject meeting: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidState("meeting is not pending approval")
	}
	return s.getMeeting(ctx, id)
}

// Cancel cancels a not-yet-started meeting. Creator only.
func (s *Service) Cancel(ctx context.Context, id, actorID uuid.UUID, reason string) (*entities.Meeting, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != actorID {
		return nil, apperrors.ErrNotCreator()
	}
	if meeting.IsTerminal() {
		return nil, apperrors.ErrInvalidState("meeting is already in a terminal state")
	}
	if meeting.Started {
		return nil, apperrors.ErrInvalidState("a started meeting cannot be cancelled, end it instead")
	}

	now := s.clock.Now()
	updates := map[string]interface{}{"cancelled_at": now}
	if strings.TrimSpace(reason) != "" {
		updates["cancel_reason"] = strings.TrimSpace(reason)
	}

	ok, err := s.meetingRepo.UpdateStatusIf(ctx, id, meeting.Status, entities.MeetingStatusCancelled, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel meeting: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidState("meeting state changed, please retry")
	}

	if err := s.publisher.MeetingCancelled(ctx, meeting, strings.TrimSpace(reason)); err != nil {
		s.logger.Warn("meeting.cancel.publish_failed",
			zap.String("meeting_id", id.String()), zap.Error(err))
	}
	return s.getMeeting(ctx, id)
}

// Start begins an approved meeting. The window is asymmetric: EarlyStart
// before the scheduled start, LateStart after the scheduled end. Starting
// past the late window auto-cancels the meeting.
func (s *Service) Start(ctx context.Context, id, actorID uuid.UUID, now time.Time) (*entities.Meeting, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != actorID {
		return nil, apperrors.ErrNotCreator()
	}
	if meeting.Started {
		return nil, apperrors.ErrInvalidState("meeting has already been started")
	}
	if meeting.Status != entities.MeetingStatusApproved {
		return nil, apperrors.ErrInvalidState(
			fmt.Sprintf("meeting cannot be started while %s", meeting.Status))
	}

	windowOpen := meeting.StartTime.Add(-s.windows.EarlyStart)
	windowClose := meeting.EndTime().Add(s.windows.LateStart)

	if now.Before(windowOpen) {
		wait := int(math.Ceil(windowOpen.Sub(now).Minutes()))
		return nil, apperrors.ErrTiming(
			fmt.Sprintf("meeting cannot be started yet, the start window opens in about %d minute(s)", wait)).
			WithDetail("window_opens_at", windowOpen.Format(time.RFC3339))
	}

	if now.After(windowClose) {
		// Grace period elapsed: the start attempt itself cancels the meeting.
		ok, err := s.meetingRepo.UpdateStatusIf(ctx, id,
			entities.MeetingStatusApproved, entities.MeetingStatusCancelled,
			map[string]interface{}{
				"cancel_reason": entities.AutoCancelReason,
				"cancelled_at":  now,
			})
		if err != nil {
			return nil, fmt.Errorf("failed to auto-cancel meeting: %w", err)
		}
		if ok {
			if err := s.publisher.MeetingCancelled(ctx, meeting, entities.AutoCancelReason); err != nil {
				s.logger.Warn("meeting.autocancel.publish_failed",
					zap.String("meeting_id", id.String()), zap.Error(err))
			}
		}
		return nil, apperrors.ErrTiming(
			"the grace period for starting this meeting has elapsed; it has been cancelled")
	}

	ok, err := s.meetingRepo.MarkStartedIf(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to start meeting: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidState("meeting state changed, please retry")
	}
	return s.getMeeting(ctx, id)
}

// End finishes a running meeting and completes it immediately. The
// scheduler sweep backstops meetings whose creator never calls this.
func (s *Service) End(ctx context.Context, id, actorID uuid.UUID, now time.Time) (*entities.Meeting, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != actorID {
		return nil, apperrors.ErrNotCreator()
	}
	if !meeting.Started {
		return nil, apperrors.ErrInvalidState("meeting has not been started")
	}
	if meeting.Ended {
		return nil, apperrors.ErrInvalidState("meeting has already ended")
	}

	ok, err := s.meetingRepo.MarkEndedIf(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to end meeting: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidState("meeting state changed, please retry")
	}

	s.finalize(ctx, meeting)
	return s.getMeeting(ctx, id)
}

// AssignScribe hands minute-authoring rights to an attendee
func (s *Service) AssignScribe(ctx context.Context, id, actorID, scribeID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != actorID {
		return nil, apperrors.ErrNotCreator()
	}
	if meeting.Ended || meeting.IsTerminal() {
		return nil, apperrors.ErrInvalidState("scribe cannot change once the meeting has ended")
	}
	if scribeID == meeting.CreatorID {
		return nil, apperrors.ErrValidation("the creator cannot be assigned as scribe")
	}

	attendeeIDs, err := s.meetingRepo.ListAttendeeIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendees: %w", err)
	}
	isAttendee := false
	for _, aid := range attendeeIDs {
		if aid == scribeID {
			isAttendee = true
			break
		}
	}
	if !isAttendee {
		return nil, apperrors.ErrValidation("scribe must be an attendee of the meeting")
	}

	if err := s.meetingRepo.UpdateScribe(ctx, id, &scribeID); err != nil {
		return nil, fmt.Errorf("failed to assign scribe: %w", err)
	}
	return s.getMeeting(ctx, id)
}

// RemoveScribe returns minute-authoring rights to the creator
func (s *Service) RemoveScribe(ctx context.Context, id, actorID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != actorID {
		return nil, apperrors.ErrNotCreator()
	}
	if meeting.Ended || meeting.IsTerminal() {
		return nil, apperrors.ErrInvalidState("scribe cannot change once the meeting has ended")
	}

	if err := s.meetingRepo.UpdateScribe(ctx, id, nil); err != nil {
		return nil, fmt.Errorf("failed to remove scribe: %w", err)
	}
	return s.getMeeting(ctx, id)
}

// SweepOverdueUnstarted cancels approved meetings never started within the
// grace period. One bad record never blocks the rest of the batch.
func (s *Service) SweepOverdueUnstarted(ctx context.Context, now time.Time) int {
	meetings, err := s.meetingRepo.FindOverdueUnstarted(ctx, now, s.windows.LateStart)
	if err != nil {
		s.logger.Error("sweep.overdue.query_failed", zap.Error(err))
		return 0
	}

	cancelled := 0
	for _, m := range meetings {
		ok, err := s.meetingRepo.UpdateStatusIf(ctx, m.ID,
			entities.MeetingStatusApproved, entities.MeetingStatusCancelled,
			map[string]interface{}{
				"cancel_reason": entities.AutoCancelReason,
				"cancelled_at":  now,
			})
		if err != nil {
			s.logger.Error("sweep.overdue.cancel_failed",
				zap.String("meeting_id", m.ID.String()), zap.Error(err))
			continue
		}
		if !ok {
			// Someone else transitioned it first; the sweep is idempotent.
			continue
		}
		cancelled++
		if err := s.publisher.MeetingCancelled(ctx, m, entities.AutoCancelReason); err != nil {
			s.logger.Warn("sweep.overdue.publish_failed",
				zap.String("meeting_id", m.ID.String()), zap.Error(err))
		}
	}
	return cancelled
}

// SweepElapsed completes approved, started meetings whose scheduled end
// has passed without the creator calling End.
func (s *Service) SweepElapsed(ctx context.Context, now time.Time) int {
	meetings, err := s.meetingRepo.FindElapsedStarted(ctx, now)
	if err != nil {
		s.logger.Error("sweep.elapsed.query_failed", zap.Error(err))
		return 0
	}

	completed := 0
	for _, m := range meetings {
		ok, err := s.meetingRepo.MarkEndedIf(ctx, m.ID, now)
		if err != nil {
			s.logger.Error("sweep.elapsed.complete_failed",
				zap.String("meeting_id", m.ID.String()), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		completed++
		s.finalize(ctx, m)
	}
	return completed
}

// SweepReminders emits at most one reminder per meeting starting inside
// the window (now+lead, now+lead+span].
func (s *Service) SweepReminders(ctx context.Context, now time.Time) int {
	from := now.Add(s.windows.ReminderLead)
	to := from.Add(s.windows.ReminderSpan)

	meetings, err := s.meetingRepo.FindNeedingReminder(ctx, from, to)
	if err != nil {
		s.logger.Error("sweep.reminders.query_failed", zap.Error(err))
		return 0
	}

	sent := 0
	for _, m := range meetings {
		ok, err := s.meetingRepo.MarkReminderSentIf(ctx, m.ID, now)
		if err != nil {
			s.logger.Error("sweep.reminders.mark_failed",
				zap.String("meeting_id", m.ID.String()), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		attendeeIDs, err := s.meetingRepo.ListAttendeeIDs(ctx, m.ID)
		if err != nil {
			s.logger.Error("sweep.reminders.attendees_failed",
				zap.String("meeting_id", m.ID.String()), zap.Error(err))
			continue
		}
		if err := s.publisher.MeetingReminder(ctx, m, attendeeIDs); err != nil {
			s.logger.Warn("sweep.reminders.publish_failed",
				zap.String("meeting_id", m.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// finalize runs the post-completion side effects: the completed event and
// the minutes archive export. Both are best effort.
func (s *Service) finalize(ctx context.Context, meeting *entities.Meeting) {
	if err := s.publisher.MeetingCompleted(ctx, meeting); err != nil {
		s.logger.Warn("meeting.complete.publish_failed",
			zap.String("meeting_id", meeting.ID.String()), zap.Error(err))
	}
	if s.archiver != nil {
		if err := s.archiver.ArchiveMeeting(ctx, meeting.ID); err != nil {
			s.logger.Warn("meeting.complete.archive_failed",
				zap.String("meeting_id", meeting.ID.String()), zap.Error(err))
		}
	}
}

// expandAttendees builds the deduplicated attendee snapshot from explicit
// selections plus department-member expansion.
func (s *Service) expandAttendees(ctx context.Context, attendeeIDs, departmentIDs []uuid.UUID) ([]*entities.MeetingAttendee, error) {
	seen := make(map[uuid.UUID]bool)
	var attendees []*entities.MeetingAttendee

	for _, id := range attendeeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		attendees = append(attendees, &entities.MeetingAttendee{UserID: id})
	}

	if len(departmentIDs) > 0 {
		memberIDs, err := s.userRepo.FindIDsByDepartmentIDs(ctx, departmentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to expand departments: %w", err)
		}
		for _, id := range memberIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			attendees = append(attendees, &entities.MeetingAttendee{UserID: id, ViaDepartment: true})
		}
	}
	return attendees, nil
}

// resolveApproval decides the initial status and approver of a new meeting
func (s *Service) resolveApproval(ctx context.Context, creator *entities.User) (entities.MeetingStatus, *uuid.UUID, error) {
	if creator.CanApprove {
		id := creator.ID
		return entities.MeetingStatusApproved, &id, nil
	}

	if creator.DepartmentID == nil {
		return "", nil, apperrors.ErrValidation(usecaseErrors.ErrNoApprover.Error())
	}
	department, err := s.departmentRepo.FindByID(ctx, *creator.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrValidation(usecaseErrors.ErrNoApprover.Error())
		}
		return "", nil, fmt.Errorf("failed to get department: %w", err)
	}
	if department.ApproverID == nil {
		return "", nil, apperrors.ErrValidation(usecaseErrors.ErrNoApprover.Error())
	}

	// The designated approver's own meetings skip the queue.
	if *department.ApproverID == creator.ID {
		id := creator.ID
		return entities.MeetingStatusApproved, &id, nil
	}
	return entities.MeetingStatusPendingApproval, department.ApproverID, nil
}

// getMeeting loads a meeting, normalizing the not-found error
func (s *Service) getMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(id.String())
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}
