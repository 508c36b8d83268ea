package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// meetingNumberLockKey serializes meeting number assignment across
// concurrent creates (postgres advisory lock, transaction scoped).
const meetingNumberLockKey = 421001

// occupyingStatuses are the statuses that count as holding a booking.
var occupyingStatuses = []entities.MeetingStatus{
	entities.MeetingStatusPendingApproval,
	entities.MeetingStatusApproved,
}

// overlapCond is the single overlap predicate for [start, end) against a
// meeting's booking window. One inequality pair covers starts-inside,
// ends-inside and fully-contains.
const overlapCond = "meetings.start_time < ? AND meetings.start_time + make_interval(mins => meetings.duration_minutes) > ?"

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create persists a meeting, its attendee snapshot and the next meeting
// number in one transaction.
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting, attendees []*entities.MeetingAttendee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", meetingNumberLockKey).Error; err != nil {
			return err
		}

		var next int
		if err := tx.Raw("SELECT COALESCE(MAX(meeting_number), 1000) + 1 FROM meetings").Scan(&next).Error; err != nil {
			return err
		}
		meeting.MeetingNumber = next

		if err := tx.Create(meeting).Error; err != nil {
			return err
		}

		for _, a := range attendees {
			a.MeetingID = meeting.ID
		}
		if len(attendees) > 0 {
			if err := tx.Create(&attendees).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Creator").
		Where("id = ?", id).
		First(&meeting).Error

	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// FindByIDWithAttendees retrieves a meeting with its attendee snapshot
func (r *meetingRepository) FindByIDWithAttendees(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Creator").
		Preload("Attendees").
		Preload("Attendees.User").
		Where("id = ?", id).
		First(&meeting).Error

	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// Update updates an existing meeting
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Save(meeting).Error
}

// ReplaceAttendees swaps the attendee snapshot of a meeting
func (r *meetingRepository) ReplaceAttendees(ctx context.Context, meetingID uuid.UUID, attendees []*entities.MeetingAttendee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&entities.MeetingAttendee{}).Error; err != nil {
			return err
		}
		for _, a := range attendees {
			a.MeetingID = meetingID
		}
		if len(attendees) > 0 {
			if err := tx.Create(&attendees).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListAttendeeIDs returns the user ids in the attendee snapshot
func (r *meetingRepository) ListAttendeeIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entities.MeetingAttendee{}).
		Where("meeting_id = ?", meetingID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// List retrieves meetings with filters and pagination
func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	var meetings []*entities.Meeting
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Meeting{}).Preload("Venue").Preload("Creator")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.VenueID != nil {
		query = query.Where("venue_id = ?", *filters.VenueID)
	}
	if filters.CreatorID != nil {
		query = query.Where("creator_id = ?", *filters.CreatorID)
	}
	if filters.AttendeeID != nil {
		query = query.Where("id IN (SELECT meeting_id FROM meeting_attendees WHERE user_id = ?)", *filters.AttendeeID)
	}
	if filters.From != nil {
		query = query.Where("start_time >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("start_time < ?", *filters.To)
	}
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", fmt.Sprintf("%%%s%%", filters.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "start_time"
	if filters.SortBy != "" {
		sortBy = filters.SortBy
	}
	sortOrder := "ASC"
	if filters.SortOrder != "" {
		sortOrder = filters.SortOrder
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&meetings).Error
	return meetings, total, err
}

// FindVenueConflicts returns non-terminal meetings overlapping [start, end) on the venue
func (r *meetingRepository) FindVenueConflicts(ctx context.Context, venueID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	query := r.db.WithContext(ctx).
		Preload("Creator").
		Where("venue_id = ?", venueID).
		Where("status IN ?", occupyingStatuses).
		Where(overlapCond, end, start)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	err := query.Order("start_time ASC").Find(&meetings).Error
	return meetings, err
}

// FindAttendeeConflicts returns, per user, the overlapping meetings they attend
func (r *meetingRepository) FindAttendeeConflicts(ctx context.Context, userIDs []uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (map[uuid.UUID][]*entities.Meeting, error) {
	if len(userIDs) == 0 {
		return map[uuid.UUID][]*entities.Meeting{}, nil
	}

	var pairs []struct {
		UserID    uuid.UUID
		MeetingID uuid.UUID
	}

	query := r.db.WithContext(ctx).
		Table("meeting_attendees").
		Select("meeting_attendees.user_id, meeting_attendees.meeting_id").
		Joins("JOIN meetings ON meetings.id = meeting_attendees.meeting_id").
		Where("meeting_attendees.user_id IN ?", userIDs).
		Where("meetings.status IN ?", occupyingStatuses).
		Where(overlapCond, end, start)

	if excludeID != nil {
		query = query.Where("meetings.id <> ?", *excludeID)
	}

	if err := query.Scan(&pairs).Error; err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return map[uuid.UUID][]*entities.Meeting{}, nil
	}

	meetingIDs := make([]uuid.UUID, 0, len(pairs))
	seen := make(map[uuid.UUID]bool)
	for _, p := range pairs {
		if !seen[p.MeetingID] {
			seen[p.MeetingID] = true
			meetingIDs = append(meetingIDs, p.MeetingID)
		}
	}

	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id IN ?", meetingIDs).Find(&meetings).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entities.Meeting, len(meetings))
	for _, m := range meetings {
		byID[m.ID] = m
	}

	result := make(map[uuid.UUID][]*entities.Meeting)
	for _, p := range pairs {
		if m, ok := byID[p.MeetingID]; ok {
			result[p.UserID] = append(result[p.UserID], m)
		}
	}
	return result, nil
}

// UpdateStatusIf performs a compare-and-swap status transition
func (r *meetingRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next entities.MeetingStatus, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": next}
	for k, v := range updates {
		values[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(values)

	return res.RowsAffected > 0, res.Error
}

// MarkStartedIf sets the started flag only while approved and not started
func (r *meetingRepository) MarkStartedIf(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ? AND started = false", id, entities.MeetingStatusApproved).
		Updates(map[string]interface{}{
			"started":    true,
			"started_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkEndedIf completes the meeting only while approved, started and not ended
func (r *meetingRepository) MarkEndedIf(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ? AND started = true AND ended = false", id, entities.MeetingStatusApproved).
		Updates(map[string]interface{}{
			"ended":    true,
			"ended_at": at,
			"status":   entities.MeetingStatusCompleted,
		})
	return res.RowsAffected > 0, res.Error
}

// UpdateScribe sets or clears the current scribe
func (r *meetingRepository) UpdateScribe(ctx context.Context, id uuid.UUID, scribeID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Update("current_scribe_id", scribeID).
		Error
}

// FindOverdueUnstarted returns approved meetings never started past end + grace
func (r *meetingRepository) FindOverdueUnstarted(ctx context.Context, now time.Time, grace time.Duration) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	err := r.db.WithContext(ctx).
		Where("status = ? AND started = false", entities.MeetingStatusApproved).
		Where("start_time + make_interval(mins => duration_minutes) < ?", now.Add(-grace)).
		Find(&meetings).Error
	return meetings, err
}

// FindElapsedStarted returns approved, running meetings past their scheduled end
func (r *meetingRepository) FindElapsedStarted(ctx context.Context, now time.Time) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	err := r.db.WithContext(ctx).
		Where("status = ? AND started = true AND ended = false", entities.MeetingStatusApproved).
		Where("start_time + make_interval(mins => duration_minutes) < ?", now).
		Find(&meetings).Error
	return meetings, err
}

// FindNeedingReminder returns approved meetings starting in (from, to] with no reminder yet
func (r *meetingRepository) FindNeedingReminder(ctx context.Context, from, to time.Time) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Where("status = ? AND ended = false AND reminder_sent_at IS NULL", entities.MeetingStatusApproved).
		Where("start_time > ? AND start_time <= ?", from, to).
		Find(&meetings).Error
	return meetings, err
}

// MarkReminderSentIf records the reminder timestamp once
func (r *meetingRepository) MarkReminderSentIf(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND reminder_sent_at IS NULL", id).
		Update("reminder_sent_at", at)
	return res.RowsAffected > 0, res.Error
}
