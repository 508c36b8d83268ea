package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// minuteRepository implements the MinuteRepository interface
type minuteRepository struct {
	db *gorm.DB
}

// NewMinuteRepository creates a new minute repository
func NewMinuteRepository(db *gorm.DB) repositories.MinuteRepository {
	return &minuteRepository{db: db}
}

// Create persists a minute. The meeting row is locked for the span of the
// transaction so concurrent adds for the same meeting serialize on the
// sort order computation and the resulting orders have no gaps or
// duplicates.
func (r *minuteRepository) Create(ctx context.Context, minute *entities.Minute) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meeting entities.Meeting
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", minute.MeetingID).
			First(&meeting).Error; err != nil {
			return err
		}

		var next int
		if err := tx.Raw(
			"SELECT COALESCE(MAX(sort_order), 0) + 1 FROM minutes WHERE meeting_id = ?",
			minute.MeetingID,
		).Scan(&next).Error; err != nil {
			return err
		}
		minute.SortOrder = next

		return tx.Create(minute).Error
	})
}

// FindByID retrieves a minute by ID
func (r *minuteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Minute, error) {
	var minute entities.Minute
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&minute).Error

	if err != nil {
		return nil, err
	}
	return &minute, nil
}

// Update updates a minute's content
func (r *minuteRepository) Update(ctx context.Context, minute *entities.Minute) error {
	return r.db.WithContext(ctx).Save(minute).Error
}

// FindByMeetingID retrieves all non-deleted minutes ordered by sort order
func (r *minuteRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error) {
	var minutes []*entities.Minute
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("meeting_id = ? AND deleted = false", meetingID).
		Order("sort_order ASC").
		Find(&minutes).Error
	return minutes, err
}

// FindUpdatedSince retrieves non-deleted minutes touched after the cursor
func (r *minuteRepository) FindUpdatedSince(ctx context.Context, meetingID uuid.UUID, since time.Time) ([]*entities.Minute, error) {
	var minutes []*entities.Minute
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("meeting_id = ? AND deleted = false AND updated_at > ?", meetingID, since).
		Order("sort_order ASC").
		Find(&minutes).Error
	return minutes, err
}

// FindDeletedSince retrieves ids of minutes soft-deleted after the cursor
func (r *minuteRepository) FindDeletedSince(ctx context.Context, meetingID uuid.UUID, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entities.Minute{}).
		Where("meeting_id = ? AND deleted = true AND deleted_at > ?", meetingID, since).
		Pluck("id", &ids).Error
	return ids, err
}
