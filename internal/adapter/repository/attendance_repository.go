package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// attendanceRepository implements the AttendanceRepository interface
type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) repositories.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create creates a new attendance record
func (r *attendanceRepository) Create(ctx context.Context, record *entities.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByMeetingAndUser retrieves the record for one (meeting, user) pair
func (r *attendanceRepository) FindByMeetingAndUser(ctx context.Context, meetingID, userID uuid.UUID) (*entities.AttendanceRecord, error) {
	var record entities.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		First(&record).Error

	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update updates an existing attendance record
func (r *attendanceRepository) Update(ctx context.Context, record *entities.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// FindByMeetingID retrieves all attendance records for a meeting
func (r *attendanceRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	var records []*entities.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// FindStale returns online records silent since before the cutoff
func (r *attendanceRepository) FindStale(ctx context.Context, cutoff time.Time) ([]*entities.AttendanceRecord, error) {
	var records []*entities.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("is_online = true AND last_heartbeat_at < ?", cutoff).
		Find(&records).Error
	return records, err
}
