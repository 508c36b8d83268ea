package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, record *entities.AttendanceRecord) error

	// FindByMeetingAndUser retrieves the record for one (meeting, user) pair
	FindByMeetingAndUser(ctx context.Context, meetingID, userID uuid.UUID) (*entities.AttendanceRecord, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, record *entities.AttendanceRecord) error

	// FindByMeetingID retrieves all attendance records for a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error)

	// FindStale returns online records whose last heartbeat is older than
	// the cutoff. These belong to clients that disappeared without leaving.
	FindStale(ctx context.Context, cutoff time.Time) ([]*entities.AttendanceRecord, error)
}
