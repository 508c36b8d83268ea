package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// MinuteRepository defines the interface for minutes data access
type MinuteRepository interface {
	// Create persists a new minute and assigns its sort order atomically
	// with respect to concurrent adds for the same meeting.
	Create(ctx context.Context, minute *entities.Minute) error

	// FindByID retrieves a minute by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Minute, error)

	// Update updates a minute's content (order never changes)
	Update(ctx context.Context, minute *entities.Minute) error

	// FindByMeetingID retrieves all non-deleted minutes ordered by sort order
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error)

	// FindUpdatedSince retrieves non-deleted minutes touched after the
	// cursor, ordered by sort order.
	FindUpdatedSince(ctx context.Context, meetingID uuid.UUID, since time.Time) ([]*entities.Minute, error)

	// FindDeletedSince retrieves ids of minutes soft-deleted after the cursor
	FindDeletedSince(ctx context.Context, meetingID uuid.UUID, since time.Time) ([]uuid.UUID, error)
}
