package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail retrieves a user by email
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// FindByIDs retrieves users by ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.User, error)

	// FindIDsByDepartmentIDs returns the ids of active members of the
	// given departments.
	FindIDsByDepartmentIDs(ctx context.Context, departmentIDs []uuid.UUID) ([]uuid.UUID, error)
}

// VenueRepository defines the interface for venue data access
type VenueRepository interface {
	// FindByID retrieves a venue by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Venue, error)
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// FindByID retrieves a department by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Department, error)
}

// SessionRepository defines the interface for auth session data access
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entities.Session) error

	// FindByRefreshToken retrieves a session by its refresh token
	FindByRefreshToken(ctx context.Context, token string) (*entities.Session, error)

	// Update updates an existing session
	Update(ctx context.Context, session *entities.Session) error

	// RevokeByUserID revokes all sessions for a user
	RevokeByUserID(ctx context.Context, userID uuid.UUID) error
}
