package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a user by ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs retrieves users by ids
func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*entities.User
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}

// FindIDsByDepartmentIDs returns the ids of active members of the departments
func (r *userRepository) FindIDsByDepartmentIDs(ctx context.Context, departmentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("department_id IN ? AND is_active = true", departmentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

// venueRepository implements the VenueRepository interface
type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository creates a new venue repository
func NewVenueRepository(db *gorm.DB) repositories.VenueRepository {
	return &venueRepository{db: db}
}

// FindByID retrieves a venue by ID
func (r *venueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Venue, error) {
	var venue entities.Venue
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&venue).Error

	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// departmentRepository implements the DepartmentRepository interface
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) repositories.DepartmentRepository {
	return &departmentRepository{db: db}
}

// FindByID retrieves a department by ID
func (r *departmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Department, error) {
	var department entities.Department
	err := r.db.WithContext(ctx).
		Preload("Approver").
		Where("id = ?", id).
		First(&department).Error

	if err != nil {
		return nil, err
	}
	return &department, nil
}
