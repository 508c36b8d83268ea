package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole defines user roles
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User represents a user in the system. User CRUD lives outside this
// service; the record here carries what scheduling needs: identity,
// department membership and approval capability.
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name  string    `json:"name" gorm:"type:varchar(255);not null"`
	Role  UserRole  `json:"role" gorm:"type:varchar(20);default:'employee';not null"`

	DepartmentID *uuid.UUID  `json:"department_id,omitempty" gorm:"type:uuid;index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`

	// CanApprove grants blanket approval rights independent of being a
	// department's designated approver.
	CanApprove bool `json:"can_approve" gorm:"not null;default:false"`

	PasswordHash *string `json:"-" gorm:"column:password_hash;type:text"`
	IsActive     bool    `json:"is_active" gorm:"default:true;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
