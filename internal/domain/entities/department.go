package entities

import (
	"time"

	"github.com/google/uuid"
)

// Department groups users and designates the approver whose sign-off a
// pending meeting from that department requires.
type Department struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	ApproverID *uuid.UUID `gorm:"type:uuid" json:"approver_id,omitempty"`
	Approver   *User      `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}
