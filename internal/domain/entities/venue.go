package entities

import (
	"time"

	"github.com/google/uuid"
)

// Venue represents a bookable meeting room. Venue CRUD lives outside this
// service; only identity and capacity matter for scheduling.
type Venue struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Location *string   `gorm:"type:varchar(255)" json:"location,omitempty"`
	Capacity int       `gorm:"not null;default:10" json:"capacity"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Venue
func (Venue) TableName() string {
	return "venues"
}
