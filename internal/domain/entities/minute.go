package entities

import (
	"time"

	"github.com/google/uuid"
)

// Minute is one ordered entry in a meeting's minutes log. Entries are
// append-only: deletion is a soft flag so pollers can learn about it.
type Minute struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID uuid.UUID `gorm:"type:uuid;not null;index:idx_minute_order,unique" json:"meeting_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`

	// SortOrder is strictly increasing within a meeting, starting at 1.
	SortOrder        int  `gorm:"column:sort_order;not null;index:idx_minute_order,unique" json:"sort_order"`
	IsScribeAuthored bool `gorm:"not null;default:false" json:"is_scribe_authored"`

	Deleted   bool       `gorm:"not null;default:false;index" json:"deleted"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"deleted_by,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now();index" json:"updated_at"`
}

// TableName specifies the table name for Minute
func (Minute) TableName() string {
	return "minutes"
}

// SoftDelete marks the minute deleted while keeping the row addressable
func (m *Minute) SoftDelete(by uuid.UUID, at time.Time) {
	m.Deleted = true
	m.DeletedAt = &at
	m.DeletedBy = &by
}
