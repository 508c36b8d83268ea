package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PresenceSession is one continuous stretch of presence in a meeting.
// LeftAt is nil while the session is still open.
type PresenceSession struct {
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
}

// AttendanceRecord tracks one user's presence in one meeting
type AttendanceRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_pair,unique" json:"meeting_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_pair,unique" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Sessions datatypes.JSONSlice[PresenceSession] `gorm:"type:jsonb;default:'[]'" json:"sessions"`

	TotalDurationSeconds int        `gorm:"not null;default:0" json:"total_duration_seconds"`
	AttendancePercentage int        `gorm:"not null;default:0;check:attendance_percentage >= 0 AND attendance_percentage <= 100" json:"attendance_percentage"`
	IsOnline             bool       `gorm:"not null;default:false;index" json:"is_online"`
	LastHeartbeatAt      *time.Time `gorm:"index" json:"last_heartbeat_at,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for AttendanceRecord
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// OpenSession returns the session with no LeftAt, or nil. At most one
// session is ever open.
func (r *AttendanceRecord) OpenSession() *PresenceSession {
	for i := range r.Sessions {
		if r.Sessions[i].LeftAt == nil {
			return &r.Sessions[i]
		}
	}
	return nil
}

// CloseOpenSession closes the open session at the given instant and
// records its duration. No-op when no session is open.
func (r *AttendanceRecord) CloseOpenSession(at time.Time) {
	for i := range r.Sessions {
		if r.Sessions[i].LeftAt == nil {
			left := at
			if left.Before(r.Sessions[i].JoinedAt) {
				left = r.Sessions[i].JoinedAt
			}
			secs := int(left.Sub(r.Sessions[i].JoinedAt).Seconds())
			r.Sessions[i].LeftAt = &left
			r.Sessions[i].DurationSeconds = &secs
			return
		}
	}
}

// OpenNewSession appends a fresh open session starting at the given instant
func (r *AttendanceRecord) OpenNewSession(at time.Time) {
	r.Sessions = append(r.Sessions, PresenceSession{JoinedAt: at})
}

// Recompute refreshes the cumulative totals. Closed sessions contribute
// their recorded duration; an open session contributes up to now.
// actualMeetingSeconds is the meeting's running time so far (0 when the
// meeting never started), which bounds the percentage.
func (r *AttendanceRecord) Recompute(now time.Time, actualMeetingSeconds int) {
	total := 0
	for i := range r.Sessions {
		if r.Sessions[i].DurationSeconds != nil {
			total += *r.Sessions[i].DurationSeconds
		} else if r.Sessions[i].LeftAt == nil {
			open := int(now.Sub(r.Sessions[i].JoinedAt).Seconds())
			if open > 0 {
				total += open
			}
		}
	}
	r.TotalDurationSeconds = total

	if actualMeetingSeconds <= 0 {
		r.AttendancePercentage = 0
		return
	}
	pct := int(float64(total)/float64(actualMeetingSeconds)*100 + 0.5)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	r.AttendancePercentage = pct
}
