package attendance

import "time"

// SessionResponse represents one presence session
type SessionResponse struct {
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
}

// RecordResponse represents one user's attendance in a meeting
type RecordResponse struct {
	MeetingID            string             `json:"meeting_id"`
	UserID               string             `json:"user_id"`
	UserName             string             `json:"user_name,omitempty"`
	IsOnline             bool               `json:"is_online"`
	Sessions             []*SessionResponse `json:"sessions"`
	TotalDurationSeconds int                `json:"total_duration_seconds"`
	AttendancePercentage int                `json:"attendance_percentage"`
	LastHeartbeatAt      *time.Time         `json:"last_heartbeat_at,omitempty"`
}

// ListResponse represents the attendance of a whole meeting
type ListResponse struct {
	MeetingID string            `json:"meeting_id"`
	Records   []*RecordResponse `json:"records"`
	Online    int               `json:"online"`
}
