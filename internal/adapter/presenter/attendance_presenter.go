package presenter

import (
	"github.com/google/uuid"

	attendanceDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/attendance"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// ToAttendanceResponse converts an AttendanceRecord entity to RecordResponse DTO
func ToAttendanceResponse(r *entities.AttendanceRecord) *attendanceDTO.RecordResponse {
	if r == nil {
		return nil
	}

	sessions := make([]*attendanceDTO.SessionResponse, len(r.Sessions))
	for i := range r.Sessions {
		sessions[i] = &attendanceDTO.SessionResponse{
			JoinedAt:        r.Sessions[i].JoinedAt,
			LeftAt:          r.Sessions[i].LeftAt,
			DurationSeconds: r.Sessions[i].DurationSeconds,
		}
	}

	response := &attendanceDTO.RecordResponse{
		MeetingID:            r.MeetingID.String(),
		UserID:               r.UserID.String(),
		IsOnline:             r.IsOnline,
		Sessions:             sessions,
		TotalDurationSeconds: r.TotalDurationSeconds,
		AttendancePercentage: r.AttendancePercentage,
		LastHeartbeatAt:      r.LastHeartbeatAt,
	}
	if r.User != nil {
		response.UserName = r.User.Name
	}
	return response
}

// ToAttendanceListResponse converts attendance records to the meeting-level DTO
func ToAttendanceListResponse(meetingID uuid.UUID, records []*entities.AttendanceRecord) *attendanceDTO.ListResponse {
	responses := make([]*attendanceDTO.RecordResponse, len(records))
	online := 0
	for i, r := range records {
		responses[i] = ToAttendanceResponse(r)
		if r.IsOnline {
			online++
		}
	}
	return &attendanceDTO.ListResponse{
		MeetingID: meetingID.String(),
		Records:   responses,
		Online:    online,
	}
}
