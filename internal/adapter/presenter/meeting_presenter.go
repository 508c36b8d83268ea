package presenter

import (
	meetingDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/meeting"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meetingDTO.MeetingResponse {
	if m == nil {
		return nil
	}

	response := &meetingDTO.MeetingResponse{
		ID:            m.ID.String(),
		MeetingNumber: m.MeetingNumber,
		Name:          m.Name,

		StartTime:       m.StartTime,
		EndTime:         m.EndTime(),
		DurationMinutes: m.DurationMinutes,

		VenueID:   m.VenueID.String(),
		CreatorID: m.CreatorID.String(),

		Status: string(m.Status),

		ApprovalComment: m.ApprovalComment,
		ApprovedAt:      m.ApprovedAt,
		RejectReason:    m.RejectReason,
		RejectedAt:      m.RejectedAt,
		CancelReason:    m.CancelReason,
		CancelledAt:     m.CancelledAt,

		Started:   m.Started,
		StartedAt: m.StartedAt,
		Ended:     m.Ended,
		EndedAt:   m.EndedAt,

		Priority:    string(m.Priority),
		MeetingType: string(m.MeetingType),

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.ApproverID != nil {
		id := m.ApproverID.String()
		response.ApproverID = &id
	}
	if m.CurrentScribeID != nil {
		id := m.CurrentScribeID.String()
		response.CurrentScribeID = &id
	}
	if m.ParentMeetingID != nil {
		id := m.ParentMeetingID.String()
		response.ParentMeetingID = &id
	}

	if m.Venue != nil {
		venue := &meetingDTO.VenueResponse{
			ID:       m.Venue.ID.String(),
			Name:     m.Venue.Name,
			Capacity: m.Venue.Capacity,
		}
		if m.Venue.Location != nil {
			venue.Location = *m.Venue.Location
		}
		response.Venue = venue
	}
	if m.Creator != nil {
		response.Creator = ToUserResponse(m.Creator)
	}
	if m.Approver != nil {
		response.Approver = ToUserResponse(m.Approver)
	}

	for _, a := range m.Attendees {
		response.Attendees = append(response.Attendees, &meetingDTO.AttendeeResponse{
			UserID:        a.UserID.String(),
			User:          ToUserResponse(a.User),
			ViaDepartment: a.ViaDepartment,
		})
	}

	return response
}

// ToMeetingListResponse converts a slice of Meeting entities to MeetingListResponse
func ToMeetingListResponse(meetings []*entities.Meeting, total int64, page, pageSize int) *meetingDTO.MeetingListResponse {
	responses := make([]*meetingDTO.MeetingResponse, len(meetings))
	for i, m := range meetings {
		responses[i] = ToMeetingResponse(m)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &meetingDTO.MeetingListResponse{
		Meetings:   responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
