package presenter

import (
	minutesDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/minutes"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	minutesUsecase "github.com/meetsched-team/meetsched/internal/usecase/minutes"
)

// ToMinuteResponse converts a Minute entity to MinuteResponse DTO
func ToMinuteResponse(m *entities.Minute) *minutesDTO.MinuteResponse {
	if m == nil {
		return nil
	}

	response := &minutesDTO.MinuteResponse{
		ID:               m.ID.String(),
		MeetingID:        m.MeetingID.String(),
		AuthorID:         m.AuthorID.String(),
		Content:          m.Content,
		SortOrder:        m.SortOrder,
		IsScribeAuthored: m.IsScribeAuthored,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		DeletedAt:        m.DeletedAt,
	}
	if m.Author != nil {
		response.AuthorName = m.Author.Name
	}
	return response
}

// ToMinuteListResponse converts a slice of Minute entities to MinuteListResponse
func ToMinuteListResponse(minutes []*entities.Minute) *minutesDTO.MinuteListResponse {
	responses := make([]*minutesDTO.MinuteResponse, len(minutes))
	for i, m := range minutes {
		responses[i] = ToMinuteResponse(m)
	}
	return &minutesDTO.MinuteListResponse{
		Minutes: responses,
		Total:   len(responses),
	}
}

// ToPollResponse converts a poll result to PollResponse DTO
func ToPollResponse(result *minutesUsecase.PollResult) *minutesDTO.PollResponse {
	if result == nil {
		return nil
	}

	updates := make([]*minutesDTO.MinuteResponse, len(result.Updates))
	for i, m := range result.Updates {
		updates[i] = ToMinuteResponse(m)
	}

	deleted := make([]string, len(result.DeletedIDs))
	for i, id := range result.DeletedIDs {
		deleted[i] = id.String()
	}

	lifecycle := minutesDTO.LifecycleResponse{
		Status:  string(result.Lifecycle.Status),
		Started: result.Lifecycle.Started,
		Ended:   result.Lifecycle.Ended,
	}
	if result.Lifecycle.CurrentScribeID != nil {
		id := result.Lifecycle.CurrentScribeID.String()
		lifecycle.CurrentScribeID = &id
	}

	return &minutesDTO.PollResponse{
		Updates:    updates,
		DeletedIDs: deleted,
		Lifecycle:  lifecycle,
		NewCursor:  result.NewCursor,
	}
}
