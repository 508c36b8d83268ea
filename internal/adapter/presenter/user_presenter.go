package presenter

import (
	authDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/auth"
	meetingDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/meeting"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// ToAuthUserResponse converts a User entity to the auth UserResponse DTO
func ToAuthUserResponse(u *entities.User) *authDTO.UserResponse {
	if u == nil {
		return nil
	}

	response := &authDTO.UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		CanApprove: u.CanApprove,
	}
	if u.DepartmentID != nil {
		id := u.DepartmentID.String()
		response.DepartmentID = &id
	}
	return response
}

// ToUserResponse converts a User entity to the meeting-scoped UserResponse DTO
func ToUserResponse(u *entities.User) *meetingDTO.UserResponse {
	if u == nil {
		return nil
	}
	return &meetingDTO.UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}
