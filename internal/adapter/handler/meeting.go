package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetsched-team/meetsched/errors"
	meetingDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/meeting"
	"github.com/meetsched-team/meetsched/internal/adapter/presenter"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
	meetingUsecase "github.com/meetsched-team/meetsched/internal/usecase/meeting"
)

// Meeting handles meeting lifecycle HTTP requests
type Meeting struct {
	meetingService *meetingUsecase.Service
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService *meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		logger:         logger,
	}
}

// CreateMeeting handles POST /v1/meetings
func (h *Meeting) CreateMeeting(c echo.Context) error {
	var req meetingDTO.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	input, err := buildCreateInput(&req, userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.CreateMeeting(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.ToMeetingResponse(meeting))
}

// GetMeeting handles GET /v1/meetings/:id
func (h *Meeting) GetMeeting(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// ListMeetings handles GET /v1/meetings
func (h *Meeting) ListMeetings(c echo.Context) error {
	var req meetingDTO.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filters, err := buildFilters(&req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meetings, total, err := h.meetingService.ListMeetings(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK,
		presenter.ToMeetingListResponse(meetings, total, req.Page, req.PageSize))
}

// UpdateMeeting handles PUT /v1/meetings/:id
func (h *Meeting) UpdateMeeting(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.UpdateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	input, err := buildUpdateInput(&req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.UpdateMeeting(c.Request().Context(), id, userID, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// ApproveMeeting handles POST /v1/meetings/:id/approve
func (h *Meeting) ApproveMeeting(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.ApproveMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.Approve(c.Request().Context(), id, userID, req.Comments)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// RejectMeeting handles POST /v1/meetings/:id/reject
func (h *Meeting) RejectMeeting(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.RejectMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.Reject(c.Request().Context(), id, userID, req.Reason)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// CancelMeeting handles POST /v1/meetings/:id/cancel
func (h *Meeting) CancelMeeting(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.CancelMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.Cancel(c.Request().Context(), id, userID, req.Reason)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// StartMeeting handles POST /v1/meetings/:id/start
func (h *Meeting) StartMeeting(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.Start(c.Request().Context(), id, userID, time.Now())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// EndMeeting handles POST /v1/meetings/:id/end
func (h *Meeting) EndMeeting(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.End(c.Request().Context(), id, userID, time.Now())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// AssignScribe handles PUT /v1/meetings/:id/scribe
func (h *Meeting) AssignScribe(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.AssignScribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	scribeID, err := uuid.Parse(req.ScribeID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrValidation("scribe_id must be a valid UUID"))
	}

	meeting, err := h.meetingService.AssignScribe(c.Request().Context(), id, userID, scribeID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// RemoveScribe handles DELETE /v1/meetings/:id/scribe
func (h *Meeting) RemoveScribe(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.RemoveScribe(c.Request().Context(), id, userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(meeting))
}

// buildCreateInput converts the request DTO to the usecase input
func buildCreateInput(req *meetingDTO.CreateMeetingRequest, creatorID uuid.UUID) (meetingUsecase.CreateMeetingInput, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return meetingUsecase.CreateMeetingInput{}, apperrors.ErrValidation("venue_id must be a valid UUID")
	}

	attendeeIDs, err := parseUUIDs(req.AttendeeIDs, "attendee_ids")
	if err != nil {
		return meetingUsecase.CreateMeetingInput{}, err
	}
	departmentIDs, err := parseUUIDs(req.DepartmentIDs, "department_ids")
	if err != nil {
		return meetingUsecase.CreateMeetingInput{}, err
	}

	input := meetingUsecase.CreateMeetingInput{
		Name:            req.Name,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		VenueID:         venueID,
		CreatorID:       creatorID,
		AttendeeIDs:     attendeeIDs,
		DepartmentIDs:   departmentIDs,
		Priority:        entities.MeetingPriorityNormal,
		MeetingType:     entities.MeetingTypeRegular,
	}
	if req.Priority != "" {
		input.Priority = entities.MeetingPriority(req.Priority)
	}
	if req.MeetingType != "" {
		input.MeetingType = entities.MeetingType(req.MeetingType)
	}
	if req.FollowupOf != nil {
		parentID, err := uuid.Parse(*req.FollowupOf)
		if err != nil {
			return meetingUsecase.CreateMeetingInput{}, apperrors.ErrValidation("followup_of must be a valid UUID")
		}
		input.FollowupOf = &parentID
	}

	return input, nil
}

// buildUpdateInput converts the update DTO to the usecase input
func buildUpdateInput(req *meetingDTO.UpdateMeetingRequest) (meetingUsecase.UpdateMeetingInput, error) {
	input := meetingUsecase.UpdateMeetingInput{
		Name:            req.Name,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	}

	if req.VenueID != nil {
		venueID, err := uuid.Parse(*req.VenueID)
		if err != nil {
			return input, apperrors.ErrValidation("venue_id must be a valid UUID")
		}
		input.VenueID = &venueID
	}

	attendeeIDs, err := parseUUIDs(req.AttendeeIDs, "attendee_ids")
	if err != nil {
		return input, err
	}
	input.AttendeeIDs = attendeeIDs

	departmentIDs, err := parseUUIDs(req.DepartmentIDs, "department_ids")
	if err != nil {
		return input, err
	}
	input.DepartmentIDs = departmentIDs

	if req.Priority != nil {
		priority := entities.MeetingPriority(*req.Priority)
		input.Priority = &priority
	}

	return input, nil
}

// buildFilters converts ListMeetingsRequest to repository filters
func buildFilters(req *meetingDTO.ListMeetingsRequest) (repositories.MeetingFilters, error) {
	filters := repositories.MeetingFilters{
		From:      req.From,
		To:        req.To,
		Search:    req.Search,
		Limit:     req.PageSize,
		Offset:    (req.Page - 1) * req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	if req.Status != nil {
		status := entities.MeetingStatus(*req.Status)
		filters.Status = &status
	}
	if req.VenueID != nil {
		venueID, err := uuid.Parse(*req.VenueID)
		if err != nil {
			return filters, apperrors.ErrValidation("venue_id must be a valid UUID")
		}
		filters.VenueID = &venueID
	}
	if req.CreatorID != nil {
		creatorID, err := uuid.Parse(*req.CreatorID)
		if err != nil {
			return filters, apperrors.ErrValidation("creator_id must be a valid UUID")
		}
		filters.CreatorID = &creatorID
	}

	return filters, nil
}

func parseUUIDs(values []string, field string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, apperrors.ErrValidation(field + " must contain valid UUIDs")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
