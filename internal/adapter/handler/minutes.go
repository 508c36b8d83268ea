package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/adapter/dto/common"
	minutesDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/minutes"
	"github.com/meetsched-team/meetsched/internal/adapter/presenter"
	minutesUsecase "github.com/meetsched-team/meetsched/internal/usecase/minutes"
)

// ArchiveURLProvider resolves download URLs for archived minutes
type ArchiveURLProvider interface {
	ArchiveURL(ctx context.Context, meetingID uuid.UUID) (string, error)
}

// Minutes handles collaborative minutes HTTP requests
type Minutes struct {
	minutesService *minutesUsecase.Service
	archive        ArchiveURLProvider // nil when object storage is disabled
	logger         *zap.Logger
}

// NewMinutesHandler creates a new minutes handler
func NewMinutesHandler(minutesService *minutesUsecase.Service, archive ArchiveURLProvider, logger *zap.Logger) *Minutes {
	return &Minutes{
		minutesService: minutesService,
		archive:        archive,
		logger:         logger,
	}
}

// AddMinute handles POST /v1/meetings/:id/minutes
func (h *Minutes) AddMinute(c echo.Context) error {
	meetingID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req minutesDTO.AddMinuteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	minute, err := h.minutesService.AddMinute(c.Request().Context(), meetingID, userID, req.Content)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.ToMinuteResponse(minute))
}

// EditMinute handles PUT /v1/minutes/:id
func (h *Minutes) EditMinute(c echo.Context) error {
	minuteID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req minutesDTO.EditMinuteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	minute, err := h.minutesService.EditMinute(c.Request().Context(), minuteID, userID, req.Content)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMinuteResponse(minute))
}

// DeleteMinute handles DELETE /v1/minutes/:id
func (h *Minutes) DeleteMinute(c echo.Context) error {
	minuteID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.minutesService.DeleteMinute(c.Request().Context(), minuteID, userID, time.Now()); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// ListMinutes handles GET /v1/meetings/:id/minutes
func (h *Minutes) ListMinutes(c echo.Context) error {
	meetingID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	minutes, err := h.minutesService.ListMinutes(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMinuteListResponse(minutes))
}

// PollMinutes handles GET /v1/meetings/:id/minutes/poll
func (h *Minutes) PollMinutes(c echo.Context) error {
	meetingID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req minutesDTO.PollRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	since := time.Time{}
	if req.Since != nil {
		since = *req.Since
	}

	result, err := h.minutesService.Poll(c.Request().Context(), meetingID, since, time.Now())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToPollResponse(result))
}

// ArchiveURL handles GET /v1/meetings/:id/minutes/archive-url
func (h *Minutes) ArchiveURL(c echo.Context) error {
	meetingID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.archive == nil {
		return HandleError(h.logger, c,
			apperrors.ErrValidation("minutes archive storage is not enabled"))
	}

	url, err := h.archive.ArchiveURL(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrStorageFailed("archive-url", err))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &common.URLResponse{URL: url})
}
