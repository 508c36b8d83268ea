package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetsched-team/meetsched/internal/adapter/presenter"
	attendanceUsecase "github.com/meetsched-team/meetsched/internal/usecase/attendance"
)

// Attendance handles presence HTTP requests
type Attendance struct {
	attendanceService *attendanceUsecase.Service
	logger            *zap.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *attendanceUsecase.Service, logger *zap.Logger) *Attendance {
	return &Attendance{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// Heartbeat handles POST /v1/meetings/:id/heartbeat
func (h *Attendance) Heartbeat(c echo.Context) error {
	meetingID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.attendanceService.Heartbeat(c.Request().Context(), meetingID, userID, time.Now())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToAttendanceResponse(record))
}

// Leave handles POST /v1/meetings/:id/leave
func (h *Attendance) Leave(c echo.Context) error {
	meetingID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := actorID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.attendanceService.Leave(c.Request().Context(), meetingID, userID, time.Now())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToAttendanceResponse(record))
}

// GetAttendance handles GET /v1/meetings/:id/attendance
func (h *Attendance) GetAttendance(c echo.Context) error {
	meetingID, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	records, err := h.attendanceService.GetAttendance(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToAttendanceListResponse(meetingID, records))
}
