package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/infrastructure/http/middleware"
	authUsecase "github.com/meetsched-team/meetsched/internal/usecase/auth"
	"github.com/meetsched-team/meetsched/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	authService       *authUsecase.Service
	authHandler       *Auth
	meetingHandler    *Meeting
	minutesHandler    *Minutes
	attendanceHandler *Attendance
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	authService *authUsecase.Service,
	authHandler *Auth,
	meetingHandler *Meeting,
	minutesHandler *Minutes,
	attendanceHandler *Attendance,
) *Router {
	return &Router{
		cfg:               cfg,
		authService:       authService,
		authHandler:       authHandler,
		meetingHandler:    meetingHandler,
		minutesHandler:    minutesHandler,
		attendanceHandler: attendanceHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupMinuteRoutes(v1)
	rt.setupAdminRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/login", rt.authHandler.Login)
	authGroup.POST("/refresh", rt.authHandler.Refresh)
	authGroup.POST("/logout", rt.authHandler.Logout)
	authGroup.GET("/me", rt.authHandler.Me, middleware.EchoAuth(rt.authService))
}

// setupMeetingRoutes configures meeting lifecycle, presence and minutes
// routes scoped to a meeting
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings", middleware.EchoAuth(rt.authService))

	meetings.POST("", rt.meetingHandler.CreateMeeting)
	meetings.GET("", rt.meetingHandler.ListMeetings)
	meetings.GET("/:id", rt.meetingHandler.GetMeeting)
	meetings.PATCH("/:id", rt.meetingHandler.UpdateMeeting)

	meetings.POST("/:id/approve", rt.meetingHandler.ApproveMeeting)
	meetings.POST("/:id/reject", rt.meetingHandler.RejectMeeting)
	meetings.POST("/:id/cancel", rt.meetingHandler.CancelMeeting)
	meetings.POST("/:id/start", rt.meetingHandler.StartMeeting)
	meetings.POST("/:id/end", rt.meetingHandler.EndMeeting)

	meetings.PUT("/:id/scribe", rt.meetingHandler.AssignScribe)
	meetings.DELETE("/:id/scribe", rt.meetingHandler.RemoveScribe)

	meetings.POST("/:id/heartbeat", rt.attendanceHandler.Heartbeat)
	meetings.POST("/:id/leave", rt.attendanceHandler.Leave)
	meetings.GET("/:id/attendance", rt.attendanceHandler.GetAttendance)

	meetings.POST("/:id/minutes", rt.minutesHandler.AddMinute)
	meetings.GET("/:id/minutes", rt.minutesHandler.ListMinutes)
	meetings.GET("/:id/minutes/poll", rt.minutesHandler.PollMinutes)
	meetings.GET("/:id/minutes/archive-url", rt.minutesHandler.ArchiveURL)
}

// setupMinuteRoutes configures routes addressing a minute entry directly
func (rt *Router) setupMinuteRoutes(g *echo.Group) {
	minutes := g.Group("/minutes", middleware.EchoAuth(rt.authService))

	minutes.PATCH("/:id", rt.minutesHandler.EditMinute)
	minutes.DELETE("/:id", rt.minutesHandler.DeleteMinute)
}

// setupAdminRoutes configures the org-wide oversight views, reserved for
// managers and admins
func (rt *Router) setupAdminRoutes(g *echo.Group) {
	admin := g.Group("/admin", middleware.EchoAuth(rt.authService),
		middleware.RequireRole(entities.RoleAdmin, entities.RoleManager))

	admin.GET("/meetings", rt.meetingHandler.ListMeetings)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
