package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authDTO "github.com/meetsched-team/meetsched/internal/adapter/dto/auth"
	"github.com/meetsched-team/meetsched/internal/adapter/presenter"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	authUsecase "github.com/meetsched-team/meetsched/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	authService *authUsecase.Service
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *authUsecase.Service, logger *zap.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Login handles POST /v1/auth/login
func (h *Auth) Login(c echo.Context) error {
	var req authDTO.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, toTokenResponse(result))
}

// Refresh handles POST /v1/auth/refresh
func (h *Auth) Refresh(c echo.Context) error {
	var req authDTO.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, toTokenResponse(result))
}

// Logout handles POST /v1/auth/logout
func (h *Auth) Logout(c echo.Context) error {
	var req authDTO.LogoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// Me handles GET /v1/auth/me
func (h *Auth) Me(c echo.Context) error {
	user, ok := c.Get("user").(*entities.User)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToAuthUserResponse(user))
}

func toTokenResponse(result *authUsecase.AuthResponse) *authDTO.TokenResponse {
	return &authDTO.TokenResponse{
		User:         presenter.ToAuthUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	}
}
