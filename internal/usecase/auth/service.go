package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
	"github.com/meetsched-team/meetsched/pkg/jwt"
)

// Cache is the small slice of the cache layer the auth service needs to
// keep hot actors out of the users table.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

const actorCacheTTL = 5 * time.Minute

// Service handles password authentication and refresh-token sessions
type Service struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	jwtManager  *jwt.Manager
	cache       Cache
}

// NewService creates a new auth service
func NewService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	jwtManager *jwt.Manager,
	cache Cache,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtManager:  jwtManager,
		cache:       cache,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.User `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	ExpiresIn    int64          `json:"expires_in"`
}

// Login verifies credentials and opens a new session
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials()
	}
	if !user.IsActive || user.PasswordHash == nil {
		return nil, apperrors.ErrInvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials()
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken()
	}

	hashed, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken()
	}
	session, err := s.sessionRepo.FindByRefreshToken(ctx, hashed)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken()
	}
	if !session.IsValid() || session.UserID != userID {
		return nil, apperrors.ErrTokenExpired()
	}

	session.UpdateLastUsed()
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the session behind the given refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	hashed, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken()
	}
	session, err := s.sessionRepo.FindByRefreshToken(ctx, hashed)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken()
	}

	session.Revoke()
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.cache.Delete(ctx, actorCacheKey(session.UserID))
	return nil
}

// LogoutAll revokes every session for a user
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.RevokeByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	s.cache.Delete(ctx, actorCacheKey(userID))
	return nil
}

// ValidateAccess resolves an access token to its user, via cache when hot
func (s *Service) ValidateAccess(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken()
	}

	key := actorCacheKey(claims.UserID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var user entities.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			return &user, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated()
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthenticated()
	}

	if raw, err := json.Marshal(user); err == nil {
		s.cache.Set(ctx, key, string(raw), actorCacheTTL)
	}
	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user *entities.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Only the hash ever touches the database.
	hashed, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}
	session := entities.NewSession(user.ID, hashed, time.Now().Add(s.jwtManager.GetRefreshExpiry()))
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

func actorCacheKey(userID uuid.UUID) string {
	return "actor:" + userID.String()
}
