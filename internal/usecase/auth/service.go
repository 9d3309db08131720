// Package auth authenticates staff accounts for the admin console.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/hash"
	"github.com/minhnd/parklot/internal/pkg/jwt"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/repository"
)

// LoginRequest - staff credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse - tokens plus the authenticated account.
type LoginResponse struct {
	Tokens *jwt.TokenPair `json:"tokens"`
	Staff  *domain.Staff  `json:"staff"`
}

// Service implements staff authentication.
type Service struct {
	staffRepo    repository.StaffRepository
	tokenService *jwt.TokenService
	logger       logger.Logger
}

// NewService creates a new auth service.
func NewService(
	staffRepo repository.StaffRepository,
	tokenService *jwt.TokenService,
	logger logger.Logger,
) *Service {
	return &Service{
		staffRepo:    staffRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login verifies credentials and issues a token pair. A wrong username and a
// wrong password both come back as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	staff, err := s.staffRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find staff: %w", err)
	}

	if !hash.CheckPassword(staff.PasswordHash, req.Password) {
		s.logger.Warn("Failed login attempt", map[string]interface{}{
			"username": req.Username,
		})
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.tokenService.GenerateTokenPair(staff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.staffRepo.UpdateLastLogin(ctx, staff.ID); err != nil {
		// Not worth failing the login over.
		s.logger.Warn("Failed to stamp last login", map[string]interface{}{
			"staff_id": staff.ID,
			"error":    err.Error(),
		})
	}

	s.logger.Info("Staff logged in", map[string]interface{}{
		"username": staff.Username,
		"role":     staff.Role,
	})

	return &LoginResponse{Tokens: tokens, Staff: staff}, nil
}

// ValidateToken checks an access token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenService.ValidateToken(tokenString)
}
