package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/usecase/auth"
)

// AuthService defines the authentication interface for the admin console.
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
}

// AuthHandler handles staff authentication requests.
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login authenticates a staff account and returns a token pair.
// POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondDomainError(w, err, "Login failed")
		return
	}

	respondSuccess(w, http.StatusOK, resp)
}
