package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/usecase/owner"
	"github.com/minhnd/parklot/internal/usecase/stats"
)

// OwnerService defines the owner registry interface for the admin console.
type OwnerService interface {
	Register(ctx context.Context, req *owner.RegisterRequest) (*domain.Owner, error)
	Update(ctx context.Context, cccd string, req *owner.UpdateRequest) (*domain.Owner, error)
	Delete(ctx context.Context, cccd string) error
	GetByCCCD(ctx context.Context, cccd string) (*domain.Owner, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Owner, error)
	Vehicles(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error)
}

// StatsService defines the dashboard aggregates interface.
type StatsService interface {
	Dashboard(ctx context.Context) (*stats.DashboardStats, error)
	Statistics(ctx context.Context) (*stats.Statistics, error)
}

// AdminHandler serves the admin console: owner CRUD, vehicle lists and stats.
type AdminHandler struct {
	ownerService OwnerService
	statsService StatsService
	logger       logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(ownerService OwnerService, statsService StatsService, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		ownerService: ownerService,
		statsService: statsService,
		logger:       logger,
	}
}

// ListUsers returns registered owners with pagination.
// GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	owners, err := h.ownerService.List(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		h.logger.Error("Failed to list owners", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list owners")
		return
	}

	respondSuccess(w, http.StatusOK, owners)
}

// AddUser registers a new owner with their vehicles.
// POST /api/admin/add-user
func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req owner.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.ownerService.Register(r.Context(), &req)
	if err != nil {
		respondDomainError(w, err, "Failed to register owner")
		return
	}

	respondSuccess(w, http.StatusCreated, o)
}

// UpdateUser replaces an owner's attributes and vehicle set.
// PUT /api/admin/update-user/{cccd}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	cccd := chi.URLParam(r, "cccd")

	var req owner.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.ownerService.Update(r.Context(), cccd, &req)
	if err != nil {
		respondDomainError(w, err, "Failed to update owner")
		return
	}

	respondSuccess(w, http.StatusOK, o)
}

// DeleteUser removes an owner and their vehicles.
// DELETE /api/admin/delete-user/{cccd}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	cccd := chi.URLParam(r, "cccd")

	if err := h.ownerService.Delete(r.Context(), cccd); err != nil {
		respondDomainError(w, err, "Failed to delete owner")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"cccd": cccd})
}

// SearchByCCCD returns one owner with vehicles attached.
// GET /api/admin/search-by-cccd?cccd=...
func (h *AdminHandler) SearchByCCCD(w http.ResponseWriter, r *http.Request) {
	cccd := r.URL.Query().Get("cccd")

	o, err := h.ownerService.GetByCCCD(r.Context(), cccd)
	if err != nil {
		respondDomainError(w, err, "Failed to find owner")
		return
	}

	respondSuccess(w, http.StatusOK, o)
}

// ListVehicles returns all registered vehicles with pagination.
// GET /api/admin/vehicles
func (h *AdminHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.ownerService.Vehicles(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		h.logger.Error("Failed to list vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list vehicles")
		return
	}

	respondSuccess(w, http.StatusOK, vehicles)
}

// DashboardStats returns the headline dashboard numbers.
// GET /api/admin/dashboard-stats
func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.statsService.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute dashboard stats", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	respondSuccess(w, http.StatusOK, s)
}

// Statistics returns activity history for the statistics page.
// GET /api/admin/statistics
func (h *AdminHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	s, err := h.statsService.Statistics(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute statistics", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	respondSuccess(w, http.StatusOK, s)
}
