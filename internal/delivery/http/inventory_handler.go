package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/usecase/inventory"
)

// InventoryService defines the inventory session engine interface.
type InventoryService interface {
	Start(ctx context.Context, req *inventory.StartSessionRequest) (*domain.InventorySession, error)
	Check(ctx context.Context, req *inventory.CheckRequest) (*domain.InventoryCheckRecord, error)
	End(ctx context.Context, sessionID uuid.UUID) (*domain.InventoryReport, error)
	ListSessions(ctx context.Context) ([]*domain.InventorySession, error)
	SessionRecords(ctx context.Context, sessionID uuid.UUID) ([]*domain.InventoryCheckRecord, error)
	SearchBySuffix(ctx context.Context, suffix string) ([]*domain.Vehicle, error)
}

// InventoryHandler serves the inventory workflow.
type InventoryHandler struct {
	inventoryService InventoryService
	logger           logger.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventoryService InventoryService, logger logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// StartSession opens a new counting session.
// POST /api/admin/inventory/start
func (h *InventoryHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req inventory.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.inventoryService.Start(r.Context(), &req)
	if err != nil {
		respondDomainError(w, err, "Failed to start session")
		return
	}

	respondSuccess(w, http.StatusCreated, session)
}

// Check records one observation of a plate in the active session.
// POST /api/admin/inventory/check
func (h *InventoryHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req inventory.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.inventoryService.Check(r.Context(), &req)
	if err != nil {
		respondDomainError(w, err, "Failed to record check")
		return
	}

	respondSuccess(w, http.StatusOK, record)
}

// EndSession closes a session and returns its reconciliation report.
// POST /api/admin/inventory/end/{id}
func (h *InventoryHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	report, err := h.inventoryService.End(r.Context(), sessionID)
	if err != nil {
		respondDomainError(w, err, "Failed to end session")
		return
	}

	respondSuccess(w, http.StatusOK, report)
}

// ListSessions returns all sessions, newest first.
// GET /api/admin/inventory/sessions
func (h *InventoryHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.inventoryService.ListSessions(r.Context())
	if err != nil {
		h.logger.Error("Failed to list inventory sessions", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	respondSuccess(w, http.StatusOK, sessions)
}

// SessionRecords returns the check records of one session.
// GET /api/admin/inventory/session/{id}
func (h *InventoryHandler) SessionRecords(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	records, err := h.inventoryService.SessionRecords(r.Context(), sessionID)
	if err != nil {
		respondDomainError(w, err, "Failed to load session records")
		return
	}

	respondSuccess(w, http.StatusOK, records)
}

// SearchLicensePlate finds vehicles by plate suffix during counting.
// GET /api/admin/inventory/search-license-plate/{suffix}
func (h *InventoryHandler) SearchLicensePlate(w http.ResponseWriter, r *http.Request) {
	suffix := chi.URLParam(r, "suffix")

	vehicles, err := h.inventoryService.SearchBySuffix(r.Context(), suffix)
	if err != nil {
		respondDomainError(w, err, "Suffix search failed")
		return
	}

	respondSuccess(w, http.StatusOK, vehicles)
}
