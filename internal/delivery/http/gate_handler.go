package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/usecase/owner"
	"github.com/minhnd/parklot/internal/usecase/status"
)

// ScanService defines the owner lookups used by the gate screen.
type ScanService interface {
	ScanQR(ctx context.Context, raw string) (*owner.ScanResult, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Owner, error)
}

// StatusService defines the status engine interface for the gate screen.
type StatusService interface {
	ApplyAction(ctx context.Context, req *status.ApplyActionRequest) (*status.ApplyActionResponse, error)
	RecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error)
}

// SuffixSearchService finds vehicles by plate suffix.
type SuffixSearchService interface {
	SearchBySuffix(ctx context.Context, suffix string) ([]*domain.Vehicle, error)
}

// GateHandler serves the booth screen: QR scans, searches and status flips.
type GateHandler struct {
	scanService   ScanService
	statusService StatusService
	suffixService SuffixSearchService
	logger        logger.Logger
}

// NewGateHandler creates a new gate handler.
func NewGateHandler(
	scanService ScanService,
	statusService StatusService,
	suffixService SuffixSearchService,
	logger logger.Logger,
) *GateHandler {
	return &GateHandler{
		scanService:   scanService,
		statusService: statusService,
		suffixService: suffixService,
		logger:        logger,
	}
}

// Scan decodes a CCCD QR payload and returns the registered owner, if any.
// POST /api/scan
func (h *GateHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QRData string `json:"qrData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.scanService.ScanQR(r.Context(), req.QRData)
	if err != nil {
		respondDomainError(w, err, "Failed to process scan")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Search matches owners by exact CCCD or name substring.
// GET /api/search?query=...
func (h *GateHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter required")
		return
	}

	owners, err := h.scanService.Search(r.Context(), query, queryInt(r, "limit", 0))
	if err != nil {
		h.logger.Error("Owner search failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	respondSuccess(w, http.StatusOK, owners)
}

// Action flips a vehicle between parked and retrieved.
// POST /api/action
func (h *GateHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req status.ApplyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.statusService.ApplyAction(r.Context(), &req)
	if err != nil {
		respondDomainError(w, err, "Failed to apply action")
		return
	}

	respondSuccess(w, http.StatusOK, resp)
}

// SearchByPlateSuffix finds vehicles whose plate ends with 3-5 digits.
// GET /api/search-by-plate-suffix?suffix=...
func (h *GateHandler) SearchByPlateSuffix(w http.ResponseWriter, r *http.Request) {
	suffix := r.URL.Query().Get("suffix")

	vehicles, err := h.suffixService.SearchBySuffix(r.Context(), suffix)
	if err != nil {
		respondDomainError(w, err, "Suffix search failed")
		return
	}

	respondSuccess(w, http.StatusOK, vehicles)
}

// RecentTransactions returns the latest park/retrieve events.
// GET /api/recent-transactions?limit=...
func (h *GateHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.statusService.RecentTransactions(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		h.logger.Error("Failed to load recent transactions", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	respondSuccess(w, http.StatusOK, transactions)
}

// queryInt reads an integer query parameter, falling back on parse failure.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
