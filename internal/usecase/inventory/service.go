// Package inventory implements the reconciliation engine: bounded counting
// sessions whose check records are reconciled against the parked set.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/repository"
)

// StartSessionRequest - request to open a new counting session.
type StartSessionRequest struct {
	Name        string `json:"sessionName"`
	Description string `json:"description,omitempty"`
}

// CheckRequest - one physical observation of a plate.
type CheckRequest struct {
	SessionID    uuid.UUID `json:"sessionId"`
	LicensePlate string    `json:"licensePlate"`
}

// Service drives the inventory session lifecycle.
type Service struct {
	inventoryRepo repository.InventoryRepository
	vehicleRepo   repository.VehicleRepository
	logger        logger.Logger
}

// NewService creates a new inventory engine.
func NewService(
	inventoryRepo repository.InventoryRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		inventoryRepo: inventoryRepo,
		vehicleRepo:   vehicleRepo,
		logger:        logger,
	}
}

// Start opens a new session. The store's uniqueness invariant guarantees at
// most one active session; a second start fails with ErrSessionAlreadyActive.
func (s *Service) Start(ctx context.Context, req *StartSessionRequest) (*domain.InventorySession, error) {
	session := &domain.InventorySession{
		Name:        req.Name,
		Description: req.Description,
	}
	if session.Name == "" {
		session.Name = "Kiểm kê " + time.Now().Format("02/01/2006")
	}

	if err := s.inventoryRepo.StartSession(ctx, session); err != nil {
		if errors.Is(err, domain.ErrSessionAlreadyActive) {
			return nil, err
		}
		s.logger.Error("Failed to start inventory session", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to start inventory session: %w", err)
	}

	s.logger.Info("Inventory session started", map[string]interface{}{
		"session_id": session.ID,
		"name":       session.Name,
	})

	return session, nil
}

// Check records one observation of a plate within an active session.
// Re-checking the same plate is safe and counts as another observation:
// the record's counter grows by one per call and is never reset.
func (s *Service) Check(ctx context.Context, req *CheckRequest) (*domain.InventoryCheckRecord, error) {
	plate := domain.NormalizeLicensePlate(req.LicensePlate)
	if plate == "" {
		return nil, domain.ErrInvalidLicensePlate
	}

	// The plate must resolve to a registered vehicle before it can be counted.
	if _, err := s.vehicleRepo.GetByLicensePlate(ctx, plate); err != nil {
		return nil, err
	}

	record, err := s.inventoryRepo.CheckPlate(ctx, req.SessionID, plate, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotActive) {
			return nil, err
		}
		s.logger.Error("Failed to record inventory check", map[string]interface{}{
			"session_id":    req.SessionID,
			"license_plate": plate,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("failed to record inventory check: %w", err)
	}

	return record, nil
}

// End closes a session and returns its reconciliation report. The transition
// is terminal: further checks against the session fail with
// ErrSessionNotActive.
func (s *Service) End(ctx context.Context, sessionID uuid.UUID) (*domain.InventoryReport, error) {
	report, err := s.inventoryRepo.EndSession(ctx, sessionID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotActive) {
			return nil, err
		}
		s.logger.Error("Failed to end inventory session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to end inventory session: %w", err)
	}

	s.logger.Info("Inventory session ended", map[string]interface{}{
		"session_id": sessionID,
		"total":      report.TotalVehicles,
		"checked":    report.CheckedVehicles,
		"unchecked":  report.UncheckedVehicles,
	})

	return report, nil
}

// ListSessions returns all sessions, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]*domain.InventorySession, error) {
	return s.inventoryRepo.ListSessions(ctx)
}

// SessionRecords returns the check records of one session.
func (s *Service) SessionRecords(ctx context.Context, sessionID uuid.UUID) ([]*domain.InventoryCheckRecord, error) {
	if _, err := s.inventoryRepo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.inventoryRepo.SessionRecords(ctx, sessionID)
}

// SearchBySuffix finds vehicles whose canonical plate ends with the given
// 3-5 digit sequence, across all statuses, with owners attached for display.
func (s *Service) SearchBySuffix(ctx context.Context, suffix string) ([]*domain.Vehicle, error) {
	if !domain.ValidPlateSuffix(suffix) {
		return nil, domain.ErrInvalidSuffix
	}
	return s.vehicleRepo.SearchBySuffix(ctx, suffix)
}
