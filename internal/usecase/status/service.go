// Package status implements the vehicle status engine: the two-state
// park/retrieve lifecycle and its transaction audit trail.
package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/repository"
)

// ApplyActionRequest - request to flip a vehicle's status.
type ApplyActionRequest struct {
	LicensePlate string               `json:"licensePlate"`
	Action       domain.VehicleAction `json:"action"`
}

// ApplyActionResponse - result of a successful transition.
type ApplyActionResponse struct {
	LicensePlate string               `json:"licensePlate"`
	Status       domain.VehicleStatus `json:"status"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Service enforces the vehicle status state machine.
type Service struct {
	vehicleRepo     repository.VehicleRepository
	transactionRepo repository.TransactionRepository
	logger          logger.Logger
}

// NewService creates a new status engine.
func NewService(
	vehicleRepo repository.VehicleRepository,
	transactionRepo repository.TransactionRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo:     vehicleRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// ApplyAction performs a park or retrieve transition for one plate.
//
// The read below only resolves the expected from/to pair; the actual flip is
// a compare-and-swap inside the repository, so of two racing calls exactly
// one succeeds and the loser gets ErrInvalidStateTransition with no side
// effects.
func (s *Service) ApplyAction(ctx context.Context, req *ApplyActionRequest) (*ApplyActionResponse, error) {
	plate := domain.NormalizeLicensePlate(req.LicensePlate)
	if plate == "" {
		return nil, domain.ErrInvalidLicensePlate
	}

	from, ok := req.Action.RequiredStatus()
	if !ok {
		return nil, domain.ErrInvalidAction
	}

	vehicle, err := s.vehicleRepo.GetByLicensePlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	to, err := domain.NextStatus(vehicle.Status, req.Action)
	if err != nil {
		s.logger.Info("Rejected status transition", map[string]interface{}{
			"license_plate": plate,
			"status":        vehicle.Status,
			"action":        req.Action,
		})
		return nil, err
	}

	txn, err := s.vehicleRepo.TransitionStatus(ctx, plate, from, to, req.Action, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStateTransition) || errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to transition vehicle status", map[string]interface{}{
			"license_plate": plate,
			"action":        req.Action,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("failed to transition vehicle status: %w", err)
	}

	s.logger.Info("Vehicle status changed", map[string]interface{}{
		"license_plate": plate,
		"action":        req.Action,
		"status":        to,
	})

	return &ApplyActionResponse{
		LicensePlate: plate,
		Status:       to,
		Timestamp:    txn.Timestamp,
	}, nil
}

// CountParked returns the number of vehicles currently in the lot.
// Status-derived: this is the authoritative occupancy number.
func (s *Service) CountParked(ctx context.Context) (int, error) {
	return s.vehicleRepo.CountParked(ctx)
}

// RecentTransactions returns the newest transitions first.
func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.transactionRepo.ListRecent(ctx, limit)
}
