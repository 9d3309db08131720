// Package owner manages the owner registry: QR scans, registration,
// updates and lookups used by both the gate screen and the admin console.
package owner

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/pkg/qr"
	"github.com/minhnd/parklot/internal/repository"
)

// VehicleInput - one vehicle in a register/update request.
type VehicleInput struct {
	LicensePlate string `json:"licensePlate"`
	Brand        string `json:"brand,omitempty"`
	Color        string `json:"color,omitempty"`
}

// RegisterRequest - a new owner together with their vehicles.
type RegisterRequest struct {
	CCCD        string         `json:"cccd"`
	OldCCCD     string         `json:"oldCccd,omitempty"`
	FullName    string         `json:"fullName"`
	DateOfBirth string         `json:"dateOfBirth"`
	Gender      string         `json:"gender"`
	Hometown    string         `json:"hometown"`
	IssueDate   string         `json:"issueDate"`
	Vehicles    []VehicleInput `json:"vehicles"`
}

// UpdateRequest replaces an owner's attributes and vehicle set.
type UpdateRequest struct {
	OldCCCD     string         `json:"oldCccd,omitempty"`
	FullName    string         `json:"fullName"`
	DateOfBirth string         `json:"dateOfBirth"`
	Gender      string         `json:"gender"`
	Hometown    string         `json:"hometown"`
	IssueDate   string         `json:"issueDate"`
	Vehicles    []VehicleInput `json:"vehicles"`
}

// ScanResult - what the gate screen shows after a QR scan: the decoded card
// fields plus the registered owner when one exists.
type ScanResult struct {
	Payload    *qr.CCCDPayload `json:"payload"`
	Owner      *domain.Owner   `json:"owner,omitempty"`
	Registered bool            `json:"registered"`
}

// Service implements owner registry operations.
type Service struct {
	ownerRepo       repository.OwnerRepository
	vehicleRepo     repository.VehicleRepository
	transactionRepo repository.TransactionRepository
	logger          logger.Logger
}

// NewService creates a new owner service.
func NewService(
	ownerRepo repository.OwnerRepository,
	vehicleRepo repository.VehicleRepository,
	transactionRepo repository.TransactionRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		ownerRepo:       ownerRepo,
		vehicleRepo:     vehicleRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// ScanQR decodes a CCCD QR payload and looks the owner up. An unregistered
// card is not an error: the gate screen uses the decoded fields to prefill
// the registration form.
func (s *Service) ScanQR(ctx context.Context, raw string) (*ScanResult, error) {
	payload, err := qr.Parse(raw)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Payload: payload}

	owner, err := s.GetByCCCD(ctx, payload.CCCD)
	switch {
	case err == nil:
		result.Owner = owner
		result.Registered = true
	case errors.Is(err, domain.ErrOwnerNotFound):
		// fall through with Registered=false
	default:
		return nil, err
	}

	return result, nil
}

// Register creates a new owner together with their vehicles.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*domain.Owner, error) {
	owner := &domain.Owner{
		CCCD:        req.CCCD,
		OldCCCD:     req.OldCCCD,
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Hometown:    req.Hometown,
		IssueDate:   req.IssueDate,
	}
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	// An owner without vehicles has no business being registered at the lot.
	if len(req.Vehicles) == 0 {
		return nil, domain.ErrInvalidOwnerData
	}

	vehicles, err := buildVehicles(owner.CCCD, req.Vehicles)
	if err != nil {
		return nil, err
	}

	// One transactional insert: a plate conflict on any vehicle leaves no
	// owner row behind, so the registration can simply be retried.
	if err := s.ownerRepo.CreateWithVehicles(ctx, owner, vehicles); err != nil {
		if errors.Is(err, domain.ErrOwnerAlreadyExists) || errors.Is(err, domain.ErrVehicleAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to register owner", map[string]interface{}{
			"cccd":  owner.CCCD,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to register owner: %w", err)
	}
	owner.Vehicles = vehicles

	s.logger.Info("Owner registered", map[string]interface{}{
		"cccd":     owner.CCCD,
		"vehicles": len(vehicles),
	})

	return owner, nil
}

// Update replaces an owner's attributes and reconciles their vehicle set:
// plates missing from the request are removed, new ones registered, and
// surviving vehicles keep their parking status.
func (s *Service) Update(ctx context.Context, cccd string, req *UpdateRequest) (*domain.Owner, error) {
	owner, err := s.ownerRepo.GetByCCCD(ctx, cccd)
	if err != nil {
		return nil, err
	}

	owner.OldCCCD = req.OldCCCD
	owner.FullName = req.FullName
	owner.DateOfBirth = req.DateOfBirth
	owner.Gender = req.Gender
	owner.Hometown = req.Hometown
	owner.IssueDate = req.IssueDate
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	vehicles, err := buildVehicles(owner.CCCD, req.Vehicles)
	if err != nil {
		return nil, err
	}

	if err := s.ownerRepo.Update(ctx, owner); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.ReplaceForOwner(ctx, owner.CCCD, vehicles); err != nil {
		return nil, err
	}

	updated, err := s.vehicleRepo.GetByOwnerCCCD(ctx, owner.CCCD)
	if err != nil {
		return nil, err
	}
	owner.Vehicles = updated

	s.logger.Info("Owner updated", map[string]interface{}{
		"cccd":     owner.CCCD,
		"vehicles": len(updated),
	})

	return owner, nil
}

// Delete removes an owner; their vehicles go with them.
func (s *Service) Delete(ctx context.Context, cccd string) error {
	if !domain.ValidCCCD(cccd) {
		return domain.ErrInvalidCCCD
	}
	if err := s.ownerRepo.Delete(ctx, cccd); err != nil {
		return err
	}
	s.logger.Info("Owner deleted", map[string]interface{}{"cccd": cccd})
	return nil
}

// GetByCCCD returns an owner with their vehicles attached.
func (s *Service) GetByCCCD(ctx context.Context, cccd string) (*domain.Owner, error) {
	if !domain.ValidCCCD(cccd) {
		return nil, domain.ErrInvalidCCCD
	}

	owner, err := s.ownerRepo.GetByCCCD(ctx, cccd)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.GetByOwnerCCCD(ctx, cccd)
	if err != nil {
		return nil, err
	}
	owner.Vehicles = vehicles

	return owner, nil
}

// Search matches an exact CCCD or a name substring and attaches vehicles
// to each hit.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*domain.Owner, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	owners, err := s.ownerRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	for _, o := range owners {
		vehicles, err := s.vehicleRepo.GetByOwnerCCCD(ctx, o.CCCD)
		if err != nil {
			return nil, err
		}
		o.Vehicles = vehicles
	}

	return owners, nil
}

// List returns owners with pagination.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Owner, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.ownerRepo.List(ctx, limit, offset)
}

// Vehicles returns all vehicles with pagination, for the admin vehicle list.
func (s *Service) Vehicles(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.vehicleRepo.List(ctx, limit, offset)
}

// buildVehicles validates request vehicles and rejects duplicate plates
// within one request.
func buildVehicles(cccd string, inputs []VehicleInput) ([]*domain.Vehicle, error) {
	vehicles := make([]*domain.Vehicle, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for _, in := range inputs {
		v := &domain.Vehicle{
			OwnerCCCD:    cccd,
			LicensePlate: in.LicensePlate,
			Brand:        in.Brand,
			Color:        in.Color,
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[v.LicensePlate]; ok {
			return nil, domain.ErrVehicleAlreadyExists
		}
		seen[v.LicensePlate] = struct{}{}
		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}
