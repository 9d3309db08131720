package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minhnd/parklot/internal/domain"
)

// OwnerRepository defines storage operations for owners.
type OwnerRepository interface {
	// CreateWithVehicles inserts a new owner together with their vehicles as
	// one atomic unit. An owner row never exists without at least one vehicle,
	// so there is no vehicle-less create.
	CreateWithVehicles(ctx context.Context, owner *domain.Owner, vehicles []*domain.Vehicle) error

	// GetByCCCD returns an owner by CCCD number.
	GetByCCCD(ctx context.Context, cccd string) (*domain.Owner, error)

	// Update updates owner attributes.
	Update(ctx context.Context, owner *domain.Owner) error

	// Delete removes an owner and their vehicles.
	Delete(ctx context.Context, cccd string) error

	// List returns owners with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Owner, error)

	// Search matches an exact CCCD or a case-insensitive name substring.
	Search(ctx context.Context, query string, limit int) ([]*domain.Owner, error)

	// Count returns the total number of owners.
	Count(ctx context.Context) (int, error)
}

// VehicleRepository defines storage operations for vehicles and their
// status transitions. Vehicles are only ever created alongside their owner
// (OwnerRepository.CreateWithVehicles) or through ReplaceForOwner.
type VehicleRepository interface {
	// GetByLicensePlate returns a vehicle by canonical plate.
	GetByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error)

	// GetByOwnerCCCD returns all vehicles of one owner.
	GetByOwnerCCCD(ctx context.Context, cccd string) ([]*domain.Vehicle, error)

	// SearchBySuffix returns vehicles whose canonical plate ends with the
	// given digit sequence, across all statuses.
	SearchBySuffix(ctx context.Context, suffix string) ([]*domain.Vehicle, error)

	// TransitionStatus flips a vehicle from -> to and appends the matching
	// transaction as one atomic unit. The update is a compare-and-swap on the
	// current status: when the vehicle is no longer in `from` the call fails
	// with ErrInvalidStateTransition and nothing is written.
	TransitionStatus(ctx context.Context, plate string, from, to domain.VehicleStatus, action domain.VehicleAction, at time.Time) (*domain.Transaction, error)

	// ReplaceForOwner reconciles an owner's vehicle set: missing plates are
	// inserted, removed plates deleted, surviving plates keep their status.
	ReplaceForOwner(ctx context.Context, cccd string, vehicles []*domain.Vehicle) error

	// CountParked returns the number of vehicles currently parked.
	CountParked(ctx context.Context) (int, error)

	// Count returns the total number of vehicles.
	Count(ctx context.Context) (int, error)

	// List returns vehicles with pagination.
	List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error)
}

// TransactionRepository defines read operations over the transition audit log.
// Transactions are only ever written by VehicleRepository.TransitionStatus.
type TransactionRepository interface {
	// ListRecent returns the newest transactions first, up to limit.
	ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error)

	// CountSince counts transactions with timestamp >= since.
	CountSince(ctx context.Context, since time.Time) (int, error)

	// DailyActivity returns per-day action counts for the last `days` days.
	DailyActivity(ctx context.Context, days int) ([]*domain.ActivityBucket, error)

	// MonthlyActivity returns per-month action counts for the last `months` months.
	MonthlyActivity(ctx context.Context, months int) ([]*domain.ActivityBucket, error)
}

// InventoryRepository defines storage operations for inventory sessions and
// their check records.
type InventoryRepository interface {
	// StartSession inserts a new active session. At most one active session
	// may exist; a second insert fails with ErrSessionAlreadyActive.
	StartSession(ctx context.Context, session *domain.InventorySession) error

	// GetSession returns a session by ID.
	GetSession(ctx context.Context, id uuid.UUID) (*domain.InventorySession, error)

	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]*domain.InventorySession, error)

	// CheckPlate records one physical observation of a plate within an active
	// session: first observation creates the record with count 1, repeats
	// atomically increment the counter. Fails with ErrSessionNotActive when
	// the session is missing or ended.
	CheckPlate(ctx context.Context, sessionID uuid.UUID, plate string, at time.Time) (*domain.InventoryCheckRecord, error)

	// EndSession makes the terminal active -> ended transition and computes
	// the reconciliation report from a single consistent snapshot of the
	// parked set and the session's check records.
	EndSession(ctx context.Context, sessionID uuid.UUID, at time.Time) (*domain.InventoryReport, error)

	// SessionRecords returns the check records of a session.
	SessionRecords(ctx context.Context, sessionID uuid.UUID) ([]*domain.InventoryCheckRecord, error)
}

// StaffRepository defines storage operations for staff accounts.
type StaffRepository interface {
	// Create inserts a new staff account.
	Create(ctx context.Context, staff *domain.Staff) error

	// GetByUsername returns a staff account by username.
	GetByUsername(ctx context.Context, username string) (*domain.Staff, error)

	// UpdateLastLogin stamps the last successful login.
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
