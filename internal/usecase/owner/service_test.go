package owner

import (
	"context"
	"testing"
	"time"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOwnerRepository - mock for the owner repository
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) CreateWithVehicles(ctx context.Context, owner *domain.Owner, vehicles []*domain.Vehicle) error {
	args := m.Called(ctx, owner, vehicles)
	return args.Error(0)
}

func (m *MockOwnerRepository) GetByCCCD(ctx context.Context, cccd string) (*domain.Owner, error) {
	args := m.Called(ctx, cccd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) Delete(ctx context.Context, cccd string) error {
	args := m.Called(ctx, cccd)
	return args.Error(0)
}

func (m *MockOwnerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Owner, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Owner, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockVehicleRepository - mock for the vehicle repository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) GetByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByOwnerCCCD(ctx context.Context, cccd string) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, cccd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) SearchBySuffix(ctx context.Context, suffix string) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, suffix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) TransitionStatus(ctx context.Context, plate string, from, to domain.VehicleStatus, action domain.VehicleAction, at time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, plate, from, to, action, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockVehicleRepository) ReplaceForOwner(ctx context.Context, cccd string, vehicles []*domain.Vehicle) error {
	args := m.Called(ctx, cccd, vehicles)
	return args.Error(0)
}

func (m *MockVehicleRepository) CountParked(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockVehicleRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockVehicleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

// MockTransactionRepository - mock for the transaction repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) DailyActivity(ctx context.Context, days int) ([]*domain.ActivityBucket, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ActivityBucket), args.Error(1)
}

func (m *MockTransactionRepository) MonthlyActivity(ctx context.Context, months int) ([]*domain.ActivityBucket, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ActivityBucket), args.Error(1)
}

func newTestService(ownerRepo *MockOwnerRepository, vehicleRepo *MockVehicleRepository) *Service {
	return NewService(ownerRepo, vehicleRepo, new(MockTransactionRepository), logger.NewNoop())
}

const qrPayload = "012345678901|123456789|Nguyễn Văn An|01/01/1990|Nam|Hà Nội|15/03/2021"

func TestService_ScanQR(t *testing.T) {
	t.Run("registered owner comes back with vehicles", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		vehicleRepo := new(MockVehicleRepository)
		ownerRepo.On("GetByCCCD", mock.Anything, "012345678901").
			Return(&domain.Owner{CCCD: "012345678901", FullName: "Nguyễn Văn An"}, nil)
		vehicleRepo.On("GetByOwnerCCCD", mock.Anything, "012345678901").
			Return([]*domain.Vehicle{
				{OwnerCCCD: "012345678901", LicensePlate: "59X112345", Status: domain.StatusParked},
			}, nil)

		svc := newTestService(ownerRepo, vehicleRepo)
		result, err := svc.ScanQR(context.Background(), qrPayload)

		assert.NoError(t, err)
		assert.True(t, result.Registered)
		assert.Len(t, result.Owner.Vehicles, 1)
		assert.Equal(t, "012345678901", result.Payload.CCCD)
	})

	t.Run("unregistered card still decodes", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		ownerRepo.On("GetByCCCD", mock.Anything, "012345678901").
			Return(nil, domain.ErrOwnerNotFound)

		svc := newTestService(ownerRepo, new(MockVehicleRepository))
		result, err := svc.ScanQR(context.Background(), qrPayload)

		assert.NoError(t, err)
		assert.False(t, result.Registered)
		assert.Nil(t, result.Owner)
		assert.Equal(t, "Nguyễn Văn An", result.Payload.FullName)
	})

	t.Run("malformed payload", func(t *testing.T) {
		svc := newTestService(new(MockOwnerRepository), new(MockVehicleRepository))
		_, err := svc.ScanQR(context.Background(), "garbage")

		assert.ErrorIs(t, err, domain.ErrInvalidCCCD)
	})
}

func TestService_Register(t *testing.T) {
	t.Run("creates owner and vehicles in one repository call", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		ownerRepo.On("CreateWithVehicles", mock.Anything, mock.AnythingOfType("*domain.Owner"),
			mock.MatchedBy(func(vehicles []*domain.Vehicle) bool {
				return len(vehicles) == 1 &&
					vehicles[0].LicensePlate == "59X112345" &&
					vehicles[0].Status == domain.StatusRetrieved
			})).Return(nil)

		svc := newTestService(ownerRepo, new(MockVehicleRepository))
		o, err := svc.Register(context.Background(), &RegisterRequest{
			CCCD:     "012345678901",
			FullName: "Nguyễn Văn An",
			Vehicles: []VehicleInput{{LicensePlate: "59x1-123.45"}},
		})

		assert.NoError(t, err)
		assert.Len(t, o.Vehicles, 1)
		ownerRepo.AssertExpectations(t)
	})

	t.Run("plate conflict surfaces without leaving an owner behind", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		ownerRepo.On("CreateWithVehicles", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.ErrVehicleAlreadyExists)

		svc := newTestService(ownerRepo, new(MockVehicleRepository))
		_, err := svc.Register(context.Background(), &RegisterRequest{
			CCCD:     "012345678901",
			FullName: "Nguyễn Văn An",
			Vehicles: []VehicleInput{
				{LicensePlate: "59X1-123.45"},
				{LicensePlate: "60B212345"}, // already registered elsewhere
			},
		})

		assert.ErrorIs(t, err, domain.ErrVehicleAlreadyExists)
		// The rejected registration is a single transactional call, so there
		// is no partial owner row and no compensation to run.
		ownerRepo.AssertNumberOfCalls(t, "CreateWithVehicles", 1)
	})

	t.Run("empty vehicle list is rejected", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)

		svc := newTestService(ownerRepo, new(MockVehicleRepository))
		_, err := svc.Register(context.Background(), &RegisterRequest{
			CCCD:     "012345678901",
			FullName: "Nguyễn Văn An",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidOwnerData)
		ownerRepo.AssertNotCalled(t, "CreateWithVehicles", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate plate inside one request", func(t *testing.T) {
		svc := newTestService(new(MockOwnerRepository), new(MockVehicleRepository))
		_, err := svc.Register(context.Background(), &RegisterRequest{
			CCCD:     "012345678901",
			FullName: "Nguyễn Văn An",
			Vehicles: []VehicleInput{
				{LicensePlate: "59X1-123.45"},
				{LicensePlate: "59x112345"}, // same plate after normalization
			},
		})

		assert.ErrorIs(t, err, domain.ErrVehicleAlreadyExists)
	})

	t.Run("duplicate CCCD", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		ownerRepo.On("CreateWithVehicles", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.ErrOwnerAlreadyExists)

		svc := newTestService(ownerRepo, new(MockVehicleRepository))
		_, err := svc.Register(context.Background(), &RegisterRequest{
			CCCD:     "012345678901",
			FullName: "Nguyễn Văn An",
			Vehicles: []VehicleInput{{LicensePlate: "59X112345"}},
		})

		assert.ErrorIs(t, err, domain.ErrOwnerAlreadyExists)
	})

	t.Run("bad cccd", func(t *testing.T) {
		svc := newTestService(new(MockOwnerRepository), new(MockVehicleRepository))
		_, err := svc.Register(context.Background(), &RegisterRequest{
			CCCD:     "123",
			FullName: "Nguyễn Văn An",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCCCD)
	})
}

func TestService_Update(t *testing.T) {
	existing := &domain.Owner{CCCD: "012345678901", FullName: "Nguyễn Văn An"}

	t.Run("replaces the vehicle set", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		vehicleRepo := new(MockVehicleRepository)
		ownerRepo.On("GetByCCCD", mock.Anything, "012345678901").Return(existing, nil)
		ownerRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Owner")).Return(nil)
		vehicleRepo.On("ReplaceForOwner", mock.Anything, "012345678901", mock.AnythingOfType("[]*domain.Vehicle")).
			Return(nil)
		vehicleRepo.On("GetByOwnerCCCD", mock.Anything, "012345678901").
			Return([]*domain.Vehicle{
				{OwnerCCCD: "012345678901", LicensePlate: "72MĐ112345", Status: domain.StatusRetrieved},
			}, nil)

		svc := newTestService(ownerRepo, vehicleRepo)
		o, err := svc.Update(context.Background(), "012345678901", &UpdateRequest{
			FullName: "Nguyễn Văn An",
			Vehicles: []VehicleInput{{LicensePlate: "72MĐ1-123.45"}},
		})

		assert.NoError(t, err)
		assert.Len(t, o.Vehicles, 1)
		vehicleRepo.AssertExpectations(t)
	})

	t.Run("unknown owner", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		ownerRepo.On("GetByCCCD", mock.Anything, "012345678902").
			Return(nil, domain.ErrOwnerNotFound)

		svc := newTestService(ownerRepo, new(MockVehicleRepository))
		_, err := svc.Update(context.Background(), "012345678902", &UpdateRequest{FullName: "X"})

		assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
	})
}
