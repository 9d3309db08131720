package http

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/jwt"
)

// CreateTestOwner builds an owner for tests.
func CreateTestOwner(cccd, fullName string) *domain.Owner {
	return &domain.Owner{
		CCCD:        cccd,
		FullName:    fullName,
		DateOfBirth: "01/01/1990",
		Gender:      "Nam",
		Hometown:    "Hà Nội",
		IssueDate:   "15/03/2021",
	}
}

// CreateTestVehicle builds a vehicle for tests.
func CreateTestVehicle(ownerCCCD, licensePlate string, status domain.VehicleStatus) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           uuid.New(),
		OwnerCCCD:    ownerCCCD,
		LicensePlate: licensePlate,
		VehicleType:  domain.VehicleTypeForPlate(licensePlate),
		Status:       status,
	}
}

// CreateTestStaff builds a staff account for tests.
func CreateTestStaff(username string, role domain.StaffRole) *domain.Staff {
	return &domain.Staff{
		ID:       uuid.New(),
		Username: username,
		FullName: "Test Staff",
		Role:     role,
	}
}

// CreateTestJWTToken issues a short-lived access token for a staff account.
func CreateTestJWTToken(staff *domain.Staff, secretKey string) (string, error) {
	tokenService := jwt.NewTokenService(secretKey, 15*time.Minute, 24*time.Hour)
	tokenPair, err := tokenService.GenerateTokenPair(staff)
	if err != nil {
		return "", err
	}
	return tokenPair.AccessToken, nil
}

// AssertSuccess checks a successful API envelope.
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError checks an error API envelope.
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
