package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VehicleStatus shows whether a vehicle is currently inside the lot.
type VehicleStatus string

const (
	StatusParked    VehicleStatus = "parked"    // currently in the lot
	StatusRetrieved VehicleStatus = "retrieved" // picked up / not in the lot
)

// VehicleAction is a requested status transition.
type VehicleAction string

const (
	ActionPark     VehicleAction = "park"
	ActionRetrieve VehicleAction = "retrieve"
)

// transitions maps an action to its required current status and the resulting status.
// Park is only legal from retrieved, retrieve only from parked.
var transitions = map[VehicleAction]struct {
	From VehicleStatus
	To   VehicleStatus
}{
	ActionPark:     {From: StatusRetrieved, To: StatusParked},
	ActionRetrieve: {From: StatusParked, To: StatusRetrieved},
}

// NextStatus resolves the status an action leads to from the current one.
// Returns ErrInvalidAction for unknown actions and ErrInvalidStateTransition
// when the vehicle is not in the action's required state.
func NextStatus(current VehicleStatus, action VehicleAction) (VehicleStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrInvalidAction
	}
	if current != t.From {
		return "", ErrInvalidStateTransition
	}
	return t.To, nil
}

// RequiredStatus returns the status a vehicle must be in for the action to be legal.
func (a VehicleAction) RequiredStatus() (VehicleStatus, bool) {
	t, ok := transitions[a]
	return t.From, ok
}

// Display returns the Vietnamese label used by the UI ("Gửi" / "Lấy").
func (a VehicleAction) Display() string {
	switch a {
	case ActionPark:
		return "Gửi"
	case ActionRetrieve:
		return "Lấy"
	default:
		return string(a)
	}
}

// Display returns the Vietnamese label used by the UI ("Đang gửi" / "Đã lấy").
func (s VehicleStatus) Display() string {
	switch s {
	case StatusParked:
		return "Đang gửi"
	case StatusRetrieved:
		return "Đã lấy"
	default:
		return string(s)
	}
}

// VehicleType - motorbike classification derived from the plate when not set explicitly.
type VehicleType string

const (
	VehicleTypeMotorbike  VehicleType = "Xe máy"
	VehicleTypeEMotorbike VehicleType = "Xe máy điện"
)

// Vehicle belongs to exactly one owner, referenced by CCCD.
// LicensePlate is stored in canonical form and unique across the system.
type Vehicle struct {
	ID           uuid.UUID     `json:"id"`
	OwnerCCCD    string        `json:"ownerCccd"`
	LicensePlate string        `json:"licensePlate"`
	VehicleType  VehicleType   `json:"vehicleType"`
	Brand        string        `json:"brand,omitempty"`
	Color        string        `json:"color,omitempty"`
	Status       VehicleStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`

	// Filled on demand, not stored with the vehicle row.
	Owner           *Owner       `json:"owner,omitempty"`
	LastTransaction *Transaction `json:"lastTransaction,omitempty"`
}

var (
	plateSeparators = strings.NewReplacer("-", "", ".", "", " ", "")
	platePattern    = regexp.MustCompile(`^[0-9]{2}[A-ZĐ][A-ZĐ0-9]{0,3}[0-9]{3,5}$`)
	eMotorbikeMark  = "MĐ"
)

// NormalizeLicensePlate strips separators and upper-cases the plate.
// Every component that reads or writes a plate goes through this one function.
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(plateSeparators.Replace(strings.TrimSpace(plate)))
}

// ValidLicensePlate reports whether a canonical plate matches the expected pattern.
func ValidLicensePlate(plate string) bool {
	n := len([]rune(plate))
	if n < 7 || n > 10 {
		return false
	}
	return platePattern.MatchString(plate)
}

// FormatLicensePlate renders a canonical plate in display form,
// e.g. 59X112345 -> 59X1-123.45 and 72MĐ112345 -> 72MĐ1-123.45.
func FormatLicensePlate(plate string) string {
	clean := NormalizeLicensePlate(plate)
	r := []rune(clean)

	if strings.Contains(clean, eMotorbikeMark) && len(r) == 10 {
		return string(r[:5]) + "-" + string(r[5:8]) + "." + string(r[8:])
	}
	switch len(r) {
	case 8:
		return string(r[:4]) + "-" + string(r[4:])
	case 9:
		return string(r[:4]) + "-" + string(r[4:7]) + "." + string(r[7:])
	}
	return plate
}

// VehicleTypeForPlate derives the type from the plate series:
// plates carrying the MĐ series are electric motorbikes.
func VehicleTypeForPlate(plate string) VehicleType {
	if strings.Contains(NormalizeLicensePlate(plate), eMotorbikeMark) {
		return VehicleTypeEMotorbike
	}
	return VehicleTypeMotorbike
}

// Validate normalizes the plate and checks vehicle data.
// The vehicle type is derived from the plate when left empty.
func (v *Vehicle) Validate() error {
	if v.OwnerCCCD == "" {
		return ErrInvalidVehicleData
	}

	v.LicensePlate = NormalizeLicensePlate(v.LicensePlate)
	if !ValidLicensePlate(v.LicensePlate) {
		return ErrInvalidLicensePlate
	}

	if v.VehicleType == "" {
		v.VehicleType = VehicleTypeForPlate(v.LicensePlate)
	}

	if v.Status == "" {
		// A freshly registered vehicle is not in the lot yet.
		v.Status = StatusRetrieved
	}
	if v.Status != StatusParked && v.Status != StatusRetrieved {
		return ErrInvalidVehicleData
	}

	return nil
}
