package domain

import "errors"

// Domain errors - shared by every layer of the application.

// Owner errors
var (
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrOwnerAlreadyExists = errors.New("owner already exists")
	ErrInvalidCCCD        = errors.New("invalid cccd number")
	ErrInvalidOwnerData   = errors.New("invalid owner data")
)

// Vehicle errors
var (
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrVehicleAlreadyExists   = errors.New("vehicle already registered to another owner")
	ErrInvalidLicensePlate    = errors.New("invalid license plate")
	ErrInvalidVehicleData     = errors.New("invalid vehicle data")
	ErrInvalidAction          = errors.New("invalid vehicle action")
	ErrInvalidStateTransition = errors.New("invalid vehicle state transition")
)

// Inventory errors
var (
	ErrSessionNotFound      = errors.New("inventory session not found")
	ErrSessionAlreadyActive = errors.New("an inventory session is already active")
	ErrSessionNotActive     = errors.New("inventory session is not active")
	ErrInvalidSessionData   = errors.New("invalid inventory session data")
	ErrInvalidSuffix        = errors.New("plate suffix must be 3-5 digits")
)

// Staff / authorization errors
var (
	ErrStaffNotFound      = errors.New("staff account not found")
	ErrStaffAlreadyExists = errors.New("staff account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
