package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/minhnd/parklot/internal/domain"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondSuccess wraps a payload in the {success, data} envelope.
func respondSuccess(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// errorStatus maps domain sentinel errors to HTTP status codes.
// Unknown errors map to 500 so internals never leak to the client.
var errorStatus = map[error]int{
	domain.ErrOwnerNotFound:          http.StatusNotFound,
	domain.ErrVehicleNotFound:        http.StatusNotFound,
	domain.ErrSessionNotFound:        http.StatusNotFound,
	domain.ErrStaffNotFound:          http.StatusNotFound,
	domain.ErrOwnerAlreadyExists:     http.StatusConflict,
	domain.ErrVehicleAlreadyExists:   http.StatusConflict,
	domain.ErrSessionAlreadyActive:   http.StatusConflict,
	domain.ErrStaffAlreadyExists:     http.StatusConflict,
	domain.ErrInvalidStateTransition: http.StatusConflict,
	domain.ErrSessionNotActive:       http.StatusConflict,
	domain.ErrInvalidCCCD:            http.StatusBadRequest,
	domain.ErrInvalidOwnerData:       http.StatusBadRequest,
	domain.ErrInvalidLicensePlate:    http.StatusBadRequest,
	domain.ErrInvalidVehicleData:     http.StatusBadRequest,
	domain.ErrInvalidAction:          http.StatusBadRequest,
	domain.ErrInvalidSessionData:     http.StatusBadRequest,
	domain.ErrInvalidSuffix:          http.StatusBadRequest,
	domain.ErrInvalidCredentials:     http.StatusUnauthorized,
	domain.ErrTokenExpired:           http.StatusUnauthorized,
	domain.ErrInvalidToken:           http.StatusUnauthorized,
	domain.ErrUnauthorized:           http.StatusUnauthorized,
	domain.ErrForbidden:              http.StatusForbidden,
}

// respondDomainError resolves a service error to a status code and message.
// fallback is the message used for unexpected errors.
func respondDomainError(w http.ResponseWriter, err error, fallback string) {
	for sentinel, code := range errorStatus {
		if errors.Is(err, sentinel) {
			respondError(w, code, sentinel.Error())
			return
		}
	}
	respondError(w, http.StatusInternalServerError, fallback)
}
