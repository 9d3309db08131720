package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction - immutable audit record of a single status transition.
// Appended exactly once per successful Park/Retrieve, never updated or deleted.
type Transaction struct {
	ID           uuid.UUID     `json:"id"`
	LicensePlate string        `json:"licensePlate"`
	OwnerCCCD    string        `json:"ownerCccd"`
	Action       VehicleAction `json:"action"`
	Timestamp    time.Time     `json:"timestamp"`
}

// ActivityBucket - transaction counts per action over one period of a series.
// Activity metrics are always derived from the transaction log; the current
// occupancy is always derived from vehicle status. The two are never mixed.
type ActivityBucket struct {
	Period        string `json:"period"` // "2006-01-02" for days, "2006-01" for months
	ParkCount     int    `json:"parkCount"`
	RetrieveCount int    `json:"retrieveCount"`
}
