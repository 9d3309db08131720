package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SessionStatus - lifecycle state of an inventory session.
// A session goes active -> ended exactly once; ended is terminal.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// InventorySession - one bounded physical counting round.
// At most one session is active system-wide; the store enforces this
// with a partial unique index rather than an application-level scan.
type InventorySession struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      SessionStatus `json:"status"`
	StartedAt   time.Time     `json:"startedAt"`
	EndedAt     *time.Time    `json:"endedAt,omitempty"`
}

// IsActive reports whether the session still accepts check records.
func (s *InventorySession) IsActive() bool {
	return s.Status == SessionActive
}

// InventoryCheckRecord - one plate observed during a session, keyed by
// (session, plate). Count starts at 1 and grows by one per repeated check;
// it is never reset within a session.
type InventoryCheckRecord struct {
	SessionID      uuid.UUID `json:"sessionId"`
	LicensePlate   string    `json:"licensePlate"`
	Count          int       `json:"count"`
	FirstCheckedAt time.Time `json:"firstCheckedAt"`
}

// InventoryReport - derived snapshot produced when a session ends.
// It is a projection over session records and the parked set at end time,
// recomputable and never stored as a mutable entity.
type InventoryReport struct {
	SessionID              uuid.UUID `json:"sessionId"`
	SessionName            string    `json:"sessionName"`
	StartedAt              time.Time `json:"startedAt"`
	EndedAt                time.Time `json:"endedAt"`
	TotalVehicles          int       `json:"totalVehicles"`
	CheckedVehicles        int       `json:"checkedVehicles"`
	UncheckedVehicles      int       `json:"uncheckedVehicles"`
	UncheckedLicensePlates []string  `json:"uncheckedLicensePlates"`
}

// BuildReport reconciles the plates checked during a session against the set
// of plates parked at end time.
//
// A checked plate that is no longer parked (retrieved mid-session) counts
// neither as checked nor unchecked: it sits outside the parked denominator
// entirely. Unchecked plates come back in lexical order so reports are
// reproducible.
func BuildReport(session *InventorySession, endedAt time.Time, parkedPlates, checkedPlates []string) *InventoryReport {
	checked := make(map[string]struct{}, len(checkedPlates))
	for _, p := range checkedPlates {
		checked[p] = struct{}{}
	}

	var unchecked []string
	checkedParked := 0
	for _, p := range parkedPlates {
		if _, ok := checked[p]; ok {
			checkedParked++
		} else {
			unchecked = append(unchecked, p)
		}
	}
	sort.Strings(unchecked)
	if unchecked == nil {
		unchecked = []string{}
	}

	return &InventoryReport{
		SessionID:              session.ID,
		SessionName:            session.Name,
		StartedAt:              session.StartedAt,
		EndedAt:                endedAt,
		TotalVehicles:          len(parkedPlates),
		CheckedVehicles:        checkedParked,
		UncheckedVehicles:      len(parkedPlates) - checkedParked,
		UncheckedLicensePlates: unchecked,
	}
}

// ValidPlateSuffix reports whether a suffix-search term is 3-5 digits.
func ValidPlateSuffix(suffix string) bool {
	if len(suffix) < 3 || len(suffix) > 5 {
		return false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
