package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildReport(t *testing.T) {
	session := &InventorySession{
		ID:        uuid.New(),
		Name:      "Kiểm kê 30/08/2026",
		Status:    SessionActive,
		StartedAt: time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
	}
	endedAt := session.StartedAt.Add(2 * time.Hour)

	t.Run("partitions parked into checked and unchecked", func(t *testing.T) {
		report := BuildReport(session, endedAt,
			[]string{"59X112345", "59X211111", "72MĐ112345"},
			[]string{"59X112345"},
		)

		assert.Equal(t, 3, report.TotalVehicles)
		assert.Equal(t, 1, report.CheckedVehicles)
		assert.Equal(t, 2, report.UncheckedVehicles)
		assert.Equal(t, []string{"59X211111", "72MĐ112345"}, report.UncheckedLicensePlates)
	})

	t.Run("checked plus unchecked always equals total", func(t *testing.T) {
		report := BuildReport(session, endedAt,
			[]string{"59X112345", "59X211111"},
			[]string{"59X112345", "59X211111", "51F999999"},
		)
		assert.Equal(t, report.TotalVehicles, report.CheckedVehicles+report.UncheckedVehicles)
	})

	t.Run("plate retrieved mid-session counts neither way", func(t *testing.T) {
		// 51F999999 was checked early, then its owner picked it up before the
		// session ended: it is outside the parked set at end time.
		report := BuildReport(session, endedAt,
			[]string{"59X112345"},
			[]string{"59X112345", "51F999999"},
		)

		assert.Equal(t, 1, report.TotalVehicles)
		assert.Equal(t, 1, report.CheckedVehicles)
		assert.Equal(t, 0, report.UncheckedVehicles)
		assert.Empty(t, report.UncheckedLicensePlates)
	})

	t.Run("unchecked plates come back sorted", func(t *testing.T) {
		report := BuildReport(session, endedAt,
			[]string{"72MĐ112345", "51F999999", "59X112345"},
			nil,
		)
		assert.Equal(t, []string{"51F999999", "59X112345", "72MĐ112345"}, report.UncheckedLicensePlates)
	})

	t.Run("empty lot produces an empty non-nil slice", func(t *testing.T) {
		report := BuildReport(session, endedAt, nil, nil)
		assert.Equal(t, 0, report.TotalVehicles)
		assert.NotNil(t, report.UncheckedLicensePlates)
		assert.Empty(t, report.UncheckedLicensePlates)
	})

	t.Run("carries session identity", func(t *testing.T) {
		report := BuildReport(session, endedAt, nil, nil)
		assert.Equal(t, session.ID, report.SessionID)
		assert.Equal(t, session.Name, report.SessionName)
		assert.Equal(t, session.StartedAt, report.StartedAt)
		assert.Equal(t, endedAt, report.EndedAt)
	})
}

func TestValidPlateSuffix(t *testing.T) {
	tests := []struct {
		suffix string
		want   bool
	}{
		{"123", true},
		{"1234", true},
		{"12345", true},
		{"12", false},
		{"123456", false},
		{"12a4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPlateSuffix(tt.suffix))
		})
	}
}

func TestSessionIsActive(t *testing.T) {
	s := &InventorySession{Status: SessionActive}
	assert.True(t, s.IsActive())

	s.Status = SessionEnded
	assert.False(t, s.IsActive())
}
