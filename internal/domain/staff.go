package domain

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole - role of a staff account.
type StaffRole string

const (
	RoleAdmin    StaffRole = "admin"
	RoleOperator StaffRole = "operator" // booth staff: scan and toggle only
)

// Staff - an account for the people operating the lot. Owners never log in;
// staff authenticate to reach the admin console and inventory workflow.
type Staff struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"fullName"`
	Role         StaffRole  `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// IsAdmin reports whether the account may manage owners and run inventory.
func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Validate checks staff account data.
func (s *Staff) Validate() error {
	if s.Username == "" || s.FullName == "" {
		return ErrInvalidCredentials
	}
	if s.Role != RoleAdmin && s.Role != RoleOperator {
		return ErrInvalidCredentials
	}
	return nil
}
