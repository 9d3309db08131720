package domain

import (
	"regexp"
	"time"
)

// Owner - a registered citizen, identified by the CCCD number printed in the
// national-ID QR code. Owners are managed through the admin console; the
// status and inventory engines only ever read them.
type Owner struct {
	CCCD        string    `json:"cccd"`
	OldCCCD     string    `json:"oldCccd,omitempty"` // legacy 9-digit CMND number, optional
	FullName    string    `json:"fullName"`
	DateOfBirth string    `json:"dateOfBirth"`
	Gender      string    `json:"gender"`
	Hometown    string    `json:"hometown"`
	IssueDate   string    `json:"issueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Filled on demand.
	Vehicles []*Vehicle `json:"vehicles,omitempty"`
}

// cccdPattern - CCCD numbers are exactly 12 digits.
var cccdPattern = regexp.MustCompile(`^[0-9]{12}$`)

// ValidCCCD reports whether a string is a well-formed CCCD number.
func ValidCCCD(cccd string) bool {
	return cccdPattern.MatchString(cccd)
}

// Validate checks owner data before it is written.
func (o *Owner) Validate() error {
	if !ValidCCCD(o.CCCD) {
		return ErrInvalidCCCD
	}
	if o.FullName == "" {
		return ErrInvalidOwnerData
	}
	return nil
}
