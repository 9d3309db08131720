// Package qr decodes the payload carried by CCCD (national-ID card) QR codes.
//
// Camera capture and image decoding happen entirely on the client; the server
// only ever receives the decoded string, a pipe-separated record:
//
//	cccd|oldId|fullName|dateOfBirth|gender|hometown|issueDate
//
// oldId is the legacy CMND number and may be empty.
package qr

import (
	"strings"

	"github.com/minhnd/parklot/internal/domain"
)

// fieldCount - number of pipe-separated fields in a CCCD QR payload.
const fieldCount = 7

// CCCDPayload - the fields carried by a national-ID QR code.
type CCCDPayload struct {
	CCCD        string
	OldCCCD     string
	FullName    string
	DateOfBirth string
	Gender      string
	Hometown    string
	IssueDate   string
}

// Parse decodes a scanned QR string into its fields.
// Returns ErrInvalidCCCD when the payload is malformed or the CCCD
// number does not look like one.
func Parse(raw string) (*CCCDPayload, error) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	if len(parts) != fieldCount {
		return nil, domain.ErrInvalidCCCD
	}

	p := &CCCDPayload{
		CCCD:        strings.TrimSpace(parts[0]),
		OldCCCD:     strings.TrimSpace(parts[1]),
		FullName:    strings.TrimSpace(parts[2]),
		DateOfBirth: strings.TrimSpace(parts[3]),
		Gender:      strings.TrimSpace(parts[4]),
		Hometown:    strings.TrimSpace(parts[5]),
		IssueDate:   strings.TrimSpace(parts[6]),
	}

	if !domain.ValidCCCD(p.CCCD) || p.FullName == "" {
		return nil, domain.ErrInvalidCCCD
	}

	return p, nil
}

// Owner converts the payload into an Owner entity.
func (p *CCCDPayload) Owner() *domain.Owner {
	return &domain.Owner{
		CCCD:        p.CCCD,
		OldCCCD:     p.OldCCCD,
		FullName:    p.FullName,
		DateOfBirth: p.DateOfBirth,
		Gender:      p.Gender,
		Hometown:    p.Hometown,
		IssueDate:   p.IssueDate,
	}
}
