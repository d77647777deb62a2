package model

import "time"

// Status is the derived lifecycle state of a Requirement.
type Status string

const (
	StatusMissing      Status = "missing"
	StatusCompliant    Status = "compliant"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusCompliant, StatusExpiringSoon, StatusExpired, StatusMissing}

// Label renders the status for humans, e.g. "Expiring Soon".
func (s Status) Label() string {
	switch s {
	case StatusMissing:
		return "Missing"
	case StatusCompliant:
		return "Compliant"
	case StatusExpiringSoon:
		return "Expiring Soon"
	case StatusExpired:
		return "Expired"
	default:
		return string(s)
	}
}

// Requirement is a compliance obligation owned by an Organization.
// Status is derived from ExpirationDate, DocumentCount and the current date; it is never authoritative.
type Requirement struct {
	ID               string    `json:"id"`
	OrganizationID   string    `json:"organization_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	ExpirationDate   time.Time `json:"expiration_date"`
	RenewalFrequency string    `json:"renewal_frequency,omitempty"`
	Status           Status    `json:"status"`
	DocumentCount    int       `json:"document_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasDocuments reports whether at least one document is attached.
func (r *Requirement) HasDocuments() bool {
	return r.DocumentCount > 0
}
