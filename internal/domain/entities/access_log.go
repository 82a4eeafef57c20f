package entities

import "time"

// AccessType distinguishes how a submission was reached.
type AccessType string

const (
	AccessTypeAdmin  AccessType = "admin_view"
	AccessTypeQRScan AccessType = "qr_scan"
	AccessTypeOwner  AccessType = "owner_view"
)

// AccessLog records one read of a submission through the gateway.
type AccessLog struct {
	ID           string     `json:"id"`
	SubmissionID string     `json:"submission_id"`
	AccessType   AccessType `json:"access_type"`
	AccessorID   string     `json:"accessor_id,omitempty"`
	RemoteAddr   string     `json:"remote_addr,omitempty"`
	UserAgent    string     `json:"user_agent,omitempty"`
	AccessedAt   time.Time  `json:"accessed_at"`
}
