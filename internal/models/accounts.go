package models

import "time"

// TrackedAccount is an approved account included in scrape cycles.
type TrackedAccount struct {
	Username   string    `json:"username"`
	Submitter  string    `json:"submitter,omitempty"`
	ApprovedAt time.Time `json:"approved_at"`
}

// PendingAccount is a user submission awaiting review.
type PendingAccount struct {
	Username    string    `json:"username"`
	Submitter   string    `json:"submitter,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TrackedFile is the on-disk envelope for the tracked accounts list.
type TrackedFile struct {
	Accounts []TrackedAccount `json:"accounts"`
}

// PendingFile is the on-disk envelope for the pending accounts list.
type PendingFile struct {
	PendingAccounts []PendingAccount `json:"pending_accounts"`
}
