package models

import (
	"time"

	"github.com/google/uuid"
)

// Proof types
const (
	ProofTypeScreenshot = "screenshot"
	ProofTypeVideo      = "video"
	ProofTypeLink       = "link"
)

var AllProofTypes = []string{ProofTypeScreenshot, ProofTypeVideo, ProofTypeLink}

func IsValidProofType(t string) bool {
	for _, pt := range AllProofTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// Proof statuses
const (
	ProofStatusPending  = "pending"
	ProofStatusApproved = "approved"
	ProofStatusRejected = "rejected"
)

// CampaignProof is one evidence submission. Proofs are never deleted or
// overwritten: a rejection keeps the row (with reviewer notes) and a
// resubmission inserts a new row, preserving the review history.
type CampaignProof struct {
	ID            uuid.UUID  `json:"id"`
	CampaignID    uuid.UUID  `json:"campaign_id"`
	CreatorID     uuid.UUID  `json:"creator_id"`
	ProofType     string     `json:"proof_type"`
	FileURL       string     `json:"file_url"`
	FileName      *string    `json:"file_name,omitempty"`
	ViewCount     *int64     `json:"view_count,omitempty"`
	ScannedViews  *int64     `json:"scanned_views,omitempty"` // filled by the worker for link proofs
	Status        string     `json:"status"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewerNotes *string    `json:"reviewer_notes,omitempty"`
}
