package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimStatus represents the lifecycle state of a claim
type ClaimStatus string

const (
	ClaimStatusFiled       ClaimStatus = "FILED"
	ClaimStatusUnderReview ClaimStatus = "UNDER_REVIEW"
	ClaimStatusApproved    ClaimStatus = "APPROVED"
	ClaimStatusRejected    ClaimStatus = "REJECTED"
	ClaimStatusPaid        ClaimStatus = "PAID"
)

// ValidClaimStatus reports whether s is a known claim status
func ValidClaimStatus(s ClaimStatus) bool {
	switch s {
	case ClaimStatusFiled, ClaimStatusUnderReview, ClaimStatusApproved,
		ClaimStatusRejected, ClaimStatusPaid:
		return true
	}
	return false
}

// ClaimType represents the event a claim is filed for
type ClaimType string

const (
	ClaimTypeMaturity        ClaimType = "maturity"
	ClaimTypeDeath           ClaimType = "death"
	ClaimTypeCriticalIllness ClaimType = "critical_illness"
	ClaimTypeAccident        ClaimType = "accident"
)

// ValidClaimType reports whether t is a supported claim type
func ValidClaimType(t ClaimType) bool {
	switch t {
	case ClaimTypeMaturity, ClaimTypeDeath, ClaimTypeCriticalIllness, ClaimTypeAccident:
		return true
	}
	return false
}

// DocumentTypeNIC is the mandatory identity document on every claim
const DocumentTypeNIC = "NIC"

// ClaimDocument is an uploaded supporting document reference
type ClaimDocument struct {
	Type       string    `bson:"type" json:"type"`
	URL        string    `bson:"url" json:"url"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Claim represents a filed claim against a policy. PolicyID is the business
// reference of the policy, not a foreign key.
type Claim struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	ClaimID     string              `bson:"claimId" json:"claimId"`
	PolicyID    string              `bson:"policyId" json:"policyId"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	ClaimType   ClaimType           `bson:"claimType" json:"claimType"`
	ClaimAmount float64             `bson:"claimAmount" json:"claimAmount"`
	Reason      string              `bson:"reason" json:"reason"`
	Status      ClaimStatus         `bson:"status" json:"status"`
	Documents   []ClaimDocument     `bson:"documents" json:"documents"`
	ReviewNotes string              `bson:"reviewNotes,omitempty" json:"reviewNotes,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// AcceptsDocuments reports whether additional documents may still be attached.
// Once a claim is approved, rejected or paid its evidence set is frozen.
func (c *Claim) AcceptsDocuments() bool {
	return c.Status == ClaimStatusFiled || c.Status == ClaimStatusUnderReview
}

// FileClaimRequest defines the non-file fields of a claim submission.
// Documents arrive alongside it as multipart uploads.
type FileClaimRequest struct {
	PolicyID    string    `form:"policyId" binding:"required"`
	ClaimType   ClaimType `form:"claimType" binding:"required"`
	ClaimAmount float64   `form:"claimAmount" binding:"required,gt=0"`
	Reason      string    `form:"reason" binding:"required"`
}

// ClaimReview carries the fields an administrator stamps onto a claim
// during a guarded status transition.
type ClaimReview struct {
	Status      ClaimStatus
	ReviewNotes string
	ReviewedBy  primitive.ObjectID
	ReviewedAt  time.Time
}

// ClaimFilter narrows claim list queries
type ClaimFilter struct {
	UserID    primitive.ObjectID
	Status    ClaimStatus
	ClaimType ClaimType
	PolicyID  string
}
