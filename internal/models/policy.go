package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PolicyStatus represents the lifecycle state of a policy
type PolicyStatus string

const (
	PolicyStatusRequested PolicyStatus = "REQUESTED"
	PolicyStatusActive    PolicyStatus = "ACTIVE"
	PolicyStatusLapsed    PolicyStatus = "LAPSED"
	PolicyStatusCancelled PolicyStatus = "CANCELLED"
	PolicyStatusMatured   PolicyStatus = "MATURED"
)

// PolicyStatuses is the closed set of recognised policy states. The admin
// force-status operation validates against this set only; the stricter
// approve/reject graph lives in the service layer.
var PolicyStatuses = []PolicyStatus{
	PolicyStatusRequested,
	PolicyStatusActive,
	PolicyStatusLapsed,
	PolicyStatusCancelled,
	PolicyStatusMatured,
}

// ValidPolicyStatus reports whether s is one of the enumerated states
func ValidPolicyStatus(s PolicyStatus) bool {
	for _, v := range PolicyStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PremiumFrequency represents how often a premium is paid
type PremiumFrequency string

const (
	FrequencyMonthly   PremiumFrequency = "monthly"
	FrequencyQuarterly PremiumFrequency = "quarterly"
	FrequencyAnnually  PremiumFrequency = "annually"
)

// ValidPremiumFrequency reports whether f is a supported payment frequency
func ValidPremiumFrequency(f PremiumFrequency) bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return true
	}
	return false
}

// Beneficiary is a named party entitled to a percentage share of a payout
type Beneficiary struct {
	Name         string `bson:"name" json:"name" binding:"required"`
	Relationship string `bson:"relationship" json:"relationship" binding:"required"`
	NIC          string `bson:"nic" json:"nic" binding:"required"`
	Percentage   int    `bson:"percentage" json:"percentage" binding:"required,min=1,max=100"`
}

// Policy represents a purchased (or requested) insurance policy. The plan
// fields are a snapshot taken at purchase time; later plan edits never
// propagate here.
type Policy struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PolicyID          string             `bson:"policyId" json:"policyId"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID            string             `bson:"planId" json:"planId"`
	PlanName          string             `bson:"planName" json:"planName"`
	PlanType          PlanType           `bson:"planType" json:"planType"`
	CoverageAmount    float64            `bson:"coverageAmount" json:"coverageAmount"`
	PremiumAmount     float64            `bson:"premiumAmount" json:"premiumAmount"`
	PremiumFrequency  PremiumFrequency   `bson:"premiumFrequency" json:"premiumFrequency"`
	StartDate         time.Time          `bson:"startDate" json:"startDate"`
	EndDate           time.Time          `bson:"endDate" json:"endDate"`
	Status            PolicyStatus       `bson:"status" json:"status"`
	Beneficiaries     []Beneficiary      `bson:"beneficiaries" json:"beneficiaries"`
	PolicyDocumentURL string             `bson:"policyDocumentURL,omitempty" json:"policyDocumentURL,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RequestPolicyRequest defines the payload for a customer policy request
type RequestPolicyRequest struct {
	PlanID           string           `json:"planId" binding:"required"`
	CoverageAmount   float64          `json:"coverageAmount" binding:"required,gt=0"`
	PremiumFrequency PremiumFrequency `json:"premiumFrequency" binding:"required"`
	Beneficiaries    []Beneficiary    `json:"beneficiaries" binding:"required,min=1,dive"`
}

// QuoteRequest defines the payload for a standalone premium quote
type QuoteRequest struct {
	PlanID           string           `json:"planId" binding:"required"`
	CoverageAmount   float64          `json:"coverageAmount" binding:"required,gt=0"`
	PremiumFrequency PremiumFrequency `json:"premiumFrequency" binding:"required"`
}

// Quote is the result of a premium calculation
type Quote struct {
	PlanName         string           `json:"planName"`
	CoverageAmount   float64          `json:"coverageAmount"`
	PremiumFrequency PremiumFrequency `json:"premiumFrequency"`
	PremiumAmount    float64          `json:"premiumAmount"`
	DiscountPercent  int              `json:"discountPercent"`
	DurationYears    int              `json:"durationYears"`
}

// UpdatePolicyStatusRequest defines the payload for the admin status override
type UpdatePolicyStatusRequest struct {
	Status PolicyStatus `json:"status" binding:"required"`
}

// PolicyFilter narrows policy list queries
type PolicyFilter struct {
	UserID   primitive.ObjectID
	Status   PolicyStatus
	PlanType PlanType
}
