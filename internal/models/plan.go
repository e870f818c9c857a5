package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanType represents the product category of an insurance plan
type PlanType string

const (
	PlanTypeTermLife       PlanType = "Term Life"
	PlanTypeSavings        PlanType = "Savings"
	PlanTypeRetirement     PlanType = "Retirement"
	PlanTypeChildEducation PlanType = "Child Education"
)

// ValidPlanType reports whether t is one of the supported plan types
func ValidPlanType(t PlanType) bool {
	switch t {
	case PlanTypeTermLife, PlanTypeSavings, PlanTypeRetirement, PlanTypeChildEducation:
		return true
	}
	return false
}

// InsurancePlan represents a purchasable insurance product. Plans are never
// hard-deleted; deactivation flips IsActive so existing policies keep their
// snapshot while the plan disappears from the catalogue.
type InsurancePlan struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PlanID             string             `bson:"planId" json:"planId"`
	PlanName           string             `bson:"planName" json:"planName"`
	PlanType           PlanType           `bson:"planType" json:"planType"`
	Description        string             `bson:"description" json:"description"`
	MinCoverage        float64            `bson:"minCoverage" json:"minCoverage"`
	MaxCoverage        float64            `bson:"maxCoverage" json:"maxCoverage"`
	MonthlyPremiumRate float64            `bson:"monthlyPremiumRate" json:"monthlyPremiumRate"` // rate per 1M coverage
	MinAge             int                `bson:"minAge" json:"minAge"`
	MaxAge             int                `bson:"maxAge" json:"maxAge"`
	Duration           int                `bson:"duration" json:"duration"` // years
	IsActive           bool               `bson:"isActive" json:"isActive"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreatePlanRequest defines the payload for creating a plan
type CreatePlanRequest struct {
	PlanID             string   `json:"planId" binding:"required"`
	PlanName           string   `json:"planName" binding:"required"`
	PlanType           PlanType `json:"planType" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	MinCoverage        float64  `json:"minCoverage" binding:"required,gt=0"`
	MaxCoverage        float64  `json:"maxCoverage" binding:"required,gt=0"`
	MonthlyPremiumRate float64  `json:"monthlyPremiumRate" binding:"required,gt=0"`
	MinAge             int      `json:"minAge" binding:"required,min=18"`
	MaxAge             int      `json:"maxAge" binding:"required,max=100"`
	Duration           int      `json:"duration" binding:"required,min=1"`
}

// UpdatePlanRequest defines the payload for updating a plan. Pointer fields
// distinguish "not supplied" from zero values.
type UpdatePlanRequest struct {
	PlanName           *string   `json:"planName"`
	PlanType           *PlanType `json:"planType"`
	Description        *string   `json:"description"`
	MinCoverage        *float64  `json:"minCoverage"`
	MaxCoverage        *float64  `json:"maxCoverage"`
	MonthlyPremiumRate *float64  `json:"monthlyPremiumRate"`
	MinAge             *int      `json:"minAge"`
	MaxAge             *int      `json:"maxAge"`
	Duration           *int      `json:"duration"`
	IsActive           *bool     `json:"isActive"`
}

// PlanFilter narrows plan catalogue queries
type PlanFilter struct {
	PlanType    PlanType
	MinCoverage float64
	MaxCoverage float64
	Search      string
}
