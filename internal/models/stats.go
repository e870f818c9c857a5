package models

// StatusBreakdown is a group-by-status aggregation row
type StatusBreakdown struct {
	Status        string  `bson:"_id" json:"status"`
	Count         int64   `bson:"count" json:"count"`
	TotalCoverage float64 `bson:"totalCoverage,omitempty" json:"totalCoverage,omitempty"`
	TotalPremium  float64 `bson:"totalPremium,omitempty" json:"totalPremium,omitempty"`
	TotalAmount   float64 `bson:"totalAmount,omitempty" json:"totalAmount,omitempty"`
	AvgAmount     float64 `bson:"avgAmount,omitempty" json:"avgAmount,omitempty"`
}

// TypeBreakdown is a group-by-type aggregation row
type TypeBreakdown struct {
	Type        string  `bson:"_id" json:"type"`
	Count       int64   `bson:"count" json:"count"`
	TotalAmount float64 `bson:"totalAmount,omitempty" json:"totalAmount,omitempty"`
}

// FrequencyBreakdown is a group-by-premium-frequency aggregation row
type FrequencyBreakdown struct {
	Frequency    string  `bson:"_id" json:"frequency"`
	Count        int64   `bson:"count" json:"count"`
	TotalPremium float64 `bson:"totalPremium" json:"totalPremium"`
}

// MonthlyTrendPoint is one month of a creation-volume trend
type MonthlyTrendPoint struct {
	Year        int     `bson:"year" json:"year"`
	Month       int     `bson:"month" json:"month"`
	Count       int64   `bson:"count" json:"count"`
	TotalAmount float64 `bson:"totalAmount" json:"totalAmount"`
}

// DashboardOverview is the headline block of the admin dashboard
type DashboardOverview struct {
	TotalCustomers      int64   `json:"totalCustomers"`
	TotalPlans          int64   `json:"totalPlans"`
	TotalPolicies       int64   `json:"totalPolicies"`
	TotalClaims         int64   `json:"totalClaims"`
	ActivePolicies      int64   `json:"activePolicies"`
	PendingPolicies     int64   `json:"pendingPolicies"`
	PendingClaims       int64   `json:"pendingClaims"`
	TotalMonthlyRevenue float64 `json:"totalMonthlyRevenue"`
	TotalApprovedClaims float64 `json:"totalApprovedClaims"`
}

// DashboardStats bundles everything the admin dashboard renders
type DashboardStats struct {
	Overview       DashboardOverview `json:"overview"`
	PolicyStats    []StatusBreakdown `json:"policyStats"`
	ClaimStats     []StatusBreakdown `json:"claimStats"`
	TypeBreakdown  []TypeBreakdown   `json:"policyTypeDistribution"`
	RecentPolicies []*Policy         `json:"recentPolicies"`
	RecentClaims   []*Claim          `json:"recentClaims"`
}

// CustomerSummary is a customer row with policy/claim counts
type CustomerSummary struct {
	User        *User `json:"customer"`
	PolicyCount int64 `json:"policyCount"`
	ClaimCount  int64 `json:"claimCount"`
}

// CustomerDetails is the full admin view of one customer
type CustomerDetails struct {
	Customer   *User              `json:"customer"`
	Statistics CustomerStatistics `json:"statistics"`
	Policies   []*Policy          `json:"policies"`
	Claims     []*Claim           `json:"claims"`
}

// CustomerStatistics summarises one customer's book
type CustomerStatistics struct {
	TotalPolicies        int     `json:"totalPolicies"`
	ActivePolicies       int     `json:"activePolicies"`
	TotalClaims          int     `json:"totalClaims"`
	ApprovedClaims       int     `json:"approvedClaims"`
	TotalCoverage        float64 `json:"totalCoverage"`
	TotalMonthlyPremiums float64 `json:"totalMonthlyPremiums"`
}

// PolicyStatistics is the admin policy-statistics report
type PolicyStatistics struct {
	ByStatus     []StatusBreakdown    `json:"byStatus"`
	ByType       []TypeBreakdown      `json:"byType"`
	ByFrequency  []FrequencyBreakdown `json:"byFrequency"`
	MonthlyTrend []MonthlyTrendPoint  `json:"monthlyTrend"`
}

// ClaimRates carries approval/rejection ratios
type ClaimRates struct {
	ApprovalRate   float64 `json:"approvalRate"`
	RejectionRate  float64 `json:"rejectionRate"`
	TotalClaims    int64   `json:"totalClaims"`
	ApprovedClaims int64   `json:"approvedClaims"`
	RejectedClaims int64   `json:"rejectedClaims"`
}

// ClaimStatistics is the admin claim-statistics report
type ClaimStatistics struct {
	ByStatus     []StatusBreakdown   `json:"byStatus"`
	ByType       []TypeBreakdown     `json:"byType"`
	MonthlyTrend []MonthlyTrendPoint `json:"monthlyTrend"`
	Rates        ClaimRates          `json:"rates"`
}

// RevenueStatistics is the admin revenue report. Projected annual revenue
// normalises each frequency bucket to a yearly figure.
type RevenueStatistics struct {
	ActiveRevenue          []FrequencyBreakdown `json:"activeRevenue"`
	ProjectedAnnualRevenue float64              `json:"projectedAnnualRevenue"`
	TotalCoverage          float64              `json:"totalCoverage"`
	TotalClaimsPayout      float64              `json:"totalClaimsPayout"`
	NetPosition            float64              `json:"netPosition"`
}
