package services

import (
	"fmt"
	"math"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/pkg/sentinel"
)

// Discount percentages for paying ahead
const (
	quarterlyDiscountPercent = 4
	annualDiscountPercent    = 10
)

// CalculatePremium computes the premium for one payment period. The monthly
// base is the plan rate applied per million of coverage; quarterly and annual
// payments bundle three and twelve months with their discount applied. The
// result is rounded to the nearest whole amount.
func CalculatePremium(coverageAmount, monthlyPremiumRate float64, frequency models.PremiumFrequency) (float64, int, error) {
	base := coverageAmount / 1_000_000 * monthlyPremiumRate

	switch frequency {
	case models.FrequencyMonthly:
		return math.Round(base), 0, nil
	case models.FrequencyQuarterly:
		return math.Round(base * 3 * 0.96), quarterlyDiscountPercent, nil
	case models.FrequencyAnnually:
		return math.Round(base * 12 * 0.90), annualDiscountPercent, nil
	default:
		return 0, 0, fmt.Errorf("%w: unsupported premium frequency %q", sentinel.ErrValidation, frequency)
	}
}
