package services

import (
	"testing"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePremium(t *testing.T) {
	tests := []struct {
		name         string
		coverage     float64
		rate         float64
		frequency    models.PremiumFrequency
		wantAmount   float64
		wantDiscount int
	}{
		{
			name:       "monthly is the base rate per million",
			coverage:   1_000_000,
			rate:       2500,
			frequency:  models.FrequencyMonthly,
			wantAmount: 2500,
		},
		{
			name:         "quarterly bundles three months at a 4 percent discount",
			coverage:     1_000_000,
			rate:         2500,
			frequency:    models.FrequencyQuarterly,
			wantAmount:   7200,
			wantDiscount: 4,
		},
		{
			name:         "annual bundles twelve months at a 10 percent discount",
			coverage:     1_000_000,
			rate:         2500,
			frequency:    models.FrequencyAnnually,
			wantAmount:   27000,
			wantDiscount: 10,
		},
		{
			name:       "coverage scales the base linearly",
			coverage:   5_000_000,
			rate:       2500,
			frequency:  models.FrequencyMonthly,
			wantAmount: 12500,
		},
		{
			name:       "fractional results are rounded to the nearest whole amount",
			coverage:   750_000,
			rate:       1500,
			frequency:  models.FrequencyMonthly,
			wantAmount: 1125,
		},
		{
			name:         "sub-million coverage keeps the quarterly discount",
			coverage:     500_000,
			rate:         2500,
			frequency:    models.FrequencyQuarterly,
			wantAmount:   3600,
			wantDiscount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, discount, err := CalculatePremium(tt.coverage, tt.rate, tt.frequency)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantDiscount, discount)
		})
	}
}

func TestCalculatePremiumRejectsUnknownFrequency(t *testing.T) {
	_, _, err := CalculatePremium(1_000_000, 2500, "weekly")
	assert.ErrorIs(t, err, sentinel.ErrValidation)
}
