package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"payment-engine/domain"
)

func TestCalculateImpact(t *testing.T) {
	card := domain.CardAccount{
		ID:                    "card_1",
		CurrentBalance:        1000,
		CreditLimit:           2000,
		UtilizationPercentage: 50,
		MinimumPayment:        30,
		InterestRate:          domain.Rate(24),
	}

	impact := CalculateImpact(card, 500)

	assert.Equal(t, 25.0, impact.UtilizationImprovement)
	assert.Equal(t, 10.0, impact.ScoreImpactEstimate)
	assert.Greater(t, impact.InterestSaved, 0.0)
	// the first month alone saves 500 * 2%
	assert.Greater(t, impact.InterestSaved, 10.0)
}

func TestCalculateImpact_PayingNothingSavesNothing(t *testing.T) {
	card := threeCards()[0]
	impact := CalculateImpact(card, 0)

	assert.Equal(t, 0.0, impact.InterestSaved)
	assert.Equal(t, 0.0, impact.UtilizationImprovement)
	assert.Equal(t, 0.0, impact.ScoreImpactEstimate)
}

func TestCalculateImpact_UnknownRateUsesDefault(t *testing.T) {
	card := threeCards()[0]
	known := card
	known.InterestRate = domain.Rate(domain.DefaultInterestRate)
	card.InterestRate = nil

	assert.Equal(t, CalculateImpact(known, 300), CalculateImpact(card, 300))
}

func TestCalculateImpact_FullPayoff(t *testing.T) {
	card := threeCards()[0]
	impact := CalculateImpact(card, card.CurrentBalance)

	assert.Equal(t, card.UtilizationPercentage, impact.UtilizationImprovement)
	assert.Equal(t, 10.0, impact.ScoreImpactEstimate)
	assert.Equal(t, roundTo2Decimals(simulateInterest(800, 22.99, 24, SimulationMonths)), impact.InterestSaved)
}

func TestScoreImpact(t *testing.T) {
	tests := []struct {
		name          string
		before, after float64
		want          float64
	}{
		{"crosses 70", 85, 60, 20},
		{"crosses 70 and 30", 75, 10, 20},
		{"crosses 50", 55, 45, 15},
		{"crosses 30", 35, 30, 10},
		{"large drop inside a band", 29, 15, 5},
		{"small drop", 20, 15, 0},
		{"no change", 80, 80, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreImpact(tt.before, tt.after))
		})
	}
}

func TestSimulateInterest_ZeroRate(t *testing.T) {
	assert.Equal(t, 0.0, simulateInterest(1000, 0, 50, 12))
}

func TestProjectSavings(t *testing.T) {
	recs := []domain.PaymentRecommendation{
		{ExpectedImpact: domain.ExpectedImpact{InterestSaved: 60}},
		{ExpectedImpact: domain.ExpectedImpact{InterestSaved: 30.5}},
		{ExpectedImpact: domain.ExpectedImpact{InterestSaved: 0}},
	}

	savings := ProjectSavings(recs)
	assert.Equal(t, 90.5, savings.AnnualInterest)
	assert.Equal(t, 7.54, savings.MonthlyInterest)
}

func TestProjectSavings_Empty(t *testing.T) {
	savings := ProjectSavings(nil)
	assert.Equal(t, 0.0, savings.AnnualInterest)
	assert.Equal(t, 0.0, savings.MonthlyInterest)
}
