package service

import (
	"math"

	"payment-engine/domain"
)

// ProjectSavings rolls the per-card interest saved into yearly and monthly
// figures.
func ProjectSavings(recommendations []domain.PaymentRecommendation) domain.ProjectedSavings {
	annual := 0.0
	for _, rec := range recommendations {
		annual += math.Max(0, rec.ExpectedImpact.InterestSaved)
	}
	return domain.ProjectedSavings{
		MonthlyInterest: roundTo2Decimals(annual / 12),
		AnnualInterest:  roundTo2Decimals(annual),
	}
}
