package service

import (
	"math"

	"payment-engine/domain"
)

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// simulateInterest accrues interest month by month while paying only the
// minimum, and returns the total interest charged.
func simulateInterest(balance, annualRate, minimumPayment float64, months int) float64 {
	monthlyRate := (annualRate / 100) / 12
	total := 0.0
	for m := 0; m < months; m++ {
		interest := balance * monthlyRate
		total += interest
		balance = math.Max(0, balance+interest-minimumPayment)
	}
	return total
}

// CalculateImpact compares twelve months of minimum-only payments against
// the same path started from the balance left after the suggested payment.
// card.CreditLimit must be positive.
func CalculateImpact(card domain.CardAccount, suggestedAmount float64) domain.ExpectedImpact {
	rate := card.EffectiveRate()
	treatmentStart := math.Max(0, card.CurrentBalance-suggestedAmount)

	baseline := simulateInterest(card.CurrentBalance, rate, card.MinimumPayment, SimulationMonths)
	treatment := simulateInterest(treatmentStart, rate, card.MinimumPayment, SimulationMonths)
	interestSaved := math.Max(0, baseline-treatment)

	newUtilization := treatmentStart / card.CreditLimit * 100
	utilizationImprovement := card.UtilizationPercentage - newUtilization

	return domain.ExpectedImpact{
		InterestSaved:          roundTo2Decimals(interestSaved),
		UtilizationImprovement: roundTo2Decimals(utilizationImprovement),
		ScoreImpactEstimate:    scoreImpact(card.UtilizationPercentage, newUtilization),
	}
}

// scoreImpact awards points for crossing a utilization band; only the
// highest band crossed counts.
func scoreImpact(before, after float64) float64 {
	switch {
	case before > 70 && after <= 70:
		return 20
	case before > 50 && after <= 50:
		return 15
	case before > 30 && after <= 30:
		return 10
	case before-after > 10:
		return 5
	}
	return 0
}
