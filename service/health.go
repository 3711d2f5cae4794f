package service

import (
	"math"
	"time"

	"payment-engine/domain"
)

// CreditHealthScore rates a set of cards from 0 to 100. Lower utilization,
// no overdue cards and spare credit score higher.
func CreditHealthScore(cards []domain.CardAccount, now time.Time) float64 {
	if len(cards) == 0 {
		return 0
	}

	score := 100.0

	avgUtilization := 0.0
	for _, c := range cards {
		avgUtilization += c.UtilizationPercentage
	}
	avgUtilization /= float64(len(cards))

	switch {
	case avgUtilization > 70:
		score -= 40
	case avgUtilization > 50:
		score -= 30
	case avgUtilization > 30:
		score -= 15
	case avgUtilization > 10:
		score -= 5
	}

	available := 0.0
	for _, c := range cards {
		if c.UtilizationPercentage > 70 {
			score -= 10
		}
		if isOverdue(c, now) {
			score -= 15
		}
		available += c.CreditLimit - c.CurrentBalance
	}

	switch {
	case available > 10000:
		score += 5
	case available > 5000:
		score += 3
	}

	if len(cards) >= 2 && avgUtilization < 30 {
		score += 5
	}

	return math.Max(0, math.Min(100, score))
}

func isOverdue(c domain.CardAccount, now time.Time) bool {
	if c.PaymentDueDate == "" {
		return false
	}
	due, err := parseDueDate(c.PaymentDueDate)
	if err != nil {
		return false
	}
	return due.Before(now)
}
