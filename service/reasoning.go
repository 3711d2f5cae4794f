package service

import (
	"fmt"
	"math"

	"payment-engine/domain"
)

// explainRecommendation builds the human-facing sentence for one card.
func explainRecommendation(
	card domain.CardAccount,
	rec domain.PaymentRecommendation,
	goal domain.Goal,
	regime domain.Regime,
) string {
	name := card.InstitutionName
	if name == "" {
		name = card.ID
	}

	switch regime {
	case domain.RegimeSurplus:
		return fmt.Sprintf("Pay the full balance of $%.2f on %s. Your funds cover every card, so this clears it and stops further interest.",
			rec.SuggestedAmount, name)
	case domain.RegimeShortfall:
		if rec.SuggestedAmount <= 0 {
			return fmt.Sprintf("No funds left for %s this cycle. Cards due sooner were covered first; contact the issuer before the due date if you cannot pay the minimum of $%.2f.",
				name, card.MinimumPayment)
		}
		return fmt.Sprintf("Pay $%.2f on %s. Available funds do not cover all minimum payments (minimum here is $%.2f), so the cards due soonest are handled first.",
			rec.SuggestedAmount, name, card.MinimumPayment)
	}

	// the statement minimum can exceed a small remaining balance
	minimum := math.Min(card.MinimumPayment, card.CurrentBalance)
	if card.CurrentBalance > 0 && rec.SuggestedAmount >= card.CurrentBalance && minimum < card.MinimumPayment {
		return fmt.Sprintf("Pay $%.2f on %s. This clears the balance, which is below the stated minimum of $%.2f.",
			rec.SuggestedAmount, name, card.MinimumPayment)
	}
	if rec.SuggestedAmount <= minimum {
		return fmt.Sprintf("Pay the minimum of $%.2f on %s to stay in good standing while extra money goes to higher-priority cards.",
			rec.SuggestedAmount, name)
	}

	extra := rec.SuggestedAmount - minimum
	switch goal {
	case domain.GoalMinimizeInterest:
		return fmt.Sprintf("Pay $%.2f on %s ($%.2f above the minimum). At %.2f%% APR it is one of your most expensive balances; this saves about $%.2f in interest over 12 months.",
			rec.SuggestedAmount, name, extra, card.EffectiveRate(), rec.ExpectedImpact.InterestSaved)
	case domain.GoalImproveScore:
		return fmt.Sprintf("Pay $%.2f on %s ($%.2f above the minimum). This lowers its utilization by %.1f points, which weighs heavily on your credit score.",
			rec.SuggestedAmount, name, extra, rec.ExpectedImpact.UtilizationImprovement)
	default:
		return fmt.Sprintf("Pay $%.2f on %s ($%.2f above the minimum). It combines high utilization and interest cost; expect about $%.2f saved and %.1f points less utilization.",
			rec.SuggestedAmount, name, extra, rec.ExpectedImpact.InterestSaved, rec.ExpectedImpact.UtilizationImprovement)
	}
}
