package service

import (
	"context"
	"sort"
	"time"

	"payment-engine/domain"
)

// Ranker orders cards for a goal. The balanced strategy is fixed at
// construction time.
type Ranker struct {
	balanced Prioritizer
	now      func() time.Time
}

func NewRanker(balanced Prioritizer, now func() time.Time) *Ranker {
	if balanced == nil {
		balanced = WeightedPrioritizer{}
	}
	if now == nil {
		now = time.Now
	}
	return &Ranker{balanced: balanced, now: now}
}

// Strategy names the prioritizer used for the balanced goal.
func (r *Ranker) Strategy() string {
	return r.balanced.Name()
}

// Rank returns card indices in payment order. fellBack is true when the
// balanced prioritizer could not use its primary source.
func (r *Ranker) Rank(
	ctx context.Context,
	cards []domain.CardAccount,
	goal domain.Goal,
	availableFunds float64,
) (order []int, fellBack bool) {
	switch goal {
	case domain.GoalMinimizeInterest:
		// Avalanche: mayor tasa primero
		scores := make([]float64, len(cards))
		for i, c := range cards {
			scores[i] = c.RankingRate()
		}
		return orderByScore(scores), false
	case domain.GoalImproveScore:
		scores := make([]float64, len(cards))
		for i, c := range cards {
			scores[i] = c.UtilizationPercentage
		}
		return orderByScore(scores), false
	default:
		return r.balanced.Order(ctx, cards, availableFunds)
	}
}

// EmergencyOrder puts the cards due soonest first, then the most expensive.
// It replaces the goal ordering when funds cannot cover every minimum.
func (r *Ranker) EmergencyOrder(cards []domain.CardAccount) []int {
	now := r.now()
	days := make([]int, len(cards))
	for i, c := range cards {
		days[i] = daysUntilDue(c, now)
	}

	order := identity(len(cards))
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if days[a] != days[b] {
			return days[a] < days[b]
		}
		return cards[a].RankingRate() > cards[b].RankingRate()
	})
	return order
}
