package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"payment-engine/domain"
	"payment-engine/metrics"
	"payment-engine/oracle"
)

// Prioritizer orders cards for the balanced goal. It returns a permutation
// of card indices, most urgent first, and reports whether the order came
// from a fallback instead of its primary source.
type Prioritizer interface {
	Name() string
	Order(ctx context.Context, cards []domain.CardAccount, availableFunds float64) (order []int, fellBack bool)
}

// orderByScore sorts indices by descending score, keeping input order on ties.
func orderByScore(scores []float64) []int {
	order := identity(len(scores))
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// WeightedPrioritizer blends utilization and interest rate. Used when no
// oracle is configured.
type WeightedPrioritizer struct{}

func (WeightedPrioritizer) Name() string { return "weighted" }

func (WeightedPrioritizer) Order(_ context.Context, cards []domain.CardAccount, _ float64) ([]int, bool) {
	scores := make([]float64, len(cards))
	for i, c := range cards {
		scores[i] = BalancedUtilizationWeight*c.UtilizationPercentage +
			BalancedInterestWeight*c.RankingRate()
	}
	return orderByScore(scores), false
}

// RulePrioritizer is the deterministic stand-in for the trained model.
type RulePrioritizer struct {
	now func() time.Time
}

func NewRulePrioritizer(now func() time.Time) *RulePrioritizer {
	if now == nil {
		now = time.Now
	}
	return &RulePrioritizer{now: now}
}

func (p *RulePrioritizer) Name() string { return "rules" }

func (p *RulePrioritizer) Order(_ context.Context, cards []domain.CardAccount, _ float64) ([]int, bool) {
	now := p.now()
	scores := make([]float64, len(cards))
	for i, c := range cards {
		scores[i] = ruleScore(c, daysUntilDue(c, now))
	}
	return orderByScore(scores), false
}

func ruleScore(c domain.CardAccount, days int) float64 {
	return 2*c.EffectiveRate() + utilizationBand(c.UtilizationPercentage) + dueBand(days)
}

func utilizationBand(utilization float64) float64 {
	switch {
	case utilization > 70:
		return 50
	case utilization > 50:
		return 30
	case utilization > 30:
		return 15
	}
	return 0
}

func dueBand(days int) float64 {
	switch {
	case days <= 7:
		return 40
	case days <= 14:
		return 20
	}
	return 0
}

// OraclePrioritizer ranks by the oracle's predicted priority and drops to
// the rule score whenever the oracle fails.
type OraclePrioritizer struct {
	oracle   oracle.Oracle
	fallback Prioritizer
	now      func() time.Time
	metrics  *metrics.Registry
}

func NewOraclePrioritizer(o oracle.Oracle, now func() time.Time, m *metrics.Registry) *OraclePrioritizer {
	if now == nil {
		now = time.Now
	}
	return &OraclePrioritizer{
		oracle:   o,
		fallback: NewRulePrioritizer(now),
		now:      now,
		metrics:  m,
	}
}

func (p *OraclePrioritizer) Name() string { return "oracle" }

func (p *OraclePrioritizer) Order(ctx context.Context, cards []domain.CardAccount, availableFunds float64) ([]int, bool) {
	if len(cards) == 0 {
		return []int{}, false
	}

	predictions, err := p.oracle.Predict(ctx, cardFeatures(cards, availableFunds, p.now()), availableFunds)
	if err == nil && len(predictions) == 0 {
		err = domain.ErrOracleUnavailable
	}
	if err != nil {
		log.Warn().Err(err).Int("cards", len(cards)).Msg("oracle failed, using rule-based priority")
		p.metrics.OracleFallback()
		order, _ := p.fallback.Order(ctx, cards, availableFunds)
		return order, true
	}

	return normalizePredictions(cards, predictions), false
}

func cardFeatures(cards []domain.CardAccount, availableFunds float64, now time.Time) []oracle.CardFeatures {
	totalOwed := 0.0
	for _, c := range cards {
		totalOwed += c.CurrentBalance
	}

	features := make([]oracle.CardFeatures, len(cards))
	for i, c := range cards {
		features[i] = oracle.CardFeatures{
			CardID:         c.ID,
			Balance:        c.CurrentBalance,
			CreditLimit:    c.CreditLimit,
			Utilization:    c.UtilizationPercentage,
			InterestRate:   c.EffectiveRate(),
			MinimumPayment: c.MinimumPayment,
			DaysUntilDue:   daysUntilDue(c, now),
			AvailableFunds: availableFunds,
			TotalOwed:      totalOwed,
		}
	}
	return features
}

// normalizePredictions turns possibly degenerate oracle output into a strict
// ordering: ties keep input order, unknown or repeated IDs are dropped and
// cards the oracle skipped go last in input order.
func normalizePredictions(cards []domain.CardAccount, predictions []oracle.Prediction) []int {
	pending := make(map[string][]int, len(cards))
	for i, c := range cards {
		pending[c.ID] = append(pending[c.ID], i)
	}

	type scored struct {
		index    int
		priority int
	}
	matched := make([]scored, 0, len(predictions))
	for _, p := range predictions {
		idx := pending[p.CardID]
		if len(idx) == 0 {
			continue
		}
		pending[p.CardID] = idx[1:]
		matched = append(matched, scored{index: idx[0], priority: p.Priority})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].priority != matched[j].priority {
			return matched[i].priority < matched[j].priority
		}
		return matched[i].index < matched[j].index
	})

	seen := make([]bool, len(cards))
	order := make([]int, 0, len(cards))
	for _, m := range matched {
		seen[m.index] = true
		order = append(order, m.index)
	}
	for i := range cards {
		if !seen[i] {
			order = append(order, i)
		}
	}
	return order
}
