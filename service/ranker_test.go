package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-engine/domain"
	"payment-engine/metrics"
	"payment-engine/oracle"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type stubOracle struct {
	predictions []oracle.Prediction
	err         error
	calls       int
	features    []oracle.CardFeatures
}

func (s *stubOracle) Predict(_ context.Context, cards []oracle.CardFeatures, _ float64) ([]oracle.Prediction, error) {
	s.calls++
	s.features = cards
	return s.predictions, s.err
}

func counterValue(t *testing.T, m *metrics.Registry, name string) float64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func TestRanker_MinimizeInterest(t *testing.T) {
	r := NewRanker(nil, clock)
	order, fellBack := r.Rank(context.Background(), threeCards(), domain.GoalMinimizeInterest, 1000)
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.False(t, fellBack)
}

func TestRanker_MinimizeInterestUnknownRateLast(t *testing.T) {
	cards := threeCards()
	cards[0].InterestRate = nil

	r := NewRanker(nil, clock)
	order, _ := r.Rank(context.Background(), cards, domain.GoalMinimizeInterest, 1000)
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestRanker_ImproveScore(t *testing.T) {
	r := NewRanker(nil, clock)
	order, _ := r.Rank(context.Background(), threeCards(), domain.GoalImproveScore, 1000)
	assert.Equal(t, []int{2, 0, 1}, order)
}

func TestRanker_BalancedWeighted(t *testing.T) {
	r := NewRanker(nil, clock)
	assert.Equal(t, "weighted", r.Strategy())

	// 0.6*util + 0.4*rate: 33.196, 16.396, 37.0
	order, _ := r.Rank(context.Background(), threeCards(), domain.GoalBalanced, 1000)
	assert.Equal(t, []int{2, 0, 1}, order)
}

func TestRanker_TiesKeepInputOrder(t *testing.T) {
	cards := []domain.CardAccount{
		{ID: "a", CurrentBalance: 100, CreditLimit: 1000, UtilizationPercentage: 10, InterestRate: domain.Rate(20)},
		{ID: "b", CurrentBalance: 100, CreditLimit: 1000, UtilizationPercentage: 10, InterestRate: domain.Rate(20)},
		{ID: "c", CurrentBalance: 100, CreditLimit: 1000, UtilizationPercentage: 10, InterestRate: domain.Rate(20)},
	}

	r := NewRanker(nil, clock)
	for _, goal := range []domain.Goal{domain.GoalMinimizeInterest, domain.GoalImproveScore, domain.GoalBalanced} {
		t.Run(string(goal), func(t *testing.T) {
			order, _ := r.Rank(context.Background(), cards, goal, 100)
			assert.Equal(t, []int{0, 1, 2}, order)
		})
	}
}

func TestRanker_EmergencyOrder(t *testing.T) {
	cards := threeCards()
	cards[1].PaymentDueDate = "2026-03-12"
	cards[2].PaymentDueDate = "2026-03-12T09:00:00"
	cards[0].PaymentDueDate = "not a date"

	r := NewRanker(nil, clock)
	// card_2 and card_3 are both one day out, the higher rate wins the tie
	assert.Equal(t, []int{1, 2, 0}, r.EmergencyOrder(cards))
}

func TestRanker_EmergencyOrderWithoutDates(t *testing.T) {
	r := NewRanker(nil, clock)
	assert.Equal(t, []int{0, 1, 2}, r.EmergencyOrder(threeCards()))
}

func TestRulePrioritizer(t *testing.T) {
	cards := []domain.CardAccount{
		{ID: "cheap", CurrentBalance: 100, CreditLimit: 1000, UtilizationPercentage: 10, InterestRate: domain.Rate(10)},
		{ID: "due", CurrentBalance: 100, CreditLimit: 1000, UtilizationPercentage: 10, InterestRate: domain.Rate(10), PaymentDueDate: "2026-03-13"},
		{ID: "maxed", CurrentBalance: 900, CreditLimit: 1000, UtilizationPercentage: 90, InterestRate: domain.Rate(10)},
	}

	p := NewRulePrioritizer(clock)
	order, fellBack := p.Order(context.Background(), cards, 100)
	assert.Equal(t, []int{2, 1, 0}, order)
	assert.False(t, fellBack)
}

func TestOraclePrioritizer_UsesPredictions(t *testing.T) {
	o := &stubOracle{predictions: []oracle.Prediction{
		{CardID: "card_1", Priority: 3},
		{CardID: "card_2", Priority: 1},
		{CardID: "card_3", Priority: 2},
	}}
	p := NewOraclePrioritizer(o, clock, nil)

	order, fellBack := p.Order(context.Background(), threeCards(), 1000)
	assert.Equal(t, []int{1, 2, 0}, order)
	assert.False(t, fellBack)
	require.Len(t, o.features, 3)
	assert.Equal(t, 2000.0, o.features[0].TotalOwed)
	assert.Equal(t, DueDateSentinel, o.features[0].DaysUntilDue)
}

func TestOraclePrioritizer_FallsBackOnError(t *testing.T) {
	m := metrics.New()
	o := &stubOracle{err: errors.New("model server down")}
	p := NewOraclePrioritizer(o, clock, m)

	cards := threeCards()
	order, fellBack := p.Order(context.Background(), cards, 1000)

	rules, _ := NewRulePrioritizer(clock).Order(context.Background(), cards, 1000)
	assert.Equal(t, rules, order)
	assert.True(t, fellBack)
	assert.Equal(t, 1.0, counterValue(t, m, "payment_engine_oracle_fallbacks_total"))
}

func TestOraclePrioritizer_FallsBackOnEmptyOutput(t *testing.T) {
	m := metrics.New()
	p := NewOraclePrioritizer(&stubOracle{}, clock, m)

	order, fellBack := p.Order(context.Background(), threeCards(), 1000)
	assert.Len(t, order, 3)
	assert.True(t, fellBack)
	assert.Equal(t, 1.0, counterValue(t, m, "payment_engine_oracle_fallbacks_total"))
}

func TestNormalizePredictions(t *testing.T) {
	cards := threeCards()

	tests := []struct {
		name        string
		predictions []oracle.Prediction
		want        []int
	}{
		{
			name: "duplicate priorities keep input order",
			predictions: []oracle.Prediction{
				{CardID: "card_1", Priority: 1},
				{CardID: "card_2", Priority: 1},
				{CardID: "card_3", Priority: 1},
			},
			want: []int{0, 1, 2},
		},
		{
			name: "unknown and repeated ids are dropped",
			predictions: []oracle.Prediction{
				{CardID: "card_3", Priority: 1},
				{CardID: "ghost", Priority: 1},
				{CardID: "card_3", Priority: 2},
				{CardID: "card_1", Priority: 5},
				{CardID: "card_2", Priority: 4},
			},
			want: []int{2, 1, 0},
		},
		{
			name: "missing cards go last",
			predictions: []oracle.Prediction{
				{CardID: "card_2", Priority: 2},
			},
			want: []int{1, 0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePredictions(cards, tt.predictions))
		})
	}
}

func TestRanker_BalancedUsesOracle(t *testing.T) {
	o := &stubOracle{predictions: []oracle.Prediction{
		{CardID: "card_1", Priority: 2},
		{CardID: "card_2", Priority: 1},
		{CardID: "card_3", Priority: 3},
	}}
	r := NewRanker(NewOraclePrioritizer(o, clock, nil), clock)

	assert.Equal(t, "oracle", r.Strategy())
	order, fellBack := r.Rank(context.Background(), threeCards(), domain.GoalBalanced, 1000)
	assert.Equal(t, []int{1, 0, 2}, order)
	assert.False(t, fellBack)

	// the oracle is only consulted for the balanced goal
	r.Rank(context.Background(), threeCards(), domain.GoalMinimizeInterest, 1000)
	assert.Equal(t, 1, o.calls)
}
