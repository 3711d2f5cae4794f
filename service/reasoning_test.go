package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-engine/domain"
)

func TestExplainRecommendation(t *testing.T) {
	card := domain.CardAccount{
		ID:              "card_1",
		InstitutionName: "Chase",
		CurrentBalance:  800,
		CreditLimit:     2000,
		MinimumPayment:  24,
		InterestRate:    domain.Rate(22.99),
	}
	tiny := domain.CardAccount{
		ID:             "card_9",
		CurrentBalance: 5,
		CreditLimit:    1000,
		MinimumPayment: 25,
		InterestRate:   domain.Rate(19.99),
	}
	impact := domain.ExpectedImpact{InterestSaved: 12.5, UtilizationImprovement: 3.2}

	tests := []struct {
		name   string
		card   domain.CardAccount
		amount float64
		goal   domain.Goal
		regime domain.Regime
		want   []string
		absent []string
	}{
		{
			name:   "balance below minimum is cleared",
			card:   tiny,
			amount: 5,
			goal:   domain.GoalBalanced,
			regime: domain.RegimeNormal,
			want:   []string{"$5.00 on card_9", "clears the balance", "$25.00"},
			absent: []string{"Pay the minimum of"},
		},
		{
			name:   "minimum only",
			card:   card,
			amount: 24,
			goal:   domain.GoalMinimizeInterest,
			regime: domain.RegimeNormal,
			want:   []string{"Pay the minimum of $24.00 on Chase"},
		},
		{
			name:   "extra for interest",
			card:   card,
			amount: 500,
			goal:   domain.GoalMinimizeInterest,
			regime: domain.RegimeNormal,
			want:   []string{"$476.00 above the minimum", "22.99% APR", "$12.50"},
		},
		{
			name:   "extra for score",
			card:   card,
			amount: 500,
			goal:   domain.GoalImproveScore,
			regime: domain.RegimeNormal,
			want:   []string{"$476.00 above the minimum", "3.2 points"},
		},
		{
			name:   "extra for balanced",
			card:   card,
			amount: 500,
			goal:   domain.GoalBalanced,
			regime: domain.RegimeNormal,
			want:   []string{"$476.00 above the minimum", "$12.50 saved", "3.2 points"},
		},
		{
			name:   "shortfall with nothing left",
			card:   card,
			amount: 0,
			goal:   domain.GoalBalanced,
			regime: domain.RegimeShortfall,
			want:   []string{"No funds left for Chase", "$24.00"},
		},
		{
			name:   "surplus",
			card:   card,
			amount: 800,
			goal:   domain.GoalImproveScore,
			regime: domain.RegimeSurplus,
			want:   []string{"full balance of $800.00 on Chase"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.PaymentRecommendation{
				CardID:          tt.card.ID,
				SuggestedAmount: tt.amount,
				ExpectedImpact:  impact,
			}
			got := explainRecommendation(tt.card, rec, tt.goal, tt.regime)
			for _, s := range tt.want {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestRecommend_SmallBalanceReasoning(t *testing.T) {
	svc := newTestService()
	req := request(1000, domain.GoalMinimizeInterest)
	req.Cards = append(req.Cards, domain.CardAccount{
		ID:                    "card_4",
		CurrentBalance:        5,
		CreditLimit:           1000,
		UtilizationPercentage: 0.5,
		MinimumPayment:        25,
		InterestRate:          domain.Rate(9.99),
	})

	res, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	for _, rec := range res.Recommendations {
		if rec.CardID != "card_4" {
			continue
		}
		assert.Equal(t, 5.0, rec.SuggestedAmount)
		assert.Contains(t, rec.Reasoning, "clears the balance")
		assert.NotContains(t, rec.Reasoning, "Pay the minimum of $5.00")
		return
	}
	t.Fatal("card_4 missing from recommendations")
}
