package http

import (
	"payment-engine/domain"
)

type CardRequest struct {
	CardID                string   `json:"card_id" validate:"required,notblank"`
	InstitutionName       string   `json:"institution_name"`
	CurrentBalance        float64  `json:"current_balance" validate:"gte=0"`
	CreditLimit           float64  `json:"credit_limit" validate:"gt=0"`
	UtilizationPercentage float64  `json:"utilization_percentage" validate:"gte=0,lte=100"`
	MinimumPayment        float64  `json:"minimum_payment" validate:"gte=0"`
	PaymentDueDate        string   `json:"payment_due_date,omitempty"`
	InterestRate          *float64 `json:"interest_rate,omitempty" validate:"omitempty,gte=0"`
}

type RecommendationRequest struct {
	UserID           string        `json:"user_id" validate:"required,notblank"`
	Cards            []CardRequest `json:"cards" validate:"max=50,dive"`
	AvailableAmount  float64       `json:"available_amount" validate:"gt=0"`
	OptimizationGoal string        `json:"optimization_goal" validate:"omitempty,oneof=minimize_interest improve_score balanced"`
}

func (c CardRequest) toDomain() domain.CardAccount {
	return domain.CardAccount{
		ID:                    c.CardID,
		InstitutionName:       c.InstitutionName,
		CurrentBalance:        c.CurrentBalance,
		CreditLimit:           c.CreditLimit,
		UtilizationPercentage: c.UtilizationPercentage,
		MinimumPayment:        c.MinimumPayment,
		InterestRate:          c.InterestRate,
		PaymentDueDate:        c.PaymentDueDate,
	}
}

func toDomainCards(cards []CardRequest) []domain.CardAccount {
	out := make([]domain.CardAccount, len(cards))
	for i, c := range cards {
		out[i] = c.toDomain()
	}
	return out
}

// ToDomain defaults a missing goal to balanced.
func (r RecommendationRequest) ToDomain() domain.AllocationRequest {
	goal := domain.Goal(r.OptimizationGoal)
	if goal == "" {
		goal = domain.GoalBalanced
	}
	return domain.AllocationRequest{
		UserID:         r.UserID,
		Cards:          toDomainCards(r.Cards),
		AvailableFunds: r.AvailableAmount,
		Goal:           goal,
	}
}

type ExpectedImpactResponse struct {
	InterestSaved          float64 `json:"interest_saved"`
	UtilizationImprovement float64 `json:"utilization_improvement"`
	ScoreImpactEstimate    float64 `json:"score_impact_estimate"`
}

type PaymentRecommendationResponse struct {
	CardID          string                 `json:"card_id"`
	InstitutionName string                 `json:"institution_name"`
	SuggestedAmount float64                `json:"suggested_amount"`
	PriorityRank    int                    `json:"priority_rank"`
	ExpectedImpact  ExpectedImpactResponse `json:"expected_impact"`
	Reasoning       string                 `json:"reasoning"`
}

type ProjectedSavingsResponse struct {
	MonthlyInterest float64 `json:"monthly_interest"`
	AnnualInterest  float64 `json:"annual_interest"`
}

type RecommendationResponse struct {
	UserID           string                          `json:"user_id"`
	TotalAmount      float64                         `json:"total_amount"`
	Recommendations  []PaymentRecommendationResponse `json:"recommendations"`
	Strategy         string                          `json:"strategy"`
	Regime           string                          `json:"regime"`
	ProjectedSavings ProjectedSavingsResponse        `json:"projected_savings"`
}

func NewRecommendationResponse(res domain.AllocationResult) RecommendationResponse {
	recs := make([]PaymentRecommendationResponse, len(res.Recommendations))
	for i, r := range res.Recommendations {
		recs[i] = PaymentRecommendationResponse{
			CardID:          r.CardID,
			InstitutionName: r.InstitutionName,
			SuggestedAmount: r.SuggestedAmount,
			PriorityRank:    r.PriorityRank,
			ExpectedImpact: ExpectedImpactResponse{
				InterestSaved:          r.ExpectedImpact.InterestSaved,
				UtilizationImprovement: r.ExpectedImpact.UtilizationImprovement,
				ScoreImpactEstimate:    r.ExpectedImpact.ScoreImpactEstimate,
			},
			Reasoning: r.Reasoning,
		}
	}
	return RecommendationResponse{
		UserID:          res.UserID,
		TotalAmount:     res.TotalAmount,
		Recommendations: recs,
		Strategy:        string(res.Strategy),
		Regime:          string(res.Regime),
		ProjectedSavings: ProjectedSavingsResponse{
			MonthlyInterest: res.ProjectedSavings.MonthlyInterest,
			AnnualInterest:  res.ProjectedSavings.AnnualInterest,
		},
	}
}

type PayoffRequest struct {
	CardID         string  `json:"card_id"`
	CurrentBalance float64 `json:"current_balance" validate:"gt=0"`
	InterestRate   float64 `json:"interest_rate" validate:"gte=0"`
	MinimumPayment float64 `json:"minimum_payment" validate:"gt=0"`
	ExtraPayment   float64 `json:"extra_payment" validate:"gte=0"`
}

func (p PayoffRequest) ToDomain() domain.PayoffSimulationInput {
	return domain.PayoffSimulationInput{
		CardID:         p.CardID,
		CurrentBalance: p.CurrentBalance,
		InterestRate:   p.InterestRate,
		MinimumPayment: p.MinimumPayment,
		ExtraPayment:   p.ExtraPayment,
	}
}

type PayoffScenarioResponse struct {
	Label             string  `json:"label"`
	PaymentAmount     float64 `json:"payment_amount"`
	MonthsToPayoff    int     `json:"months_to_payoff"`
	TotalInterestPaid float64 `json:"total_interest_paid"`
	TotalAmountPaid   float64 `json:"total_amount_paid"`
	PayoffDate        string  `json:"payoff_date,omitempty"`
	NeverPaysOff      bool    `json:"never_pays_off,omitempty"`
}

type PayoffResponse struct {
	CardID    string                   `json:"card_id"`
	Scenarios []PayoffScenarioResponse `json:"scenarios"`
}

func NewPayoffResponse(res domain.PayoffSimulationResult) PayoffResponse {
	scenarios := make([]PayoffScenarioResponse, len(res.Scenarios))
	for i, s := range res.Scenarios {
		scenarios[i] = PayoffScenarioResponse{
			Label:             s.Label,
			PaymentAmount:     s.PaymentAmount,
			MonthsToPayoff:    s.MonthsToPayoff,
			TotalInterestPaid: s.TotalInterestPaid,
			TotalAmountPaid:   s.TotalAmountPaid,
			PayoffDate:        s.PayoffDate,
			NeverPaysOff:      s.NeverPaysOff,
		}
	}
	return PayoffResponse{CardID: res.CardID, Scenarios: scenarios}
}

type HealthScoreRequest struct {
	Cards []CardRequest `json:"cards" validate:"max=50,dive"`
}

type HealthScoreResponse struct {
	OverallScore float64 `json:"overall_score"`
	CardCount    int     `json:"card_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}
