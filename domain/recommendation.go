package domain

import "fmt"

type Goal string

const (
	GoalMinimizeInterest Goal = "minimize_interest"
	GoalImproveScore     Goal = "improve_score"
	GoalBalanced         Goal = "balanced"
)

func ParseGoal(s string) (Goal, error) {
	switch Goal(s) {
	case GoalMinimizeInterest, GoalImproveScore, GoalBalanced:
		return Goal(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGoal, s)
}

// Regime is the allocation branch selected by comparing available funds
// against the minimum total and the total balance.
type Regime string

const (
	RegimeEmpty     Regime = "empty"
	RegimeShortfall Regime = "shortfall"
	RegimeNormal    Regime = "normal"
	RegimeSurplus   Regime = "surplus"
)

type AllocationRequest struct {
	UserID         string
	Cards          []CardAccount
	AvailableFunds float64
	Goal           Goal
}

type ExpectedImpact struct {
	InterestSaved          float64
	UtilizationImprovement float64
	ScoreImpactEstimate    float64
}

type PaymentRecommendation struct {
	CardID          string
	InstitutionName string
	SuggestedAmount float64
	PriorityRank    int
	ExpectedImpact  ExpectedImpact
	Reasoning       string
}

type ProjectedSavings struct {
	MonthlyInterest float64
	AnnualInterest  float64
}

type AllocationResult struct {
	UserID           string
	TotalAmount      float64
	Recommendations  []PaymentRecommendation // ordered by PriorityRank
	Strategy         Goal
	Regime           Regime
	ProjectedSavings ProjectedSavings
}
