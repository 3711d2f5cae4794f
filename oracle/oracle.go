// Package oracle provides card prioritization models consulted by the
// balanced ranking strategy. Implementations are built once at startup and
// are read-only afterwards, so a single instance is shared by all requests.
package oracle

import "context"

// CardFeatures is the feature vector the priority model was trained on.
type CardFeatures struct {
	CardID         string  `json:"card_id" yaml:"card_id"`
	Balance        float64 `json:"balance"`
	CreditLimit    float64 `json:"credit_limit"`
	Utilization    float64 `json:"utilization"`
	InterestRate   float64 `json:"interest_rate"`
	MinimumPayment float64 `json:"minimum_payment"`
	DaysUntilDue   int     `json:"days_until_due"`
	AvailableFunds float64 `json:"available_funds"`
	TotalOwed      float64 `json:"total_owed"`
}

// Vector returns the features in training order.
func (f CardFeatures) Vector() []float64 {
	return []float64{
		f.Balance,
		f.CreditLimit,
		f.Utilization,
		f.InterestRate,
		f.MinimumPayment,
		float64(f.DaysUntilDue),
		f.AvailableFunds,
		f.TotalOwed,
	}
}

// FeatureNames lists the model inputs in the same order as Vector.
var FeatureNames = []string{
	"balance",
	"credit_limit",
	"utilization",
	"interest_rate",
	"minimum_payment",
	"days_until_due",
	"available_funds",
	"total_owed",
}

// Prediction is a card annotated with its predicted priority (1 = highest).
// Priorities are not guaranteed to be unique.
type Prediction struct {
	CardID   string `json:"card_id"`
	Priority int    `json:"priority"`
}

type Oracle interface {
	Predict(ctx context.Context, cards []CardFeatures, availableFunds float64) ([]Prediction, error)
}
