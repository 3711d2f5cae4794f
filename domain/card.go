package domain

// DefaultInterestRate is the annual rate assumed for a card that does not
// report one.
const DefaultInterestRate = 19.99

type CardAccount struct {
	ID                    string
	InstitutionName       string
	CurrentBalance        float64
	CreditLimit           float64
	UtilizationPercentage float64
	MinimumPayment        float64
	InterestRate          *float64 // annual percent, nil when unknown
	PaymentDueDate        string   // optional, ISO date
}

// RankingRate returns the annual rate used for ordering cards. Unknown rates
// rank last.
func (c CardAccount) RankingRate() float64 {
	if c.InterestRate == nil {
		return 0
	}
	return *c.InterestRate
}

// EffectiveRate returns the annual rate used for simulation and scoring.
func (c CardAccount) EffectiveRate() float64 {
	if c.InterestRate == nil {
		return DefaultInterestRate
	}
	return *c.InterestRate
}

// Rate is a small helper for building cards with a known rate.
func Rate(v float64) *float64 {
	return &v
}
