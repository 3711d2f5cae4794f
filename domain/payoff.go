package domain

type PayoffSimulationInput struct {
	CardID         string
	CurrentBalance float64
	InterestRate   float64
	MinimumPayment float64
	ExtraPayment   float64
}

type PayoffScenario struct {
	Label             string
	PaymentAmount     float64
	MonthsToPayoff    int
	TotalInterestPaid float64
	TotalAmountPaid   float64
	PayoffDate        string
	NeverPaysOff      bool `json:",omitempty"`
}

type PayoffSimulationResult struct {
	CardID    string
	Scenarios []PayoffScenario
}
