package service

import (
	"fmt"
	"math"
	"time"

	"payment-engine/domain"
)

type PayoffService struct {
	now func() time.Time
}

// NewPayoffService creates a PayoffService. A nil clock means time.Now.
func NewPayoffService(now func() time.Time) *PayoffService {
	if now == nil {
		now = time.Now
	}
	return &PayoffService{now: now}
}

// SimulatePayoff projects how long one card takes to clear under a few
// payment levels.
func (s *PayoffService) SimulatePayoff(
	input domain.PayoffSimulationInput,
) (domain.PayoffSimulationResult, error) {

	// Validar entrada
	if input.CurrentBalance <= 0 {
		return domain.PayoffSimulationResult{}, fmt.Errorf("%w: balance must be positive", domain.ErrInvalidInput)
	}
	if input.CurrentBalance > MaxCreditLimit {
		return domain.PayoffSimulationResult{}, fmt.Errorf("%w: balance exceeds the maximum of $%.2f", domain.ErrInvalidInput, MaxCreditLimit)
	}
	if input.InterestRate < 0 || input.InterestRate > MaxInterestRate {
		return domain.PayoffSimulationResult{}, fmt.Errorf("%w: interest rate must be between 0 and %.0f%%", domain.ErrInvalidInput, MaxInterestRate)
	}
	if input.MinimumPayment <= 0 {
		return domain.PayoffSimulationResult{}, fmt.Errorf("%w: minimum payment must be positive", domain.ErrInvalidInput)
	}
	if input.ExtraPayment < 0 {
		return domain.PayoffSimulationResult{}, fmt.Errorf("%w: extra payment cannot be negative", domain.ErrInvalidInput)
	}

	scenarios := []domain.PayoffScenario{
		s.scenario("minimum_only", input.CurrentBalance, input.InterestRate, input.MinimumPayment),
	}
	if input.ExtraPayment > 0 {
		scenarios = append(scenarios, s.scenario("minimum_plus_extra",
			input.CurrentBalance, input.InterestRate, input.MinimumPayment+input.ExtraPayment))
	}
	target := FixedPayment(input.CurrentBalance, input.InterestRate, PayoffTargetMonths)
	scenarios = append(scenarios, s.scenario("payoff_in_12_months",
		input.CurrentBalance, input.InterestRate, target))

	return domain.PayoffSimulationResult{
		CardID:    input.CardID,
		Scenarios: scenarios,
	}, nil
}

// FixedPayment returns the level monthly payment that clears balance in
// the given number of months.
func FixedPayment(balance, annualRate float64, months int) float64 {
	if annualRate == 0 {
		return roundUpToCents(balance / float64(months))
	}
	tasaMensual := (annualRate / 100) / 12
	n := float64(months)
	cuota := balance * (tasaMensual / (1 - math.Pow(1+tasaMensual, -n)))
	return roundUpToCents(cuota)
}

// roundUpToCents keeps the last installment from falling a cent short.
func roundUpToCents(v float64) float64 {
	return math.Ceil(v*100-1e-9) / 100
}

func (s *PayoffService) scenario(label string, balance, annualRate, payment float64) domain.PayoffScenario {
	sc := domain.PayoffScenario{
		Label:         label,
		PaymentAmount: roundTo2Decimals(payment),
	}

	monthlyRate := (annualRate / 100) / 12
	if payment <= balance*monthlyRate {
		// El pago no cubre ni el interés del primer mes
		sc.NeverPaysOff = true
		return sc
	}

	totalInterest, totalPaid := 0.0, 0.0
	month := 0
	for balance > BalanceTolerance && month < MaxPayoffMonths {
		month++
		interest := balance * monthlyRate
		totalInterest += interest

		pay := math.Min(payment, balance+interest)
		balance = balance + interest - pay
		totalPaid += pay
	}

	sc.MonthsToPayoff = month
	sc.TotalInterestPaid = roundTo2Decimals(totalInterest)
	sc.TotalAmountPaid = roundTo2Decimals(totalPaid)
	if balance > BalanceTolerance {
		sc.NeverPaysOff = true
		return sc
	}
	sc.PayoffDate = s.now().AddDate(0, month, 0).Format("2006-01-02")
	return sc
}
