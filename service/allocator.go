package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"payment-engine/domain"
)

// ShortfallPolicy decides how funds are split when they cannot cover every
// minimum payment.
type ShortfallPolicy string

const (
	// ShortfallProportional scales every minimum by funds / minimumTotal.
	ShortfallProportional ShortfallPolicy = "proportional"
	// ShortfallDueDateFirst pays whole minimums in emergency order until the
	// money runs out.
	ShortfallDueDateFirst ShortfallPolicy = "due_date_first"
)

func ParseShortfallPolicy(s string) (ShortfallPolicy, error) {
	switch ShortfallPolicy(s) {
	case "", ShortfallProportional:
		return ShortfallProportional, nil
	case ShortfallDueDateFirst:
		return ShortfallDueDateFirst, nil
	}
	return "", fmt.Errorf("unknown shortfall policy %q", s)
}

// Allocation is the amount assigned to cards[Index].
type Allocation struct {
	Index  int
	Rank   int
	Amount float64
}

type FundAllocator struct {
	policy ShortfallPolicy
}

func NewFundAllocator(policy ShortfallPolicy) *FundAllocator {
	if policy == "" {
		policy = ShortfallProportional
	}
	return &FundAllocator{policy: policy}
}

func (a *FundAllocator) Policy() ShortfallPolicy {
	return a.policy
}

// toCents truncates so an allocation never exceeds the amount it came from.
func toCents(v float64) decimal.Decimal {
	if v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Truncate(2)
}

// effectiveMinimum caps a card's minimum at its balance.
func effectiveMinimum(c domain.CardAccount) decimal.Decimal {
	return decimal.Min(toCents(c.MinimumPayment), toCents(c.CurrentBalance))
}

func totals(cards []domain.CardAccount) (minimumTotal, totalBalance decimal.Decimal) {
	minimumTotal, totalBalance = decimal.Zero, decimal.Zero
	for _, c := range cards {
		minimumTotal = minimumTotal.Add(effectiveMinimum(c))
		totalBalance = totalBalance.Add(toCents(c.CurrentBalance))
	}
	return minimumTotal, totalBalance
}

// Regime classifies a request without allocating anything.
func (a *FundAllocator) Regime(cards []domain.CardAccount, availableFunds float64) domain.Regime {
	if len(cards) == 0 {
		return domain.RegimeEmpty
	}
	funds := toCents(availableFunds)
	minimumTotal, totalBalance := totals(cards)

	switch {
	case funds.GreaterThanOrEqual(totalBalance):
		return domain.RegimeSurplus
	case funds.LessThan(minimumTotal):
		return domain.RegimeShortfall
	}
	return domain.RegimeNormal
}

// Allocate walks cards in the given order. order must be a permutation of
// card indices; the returned slice follows it and ranks start at 1.
func (a *FundAllocator) Allocate(
	cards []domain.CardAccount,
	order []int,
	availableFunds float64,
) []Allocation {
	if len(cards) == 0 {
		return []Allocation{}
	}

	funds := toCents(availableFunds)
	minimumTotal, _ := totals(cards)
	amounts := make([]decimal.Decimal, len(cards))

	switch a.Regime(cards, availableFunds) {
	case domain.RegimeSurplus:
		for i, c := range cards {
			amounts[i] = toCents(c.CurrentBalance)
		}

	case domain.RegimeShortfall:
		if a.policy == ShortfallDueDateFirst {
			remaining := funds
			for _, i := range order {
				pay := decimal.Min(remaining, effectiveMinimum(cards[i]))
				amounts[i] = pay
				remaining = remaining.Sub(pay)
			}
			break
		}
		// Pro-rata; truncating each share keeps the sum within funds.
		for i, c := range cards {
			amounts[i] = effectiveMinimum(c).Mul(funds).Div(minimumTotal).Truncate(2)
		}

	default:
		extra := funds.Sub(minimumTotal)
		for _, i := range order {
			minimum := effectiveMinimum(cards[i])
			room := toCents(cards[i].CurrentBalance).Sub(minimum)
			add := decimal.Max(decimal.Zero, decimal.Min(extra, room))
			amounts[i] = minimum.Add(add)
			extra = extra.Sub(add)
		}
	}

	out := make([]Allocation, 0, len(order))
	for rank, i := range order {
		out = append(out, Allocation{
			Index:  i,
			Rank:   rank + 1,
			Amount: amounts[i].InexactFloat64(),
		})
	}
	return out
}
