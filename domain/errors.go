package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks every request rejected before allocation.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidFunds = fmt.Errorf("%w: available funds must be positive", ErrInvalidInput)
	ErrInvalidGoal  = fmt.Errorf("%w: unknown optimization goal", ErrInvalidInput)
	ErrInvalidCard  = fmt.Errorf("%w: invalid card", ErrInvalidInput)

	// ErrUnparseableDueDate is never surfaced to callers; the card is treated
	// as due far in the future.
	ErrUnparseableDueDate = errors.New("unparseable due date")

	// ErrOracleUnavailable triggers the rule-based fallback.
	ErrOracleUnavailable = errors.New("prioritization oracle unavailable")
)
