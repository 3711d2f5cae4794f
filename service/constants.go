package service

const (
	MaxAvailableFunds  = 100_000_000.0 // 100 millones
	MaxCreditLimit     = 100_000_000.0
	MaxInterestRate    = 1000.0 // 1000% anual
	MaxCardsPerRequest = 50

	SimulationMonths   = 12
	MaxPayoffMonths    = 600 // 50 años
	PayoffTargetMonths = 12
	BalanceTolerance   = 0.01 // tolerancia para considerar deuda pagada

	// DueDateSentinel is the day count used for cards with no usable due date.
	DueDateSentinel = 999

	// Pesos de la estrategia balanceada
	BalancedUtilizationWeight = 0.6
	BalancedInterestWeight    = 0.4
)
