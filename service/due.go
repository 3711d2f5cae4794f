package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"payment-engine/domain"
)

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnparseableDueDate, s)
}

// daysUntilDue returns whole days until the card's due date, never negative.
// Cards without a usable date get DueDateSentinel.
func daysUntilDue(card domain.CardAccount, now time.Time) int {
	if card.PaymentDueDate == "" {
		return DueDateSentinel
	}
	due, err := parseDueDate(card.PaymentDueDate)
	if err != nil {
		log.Debug().Err(err).Str("card_id", card.ID).Msg("treating card as not due soon")
		return DueDateSentinel
	}

	days := math.Floor(due.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	if days > DueDateSentinel {
		return DueDateSentinel
	}
	return int(days)
}
