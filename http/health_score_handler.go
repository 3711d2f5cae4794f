package http

import (
	"net/http"
	"time"

	"payment-engine/service"
)

type HealthScoreHandler struct {
	now func() time.Time
}

// NewHealthScoreHandler creates the handler. A nil clock means time.Now.
func NewHealthScoreHandler(now func() time.Time) *HealthScoreHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthScoreHandler{now: now}
}

func (h *HealthScoreHandler) Score(w http.ResponseWriter, r *http.Request) {

	if !requirePost(w, r) {
		return
	}

	var input HealthScoreRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	cards := toDomainCards(input.Cards)
	writeJSON(w, http.StatusOK, HealthScoreResponse{
		OverallScore: service.CreditHealthScore(cards, h.now()),
		CardCount:    len(cards),
	})
}
