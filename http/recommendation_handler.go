package http

import (
	"net/http"

	"payment-engine/service"
)

type RecommendationHandler struct {
	service *service.RecommendationService
}

func NewRecommendationHandler(service *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {

	if !requirePost(w, r) {
		return
	}

	var input RecommendationRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	result, err := h.service.Recommend(r.Context(), input.ToDomain())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewRecommendationResponse(result))
}
