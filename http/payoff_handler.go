package http

import (
	"net/http"

	"payment-engine/service"
)

type PayoffHandler struct {
	service *service.PayoffService
}

func NewPayoffHandler(service *service.PayoffService) *PayoffHandler {
	return &PayoffHandler{service: service}
}

func (h *PayoffHandler) SimulatePayoff(w http.ResponseWriter, r *http.Request) {

	if !requirePost(w, r) {
		return
	}

	var input PayoffRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	result, err := h.service.SimulatePayoff(input.ToDomain())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewPayoffResponse(result))
}
