package handlers

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) GetPortfolioHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	holdings, err := h.Controller.ListPortfolioHoldings(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, holdings, http.StatusOK)
}
