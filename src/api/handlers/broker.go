package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tradebit/src/schemas"
	"tradebit/src/utils"

	"github.com/go-chi/chi/v5"
)

// Sync and order calls block on broker I/O for up to the client timeout, so
// handler contexts get a little headroom on top of it.
const brokerHandlerTimeout = 15 * time.Second

func (h *Handler) GetLoginURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	loginURL, err := h.Controller.LoginURL(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.LoginURLResponse{LoginURL: loginURL}, http.StatusOK)
}

func (h *Handler) CompleteLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req schemas.CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}
	if req.RequestToken == "" {
		utils.WriteError(w, utils.BadRequest("request_token is required"))
		return
	}

	session, err := h.Controller.CompleteLogin(ctx, userID, req.RequestToken)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, session, http.StatusOK)
}

func (h *Handler) GetBrokerStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	status, err := h.Controller.BrokerStatus(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, status, http.StatusOK)
}

func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req schemas.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}
	if req.APIKey == "" || req.APISecret == "" {
		utils.WriteError(w, utils.BadRequest("api_key and api_secret are required"))
		return
	}

	if err := h.Controller.UpdateCredentials(ctx, userID, req.APIKey, req.APISecret); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, map[string]bool{"success": true}, http.StatusOK)
}

func (h *Handler) SyncHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result := h.Controller.SyncHoldings(ctx, userID)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	h.respond(w, r, result, status)
}

func (h *Handler) GetLastSync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	log, err := h.Controller.LastSync(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if log == nil {
		utils.WriteError(w, utils.NotFound("no sync recorded"))
		return
	}
	h.respond(w, r, log, http.StatusOK)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req schemas.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}

	result := h.Controller.PlaceOrder(ctx, userID, &req)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	h.respond(w, r, result, status)
}

func (h *Handler) GetRemoteOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	orders, err := h.Controller.ListRemoteOrders(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, orders, http.StatusOK)
}

func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	orderID := chi.URLParam(r, "orderID")
	history, err := h.Controller.OrderHistory(ctx, userID, orderID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, history, http.StatusOK)
}

func (h *Handler) GetRemoteHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	holdings, err := h.Controller.ListRemoteHoldings(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, holdings, http.StatusOK)
}

func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), brokerHandlerTimeout)
	defer cancel()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	instrumentsStr := r.URL.Query().Get("i")
	if instrumentsStr == "" {
		utils.WriteError(w, utils.BadRequest("missing instruments parameter"))
		return
	}
	instruments := strings.Split(instrumentsStr, ",")

	quotes, err := h.Controller.GetQuote(ctx, userID, instruments...)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, quotes, http.StatusOK)
}
