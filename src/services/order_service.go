package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradebit/src/clients/kite"
	"tradebit/src/schemas"
	"tradebit/src/utils"
)

type OrderServiceI interface {
	PlaceOrder(ctx context.Context, userID string, req *schemas.OrderRequest) *schemas.OrderResult
	ListOrders(ctx context.Context, userID string) ([]kite.Order, error)
	OrderHistory(ctx context.Context, userID, orderID string) ([]kite.Order, error)
}

var validTransactionTypes = map[string]bool{
	"BUY":  true,
	"SELL": true,
}

var validOrderTypes = map[string]bool{
	"MARKET": true,
	"LIMIT":  true,
	"SL":     true,
	"SL-M":   true,
}

const defaultOrderValidity = "DAY"

// OrderService validates order requests and forwards them to the broker,
// normalizing outcomes: broker-reported failures keep the remote message,
// anything else collapses into a generic internal-error message.
type OrderService struct {
	sessionService SessionServiceI
}

func NewOrderService(sessionService SessionServiceI) *OrderService {
	return &OrderService{sessionService: sessionService}
}

// validateOrderRequest returns the names of every invalid required field so
// the caller sees all problems at once.
func validateOrderRequest(req *schemas.OrderRequest) []string {
	var invalid []string
	if req.Exchange == "" {
		invalid = append(invalid, "exchange")
	}
	if req.Tradingsymbol == "" {
		invalid = append(invalid, "tradingsymbol")
	}
	if !validTransactionTypes[req.TransactionType] {
		invalid = append(invalid, "transaction_type")
	}
	if req.Quantity <= 0 {
		invalid = append(invalid, "quantity")
	}
	if req.Product == "" {
		invalid = append(invalid, "product")
	}
	if !validOrderTypes[req.OrderType] {
		invalid = append(invalid, "order_type")
	}
	return invalid
}

// PlaceOrder validates the request and forwards it. Validation failures are
// reported before any network call is made.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req *schemas.OrderRequest) (result *schemas.OrderResult) {
	logger := utils.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic while placing order for user %s: %v", userID, r)
			result = &schemas.OrderResult{Success: false, Message: "internal error while placing order"}
		}
	}()

	if invalid := validateOrderRequest(req); len(invalid) > 0 {
		return &schemas.OrderResult{
			Success:       false,
			Message:       fmt.Sprintf("invalid order fields: %s", strings.Join(invalid, ", ")),
			InvalidFields: invalid,
		}
	}

	client, err := s.sessionService.ClientFor(ctx, userID)
	if err != nil {
		logger.Errorf("failed to load broker client for user %s: %v", userID, err)
		return &schemas.OrderResult{Success: false, Message: "internal error while placing order"}
	}
	if client == nil {
		return &schemas.OrderResult{Success: false, Message: "broker client not available"}
	}

	params := &kite.OrderParams{
		Exchange:         req.Exchange,
		Tradingsymbol:    req.Tradingsymbol,
		TransactionType:  req.TransactionType,
		Quantity:         req.Quantity,
		Product:          req.Product,
		OrderType:        req.OrderType,
		Validity:         defaultOrderValidity,
		Price:            req.Price,
		TriggerPrice:     req.TriggerPrice,
		Squareoff:        req.Squareoff,
		Stoploss:         req.Stoploss,
		TrailingStoploss: req.TrailingStoploss,
		Tag:              req.Tag,
	}
	if req.Validity != nil {
		params.Validity = *req.Validity
	}
	if req.DisclosedQuantity != nil {
		params.DisclosedQuantity = *req.DisclosedQuantity
	}

	orderID, err := client.PlaceOrder(ctx, params)
	if err != nil {
		var brokerErr *kite.Error
		if errors.As(err, &brokerErr) {
			logger.Errorf("broker rejected order for user %s: %v", userID, err)
			return &schemas.OrderResult{Success: false, Message: brokerErr.Message}
		}
		logger.Errorf("unexpected error placing order for user %s: %v", userID, err)
		return &schemas.OrderResult{Success: false, Message: "internal error while placing order"}
	}

	return &schemas.OrderResult{
		Success: true,
		OrderID: orderID,
		Message: "order placed successfully",
	}
}

// ListOrders fetches the day's orders from the broker.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]kite.Order, error) {
	client, err := s.sessionService.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotConfigured
	}
	return client.GetOrders(ctx)
}

// OrderHistory fetches the state transitions of one order.
func (s *OrderService) OrderHistory(ctx context.Context, userID, orderID string) ([]kite.Order, error) {
	client, err := s.sessionService.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotConfigured
	}
	return client.GetOrderHistory(ctx, orderID)
}
