package kite_test

import (
	"context"

	"tradebit/src/clients/kite"
)

// KiteServiceClientMock implements kite.KiteServiceClientI through function
// fields so each test only stubs the calls it cares about.
type KiteServiceClientMock struct {
	LoginURLFunc        func() string
	GenerateSessionFunc func(ctx context.Context, requestToken string) (*kite.SessionData, error)
	GetProfileFunc      func(ctx context.Context) (*kite.Profile, error)
	GetMarginsFunc      func(ctx context.Context) error
	GetHoldingsFunc     func(ctx context.Context) ([]kite.Holding, error)
	GetPositionsFunc    func(ctx context.Context) (*kite.Positions, error)
	GetOrdersFunc       func(ctx context.Context) ([]kite.Order, error)
	GetOrderHistoryFunc func(ctx context.Context, orderID string) ([]kite.Order, error)
	GetQuoteFunc        func(ctx context.Context, instruments ...string) (map[string]kite.Quote, error)
	GetInstrumentsFunc  func(ctx context.Context, exchange string) ([]kite.Instrument, error)
	PlaceOrderFunc      func(ctx context.Context, params *kite.OrderParams) (string, error)

	AccessToken string
}

// NewMockClient creates a mock with an access token already set, the common
// case for service tests exercising authenticated flows.
func NewMockClient() *KiteServiceClientMock {
	return &KiteServiceClientMock{AccessToken: "mock-access-token"}
}

func (m *KiteServiceClientMock) LoginURL() string {
	if m.LoginURLFunc != nil {
		return m.LoginURLFunc()
	}
	return "https://kite.zerodha.com/connect/login?api_key=mock&v=3"
}

func (m *KiteServiceClientMock) GenerateSession(ctx context.Context, requestToken string) (*kite.SessionData, error) {
	if m.GenerateSessionFunc != nil {
		return m.GenerateSessionFunc(ctx, requestToken)
	}
	return &kite.SessionData{AccessToken: m.AccessToken}, nil
}

func (m *KiteServiceClientMock) GetProfile(ctx context.Context) (*kite.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx)
	}
	return &kite.Profile{}, nil
}

func (m *KiteServiceClientMock) GetMargins(ctx context.Context) error {
	if m.GetMarginsFunc != nil {
		return m.GetMarginsFunc(ctx)
	}
	return nil
}

func (m *KiteServiceClientMock) GetHoldings(ctx context.Context) ([]kite.Holding, error) {
	if m.GetHoldingsFunc != nil {
		return m.GetHoldingsFunc(ctx)
	}
	return nil, nil
}

func (m *KiteServiceClientMock) GetPositions(ctx context.Context) (*kite.Positions, error) {
	if m.GetPositionsFunc != nil {
		return m.GetPositionsFunc(ctx)
	}
	return &kite.Positions{}, nil
}

func (m *KiteServiceClientMock) GetOrders(ctx context.Context) ([]kite.Order, error) {
	if m.GetOrdersFunc != nil {
		return m.GetOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *KiteServiceClientMock) GetOrderHistory(ctx context.Context, orderID string) ([]kite.Order, error) {
	if m.GetOrderHistoryFunc != nil {
		return m.GetOrderHistoryFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *KiteServiceClientMock) GetQuote(ctx context.Context, instruments ...string) (map[string]kite.Quote, error) {
	if m.GetQuoteFunc != nil {
		return m.GetQuoteFunc(ctx, instruments...)
	}
	return map[string]kite.Quote{}, nil
}

func (m *KiteServiceClientMock) GetInstruments(ctx context.Context, exchange string) ([]kite.Instrument, error) {
	if m.GetInstrumentsFunc != nil {
		return m.GetInstrumentsFunc(ctx, exchange)
	}
	return nil, nil
}

func (m *KiteServiceClientMock) PlaceOrder(ctx context.Context, params *kite.OrderParams) (string, error) {
	if m.PlaceOrderFunc != nil {
		return m.PlaceOrderFunc(ctx, params)
	}
	return "mock-order-id", nil
}

func (m *KiteServiceClientMock) SetAccessToken(token string) {
	m.AccessToken = token
}

func (m *KiteServiceClientMock) HasAccessToken() bool {
	return m.AccessToken != ""
}
