package controllers

import (
	"context"

	"tradebit/src/clients/kite"
	"tradebit/src/models"
	"tradebit/src/schemas"
	"tradebit/src/services"
)

func (c *Controller) LoginURL(ctx context.Context, userID string) (string, error) {
	return c.SessionService.LoginURL(ctx, userID)
}

func (c *Controller) CompleteLogin(ctx context.Context, userID, requestToken string) (*schemas.BrokerSession, error) {
	return c.SessionService.GenerateSession(ctx, userID, requestToken)
}

func (c *Controller) BrokerStatus(ctx context.Context, userID string) (*schemas.BrokerStatus, error) {
	return c.SessionService.Status(ctx, userID)
}

func (c *Controller) UpdateCredentials(ctx context.Context, userID, apiKey, apiSecret string) error {
	return c.SessionService.UpdateCredentials(ctx, userID, apiKey, apiSecret)
}

func (c *Controller) SyncHoldings(ctx context.Context, userID string) *schemas.SyncResult {
	return c.SyncService.SyncHoldings(ctx, userID)
}

func (c *Controller) LastSync(ctx context.Context, userID string) (*models.SyncLog, error) {
	return c.SyncLogRepo.GetLatestByUserID(ctx, userID)
}

func (c *Controller) PlaceOrder(ctx context.Context, userID string, req *schemas.OrderRequest) *schemas.OrderResult {
	return c.OrderService.PlaceOrder(ctx, userID, req)
}

func (c *Controller) ListRemoteOrders(ctx context.Context, userID string) ([]kite.Order, error) {
	return c.OrderService.ListOrders(ctx, userID)
}

func (c *Controller) OrderHistory(ctx context.Context, userID, orderID string) ([]kite.Order, error) {
	return c.OrderService.OrderHistory(ctx, userID, orderID)
}

// ListRemoteHoldings returns the live holdings as the broker reports them,
// without touching the local store.
func (c *Controller) ListRemoteHoldings(ctx context.Context, userID string) ([]kite.Holding, error) {
	client, err := c.SessionService.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, services.ErrNotConfigured
	}
	return client.GetHoldings(ctx)
}

func (c *Controller) GetQuote(ctx context.Context, userID string, instruments ...string) (map[string]kite.Quote, error) {
	client, err := c.SessionService.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, services.ErrNotConfigured
	}
	return client.GetQuote(ctx, instruments...)
}
