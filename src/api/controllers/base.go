package controllers

import (
	"context"

	"tradebit/src/clients/kite"
	"tradebit/src/models"
	"tradebit/src/repositories"
	"tradebit/src/schemas"
	"tradebit/src/services"
)

type IController interface {
	LoginURL(ctx context.Context, userID string) (string, error)
	CompleteLogin(ctx context.Context, userID, requestToken string) (*schemas.BrokerSession, error)
	BrokerStatus(ctx context.Context, userID string) (*schemas.BrokerStatus, error)
	UpdateCredentials(ctx context.Context, userID, apiKey, apiSecret string) error
	SyncHoldings(ctx context.Context, userID string) *schemas.SyncResult
	LastSync(ctx context.Context, userID string) (*models.SyncLog, error)
	PlaceOrder(ctx context.Context, userID string, req *schemas.OrderRequest) *schemas.OrderResult
	ListRemoteOrders(ctx context.Context, userID string) ([]kite.Order, error)
	OrderHistory(ctx context.Context, userID, orderID string) ([]kite.Order, error)
	ListRemoteHoldings(ctx context.Context, userID string) ([]kite.Holding, error)
	GetQuote(ctx context.Context, userID string, instruments ...string) (map[string]kite.Quote, error)
	ListPortfolioHoldings(ctx context.Context, userID string) ([]schemas.PortfolioHolding, error)
}

type Controller struct {
	SessionService services.SessionServiceI
	SyncService    services.SyncServiceI
	OrderService   services.OrderServiceI
	HoldingRepo    repositories.HoldingRepository
	SyncLogRepo    repositories.SyncLogRepository
}

func NewController(
	sessionService services.SessionServiceI,
	syncService services.SyncServiceI,
	orderService services.OrderServiceI,
	holdingRepo repositories.HoldingRepository,
	syncLogRepo repositories.SyncLogRepository,
) *Controller {
	return &Controller{
		SessionService: sessionService,
		SyncService:    syncService,
		OrderService:   orderService,
		HoldingRepo:    holdingRepo,
		SyncLogRepo:    syncLogRepo,
	}
}
