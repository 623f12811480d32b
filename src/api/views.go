package api

import (
	"net/http"
	"time"

	"tradebit/src/api/controllers"
	handlers "tradebit/src/api/handlers"
	"tradebit/src/config"
	"tradebit/src/database"
	"tradebit/src/repositories"
	"tradebit/src/services"
	"tradebit/src/utils"
	redis_utils "tradebit/src/utils/redis"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler

	SessionService *services.SessionService
	SyncService    *services.SyncService
	SettingsRepo   repositories.UserSettingsRepository
	Logger         *logrus.Logger
}

func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}

	// The instrument cache is optional; the service runs without Redis.
	var cacheHandler redis_utils.CacheHandlerI
	if cfg.Databases.Redis.Host != "" {
		redisHandler, err := redis_utils.NewRedisHandler(cfg)
		if err != nil {
			return nil, err
		}
		cacheHandler = redisHandler
	}

	settingsRepo := repositories.NewUserSettingsRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	holdingRepo := repositories.NewHoldingRepository(db)
	syncLogRepo := repositories.NewSyncLogRepository(db)

	sessionService := services.NewSessionService(settingsRepo, cfg, cacheHandler)
	reconciliationService := services.NewReconciliationService(stockRepo)
	syncService := services.NewSyncService(sessionService, reconciliationService,
		holdingRepo, syncLogRepo, database.NewPoolTxRunner(db))
	orderService := services.NewOrderService(sessionService)

	controller := controllers.NewController(sessionService, syncService, orderService, holdingRepo, syncLogRepo)

	server := &Server{
		Router:         chi.NewRouter(),
		Handler:        handlers.NewHandler(controller),
		SessionService: sessionService,
		SyncService:    syncService,
		SettingsRepo:   settingsRepo,
		Logger:         utils.NewLogger(logrus.InfoLevel, false, ""),
	}
	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// loggerMiddleware stashes the service logger in the request context so
// handlers and services share one structured logger.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(utils.WithLogger(r.Context(), s.Logger)))
	})
}

func (s *Server) InitRoutes() {
	s.Router.Use(s.loggerMiddleware)

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/broker", func(r chi.Router) {
		r.Get("/login-url", s.Handler.GetLoginURL)
		r.Post("/callback", s.Handler.CompleteLogin)
		r.Get("/status", s.Handler.GetBrokerStatus)
		r.Put("/credentials", s.Handler.UpdateCredentials)
		r.Post("/sync", s.Handler.SyncHoldings)
		r.Get("/sync", s.Handler.GetLastSync)
		r.Get("/holdings", s.Handler.GetRemoteHoldings)
		r.Get("/orders", s.Handler.GetRemoteOrders)
		r.Post("/orders", s.Handler.PlaceOrder)
		r.Get("/orders/{orderID}", s.Handler.GetOrderHistory)
		r.Get("/quote", s.Handler.GetQuote)
	})

	s.Router.Route("/api/portfolio", func(r chi.Router) {
		r.Get("/holdings", s.Handler.GetPortfolioHoldings)
	})
}

func NewHTTPServer(cfg *config.Config, server *Server) *http.Server {
	port := cfg.Service.Port
	if port == "" {
		port = "8000"
	}
	return &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
}
