package services_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradebit/src/clients/kite"
	"tradebit/src/database"
	"tradebit/src/models"
	"tradebit/src/schemas"

	"github.com/jackc/pgx/v5"
)

// fakeSettingsRepo is an in-memory UserSettingsRepository.
type fakeSettingsRepo struct {
	settings map[string]*models.UserSettings
	getErr   error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*models.UserSettings)}
}

func (r *fakeSettingsRepo) Get(_ context.Context, userID string) (*models.UserSettings, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.settings[userID], nil
}

func (r *fakeSettingsRepo) UpsertCredentials(_ context.Context, userID, apiKey, apiSecret string) error {
	r.settings[userID] = &models.UserSettings{
		UserID:        userID,
		KiteAPIKey:    &apiKey,
		KiteAPISecret: &apiSecret,
		UpdatedAt:     time.Now(),
	}
	return nil
}

func (r *fakeSettingsRepo) UpdateSession(_ context.Context, userID, requestToken, accessToken, refreshToken string, expiry time.Time) error {
	s, ok := r.settings[userID]
	if !ok {
		return errors.New("user settings not found")
	}
	s.KiteRequestToken = &requestToken
	s.KiteAccessToken = &accessToken
	s.KiteRefreshToken = &refreshToken
	s.KiteSessionExpiry = &expiry
	return nil
}

func (r *fakeSettingsRepo) ListConfigured(_ context.Context) ([]string, error) {
	var ids []string
	for id, s := range r.settings {
		if s.IsConfigured() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// configure seeds a credential pair, optionally with an access token.
func (r *fakeSettingsRepo) configure(userID, apiKey, apiSecret, accessToken string) {
	s := &models.UserSettings{
		UserID:        userID,
		KiteAPIKey:    &apiKey,
		KiteAPISecret: &apiSecret,
	}
	if accessToken != "" {
		s.KiteAccessToken = &accessToken
	}
	r.settings[userID] = s
}

// fakeStockRepo is an in-memory StockRepository.
type fakeStockRepo struct {
	stocks  map[string]*models.Stock
	aliases map[string]string
	nextID  int

	createdCount int
	lookupErr    error
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		stocks:  make(map[string]*models.Stock),
		aliases: make(map[string]string),
		nextID:  1,
	}
}

func (r *fakeStockRepo) addStock(symbol, name string) *models.Stock {
	stock := &models.Stock{ID: r.nextID, Symbol: symbol, Name: name, IsActive: true}
	r.nextID++
	r.stocks[symbol] = stock
	return stock
}

func (r *fakeStockRepo) GetBySymbol(_ context.Context, symbol string, _ pgx.Tx) (*models.Stock, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	return r.stocks[symbol], nil
}

func (r *fakeStockRepo) GetByAlias(_ context.Context, alias string, _ pgx.Tx) (*models.Stock, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	symbol, ok := r.aliases[alias]
	if !ok {
		return nil, nil
	}
	return r.stocks[symbol], nil
}

func (r *fakeStockRepo) Create(_ context.Context, stock *models.Stock, _ pgx.Tx) error {
	stock.ID = r.nextID
	r.nextID++
	stock.CreatedAt = time.Now()
	r.stocks[stock.Symbol] = stock
	r.createdCount++
	return nil
}

func (r *fakeStockRepo) CreateAlias(_ context.Context, alias *models.StockAlias, _ pgx.Tx) error {
	for _, stock := range r.stocks {
		if stock.ID == alias.StockID {
			r.aliases[alias.Alias] = stock.Symbol
			return nil
		}
	}
	return errors.New("stock not found")
}

// fakeHoldingRepo is an in-memory HoldingRepository keyed the same way as
// the real table, on (user, stock, source).
type fakeHoldingRepo struct {
	store  map[string]*models.Holding
	nextID int

	upsertCalls int
	failOnCall  int // fail the nth Upsert when > 0
}

func newFakeHoldingRepo() *fakeHoldingRepo {
	return &fakeHoldingRepo{store: make(map[string]*models.Holding), nextID: 1}
}

func holdingKey(h *models.Holding) string {
	return fmt.Sprintf("%s|%d|%s", h.UserID, h.StockID, h.Source)
}

func (r *fakeHoldingRepo) GetByUserID(_ context.Context, userID string) ([]models.HoldingWithStock, error) {
	var holdings []models.HoldingWithStock
	for _, h := range r.store {
		if h.UserID == userID {
			holdings = append(holdings, models.HoldingWithStock{Holding: *h})
		}
	}
	return holdings, nil
}

func (r *fakeHoldingRepo) GetByUserAndSource(_ context.Context, userID, source string) ([]models.Holding, error) {
	var holdings []models.Holding
	for _, h := range r.store {
		if h.UserID == userID && h.Source == source {
			holdings = append(holdings, *h)
		}
	}
	return holdings, nil
}

func (r *fakeHoldingRepo) Upsert(_ context.Context, h *models.Holding, _ pgx.Tx) (bool, error) {
	r.upsertCalls++
	if r.failOnCall > 0 && r.upsertCalls == r.failOnCall {
		return false, errors.New("upsert failed")
	}

	key := holdingKey(h)
	if existing, ok := r.store[key]; ok {
		existing.Quantity = h.Quantity
		existing.AvgPrice = h.AvgPrice
		existing.PurchaseDate = h.PurchaseDate
		existing.ExternalID = h.ExternalID
		h.ID = existing.ID
		return false, nil
	}

	h.ID = r.nextID
	r.nextID++
	stored := *h
	r.store[key] = &stored
	return true, nil
}

func (r *fakeHoldingRepo) snapshot() map[string]*models.Holding {
	copied := make(map[string]*models.Holding, len(r.store))
	for k, v := range r.store {
		h := *v
		copied[k] = &h
	}
	return copied
}

// fakeSyncLogRepo is an in-memory SyncLogRepository.
type fakeSyncLogRepo struct {
	logs []models.SyncLog
}

func (r *fakeSyncLogRepo) Create(_ context.Context, log *models.SyncLog, _ pgx.Tx) error {
	log.ID = len(r.logs) + 1
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeSyncLogRepo) GetLatestByUserID(_ context.Context, userID string) (*models.SyncLog, error) {
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].UserID == userID {
			log := r.logs[i]
			return &log, nil
		}
	}
	return nil, nil
}

// fakeTxRunner mimics transaction atomicity over the in-memory stores: when
// fn fails, holding and sync-log state are restored to their pre-transaction
// snapshots.
type fakeTxRunner struct {
	holdingRepo *fakeHoldingRepo
	syncLogRepo *fakeSyncLogRepo
}

var _ database.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) WithinTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var holdingsBefore map[string]*models.Holding
	var logsBefore []models.SyncLog
	if r.holdingRepo != nil {
		holdingsBefore = r.holdingRepo.snapshot()
	}
	if r.syncLogRepo != nil {
		logsBefore = append([]models.SyncLog(nil), r.syncLogRepo.logs...)
	}

	if err := fn(nil); err != nil {
		if r.holdingRepo != nil {
			r.holdingRepo.store = holdingsBefore
		}
		if r.syncLogRepo != nil {
			r.syncLogRepo.logs = logsBefore
		}
		return err
	}
	return nil
}

// sessionServiceMock satisfies services.SessionServiceI for order and sync
// tests that only need ClientFor.
type sessionServiceMock struct {
	client    kite.KiteServiceClientI
	clientErr error
}

func (m *sessionServiceMock) LoginURL(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (m *sessionServiceMock) GenerateSession(_ context.Context, _, _ string) (*schemas.BrokerSession, error) {
	return nil, nil
}

func (m *sessionServiceMock) ClientFor(_ context.Context, _ string) (kite.KiteServiceClientI, error) {
	return m.client, m.clientErr
}

func (m *sessionServiceMock) IsSessionValid(_ context.Context, client kite.KiteServiceClientI) bool {
	return client != nil && client.HasAccessToken()
}

func (m *sessionServiceMock) Status(_ context.Context, _ string) (*schemas.BrokerStatus, error) {
	return nil, nil
}

func (m *sessionServiceMock) UpdateCredentials(_ context.Context, _, _, _ string) error {
	return nil
}
