package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tradebit/src/clients/kite"
	"tradebit/src/models"
	"tradebit/src/services"
	"tradebit/src/utils"
	kite_test "tradebit/tests/clients/kite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	service     *services.SyncService
	client      *kite_test.KiteServiceClientMock
	stockRepo   *fakeStockRepo
	holdingRepo *fakeHoldingRepo
	syncLogRepo *fakeSyncLogRepo
}

func newSyncFixture() *syncFixture {
	client := kite_test.NewMockClient()
	stockRepo := newFakeStockRepo()
	holdingRepo := newFakeHoldingRepo()
	syncLogRepo := &fakeSyncLogRepo{}

	service := services.NewSyncService(
		&sessionServiceMock{client: client},
		services.NewReconciliationService(stockRepo),
		holdingRepo,
		syncLogRepo,
		&fakeTxRunner{holdingRepo: holdingRepo, syncLogRepo: syncLogRepo},
	)

	return &syncFixture{
		service:     service,
		client:      client,
		stockRepo:   stockRepo,
		holdingRepo: holdingRepo,
		syncLogRepo: syncLogRepo,
	}
}

func remoteHoldings() []kite.Holding {
	return []kite.Holding{
		{Tradingsymbol: "INFY", Exchange: "NSE", Quantity: 10, AveragePrice: 1500.5},
		{Tradingsymbol: "TCS", Exchange: "NSE", Quantity: 5, AveragePrice: 3200.0},
		{Tradingsymbol: "NEWCO", Exchange: "BSE", Quantity: 2, AveragePrice: 99.0},
	}
}

func TestSyncHoldingsFirstPass(t *testing.T) {
	f := newSyncFixture()
	f.stockRepo.addStock("INFY", "Infosys Ltd")
	f.stockRepo.addStock("TCS", "Tata Consultancy Services")
	f.client.GetHoldingsFunc = func(_ context.Context) ([]kite.Holding, error) {
		return remoteHoldings(), nil
	}

	result := f.service.SyncHoldings(context.Background(), "user-1")
	require.True(t, result.Success, result.Message)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 3, result.Total)

	// The unknown symbol got a placeholder stock instead of being skipped.
	assert.Equal(t, 1, f.stockRepo.createdCount)
	assert.NotNil(t, f.stockRepo.stocks["NEWCO"])

	stored, err := f.holdingRepo.GetByUserAndSource(context.Background(), "user-1", utils.HoldingSourceKite)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	require.Len(t, f.syncLogRepo.logs, 1)
	assert.Equal(t, 3, f.syncLogRepo.logs[0].Created)
	assert.Equal(t, 3, f.syncLogRepo.logs[0].Total)
}

func TestSyncHoldingsUpdatesExistingRows(t *testing.T) {
	f := newSyncFixture()
	f.stockRepo.addStock("INFY", "Infosys Ltd")
	f.stockRepo.addStock("TCS", "Tata Consultancy Services")
	f.client.GetHoldingsFunc = func(_ context.Context) ([]kite.Holding, error) {
		return remoteHoldings(), nil
	}

	first := f.service.SyncHoldings(context.Background(), "user-1")
	require.True(t, first.Success)

	// Second pass over the same remote state touches the same three rows.
	second := f.service.SyncHoldings(context.Background(), "user-1")
	require.True(t, second.Success)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Updated)
	assert.Equal(t, 3, second.Total)

	stored, err := f.holdingRepo.GetByUserAndSource(context.Background(), "user-1", utils.HoldingSourceKite)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestSyncHoldingsMixedCreateAndUpdate(t *testing.T) {
	f := newSyncFixture()
	infy := f.stockRepo.addStock("INFY", "Infosys Ltd")
	tcs := f.stockRepo.addStock("TCS", "Tata Consultancy Services")
	f.client.GetHoldingsFunc = func(_ context.Context) ([]kite.Holding, error) {
		return remoteHoldings(), nil
	}

	// Pre-existing synced rows for the two known stocks.
	for _, stockID := range []int{infy.ID, tcs.ID} {
		seed := seedHolding("user-1", stockID)
		_, err := f.holdingRepo.Upsert(context.Background(), &seed, nil)
		require.NoError(t, err)
	}

	result := f.service.SyncHoldings(context.Background(), "user-1")
	require.True(t, result.Success, result.Message)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 3, result.Total)
}

func TestSyncHoldingsStampsSyncDate(t *testing.T) {
	f := newSyncFixture()
	stock := f.stockRepo.addStock("INFY", "Infosys Ltd")
	f.client.GetHoldingsFunc = func(_ context.Context) ([]kite.Holding, error) {
		return []kite.Holding{{Tradingsymbol: "INFY", Exchange: "NSE", Quantity: 10, AveragePrice: 1500.5}}, nil
	}

	// Seed a row carrying an old purchase date.
	old := seedHolding("user-1", stock.ID)
	old.PurchaseDate = time.Now().AddDate(0, 0, -30)
	_, err := f.holdingRepo.Upsert(context.Background(), &old, nil)
	require.NoError(t, err)

	before := time.Now()
	result := f.service.SyncHoldings(context.Background(), "user-1")
	require.True(t, result.Success)

	stored, err := f.holdingRepo.GetByUserAndSource(context.Background(), "user-1", utils.HoldingSourceKite)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	// Every pass restamps the purchase date with the sync date.
	assert.False(t, stored[0].PurchaseDate.Before(before))
	assert.Equal(t, "INFY:NSE", stored[0].ExternalID)
}

func TestSyncHoldingsClientUnavailable(t *testing.T) {
	f := newSyncFixture()
	service := services.NewSyncService(
		&sessionServiceMock{client: nil},
		services.NewReconciliationService(f.stockRepo),
		f.holdingRepo,
		f.syncLogRepo,
		&fakeTxRunner{holdingRepo: f.holdingRepo, syncLogRepo: f.syncLogRepo},
	)

	result := service.SyncHoldings(context.Background(), "user-1")
	assert.False(t, result.Success)
	assert.Equal(t, "broker client not available", result.Message)
	assert.Empty(t, f.holdingRepo.store)
	assert.Empty(t, f.syncLogRepo.logs)
}

func TestSyncHoldingsFetchFailure(t *testing.T) {
	f := newSyncFixture()
	f.client.GetHoldingsFunc = func(_ context.Context) ([]kite.Holding, error) {
		return nil, &kite.Error{Kind: kite.ErrorKindTransport, Message: "request to /portfolio/holdings failed"}
	}

	result := f.service.SyncHoldings(context.Background(), "user-1")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, f.holdingRepo.store)
}

func TestSyncHoldingsRollsBackOnMidLoopFailure(t *testing.T) {
	f := newSyncFixture()
	f.stockRepo.addStock("INFY", "Infosys Ltd")
	f.stockRepo.addStock("TCS", "Tata Consultancy Services")
	f.client.GetHoldingsFunc = func(_ context.Context) ([]kite.Holding, error) {
		return remoteHoldings(), nil
	}
	f.holdingRepo.failOnCall = 3

	result := f.service.SyncHoldings(context.Background(), "user-1")
	assert.False(t, result.Success)

	// All-or-nothing: the two successful upserts must not survive.
	assert.Empty(t, f.holdingRepo.store)
	assert.Empty(t, f.syncLogRepo.logs)
}

func TestSyncHoldingsSerializedPerUser(t *testing.T) {
	f := newSyncFixture()
	f.stockRepo.addStock("INFY", "Infosys Ltd")

	var inFlight int32
	var overlapped int32
	f.client.GetHoldingsFunc = func(_ context.Context) ([]kite.Holding, error) {
		if atomic.AddInt32(&inFlight, 1) > 1 {
			atomic.StoreInt32(&overlapped, 1)
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return []kite.Holding{{Tradingsymbol: "INFY", Exchange: "NSE", Quantity: 10, AveragePrice: 1500.5}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := f.service.SyncHoldings(context.Background(), "user-1")
			assert.True(t, result.Success)
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlapped), "concurrent passes for one user must not overlap")
	assert.Len(t, f.syncLogRepo.logs, 4)
}

func seedHolding(userID string, stockID int) models.Holding {
	return models.Holding{
		UserID:       userID,
		StockID:      stockID,
		Quantity:     1,
		AvgPrice:     1,
		PurchaseDate: time.Now().AddDate(0, 0, -7),
		Source:       utils.HoldingSourceKite,
		ExternalID:   "seed",
	}
}
