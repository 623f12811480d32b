package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tradebit/src/database"
	"tradebit/src/models"
	"tradebit/src/repositories"
	"tradebit/src/schemas"
	"tradebit/src/utils"

	"github.com/jackc/pgx/v5"
)

type SyncServiceI interface {
	SyncHoldings(ctx context.Context, userID string) *schemas.SyncResult
}

// SyncService orchestrates one full synchronization pass: fetch remote
// holdings, resolve each against the stock directory, and commit every upsert
// in a single transaction. Failures never escape; they are reported through
// the SyncResult.
type SyncService struct {
	sessionService SessionServiceI
	reconciliation ReconciliationServiceI
	holdingRepo    repositories.HoldingRepository
	syncLogRepo    repositories.SyncLogRepository
	txRunner       database.TxRunner

	// Concurrent syncs for the same user would race on the same upsert
	// targets, so passes are serialized per user.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewSyncService(
	sessionService SessionServiceI,
	reconciliation ReconciliationServiceI,
	holdingRepo repositories.HoldingRepository,
	syncLogRepo repositories.SyncLogRepository,
	txRunner database.TxRunner,
) *SyncService {
	return &SyncService{
		sessionService: sessionService,
		reconciliation: reconciliation,
		holdingRepo:    holdingRepo,
		syncLogRepo:    syncLogRepo,
		txRunner:       txRunner,
		userLocks:      make(map[string]*sync.Mutex),
	}
}

func (s *SyncService) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// SyncHoldings pulls all remote holdings for the user and upserts them into
// the local holding store, all-or-nothing.
func (s *SyncService) SyncHoldings(ctx context.Context, userID string) (result *schemas.SyncResult) {
	logger := utils.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic during holdings sync for user %s: %v", userID, r)
			result = schemas.SyncFailure(fmt.Sprintf("internal error: %v", r))
		}
	}()

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	client, err := s.sessionService.ClientFor(ctx, userID)
	if err != nil {
		logger.Errorf("failed to load broker client for user %s: %v", userID, err)
		return schemas.SyncFailure(err.Error())
	}
	if client == nil {
		return schemas.SyncFailure("broker client not available")
	}

	holdings, err := client.GetHoldings(ctx)
	if err != nil {
		logger.Errorf("failed to fetch holdings for user %s: %v", userID, err)
		return schemas.SyncFailure(err.Error())
	}

	// The broker does not report a purchase date, so every upsert stamps the
	// date of this sync call.
	syncDate := time.Now()

	var created, updated, skipped int
	txErr := s.txRunner.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, remote := range holdings {
			stock, err := s.reconciliation.Resolve(ctx, remote.Tradingsymbol, tx)
			if err != nil {
				if errors.Is(err, ErrUnresolved) {
					skipped++
					continue
				}
				return err
			}

			holding := &models.Holding{
				UserID:       userID,
				StockID:      stock.ID,
				Quantity:     remote.Quantity,
				AvgPrice:     remote.AveragePrice,
				PurchaseDate: syncDate,
				Source:       utils.HoldingSourceKite,
				ExternalID:   fmt.Sprintf("%s:%s", remote.Tradingsymbol, remote.Exchange),
			}

			inserted, err := s.holdingRepo.Upsert(ctx, holding, tx)
			if err != nil {
				return err
			}
			if inserted {
				created++
			} else {
				updated++
			}
		}

		return s.syncLogRepo.Create(ctx, &models.SyncLog{
			UserID:   userID,
			Created:  created,
			Updated:  updated,
			Skipped:  skipped,
			Total:    len(holdings),
			SyncDate: syncDate,
		}, tx)
	})
	if txErr != nil {
		logger.Errorf("holdings sync rolled back for user %s: %v", userID, txErr)
		return schemas.SyncFailure(txErr.Error())
	}

	return &schemas.SyncResult{
		Success: true,
		Created: created,
		Updated: updated,
		Skipped: skipped,
		Total:   len(holdings),
	}
}
