package repositories_test

import (
	"context"
	"testing"
	"time"

	"tradebit/src/models"
	"tradebit/src/repositories"
	"tradebit/src/utils"
	"tradebit/tests/init_test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldingRepository(t *testing.T) {
	db := init_test.SetupTestDB(t)
	repo := repositories.NewHoldingRepository(db)
	stockRepo := repositories.NewStockRepository(db)

	userID := "test-holdings-user"
	defer func() {
		init_test.CleanupTestData(t, db, userID)
	}()

	ctx := context.Background()
	stock := &models.Stock{
		Symbol:   "TEST-HOLD",
		Name:     "Holding Test Stock",
		IsActive: true,
	}
	err := stockRepo.Create(ctx, stock, nil)
	require.NoError(t, err)

	t.Run("Upsert inserts then updates", func(t *testing.T) {
		holding := &models.Holding{
			UserID:       userID,
			StockID:      stock.ID,
			Quantity:     10,
			AvgPrice:     1500.5,
			PurchaseDate: time.Now(),
			Source:       utils.HoldingSourceKite,
			ExternalID:   "TEST-HOLD:NSE",
		}

		inserted, err := repo.Upsert(ctx, holding, nil)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.NotZero(t, holding.ID)
		firstID := holding.ID

		// Same (user, stock, source) key replaces the row in place.
		holding.Quantity = 15
		holding.AvgPrice = 1480.0
		inserted, err = repo.Upsert(ctx, holding, nil)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, firstID, holding.ID)

		stored, err := repo.GetByUserAndSource(ctx, userID, utils.HoldingSourceKite)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, 15.0, stored[0].Quantity)
		assert.Equal(t, 1480.0, stored[0].AvgPrice)
	})

	t.Run("manual and synced rows coexist", func(t *testing.T) {
		manual := &models.Holding{
			UserID:       userID,
			StockID:      stock.ID,
			Quantity:     3,
			AvgPrice:     1000,
			PurchaseDate: time.Now(),
			Source:       utils.HoldingSourceManual,
		}

		inserted, err := repo.Upsert(ctx, manual, nil)
		require.NoError(t, err)
		assert.True(t, inserted)

		all, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, "TEST-HOLD", all[0].Symbol)
		assert.Equal(t, "Holding Test Stock", all[0].StockName)
	})

	t.Run("Upsert within transaction", func(t *testing.T) {
		tx, err := db.Begin(ctx)
		require.NoError(t, err)

		holding := &models.Holding{
			UserID:       userID + "-tx",
			StockID:      stock.ID,
			Quantity:     1,
			AvgPrice:     1,
			PurchaseDate: time.Now(),
			Source:       utils.HoldingSourceKite,
		}
		inserted, err := repo.Upsert(ctx, holding, tx)
		require.NoError(t, err)
		assert.True(t, inserted)

		err = tx.Rollback(ctx)
		require.NoError(t, err)

		stored, err := repo.GetByUserAndSource(ctx, userID+"-tx", utils.HoldingSourceKite)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("GetByUserID for unknown user", func(t *testing.T) {
		holdings, err := repo.GetByUserID(ctx, "test-nobody")
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})
}
