package repositories

import (
	"context"

	"tradebit/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HoldingRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.HoldingWithStock, error)
	GetByUserAndSource(ctx context.Context, userID, source string) ([]models.Holding, error)
	// Upsert inserts or replaces the holding keyed on (user, stock, source)
	// and reports whether a new row was created.
	Upsert(ctx context.Context, h *models.Holding, tx pgx.Tx) (bool, error)
}

type holdingRepo struct {
	db *pgxpool.Pool
}

func NewHoldingRepository(db *pgxpool.Pool) HoldingRepository {
	return &holdingRepo{db: db}
}

func (r *holdingRepo) GetByUserID(ctx context.Context, userID string) ([]models.HoldingWithStock, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.user_id, h.stock_id, h.quantity, h.avg_price, h.purchase_date,
			h.source, h.external_id, h.created_at, s.symbol, s.name
		FROM holdings h
		JOIN stocks s ON s.id = h.stock_id
		WHERE h.user_id = $1
		ORDER BY s.symbol`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []models.HoldingWithStock
	for rows.Next() {
		var h models.HoldingWithStock
		if err := rows.Scan(&h.ID, &h.UserID, &h.StockID, &h.Quantity, &h.AvgPrice,
			&h.PurchaseDate, &h.Source, &h.ExternalID, &h.CreatedAt, &h.Symbol, &h.StockName); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *holdingRepo) GetByUserAndSource(ctx context.Context, userID, source string) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, stock_id, quantity, avg_price, purchase_date, source, external_id, created_at
		FROM holdings
		WHERE user_id = $1 AND source = $2`,
		userID, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.UserID, &h.StockID, &h.Quantity, &h.AvgPrice,
			&h.PurchaseDate, &h.Source, &h.ExternalID, &h.CreatedAt); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *holdingRepo) Upsert(ctx context.Context, h *models.Holding, tx pgx.Tx) (bool, error) {
	// xmax = 0 distinguishes a fresh insert from a conflict update.
	query := `
		INSERT INTO holdings (user_id, stock_id, quantity, avg_price, purchase_date, source, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, stock_id, source) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			avg_price = EXCLUDED.avg_price,
			purchase_date = EXCLUDED.purchase_date,
			external_id = EXCLUDED.external_id
		RETURNING id, (xmax = 0) AS inserted`

	var inserted bool
	var err error
	if tx == nil {
		err = r.db.QueryRow(ctx, query,
			h.UserID, h.StockID, h.Quantity, h.AvgPrice, h.PurchaseDate, h.Source, h.ExternalID,
		).Scan(&h.ID, &inserted)
	} else {
		err = tx.QueryRow(ctx, query,
			h.UserID, h.StockID, h.Quantity, h.AvgPrice, h.PurchaseDate, h.Source, h.ExternalID,
		).Scan(&h.ID, &inserted)
	}
	if err != nil {
		return false, err
	}
	return inserted, nil
}
