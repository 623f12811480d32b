package repositories

import (
	"context"
	"errors"

	"tradebit/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockRepository is the stock directory: lookup-by-symbol, lookup-by-alias
// and create are the three operations the reconciliation engine depends on.
type StockRepository interface {
	GetBySymbol(ctx context.Context, symbol string, tx pgx.Tx) (*models.Stock, error)
	GetByAlias(ctx context.Context, alias string, tx pgx.Tx) (*models.Stock, error)
	Create(ctx context.Context, stock *models.Stock, tx pgx.Tx) error
	CreateAlias(ctx context.Context, alias *models.StockAlias, tx pgx.Tx) error
}

type stockRepo struct {
	db *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) StockRepository {
	return &stockRepo{db: db}
}

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *stockRepo) querier(tx pgx.Tx) pgxQuerier {
	if tx != nil {
		return tx
	}
	return r.db
}

const stockColumns = `id, symbol, name, sector, industry, is_active, created_at`

func scanStock(row pgx.Row) (*models.Stock, error) {
	var s models.Stock
	err := row.Scan(&s.ID, &s.Symbol, &s.Name, &s.Sector, &s.Industry, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stockRepo) GetBySymbol(ctx context.Context, symbol string, tx pgx.Tx) (*models.Stock, error) {
	row := r.querier(tx).QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stocks WHERE symbol = $1`, symbol)
	return scanStock(row)
}

func (r *stockRepo) GetByAlias(ctx context.Context, alias string, tx pgx.Tx) (*models.Stock, error) {
	row := r.querier(tx).QueryRow(ctx,
		`SELECT s.id, s.symbol, s.name, s.sector, s.industry, s.is_active, s.created_at
		FROM stocks s
		JOIN stock_aliases a ON a.stock_id = s.id
		WHERE a.alias = $1`, alias)
	return scanStock(row)
}

func (r *stockRepo) Create(ctx context.Context, stock *models.Stock, tx pgx.Tx) error {
	query := `
		INSERT INTO stocks (symbol, name, sector, industry, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.querier(tx).QueryRow(ctx, query,
		stock.Symbol, stock.Name, stock.Sector, stock.Industry, stock.IsActive,
	).Scan(&stock.ID, &stock.CreatedAt)
}

func (r *stockRepo) CreateAlias(ctx context.Context, alias *models.StockAlias, tx pgx.Tx) error {
	query := `
		INSERT INTO stock_aliases (stock_id, alias)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return r.querier(tx).QueryRow(ctx, query,
		alias.StockID, alias.Alias,
	).Scan(&alias.ID, &alias.CreatedAt)
}
