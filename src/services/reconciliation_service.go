package services

import (
	"context"
	"errors"

	"tradebit/src/models"
	"tradebit/src/repositories"

	"github.com/jackc/pgx/v5"
)

// ErrUnresolved marks a holding that could not be mapped to a stock. The
// current resolution chain always produces a stock, so this is not reachable
// today; the sync loop treats it as skip-and-continue rather than abort.
var ErrUnresolved = errors.New("holding could not be resolved to a stock")

type ReconciliationServiceI interface {
	Resolve(ctx context.Context, tradingsymbol string, tx pgx.Tx) (*models.Stock, error)
}

// ReconciliationService maps an externally-reported tradingsymbol to a stock
// in the local directory. Resolution order: exact symbol match, registered
// alias, then auto-creation of a placeholder stock. The trade-off of the
// third step is that low-quality placeholder entries can enter the directory
// and need later curation; no fuzzy matching is attempted.
type ReconciliationService struct {
	stockRepo repositories.StockRepository
}

func NewReconciliationService(stockRepo repositories.StockRepository) *ReconciliationService {
	return &ReconciliationService{stockRepo: stockRepo}
}

func (s *ReconciliationService) Resolve(ctx context.Context, tradingsymbol string, tx pgx.Tx) (*models.Stock, error) {
	stock, err := s.stockRepo.GetBySymbol(ctx, tradingsymbol, tx)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		return stock, nil
	}

	stock, err = s.stockRepo.GetByAlias(ctx, tradingsymbol, tx)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		return stock, nil
	}

	stock = &models.Stock{
		Symbol:   tradingsymbol,
		Name:     tradingsymbol,
		IsActive: true,
	}
	if err := s.stockRepo.Create(ctx, stock, tx); err != nil {
		return nil, err
	}
	return stock, nil
}
