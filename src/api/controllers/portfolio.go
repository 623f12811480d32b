package controllers

import (
	"context"

	"tradebit/src/schemas"
)

func (c *Controller) ListPortfolioHoldings(ctx context.Context, userID string) ([]schemas.PortfolioHolding, error) {
	holdings, err := c.HoldingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]schemas.PortfolioHolding, 0, len(holdings))
	for _, h := range holdings {
		result = append(result, schemas.PortfolioHolding{
			Symbol:       h.Symbol,
			Name:         h.StockName,
			Quantity:     h.Quantity,
			AvgPrice:     h.AvgPrice,
			PurchaseDate: h.PurchaseDate,
			Source:       h.Source,
			ExternalID:   h.ExternalID,
		})
	}
	return result, nil
}
