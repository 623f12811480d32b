package models

import "time"

type Holding struct {
	ID           int       `db:"id"`
	UserID       string    `db:"user_id"`
	StockID      int       `db:"stock_id"`
	Quantity     float64   `db:"quantity"`
	AvgPrice     float64   `db:"avg_price"`
	PurchaseDate time.Time `db:"purchase_date"`
	Source       string    `db:"source"`
	ExternalID   string    `db:"external_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// HoldingWithStock joins a holding with its stock for read endpoints.
type HoldingWithStock struct {
	Holding
	Symbol    string `db:"symbol"`
	StockName string `db:"stock_name"`
}
