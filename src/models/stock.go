package models

import "time"

type Stock struct {
	ID        int       `db:"id"`
	Symbol    string    `db:"symbol"`
	Name      string    `db:"name"`
	Sector    *string   `db:"sector"`
	Industry  *string   `db:"industry"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

type StockAlias struct {
	ID        int       `db:"id"`
	StockID   int       `db:"stock_id"`
	Alias     string    `db:"alias"`
	CreatedAt time.Time `db:"created_at"`
}
