package schemas

import "time"

// PortfolioHolding is the read model for locally stored holdings.
type PortfolioHolding struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	AvgPrice     float64   `json:"avg_price"`
	PurchaseDate time.Time `json:"purchase_date"`
	Source       string    `json:"source"`
	ExternalID   string    `json:"external_id,omitempty"`
}
