package kite

import (
	"encoding/json"
	"time"
)

// envelope is the fixed wrapper around every Kite API response body.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// SessionData is the result of exchanging a request token.
type SessionData struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	SessionExpiry time.Time `json:"session_expiry"`
}

// Holding is a single holding as reported by the broker. Transient: produced
// per fetch, never persisted as-is.
type Holding struct {
	Tradingsymbol string  `json:"tradingsymbol"`
	Exchange      string  `json:"exchange"`
	ISIN          string  `json:"isin"`
	Quantity      float64 `json:"quantity"`
	AveragePrice  float64 `json:"average_price"`
	LastPrice     float64 `json:"last_price"`
	PnL           float64 `json:"pnl"`
	Product       string  `json:"product"`
}

// Order is an order as reported by the broker.
type Order struct {
	OrderID         string   `json:"order_id"`
	Exchange        string   `json:"exchange"`
	Tradingsymbol   string   `json:"tradingsymbol"`
	TransactionType string   `json:"transaction_type"`
	OrderType       string   `json:"order_type"`
	Quantity        float64  `json:"quantity"`
	Price           *float64 `json:"price"`
	Status          string   `json:"status"`
	FilledQuantity  float64  `json:"filled_quantity"`
	PendingQuantity float64  `json:"pending_quantity"`
	AveragePrice    *float64 `json:"average_price"`
}

// Position is an open position from the positions endpoint.
type Position struct {
	Tradingsymbol string  `json:"tradingsymbol"`
	Exchange      string  `json:"exchange"`
	Product       string  `json:"product"`
	Quantity      float64 `json:"quantity"`
	AveragePrice  float64 `json:"average_price"`
	LastPrice     float64 `json:"last_price"`
	PnL           float64 `json:"pnl"`
}

// Positions groups day and net positions.
type Positions struct {
	Day []Position `json:"day"`
	Net []Position `json:"net"`
}

// Profile is the broker account profile.
type Profile struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	Broker    string `json:"broker"`
	UserType  string `json:"user_type"`
	Exchanges []string `json:"exchanges"`
}

// Quote is a single instrument quote keyed by "EXCHANGE:SYMBOL".
type Quote struct {
	InstrumentToken int64   `json:"instrument_token"`
	LastPrice       float64 `json:"last_price"`
	Volume          float64 `json:"volume"`
	AveragePrice    float64 `json:"average_price"`
	NetChange       float64 `json:"net_change"`
}

// Instrument is one row of the tradable-instrument dump.
type Instrument struct {
	InstrumentToken int64   `json:"instrument_token"`
	ExchangeToken   int64   `json:"exchange_token"`
	Tradingsymbol   string  `json:"tradingsymbol"`
	Name            string  `json:"name"`
	Exchange        string  `json:"exchange"`
	Segment         string  `json:"segment"`
	InstrumentType  string  `json:"instrument_type"`
	TickSize        float64 `json:"tick_size"`
	LotSize         float64 `json:"lot_size"`
}

// OrderParams carries a validated order. Optional fields are pointers and are
// omitted from the outbound payload when nil; they are never sent explicitly
// as nulls.
type OrderParams struct {
	Exchange          string
	Tradingsymbol     string
	TransactionType   string
	Quantity          float64
	Product           string
	OrderType         string
	Validity          string
	DisclosedQuantity float64
	Price             *float64
	TriggerPrice      *float64
	Squareoff         *float64
	Stoploss          *float64
	TrailingStoploss  *float64
	Tag               *string
}
