package schemas

// OrderRequest is an order placement request. Optional fields are pointers:
// nil means the field is left out of the broker payload entirely.
type OrderRequest struct {
	Exchange          string   `json:"exchange"`
	Tradingsymbol     string   `json:"tradingsymbol"`
	TransactionType   string   `json:"transaction_type"`
	Quantity          float64  `json:"quantity"`
	Product           string   `json:"product"`
	OrderType         string   `json:"order_type"`
	Price             *float64 `json:"price,omitempty"`
	TriggerPrice      *float64 `json:"trigger_price,omitempty"`
	Validity          *string  `json:"validity,omitempty"`
	DisclosedQuantity *float64 `json:"disclosed_quantity,omitempty"`
	Squareoff         *float64 `json:"squareoff,omitempty"`
	Stoploss          *float64 `json:"stoploss,omitempty"`
	TrailingStoploss  *float64 `json:"trailing_stoploss,omitempty"`
	Tag               *string  `json:"tag,omitempty"`
}

// OrderResult distinguishes broker-reported failures from internal ones: a
// broker failure carries the remote message, anything else the generic
// internal message.
type OrderResult struct {
	Success       bool     `json:"success"`
	OrderID       string   `json:"order_id,omitempty"`
	Message       string   `json:"message,omitempty"`
	InvalidFields []string `json:"invalid_fields,omitempty"`
}
