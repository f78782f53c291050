package domain

import "github.com/shopspring/decimal"

type Product struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	Batch      string          `json:"batch"`
	ExpiryDate string          `json:"expiry_date"`
}

// NewProduct is the body of POST /products. Field order matches the wire format.
type NewProduct struct {
	Name       string   `json:"name"`
	Price      Amount   `json:"price"`
	Quantity   Quantity `json:"quantity"`
	Batch      string   `json:"batch"`
	ExpiryDate string   `json:"expiry_date"`
}

type StockReceipt struct {
	Message      string `json:"message"`
	Received     int64  `json:"received"`
	CurrentStock int64  `json:"current_stock"`
}

// Ack is the generic {"message": ...} acknowledgement returned by mutations.
type Ack struct {
	Message string `json:"message"`
}
