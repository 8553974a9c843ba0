package model

import "time"

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address  string  `json:"address"`
	SOL      string  `json:"sol"`
	Lamports uint64  `json:"lamports"`
	Rate     float64 `json:"rate"`
	USD      string  `json:"sol_amount_in_usd"`
}

// PriceQuote is the cached SOL/USD rate.
type PriceQuote struct {
	NativeToFiat float64   `json:"rate"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// AirdropRequest represents request for POST /wallet/airdrop
type AirdropRequest struct {
	Amount float64 `json:"amount" validate:"omitempty,gt=0,lte=5"`
}

// AirdropResponse represents response for POST /wallet/airdrop
type AirdropResponse struct {
	Signature string  `json:"signature"`
	Amount    float64 `json:"amount"`
}

// PriceResponse represents response for GET /price
type PriceResponse struct {
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetchedAt"`
	Live      bool      `json:"live"`
	USD       float64   `json:"usd,omitempty"`
	SOL       float64   `json:"sol,omitempty"`
}

// ExplorerResponse represents response for GET /explorer/{signature}
type ExplorerResponse struct {
	Signature string `json:"signature"`
	URL       string `json:"url"`
}

// MerchantResponse represents response for GET /merchant
type MerchantResponse struct {
	Address string `json:"address"`
	Short   string `json:"short"`
}
