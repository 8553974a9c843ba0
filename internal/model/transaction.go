package model

import (
	"time"
)

// TransactionStatus transaction status
type TransactionStatus string

const (
	TransactionStatusConfirmed TransactionStatus = "confirmed"
)

// TransactionRecord is a confirmed payment kept in the local ledger.
type TransactionRecord struct {
	Signature    string            `json:"signature"`
	NativeAmount float64           `json:"amount"`    // SOL actually transferred
	Lamports     uint64            `json:"lamports"`  // same amount in lamports
	FiatAmount   float64           `json:"amountUSD"` // cart total charged
	Items        []CartItem        `json:"domains"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	Timestamp    time.Time         `json:"timestamp"`
	Status       TransactionStatus `json:"status"`
	WalletType   string            `json:"walletType,omitempty"`
}

// TransferIntent is built fresh for every payment attempt and never persisted.
type TransferIntent struct {
	From         WalletSession
	To           string
	NativeAmount float64
	Lamports     uint64
	Items        []CartItem
}

// PendingPayment is a submitted payment whose confirmation was not observed in time.
// It never enters the ledger until reconciled as confirmed.
type PendingPayment struct {
	Signature   string     `json:"signature"`
	Lamports    uint64     `json:"lamports"`
	FiatAmount  float64    `json:"amountUSD"`
	Items       []CartItem `json:"domains"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	SubmittedAt time.Time  `json:"submittedAt"`
	WalletType  string     `json:"walletType,omitempty"`
}

// LedgerSummary aggregates the ledger for the purchase history view.
type LedgerSummary struct {
	Transactions int     `json:"transactions"`
	Domains      int     `json:"domains"`
	TotalUSD     float64 `json:"totalUSD"`
	TotalSOL     float64 `json:"totalSOL"`
}

// HistoryResponse represents response for GET /history
type HistoryResponse struct {
	Summary      LedgerSummary       `json:"summary"`
	Transactions []TransactionRecord `json:"transactions"`
}
