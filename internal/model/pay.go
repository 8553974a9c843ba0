package model

// PayRequest represents request for POST /pay
type PayRequest struct {
	Items     []CartItem `json:"items" validate:"required,min=1,dive"`
	FiatTotal float64    `json:"total" validate:"gt=0"`
}

// PayResponse represents response for POST /pay
type PayResponse struct {
	Transaction TransactionRecord `json:"transaction"`
	ExplorerURL string            `json:"explorerUrl"`
}

// ReconcileRequest represents request for POST /pay/reconcile
type ReconcileRequest struct {
	Signature string `json:"signature" validate:"required"`
}
