package model

// CartItem is a domain selected for purchase. Supplied by the cart layer, never mutated here.
type CartItem struct {
	ID        string  `json:"id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	PriceUSD  float64 `json:"price" validate:"gte=0"`
	Extension string  `json:"extension,omitempty"`
	Category  string  `json:"category,omitempty"`
}
