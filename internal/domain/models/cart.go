package models

// CartItem is a catalog part placed in a shopping cart
type CartItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	SellerID   string  `json:"seller_id,omitempty"`
	SellerName string  `json:"seller_name,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
}
