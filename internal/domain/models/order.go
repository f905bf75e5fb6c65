package models

import "time"

// OrderItem is a purchased line item
type OrderItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	SellerID   string  `json:"seller_id"`
	SellerName string  `json:"seller_name"`
	ImageURL   string  `json:"image_url,omitempty"`
	PartNumber string  `json:"part_number,omitempty"`
	OEMNumber  string  `json:"oem_number,omitempty"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CustomerInfo struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone,omitempty"`
	BillingAddress  Address `json:"billingAddress"`
	ShippingAddress Address `json:"shippingAddress"`
}

// Order statuses; cancellation is only allowed from pending or confirmed.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order represents a checkout submission
type Order struct {
	ID                string       `json:"id"`
	CustomerInfo      CustomerInfo `json:"customer_info"`
	Items             []OrderItem  `json:"items"`
	Subtotal          float64      `json:"subtotal"`
	Tax               float64      `json:"tax"`
	Shipping          float64      `json:"shipping"`
	Total             float64      `json:"total"`
	Status            string       `json:"status"`
	PaymentStatus     string       `json:"payment_status"`
	PaymentIntentID   string       `json:"payment_intent_id,omitempty"`
	TrackingNumber    string       `json:"tracking_number,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	EstimatedDelivery *time.Time   `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// OrderFilter collects the order listing predicates
type OrderFilter struct {
	CustomerEmail string
	SellerID      string
	Status        string
}
