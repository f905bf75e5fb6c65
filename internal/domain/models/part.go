package models

import "time"

// Part represents a catalog listing
type Part struct {
	ID          string    `json:"id"`
	SellerEmail string    `json:"seller,omitempty"`
	Name        string    `json:"name"`
	PartNumber  string    `json:"partNumber,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Condition   string    `json:"condition"` // new, used, refurbished
	Make        string    `json:"make,omitempty"`
	Model       string    `json:"model,omitempty"`
	Year        string    `json:"year,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Warranty    string    `json:"warranty,omitempty"`
	Shipping    string    `json:"shipping,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PartFilter collects the catalog search predicates; zero values and
// the literal "all" mean "no restriction".
type PartFilter struct {
	Category  string
	Condition string
	Brand     string
	Make      string
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	Limit     int
}
