package models

import "time"

// Part request statuses
const (
	RequestStatusActive     = "active"
	RequestStatusInProgress = "in_progress"
	RequestStatusFulfilled  = "fulfilled"
	RequestStatusExpired    = "expired"
)

// PartRequest represents a buyer's "find me this part" submission
type PartRequest struct {
	ID                     string     `json:"id"`
	PartName               string     `json:"partName"`
	PartNumber             string     `json:"partNumber,omitempty"`
	VehicleMake            string     `json:"vehicleMake"`
	VehicleModel           string     `json:"vehicleModel"`
	VehicleYear            int        `json:"vehicleYear"`
	VehicleTrim            string     `json:"vehicleTrim,omitempty"`
	OEMNumber              string     `json:"oem_number,omitempty"`
	Condition              string     `json:"condition"` // new, used, refurbished, any
	Description            string     `json:"description"`
	Budget                 *float64   `json:"budget,omitempty"`
	Urgency                string     `json:"urgency"` // low, medium, high
	BuyerName              string     `json:"buyerName"`
	BuyerEmail             string     `json:"buyerEmail"`
	BuyerPhone             string     `json:"buyerPhone,omitempty"`
	Location               string     `json:"location,omitempty"`
	PreferredContactMethod string     `json:"preferredContactMethod"` // email, phone, both
	Status                 string     `json:"status"`
	ResponsesCount         int        `json:"responses_count"`
	ExpiresAt              time.Time  `json:"expires_at"`
	Deadline               *time.Time `json:"deadline,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// PartRequestFilter collects the request board predicates
type PartRequestFilter struct {
	Status       string
	VehicleMake  string
	VehicleModel string
	Urgency      string
}
