package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusInactive = "inactive"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
)

// Seller represents a seller account with its subscription state
type Seller struct {
	ID                   string
	Email                string
	BusinessName         string
	OwnerName            string
	Phone                string
	Location             string
	BusinessType         string
	SubscriptionTier     string // basic, silver, gold (managed plans)
	SubscriptionStatus   string // active, inactive, canceled, past_due
	StripeCustomerID     string
	StripeSubscriptionID string
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	Verified             bool
	Rating               float64
	ReviewCount          int
	SalesCount           int
	PassHash             []byte
	CreatedAt            time.Time
}
