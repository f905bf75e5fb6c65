package models

// SubscriptionPlan describes a managed seller plan
type SubscriptionPlan struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	Interval         string   `json:"interval"` // month or year
	Features         []string `json:"features"`
	PartRequestLimit int      `json:"partRequestLimit"`
	SupportLevel     string   `json:"supportLevel"`
	StripeProductID  string   `json:"stripeProductId,omitempty"`
	StripePriceID    string   `json:"stripePriceId,omitempty"`
}
