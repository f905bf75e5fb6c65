package service

import (
	"math"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
)

// Canonical checkout constants. The hosted demo drifted between 8% and
// 8.75% tax and between $9.99 and $15.99 shipping across copy-pasted
// handlers; the orders-route values are the ones kept.
const (
	DefaultTaxRate        = 0.08
	DefaultShippingCost   = 9.99
	FreeShippingThreshold = 100.0
)

// OrderTotals holds the derived money fields of an order, each
// independently rounded to two decimals.
type OrderTotals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// Round2 rounds a monetary amount to two decimals via round(x*100)/100,
// matching the wire contract of every money field in the API.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// CalculateOrderTotals computes subtotal, tax, shipping and total for a
// list of line items. Shipping is free once the subtotal exceeds the
// threshold. Quantities are taken as-is; rejecting bad quantities is the
// request-parsing layer's job.
func CalculateOrderTotals(items []models.OrderItem) OrderTotals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	shipping := DefaultShippingCost
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * DefaultTaxRate

	return OrderTotals{
		Subtotal: Round2(subtotal),
		Tax:      Round2(tax),
		Shipping: Round2(shipping),
		Total:    Round2(subtotal + tax + shipping),
	}
}
