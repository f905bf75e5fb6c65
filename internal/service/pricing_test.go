package service_test

import (
	"testing"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOrderTotals_BelowFreeShipping(t *testing.T) {
	items := []models.OrderItem{
		{ID: "1", Name: "Brake Pads", Price: 89.99, Quantity: 1},
	}

	totals := service.CalculateOrderTotals(items)

	assert.Equal(t, 89.99, totals.Subtotal)
	assert.Equal(t, 7.20, totals.Tax, "8% of 89.99 rounds to 7.20")
	assert.Equal(t, 9.99, totals.Shipping)
	assert.Equal(t, 107.18, totals.Total)
}

func TestCalculateOrderTotals_FreeShippingOverThreshold(t *testing.T) {
	items := []models.OrderItem{
		{ID: "1", Name: "Headlight", Price: 60.00, Quantity: 2},
	}

	totals := service.CalculateOrderTotals(items)

	assert.Equal(t, 120.00, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Shipping, "subtotal over 100 ships free")
	assert.Equal(t, 129.60, totals.Total)
}

func TestCalculateOrderTotals_ThresholdIsExclusive(t *testing.T) {
	items := []models.OrderItem{
		{ID: "1", Name: "Filter", Price: 100.00, Quantity: 1},
	}

	totals := service.CalculateOrderTotals(items)

	assert.Equal(t, 9.99, totals.Shipping, "exactly 100 still pays shipping")
}

func TestCalculateOrderTotals_EmptyItems(t *testing.T) {
	totals := service.CalculateOrderTotals(nil)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Tax)
	assert.Equal(t, 9.99, totals.Shipping)
	assert.Equal(t, 9.99, totals.Total)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.2, service.Round2(7.1992))
	assert.Equal(t, 0.1, service.Round2(0.10000000001))
	assert.Equal(t, 107.18, service.Round2(107.1792))
}
