package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestTotalJMD_CoalescesFieldSpellings(t *testing.T) {
	items := []service.IntentItem{
		{PriceJMD: floatPtr(1000), Qty: intPtr(2)},
		{Price: floatPtr(500), Quantity: intPtr(3)},
		{Price: floatPtr(250)}, // quantity defaults to 1
	}

	assert.Equal(t, 3750.0, service.TotalJMD(items))
}

func TestCreateIntent_MockMode(t *testing.T) {
	svc := service.NewPaymentService(testLogger(), "")

	result, err := svc.CreateIntent(context.Background(), []service.IntentItem{
		{PriceJMD: floatPtr(149.99), Qty: intPtr(1)},
	})

	assert.NoError(t, err)
	assert.Equal(t, "mock_client_secret", result.ClientSecret)
	assert.Equal(t, int64(14999), result.Amount, "amount is in cents")
	assert.Equal(t, "jmd", result.Currency)
	assert.True(t, result.Mock)
}

func TestCreateIntent_NoItems(t *testing.T) {
	svc := service.NewPaymentService(testLogger(), "")

	_, err := svc.CreateIntent(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrNoItems)
}

func TestPricePayment_SubscriptionPlans(t *testing.T) {
	svc := service.NewPaymentService(testLogger(), "")

	priced, err := svc.PricePayment(service.PricedPaymentInput{
		Type: "subscription", Plan: "professional", Email: "seller@shop.jm",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2500, priced.Amount)
	assert.Equal(t, "PartsFinda Professional Subscription", priced.Description)

	free, err := svc.PricePayment(service.PricedPaymentInput{
		Type: "subscription", Plan: "basic", Email: "seller@shop.jm",
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, free.Amount, "basic plan is free")

	_, err = svc.PricePayment(service.PricedPaymentInput{
		Type: "subscription", Plan: "ultra", Email: "seller@shop.jm",
	})
	assert.ErrorIs(t, err, service.ErrInvalidSubscriptionPlan)
}

func TestPricePayment_UrgentRequests(t *testing.T) {
	svc := service.NewPaymentService(testLogger(), "")

	priced, err := svc.PricePayment(service.PricedPaymentInput{
		Type: "urgent_request", Priority: "premium", Email: "buyer@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1500, priced.Amount)
	assert.Equal(t, "PartsFinda Premium Part Request", priced.Description)

	_, err = svc.PricePayment(service.PricedPaymentInput{
		Type: "urgent_request", Priority: "asap", Email: "buyer@example.com",
	})
	assert.ErrorIs(t, err, service.ErrInvalidPriority)
}

func TestPricePayment_Validation(t *testing.T) {
	svc := service.NewPaymentService(testLogger(), "")

	_, err := svc.PricePayment(service.PricedPaymentInput{Type: "subscription"})
	assert.ErrorIs(t, err, service.ErrMissingPaymentFields)

	_, err = svc.PricePayment(service.PricedPaymentInput{Type: "donation", Email: "x@y.com"})
	assert.ErrorIs(t, err, service.ErrInvalidPaymentType)
}

func TestCreateMockIntent_Shape(t *testing.T) {
	svc := service.NewPaymentService(testLogger(), "")

	input := service.PricedPaymentInput{
		Type: "subscription", Plan: "professional", Email: "seller@shop.jm",
	}
	priced, err := svc.PricePayment(input)
	assert.NoError(t, err)

	intent := svc.CreateMockIntent(input, priced)

	assert.True(t, strings.HasPrefix(intent.ID, "pi_"))
	assert.Equal(t, 250000, intent.Amount, "cents")
	assert.Equal(t, "jmd", intent.Currency)
	assert.Equal(t, "requires_payment_method", intent.Status)
	assert.Contains(t, intent.ClientSecret, "_secret_")
	assert.Equal(t, "seller@shop.jm", intent.Metadata["email"])
}

func TestPayPalLifecycle(t *testing.T) {
	svc := service.NewPaymentService(testLogger(), "")

	input := service.PricedPaymentInput{
		Type: "subscription", Plan: "professional", Email: "seller@shop.jm",
	}
	priced, err := svc.PricePayment(input)
	assert.NoError(t, err)

	order := svc.CreatePayPalOrder(input, priced)
	assert.True(t, strings.HasPrefix(order.ID, "PAYPAL_"))
	assert.Equal(t, "CREATED", order.Status)
	assert.Equal(t, "JMD", order.PurchaseUnits[0].Amount.CurrencyCode)
	assert.Equal(t, "2500.00", order.PurchaseUnits[0].Amount.Value)

	var approveURL string
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
		}
	}
	assert.Contains(t, approveURL, "sandbox.paypal.com")

	capture := svc.CapturePayPalOrder(order.ID, "PAYER123")
	assert.Equal(t, "COMPLETED", capture.Status)
	assert.Equal(t, "PAYER123", capture.Payer.PayerID)

	fetched := svc.GetPayPalOrder(order.ID)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Equal(t, "APPROVED", fetched.Status)
}
