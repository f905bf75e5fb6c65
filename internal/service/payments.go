package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

var (
	ErrNoItems                 = errors.New("no items")
	ErrMissingPaymentFields    = errors.New("missing required fields")
	ErrInvalidPaymentType      = errors.New("invalid payment type")
	ErrInvalidSubscriptionPlan = errors.New("invalid subscription plan")
	ErrInvalidPriority         = errors.New("invalid priority level")
)

// Pricing in JMD for the simulated provider routes.
var (
	subscriptionPrices = map[string]int{
		"basic":        0,
		"professional": 2500,
		"enterprise":   5000,
	}
	urgentRequestPrices = map[string]int{
		"standard": 0,
		"urgent":   500,
		"premium":  1500,
	}
)

// IntentItem tolerates both field spellings the storefront sends.
type IntentItem struct {
	PriceJMD *float64 `json:"priceJmd,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Qty      *int     `json:"qty,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
}

type PaymentIntentResult struct {
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Mock         bool   `json:"mock,omitempty"`
}

// MockPaymentIntent mirrors the Stripe payment intent shape for the
// simulated provider route.
type MockPaymentIntent struct {
	ID           string         `json:"id"`
	Amount       int            `json:"amount"`
	Currency     string         `json:"currency"`
	Status       string         `json:"status"`
	ClientSecret string         `json:"client_secret"`
	Metadata     map[string]any `json:"metadata"`
}

type PricedPaymentInput struct {
	Type     string
	Plan     string
	Priority string
	Email    string
	Metadata map[string]any
}

type PricedPayment struct {
	Amount      int
	Description string
}

type PayPalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PayPalPurchaseUnit struct {
	Amount      PayPalAmount `json:"amount"`
	Description string       `json:"description,omitempty"`
}

type PayPalLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type PayPalOrder struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	PurchaseUnits []PayPalPurchaseUnit `json:"purchase_units"`
	Links         []PayPalLink         `json:"links,omitempty"`
}

type PayPalPayer struct {
	PayerID      string `json:"payer_id,omitempty"`
	EmailAddress string `json:"email_address"`
}

type PayPalCapture struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Payer         PayPalPayer    `json:"payer"`
	PurchaseUnits []PayPalUnitWithPayments `json:"purchase_units"`
}

type PayPalUnitWithPayments struct {
	Payments struct {
		Captures []PayPalCaptureEntry `json:"captures"`
	} `json:"payments"`
}

type PayPalCaptureEntry struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Amount PayPalAmount `json:"amount"`
}

type PaymentService interface {
	CreateIntent(ctx context.Context, items []IntentItem) (*PaymentIntentResult, error)
	PricePayment(input PricedPaymentInput) (*PricedPayment, error)
	CreateMockIntent(input PricedPaymentInput, priced *PricedPayment) *MockPaymentIntent
	CreatePayPalOrder(input PricedPaymentInput, priced *PricedPayment) *PayPalOrder
	CapturePayPalOrder(orderID, payerID string) *PayPalCapture
	GetPayPalOrder(orderID string) *PayPalOrder
}

type paymentService struct {
	log       *slog.Logger
	stripeKey string
}

// NewPaymentService talks to Stripe when a secret key is configured and
// otherwise fabricates provider-shaped responses locally.
func NewPaymentService(log *slog.Logger, stripeKey string) PaymentService {
	if stripeKey != "" {
		stripe.Key = stripeKey
	}
	return &paymentService{log: log, stripeKey: stripeKey}
}

// TotalJMD sums unit price times quantity, coalescing the alternate
// field names and defaulting quantity to 1.
func TotalJMD(items []IntentItem) float64 {
	total := 0.0
	for _, it := range items {
		unit := 0.0
		if it.PriceJMD != nil {
			unit = *it.PriceJMD
		} else if it.Price != nil {
			unit = *it.Price
		}
		qty := 1
		if it.Qty != nil {
			qty = *it.Qty
		} else if it.Quantity != nil {
			qty = *it.Quantity
		}
		total += unit * float64(qty)
	}
	return total
}

func (s *paymentService) CreateIntent(ctx context.Context, items []IntentItem) (*PaymentIntentResult, error) {
	const op = "service.PaymentService.CreateIntent"
	logger := s.log.With(slog.String("op", op))

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	amount := int64(math.Round(TotalJMD(items) * 100))

	if s.stripeKey == "" {
		logger.Info("mock payment intent", slog.Int64("amount", amount))
		return &PaymentIntentResult{
			ClientSecret: "mock_client_secret",
			Amount:       amount,
			Currency:     "jmd",
			Mock:         true,
		}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String("jmd"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("currency", "JMD")

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("payment intent created", slog.String("intentID", pi.ID), slog.Int64("amount", amount))
	return &PaymentIntentResult{ClientSecret: pi.ClientSecret, Amount: amount, Currency: "jmd"}, nil
}

func (s *paymentService) PricePayment(input PricedPaymentInput) (*PricedPayment, error) {
	if input.Type == "" || input.Email == "" {
		return nil, ErrMissingPaymentFields
	}

	switch input.Type {
	case "subscription":
		amount, ok := subscriptionPrices[input.Plan]
		if !ok {
			return nil, ErrInvalidSubscriptionPlan
		}
		return &PricedPayment{
			Amount:      amount,
			Description: fmt.Sprintf("PartsFinda %s Subscription", titleCase(input.Plan)),
		}, nil
	case "urgent_request":
		amount, ok := urgentRequestPrices[input.Priority]
		if !ok {
			return nil, ErrInvalidPriority
		}
		return &PricedPayment{
			Amount:      amount,
			Description: fmt.Sprintf("PartsFinda %s Part Request", titleCase(input.Priority)),
		}, nil
	default:
		return nil, ErrInvalidPaymentType
	}
}

func (s *paymentService) CreateMockIntent(input PricedPaymentInput, priced *PricedPayment) *MockPaymentIntent {
	metadata := map[string]any{
		"email":    input.Email,
		"type":     input.Type,
		"plan":     orNil(input.Plan),
		"priority": orNil(input.Priority),
	}
	for k, v := range input.Metadata {
		metadata[k] = v
	}

	id := "pi_" + shortID()
	intent := &MockPaymentIntent{
		ID:           id,
		Amount:       priced.Amount * 100,
		Currency:     "jmd",
		Status:       "requires_payment_method",
		ClientSecret: id + "_secret_" + shortID(),
		Metadata:     metadata,
	}

	s.log.Info("payment intent created",
		slog.String("intentID", intent.ID),
		slog.Int("amount", priced.Amount),
		slog.String("description", priced.Description),
	)
	return intent
}

func (s *paymentService) CreatePayPalOrder(input PricedPaymentInput, priced *PricedPayment) *PayPalOrder {
	orderID := "PAYPAL_" + strings.ToUpper(shortID())

	order := &PayPalOrder{
		ID:     orderID,
		Status: "CREATED",
		PurchaseUnits: []PayPalPurchaseUnit{
			{
				Amount: PayPalAmount{
					CurrencyCode: "JMD",
					Value:        fmt.Sprintf("%.2f", float64(priced.Amount)),
				},
				Description: priced.Description,
			},
		},
		Links: []PayPalLink{
			{Href: "https://www.sandbox.paypal.com/checkoutnow?token=" + orderID, Rel: "approve", Method: "GET"},
			{Href: "/api/payments/paypal/" + orderID, Rel: "self", Method: "GET"},
			{Href: "/api/payments/paypal/" + orderID + "/capture", Rel: "capture", Method: "POST"},
		},
	}

	s.log.Info("paypal order created",
		slog.String("orderID", orderID),
		slog.Int("amount", priced.Amount),
	)
	return order
}

func (s *paymentService) CapturePayPalOrder(orderID, payerID string) *PayPalCapture {
	capture := &PayPalCapture{
		ID:     orderID,
		Status: "COMPLETED",
		Payer: PayPalPayer{
			PayerID:      payerID,
			EmailAddress: "buyer@example.com",
		},
	}
	var unit PayPalUnitWithPayments
	unit.Payments.Captures = []PayPalCaptureEntry{
		{
			ID:     "CAPTURE_" + strings.ToUpper(shortID()),
			Status: "COMPLETED",
			Amount: PayPalAmount{CurrencyCode: "JMD", Value: "2500.00"},
		},
	}
	capture.PurchaseUnits = []PayPalUnitWithPayments{unit}

	s.log.Info("paypal payment captured", slog.String("orderID", orderID))
	return capture
}

func (s *paymentService) GetPayPalOrder(orderID string) *PayPalOrder {
	return &PayPalOrder{
		ID:     orderID,
		Status: "APPROVED",
		PurchaseUnits: []PayPalPurchaseUnit{
			{
				Amount:      PayPalAmount{CurrencyCode: "JMD", Value: "2500.00"},
				Description: "PartsFinda Professional Subscription",
			},
		},
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
