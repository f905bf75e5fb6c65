package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/partsfinda/partsfinda-api/internal/service"
)

type CreateIntentRequest struct {
	Items []service.IntentItem `json:"items"`
}

type ProviderPaymentRequest struct {
	Type      string         `json:"type"`
	Plan      string         `json:"plan"`
	Priority  string         `json:"priority"`
	Email     string         `json:"email"`
	ReturnURL string         `json:"returnUrl"`
	CancelURL string         `json:"cancelUrl"`
	Metadata  map[string]any `json:"metadata"`
}

type StripeWebhookRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type PayPalCaptureRequest struct {
	OrderID string `json:"orderId"`
	PayerID string `json:"payerId"`
}

// CreateIntentHandler handles POST /api/payments/create-intent.
func CreateIntentHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateIntentHandler"
		logger := log.With(slog.String("op", op))

		var req CreateIntentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "No items")
			return
		}

		result, err := paymentService.CreateIntent(r.Context(), req.Items)
		if err != nil {
			if errors.Is(err, service.ErrNoItems) {
				writeError(w, logger, http.StatusBadRequest, "No items")
				return
			}
			logger.Error("failed to create payment intent", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, logger, http.StatusOK, result)
	}
}

// StripePaymentHandler handles POST /api/payments/stripe, the simulated
// provider flow for subscription and urgent-request charges.
func StripePaymentHandler(log *slog.Logger, paymentService service.PaymentService, publishableKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.StripePaymentHandler"
		logger := log.With(slog.String("op", op))

		var req ProviderPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			return
		}

		priced, err := paymentService.PricePayment(service.PricedPaymentInput{
			Type:     req.Type,
			Plan:     req.Plan,
			Priority: req.Priority,
			Email:    req.Email,
			Metadata: req.Metadata,
		})
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, paymentErrorMessage(err))
			return
		}

		if priced.Amount == 0 {
			writeJSON(w, logger, http.StatusOK, map[string]any{
				"success":       true,
				"paymentIntent": nil,
				"message":       "No payment required for this selection",
			})
			return
		}

		intent := paymentService.CreateMockIntent(service.PricedPaymentInput{
			Type:     req.Type,
			Plan:     req.Plan,
			Priority: req.Priority,
			Email:    req.Email,
			Metadata: req.Metadata,
		}, priced)

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":        true,
			"paymentIntent":  intent,
			"amount":         priced.Amount,
			"description":    priced.Description,
			"publishableKey": publishableKey,
		})
	}
}

// StripeWebhookHandler handles PUT /api/payments/stripe; events are
// acknowledged and logged, fulfillment happens elsewhere.
func StripeWebhookHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.StripeWebhookHandler"
		logger := log.With(slog.String("op", op))

		var req StripeWebhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		switch req.Type {
		case "payment_intent.succeeded":
			logger.Info("payment succeeded")
		case "payment_intent.payment_failed":
			logger.Info("payment failed")
		case "customer.subscription.created", "customer.subscription.updated":
			logger.Info("subscription event", slog.String("eventType", req.Type))
		default:
			logger.Info("unhandled stripe event", slog.String("eventType", req.Type))
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"received": true})
	}
}

// PayPalCreateHandler handles POST /api/payments/paypal.
func PayPalCreateHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PayPalCreateHandler"
		logger := log.With(slog.String("op", op))

		var req ProviderPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			return
		}

		priced, err := paymentService.PricePayment(service.PricedPaymentInput{
			Type:     req.Type,
			Plan:     req.Plan,
			Priority: req.Priority,
			Email:    req.Email,
			Metadata: req.Metadata,
		})
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, paymentErrorMessage(err))
			return
		}

		if priced.Amount == 0 {
			writeJSON(w, logger, http.StatusOK, map[string]any{
				"success": true,
				"order":   nil,
				"message": "No payment required for this selection",
			})
			return
		}

		order := paymentService.CreatePayPalOrder(service.PricedPaymentInput{
			Type:     req.Type,
			Plan:     req.Plan,
			Priority: req.Priority,
			Email:    req.Email,
		}, priced)

		approvalURL := ""
		for _, link := range order.Links {
			if link.Rel == "approve" {
				approvalURL = link.Href
				break
			}
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":     true,
			"order":       order,
			"amount":      priced.Amount,
			"description": priced.Description,
			"approvalUrl": approvalURL,
		})
	}
}

// PayPalCaptureHandler handles PUT /api/payments/paypal.
func PayPalCaptureHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PayPalCaptureHandler"
		logger := log.With(slog.String("op", op))

		var req PayPalCaptureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing order ID or payer ID")
			return
		}
		if req.OrderID == "" || req.PayerID == "" {
			writeError(w, logger, http.StatusBadRequest, "Missing order ID or payer ID")
			return
		}

		capture := paymentService.CapturePayPalOrder(req.OrderID, req.PayerID)
		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"capture": capture,
			"message": "Payment successfully captured",
		})
	}
}

// PayPalGetHandler handles GET /api/payments/paypal?orderId=.
func PayPalGetHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PayPalGetHandler"
		logger := log.With(slog.String("op", op))

		orderID := r.URL.Query().Get("orderId")
		if orderID == "" {
			writeError(w, logger, http.StatusBadRequest, "Missing order ID")
			return
		}

		order := paymentService.GetPayPalOrder(orderID)
		writeJSON(w, logger, http.StatusOK, map[string]any{"success": true, "order": order})
	}
}

func paymentErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingPaymentFields):
		return "Missing required fields"
	case errors.Is(err, service.ErrInvalidSubscriptionPlan):
		return "Invalid subscription plan"
	case errors.Is(err, service.ErrInvalidPriority):
		return "Invalid priority level"
	case errors.Is(err, service.ErrInvalidPaymentType):
		return "Invalid payment type"
	}
	return "Payment error"
}
