package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/partsfinda/partsfinda-api/internal/service"
)

type SubscriptionActionRequest struct {
	Action      string `json:"action"`
	SellerID    string `json:"sellerId"`
	SellerEmail string `json:"sellerEmail"`
	SellerName  string `json:"sellerName"`
	PlanID      string `json:"planId"`
	NewPlanID   string `json:"newPlanId"`
}

type SubscriptionWebhookRequest struct {
	Type  string `json:"type"`
	Event struct {
		Type           string `json:"eventType"`
		SellerID       string `json:"sellerId"`
		PlanID         string `json:"planId"`
		SubscriptionID string `json:"subscriptionId"`
	} `json:"event"`
}

// GetSubscriptionsHandler handles GET /api/subscriptions, dispatching on
// the action query parameter: plans or current.
func GetSubscriptionsHandler(log *slog.Logger, subscriptionService service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetSubscriptionsHandler"
		logger := log.With(slog.String("op", op))

		action := r.URL.Query().Get("action")
		switch action {
		case "current":
			sellerID := r.URL.Query().Get("sellerId")
			if sellerID == "" {
				writeError(w, logger, http.StatusBadRequest, "Seller ID is required")
				return
			}
			sub, err := subscriptionService.CurrentSubscription(r.Context(), sellerID)
			if err != nil {
				if errors.Is(err, service.ErrSellerNotFound) {
					writeError(w, logger, http.StatusNotFound, "Seller not found")
					return
				}
				logger.Error("failed to load subscription", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to load subscription")
				return
			}
			writeJSON(w, logger, http.StatusOK, map[string]any{
				"success":      true,
				"subscription": subscriptionPayload(sub),
			})
		default:
			writeJSON(w, logger, http.StatusOK, map[string]any{
				"success": true,
				"plans":   subscriptionService.Plans(),
			})
		}
	}
}

// PostSubscriptionsHandler handles POST /api/subscriptions for
// create-checkout-session and update-plan actions.
func PostSubscriptionsHandler(log *slog.Logger, subscriptionService service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PostSubscriptionsHandler"
		logger := log.With(slog.String("op", op))

		var req SubscriptionActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields: sellerId, sellerEmail, sellerName")
			return
		}
		if req.SellerID == "" || req.SellerEmail == "" || req.SellerName == "" {
			writeError(w, logger, http.StatusBadRequest, "Missing required fields: sellerId, sellerEmail, sellerName")
			return
		}

		switch req.Action {
		case "create-checkout-session":
			session, err := subscriptionService.CreateCheckoutSession(r.Context(), req.SellerID, req.PlanID)
			if err != nil {
				if errors.Is(err, service.ErrInvalidPlan) {
					writeError(w, logger, http.StatusBadRequest, "Invalid plan ID")
					return
				}
				logger.Error("failed to create checkout session", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to create checkout session")
				return
			}
			writeJSON(w, logger, http.StatusOK, map[string]any{
				"success":   true,
				"sessionId": session.SessionID,
				"url":       session.URL,
			})
		case "update-plan":
			seller, err := subscriptionService.UpdatePlan(r.Context(), req.SellerID, req.NewPlanID)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrInvalidPlan):
					writeError(w, logger, http.StatusBadRequest, "Invalid new plan ID")
				case errors.Is(err, service.ErrSellerNotFound):
					writeError(w, logger, http.StatusNotFound, "Seller not found")
				default:
					logger.Error("failed to update plan", slog.Any("error", err))
					writeError(w, logger, http.StatusInternalServerError, "Failed to update subscription")
				}
				return
			}
			writeJSON(w, logger, http.StatusOK, map[string]any{
				"success": true,
				"message": "Subscription updated successfully",
				"subscription": map[string]any{
					"tier":   seller.SubscriptionTier,
					"status": seller.SubscriptionStatus,
				},
			})
		default:
			writeError(w, logger, http.StatusBadRequest, "Invalid action")
		}
	}
}

// CancelSubscriptionHandler handles DELETE /api/subscriptions?sellerId=.
func CancelSubscriptionHandler(log *slog.Logger, subscriptionService service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CancelSubscriptionHandler"
		logger := log.With(slog.String("op", op))

		sellerID := r.URL.Query().Get("sellerId")
		if sellerID == "" {
			writeError(w, logger, http.StatusBadRequest, "Seller ID is required")
			return
		}

		message, err := subscriptionService.CancelSubscription(r.Context(), sellerID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSellerNotFound):
				writeError(w, logger, http.StatusNotFound, "Seller not found")
			case errors.Is(err, service.ErrNoActiveSubscription):
				writeError(w, logger, http.StatusBadRequest, "No active subscription to cancel")
			default:
				logger.Error("failed to cancel subscription", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to cancel subscription")
			}
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"success": true, "message": message})
	}
}

// SubscriptionWebhookHandler handles PUT /api/subscriptions for provider
// webhook events relayed by the payment processor.
func SubscriptionWebhookHandler(log *slog.Logger, subscriptionService service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubscriptionWebhookHandler"
		logger := log.With(slog.String("op", op))

		var req SubscriptionWebhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Invalid webhook type")
			return
		}
		if req.Type != "webhook" {
			writeError(w, logger, http.StatusBadRequest, "Invalid webhook type")
			return
		}

		err := subscriptionService.HandleWebhookEvent(r.Context(), service.WebhookEvent{
			Type:           req.Event.Type,
			SellerID:       req.Event.SellerID,
			PlanID:         req.Event.PlanID,
			SubscriptionID: req.Event.SubscriptionID,
		})
		if err != nil {
			logger.Error("failed to process webhook event", slog.Any("error", err))
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"received": true})
	}
}

func subscriptionPayload(sub *service.SellerSubscription) map[string]any {
	return map[string]any{
		"sellerId":      sub.Seller.ID,
		"businessName":  sub.Seller.BusinessName,
		"tier":          sub.Seller.SubscriptionTier,
		"status":        sub.Seller.SubscriptionStatus,
		"plan":          sub.Plan,
		"isActive":      sub.IsActive,
		"daysRemaining": sub.DaysRemaining,
	}
}
