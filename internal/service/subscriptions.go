package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/customer"
	"github.com/stripe/stripe-go/v78/subscription"
)

var (
	ErrSellerNotFound       = errors.New("seller not found")
	ErrInvalidPlan          = errors.New("invalid plan ID")
	ErrNoActiveSubscription = errors.New("no active subscription found")
)

// Plans are ordered basic, silver, gold for listing.
var subscriptionPlanOrder = []string{"basic", "silver", "gold"}

var subscriptionPlans = map[string]models.SubscriptionPlan{
	"basic": {
		ID:       "basic",
		Name:     "Basic Plan",
		Price:    29.99,
		Interval: "month",
		Features: []string{
			"Up to 10 part request notifications per day",
			"Basic search visibility",
			"Email support",
			"Access to buyer contact information",
			"Basic analytics dashboard",
		},
		PartRequestLimit: 10,
		SupportLevel:     "Email",
		StripeProductID:  "prod_basic",
		StripePriceID:    "price_basic_monthly",
	},
	"silver": {
		ID:       "silver",
		Name:     "Silver Plan",
		Price:    79.99,
		Interval: "month",
		Features: []string{
			"Up to 25 part request notifications per day",
			"Enhanced search visibility",
			"Priority email support",
			"Advanced analytics dashboard",
			"Custom business profile",
			"Bulk part upload tools",
			"Customer review management",
		},
		PartRequestLimit: 25,
		SupportLevel:     "Priority Email",
		StripeProductID:  "prod_silver",
		StripePriceID:    "price_silver_monthly",
	},
	"gold": {
		ID:       "gold",
		Name:     "Gold Plan",
		Price:    149.99,
		Interval: "month",
		Features: []string{
			"Up to 50 part request notifications per day",
			"Maximum search visibility",
			"Phone & email support",
			"Advanced analytics & reporting",
			"Featured seller badge",
			"API access for inventory management",
			"Custom branding options",
			"Dedicated account manager",
			"Early access to new features",
		},
		PartRequestLimit: 50,
		SupportLevel:     "Phone & Email",
		StripeProductID:  "prod_gold",
		StripePriceID:    "price_gold_monthly",
	},
}

// SellerSubscription is the seller's state joined with the plan details.
type SellerSubscription struct {
	Seller        *models.Seller
	Plan          models.SubscriptionPlan
	IsActive      bool
	DaysRemaining int
}

type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type WebhookEvent struct {
	Type           string
	SellerID       string
	PlanID         string
	SubscriptionID string
}

type SubscriptionService interface {
	Plans() []models.SubscriptionPlan
	CurrentSubscription(ctx context.Context, sellerID string) (*SellerSubscription, error)
	CreateCheckoutSession(ctx context.Context, sellerID, planID string) (*CheckoutSession, error)
	UpdatePlan(ctx context.Context, sellerID, newPlanID string) (*models.Seller, error)
	CancelSubscription(ctx context.Context, sellerID string) (message string, err error)
	HandleWebhookEvent(ctx context.Context, event WebhookEvent) error
}

type subscriptionService struct {
	log        *slog.Logger
	sellerRepo storage.SellerStorage
	siteURL    string
	stripeKey  string
}

// NewSubscriptionService runs against real Stripe when a secret key is
// configured; with an empty key every Stripe call is simulated locally.
func NewSubscriptionService(log *slog.Logger, sellerRepo storage.SellerStorage, siteURL, stripeKey string) SubscriptionService {
	if stripeKey != "" {
		stripe.Key = stripeKey
	}
	return &subscriptionService{log: log, sellerRepo: sellerRepo, siteURL: siteURL, stripeKey: stripeKey}
}

func (s *subscriptionService) mockMode() bool { return s.stripeKey == "" }

func (s *subscriptionService) Plans() []models.SubscriptionPlan {
	plans := make([]models.SubscriptionPlan, 0, len(subscriptionPlanOrder))
	for _, id := range subscriptionPlanOrder {
		plans = append(plans, subscriptionPlans[id])
	}
	return plans
}

func (s *subscriptionService) CurrentSubscription(ctx context.Context, sellerID string) (*SellerSubscription, error) {
	const op = "service.SubscriptionService.CurrentSubscription"

	seller, err := s.sellerRepo.GetSellerByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plan, ok := subscriptionPlans[seller.SubscriptionTier]
	if !ok {
		plan = subscriptionPlans["basic"]
	}

	daysRemaining := 0
	if seller.CurrentPeriodEnd != nil {
		daysRemaining = int(math.Ceil(time.Until(*seller.CurrentPeriodEnd).Hours() / 24))
		if daysRemaining < 0 {
			daysRemaining = 0
		}
	}

	return &SellerSubscription{
		Seller:        seller,
		Plan:          plan,
		IsActive:      seller.SubscriptionStatus == models.SubscriptionStatusActive,
		DaysRemaining: daysRemaining,
	}, nil
}

func (s *subscriptionService) CreateCheckoutSession(ctx context.Context, sellerID, planID string) (*CheckoutSession, error) {
	const op = "service.SubscriptionService.CreateCheckoutSession"
	logger := s.log.With(slog.String("op", op), slog.String("sellerID", sellerID), slog.String("planID", planID))

	plan, ok := subscriptionPlans[planID]
	if !ok {
		return nil, ErrInvalidPlan
	}

	seller, err := s.sellerRepo.GetSellerByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	customerID, err := s.ensureCustomer(ctx, seller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.mockMode() {
		sessionID := "cs_mock_" + uuid.NewString()
		logger.Info("mock checkout session created", slog.String("sessionID", sessionID))
		return &CheckoutSession{
			SessionID: sessionID,
			URL: fmt.Sprintf("%s/checkout/success?session_id=%s&plan=%s&seller=%s",
				s.siteURL, sessionID, planID, sellerID),
		}, nil
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(plan.StripePriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:               stripe.String(s.siteURL + "/seller/subscription/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:                stripe.String(s.siteURL + "/seller/subscription?canceled=true"),
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String("required"),
	}
	params.AddMetadata("sellerId", sellerID)
	params.AddMetadata("planId", planID)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: create checkout session: %w", op, err)
	}

	logger.Info("checkout session created", slog.String("sessionID", sess.ID))
	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

func (s *subscriptionService) ensureCustomer(ctx context.Context, seller *models.Seller) (string, error) {
	if seller.StripeCustomerID != "" {
		return seller.StripeCustomerID, nil
	}

	var customerID string
	if s.mockMode() {
		customerID = "cus_mock_" + seller.ID
	} else {
		params := &stripe.CustomerParams{
			Email: stripe.String(seller.Email),
			Name:  stripe.String(seller.BusinessName),
		}
		params.AddMetadata("sellerId", seller.ID)
		c, err := customer.New(params)
		if err != nil {
			return "", fmt.Errorf("create customer: %w", err)
		}
		customerID = c.ID
	}

	if err := s.sellerRepo.SetStripeCustomerID(ctx, seller.ID, customerID); err != nil {
		return "", err
	}
	seller.StripeCustomerID = customerID
	return customerID, nil
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, sellerID, newPlanID string) (*models.Seller, error) {
	const op = "service.SubscriptionService.UpdatePlan"
	logger := s.log.With(slog.String("op", op), slog.String("sellerID", sellerID))

	plan, ok := subscriptionPlans[newPlanID]
	if !ok {
		return nil, ErrInvalidPlan
	}

	seller, err := s.sellerRepo.GetSellerByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.mockMode() {
		if seller.StripeSubscriptionID == "" {
			return nil, ErrNoActiveSubscription
		}
		current, err := subscription.Get(seller.StripeSubscriptionID, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: retrieve subscription: %w", op, err)
		}
		_, err = subscription.Update(seller.StripeSubscriptionID, &stripe.SubscriptionParams{
			Items: []*stripe.SubscriptionItemsParams{
				{
					ID:    stripe.String(current.Items.Data[0].ID),
					Price: stripe.String(plan.StripePriceID),
				},
			},
			ProrationBehavior: stripe.String("create_prorations"),
		})
		if err != nil {
			return nil, fmt.Errorf("%s: update subscription: %w", op, err)
		}
	}

	seller.SubscriptionTier = newPlanID
	seller.SubscriptionStatus = models.SubscriptionStatusActive
	if err := s.sellerRepo.UpdateSubscription(ctx, seller); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("subscription updated", slog.String("tier", newPlanID))
	return seller, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, sellerID string) (string, error) {
	const op = "service.SubscriptionService.CancelSubscription"
	logger := s.log.With(slog.String("op", op), slog.String("sellerID", sellerID))

	seller, err := s.sellerRepo.GetSellerByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return "", ErrSellerNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	message := "Subscription canceled successfully"
	if !s.mockMode() {
		if seller.StripeSubscriptionID == "" {
			return "", ErrNoActiveSubscription
		}
		_, err = subscription.Update(seller.StripeSubscriptionID, &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		})
		if err != nil {
			return "", fmt.Errorf("%s: cancel subscription: %w", op, err)
		}
		message = "Subscription will be canceled at the end of the current billing period"
	}

	seller.SubscriptionStatus = models.SubscriptionStatusCanceled
	if err := s.sellerRepo.UpdateSubscription(ctx, seller); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("subscription canceled")
	return message, nil
}

func (s *subscriptionService) HandleWebhookEvent(ctx context.Context, event WebhookEvent) error {
	const op = "service.SubscriptionService.HandleWebhookEvent"
	logger := s.log.With(slog.String("op", op), slog.String("eventType", event.Type))

	switch event.Type {
	case "checkout.session.completed":
		if event.SellerID == "" || event.PlanID == "" {
			return nil
		}
		seller, err := s.sellerRepo.GetSellerByID(ctx, event.SellerID)
		if err != nil {
			if errors.Is(err, storage.ErrSellerNotFound) {
				logger.Warn("webhook for unknown seller", slog.String("sellerID", event.SellerID))
				return nil
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, ok := subscriptionPlans[event.PlanID]; !ok {
			logger.Warn("webhook with unknown plan", slog.String("planID", event.PlanID))
			return nil
		}
		now := time.Now().UTC()
		periodEnd := now.Add(30 * 24 * time.Hour)
		seller.SubscriptionTier = event.PlanID
		seller.SubscriptionStatus = models.SubscriptionStatusActive
		seller.StripeSubscriptionID = event.SubscriptionID
		seller.CurrentPeriodStart = &now
		seller.CurrentPeriodEnd = &periodEnd
		if err := s.sellerRepo.UpdateSubscription(ctx, seller); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	case "customer.subscription.updated", "customer.subscription.deleted", "invoice.payment_failed":
		logger.Info("subscription lifecycle event acknowledged")
	default:
		logger.Info("unhandled webhook event")
	}
	return nil
}
