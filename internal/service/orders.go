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
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrTotalMismatch = errors.New("total amount mismatch")
	ErrNotCancelable = errors.New("order cannot be canceled in current status")
)

// estimatedDeliveryDays is the promise made at checkout.
const estimatedDeliveryDays = 7

// OrderStats aggregates the filtered (pre-pagination) set per status.
type OrderStats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Confirmed    int     `json:"confirmed"`
	Processing   int     `json:"processing"`
	Shipped      int     `json:"shipped"`
	Delivered    int     `json:"delivered"`
	Canceled     int     `json:"canceled"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type OrderList struct {
	Orders     []*models.Order
	Pagination Pagination
	Stats      OrderStats
}

type CreateOrderInput struct {
	CustomerInfo    models.CustomerInfo
	Items           []models.OrderItem
	PaymentIntentID string
	// ProvidedTotal, when non-zero, must agree with the recomputed total
	// within one cent.
	ProvidedTotal float64
}

type UpdateOrderInput struct {
	OrderID           string
	Status            string
	TrackingNumber    string
	Notes             string
	EstimatedDelivery *time.Time
}

type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter, limit, offset int) (*OrderList, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*models.Order, error)
	CancelOrder(ctx context.Context, id, reason string) (*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	notifier  Notifier
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, notifier Notifier) OrderService {
	return &orderService{log: log, orderRepo: orderRepo, notifier: notifier}
}

// CreateOrder recomputes the totals server-side, cross-checks any total
// the client claims, and persists the order as pending.
func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op))

	totals := CalculateOrderTotals(input.Items)
	if input.ProvidedTotal != 0 && math.Abs(input.ProvidedTotal-totals.Total) > 0.01 {
		logger.Warn("total mismatch",
			slog.Float64("provided", input.ProvidedTotal), slog.Float64("computed", totals.Total))
		return nil, ErrTotalMismatch
	}

	paymentStatus := models.PaymentStatusPending
	if input.PaymentIntentID != "" {
		paymentStatus = models.PaymentStatusPaid
	}

	now := time.Now().UTC()
	estimatedDelivery := now.Add(estimatedDeliveryDays * 24 * time.Hour)
	order := &models.Order{
		ID:                "ord_" + uuid.NewString(),
		CustomerInfo:      input.CustomerInfo,
		Items:             input.Items,
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		Shipping:          totals.Shipping,
		Total:             totals.Total,
		Status:            models.OrderStatusPending,
		PaymentStatus:     paymentStatus,
		PaymentIntentID:   input.PaymentIntentID,
		EstimatedDelivery: &estimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Confirmation mail and seller alerts must not block checkout.
	if s.notifier != nil {
		go s.notifier.OrderCreated(context.WithoutCancel(ctx), order)
	}

	logger.Info("order created", slog.String("orderID", order.ID), slog.Float64("total", order.Total))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// ListOrders applies the filter in storage, then paginates and aggregates
// over the filtered set so the stats always describe the whole match.
func (s *orderService) ListOrders(ctx context.Context, filter models.OrderFilter, limit, offset int) (*OrderList, error) {
	const op = "service.OrderService.ListOrders"

	filtered, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := OrderStats{Total: len(filtered)}
	for _, order := range filtered {
		switch order.Status {
		case models.OrderStatusPending:
			stats.Pending++
		case models.OrderStatusConfirmed:
			stats.Confirmed++
		case models.OrderStatusProcessing:
			stats.Processing++
		case models.OrderStatusShipped:
			stats.Shipped++
		case models.OrderStatusDelivered:
			stats.Delivered++
		case models.OrderStatusCanceled:
			stats.Canceled++
		}
		stats.TotalRevenue += order.Total
	}
	stats.TotalRevenue = Round2(stats.TotalRevenue)

	page, pagination := paginate(filtered, limit, offset)
	return &OrderList{Orders: page, Pagination: pagination, Stats: stats}, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*models.Order, error) {
	const op = "service.OrderService.UpdateOrder"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", input.OrderID))

	order, err := s.orderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if input.Status != "" {
		order.Status = input.Status
	}
	if input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}
	if input.Notes != "" {
		order.Notes = input.Notes
	}
	if input.EstimatedDelivery != nil {
		order.EstimatedDelivery = input.EstimatedDelivery
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if input.Status != "" && s.notifier != nil {
		go s.notifier.OrderStatusChanged(context.WithoutCancel(ctx), order)
	}

	logger.Info("order updated", slog.String("status", order.Status))
	return order, nil
}

// CancelOrder moves a pending or confirmed order to canceled. Orders
// further along the fulfilment pipeline stay untouched.
func (s *orderService) CancelOrder(ctx context.Context, id, reason string) (*models.Order, error) {
	const op = "service.OrderService.CancelOrder"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id))

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return nil, ErrNotCancelable
	}

	order.Status = models.OrderStatusCanceled
	if reason != "" {
		order.Notes = "Canceled: " + reason
	} else {
		order.Notes = "Order canceled"
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if order.PaymentStatus == models.PaymentStatusPaid && order.PaymentIntentID != "" {
		logger.Info("refund required", slog.String("paymentIntentID", order.PaymentIntentID))
	}
	if s.notifier != nil {
		go s.notifier.OrderStatusChanged(context.WithoutCancel(ctx), order)
	}

	logger.Info("order canceled")
	return order, nil
}
