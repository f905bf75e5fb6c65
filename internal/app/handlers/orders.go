package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
)

type CreateOrderRequest struct {
	CustomerInfo    models.CustomerInfo `json:"customerInfo"`
	Items           []models.OrderItem  `json:"items"`
	PaymentIntentID string              `json:"paymentIntentId"`
	Total           float64             `json:"total"`
}

type UpdateOrderRequest struct {
	OrderID           string `json:"orderId"`
	Status            string `json:"status"`
	TrackingNumber    string `json:"tracking_number"`
	Notes             string `json:"notes"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

// requiredCustomerFields mirrors the checkout form contract.
func missingCustomerField(info models.CustomerInfo) string {
	switch {
	case info.FirstName == "":
		return "firstName"
	case info.LastName == "":
		return "lastName"
	case info.Email == "":
		return "email"
	case info.ShippingAddress == (models.Address{}):
		return "shippingAddress"
	}
	return ""
}

// CreateOrderHandler handles POST /api/orders.
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields: customerInfo, items")
			return
		}
		if len(req.Items) == 0 {
			writeError(w, logger, http.StatusBadRequest, "Missing required fields: customerInfo, items")
			return
		}
		if field := missingCustomerField(req.CustomerInfo); field != "" {
			writeError(w, logger, http.StatusBadRequest, "Missing required customer field: "+field)
			return
		}

		order, err := orderService.CreateOrder(r.Context(), service.CreateOrderInput{
			CustomerInfo:    req.CustomerInfo,
			Items:           req.Items,
			PaymentIntentID: req.PaymentIntentID,
			ProvidedTotal:   req.Total,
		})
		if err != nil {
			if errors.Is(err, service.ErrTotalMismatch) {
				writeError(w, logger, http.StatusBadRequest, "Total amount mismatch")
				return
			}
			logger.Error("failed to create order", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to create order")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"message": "Order created successfully",
			"order": map[string]any{
				"id":                 order.ID,
				"status":             order.Status,
				"payment_status":     order.PaymentStatus,
				"total":              order.Total,
				"created_at":         order.CreatedAt,
				"estimated_delivery": order.EstimatedDelivery,
			},
		})
	}
}

// ListOrdersHandler handles GET /api/orders with filters and pagination;
// an orderId query switches to single-order lookup.
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()

		if orderID := q.Get("orderId"); orderID != "" {
			order, err := orderService.GetOrder(r.Context(), orderID)
			if err != nil {
				if errors.Is(err, service.ErrOrderNotFound) {
					writeError(w, logger, http.StatusNotFound, "Order not found")
					return
				}
				logger.Error("failed to fetch order", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to fetch orders")
				return
			}
			writeJSON(w, logger, http.StatusOK, map[string]any{"success": true, "order": order})
			return
		}

		limit := queryInt(q.Get("limit"), 20)
		offset := queryInt(q.Get("offset"), 0)

		filter := models.OrderFilter{
			CustomerEmail: q.Get("customerEmail"),
			SellerID:      q.Get("sellerId"),
			Status:        q.Get("status"),
		}

		list, err := orderService.ListOrders(r.Context(), filter, limit, offset)
		if err != nil {
			logger.Error("failed to fetch orders", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":    true,
			"orders":     list.Orders,
			"pagination": list.Pagination,
			"stats":      list.Stats,
		})
	}
}

// UpdateOrderHandler handles PUT /api/orders.
func UpdateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Order ID is required")
			return
		}
		if req.OrderID == "" {
			writeError(w, logger, http.StatusBadRequest, "Order ID is required")
			return
		}

		input := service.UpdateOrderInput{
			OrderID:        req.OrderID,
			Status:         req.Status,
			TrackingNumber: req.TrackingNumber,
			Notes:          req.Notes,
		}
		if req.EstimatedDelivery != "" {
			if t, err := time.Parse(time.RFC3339, req.EstimatedDelivery); err == nil {
				input.EstimatedDelivery = &t
			}
		}

		order, err := orderService.UpdateOrder(r.Context(), input)
		if err != nil {
			if errors.Is(err, service.ErrOrderNotFound) {
				writeError(w, logger, http.StatusNotFound, "Order not found")
				return
			}
			logger.Error("failed to update order", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to update order")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"message": "Order updated successfully",
			"order":   order,
		})
	}
}

// CancelOrderHandler handles DELETE /api/orders?orderId=&reason=.
func CancelOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CancelOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID := r.URL.Query().Get("orderId")
		if orderID == "" {
			writeError(w, logger, http.StatusBadRequest, "Order ID is required")
			return
		}

		order, err := orderService.CancelOrder(r.Context(), orderID, r.URL.Query().Get("reason"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrOrderNotFound):
				writeError(w, logger, http.StatusNotFound, "Order not found")
			case errors.Is(err, service.ErrNotCancelable):
				writeError(w, logger, http.StatusBadRequest, "Order cannot be canceled in current status")
			default:
				logger.Error("failed to cancel order", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to cancel order")
			}
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"message": "Order canceled successfully",
			"order":   order,
		})
	}
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
