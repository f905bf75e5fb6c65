package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
)

type AddCartItemRequest struct {
	UserID string          `json:"userId"`
	Item   models.CartItem `json:"item" validate:"required"`
}

type UpdateCartItemRequest struct {
	UserID   string `json:"userId"`
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity"`
}

// GetCartHandler handles GET /api/cart?userId=.
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		cart, err := cartService.GetCart(r.Context(), r.URL.Query().Get("userId"))
		if err != nil {
			logger.Error("failed to fetch cart", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch cart")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"cart": cart})
	}
}

// AddCartItemHandler handles POST /api/cart.
func AddCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCartItemHandler"
		logger := log.With(slog.String("op", op))

		var req AddCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Item.ID == "" {
			writeError(w, logger, http.StatusBadRequest, "item is required")
			return
		}

		cart, err := cartService.AddItem(r.Context(), req.UserID, req.Item)
		if err != nil {
			logger.Error("failed to add to cart", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to add to cart")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"success": true, "cart": cart})
	}
}

// UpdateCartItemHandler handles PUT /api/cart; quantity 0 removes the item.
func UpdateCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartItemHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "itemId is required")
			return
		}

		cart, err := cartService.UpdateItem(r.Context(), req.UserID, req.ItemID, req.Quantity)
		if err != nil {
			logger.Error("failed to update cart", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to update cart")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"success": true, "cart": cart})
	}
}

// ClearCartHandler handles DELETE /api/cart?userId=.
func ClearCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		if err := cartService.ClearCart(r.Context(), r.URL.Query().Get("userId")); err != nil {
			logger.Error("failed to clear cart", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to clear cart")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"success": true, "cart": []models.CartItem{}})
	}
}
