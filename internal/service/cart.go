package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
)

// CartService manages the per-user shopping cart. Absent user ids map to
// the shared "guest" cart, same as the storefront.
type CartService interface {
	GetCart(ctx context.Context, userID string) ([]models.CartItem, error)
	AddItem(ctx context.Context, userID string, item models.CartItem) ([]models.CartItem, error)
	UpdateItem(ctx context.Context, userID, itemID string, quantity int) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID string) error
}

type cartService struct {
	log      *slog.Logger
	cartRepo storage.CartStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage) CartService {
	return &cartService{log: log, cartRepo: cartRepo}
}

func normalizeUserID(userID string) string {
	if userID == "" {
		return "guest"
	}
	return userID
}

func (s *cartService) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	const op = "service.CartService.GetCart"
	items, err := s.cartRepo.GetCart(ctx, normalizeUserID(userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// AddItem merges the quantity into an existing line when the item is
// already carted, otherwise appends it.
func (s *cartService) AddItem(ctx context.Context, userID string, item models.CartItem) ([]models.CartItem, error) {
	const op = "service.CartService.AddItem"
	userID = normalizeUserID(userID)

	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	cart = mergeCartItem(cart, item)

	if err := s.cartRepo.SaveCart(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("item added to cart",
		slog.String("op", op), slog.String("userID", userID), slog.String("itemID", item.ID))
	return cart, nil
}

// UpdateItem sets the quantity of a carted line; quantity zero removes it.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) ([]models.CartItem, error) {
	const op = "service.CartService.UpdateItem"
	userID = normalizeUserID(userID)

	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cart = setCartQuantity(cart, itemID, quantity)

	if err := s.cartRepo.SaveCart(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	const op = "service.CartService.ClearCart"
	if err := s.cartRepo.DeleteCart(ctx, normalizeUserID(userID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func mergeCartItem(cart []models.CartItem, item models.CartItem) []models.CartItem {
	for i := range cart {
		if cart[i].ID == item.ID {
			cart[i].Quantity += item.Quantity
			return cart
		}
	}
	return append(cart, item)
}

func setCartQuantity(cart []models.CartItem, itemID string, quantity int) []models.CartItem {
	if quantity == 0 {
		kept := cart[:0]
		for _, it := range cart {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		return kept
	}
	for i := range cart {
		if cart[i].ID == itemID {
			cart[i].Quantity = quantity
			break
		}
	}
	return cart
}
