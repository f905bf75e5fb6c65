package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

// Cart key layout: cart:{userID} -> JSON array of cart items.
const cartKeyPattern = "cart:%s"

// Abandoned carts fall out of Redis after a month.
var cartTTL = 30 * 24 * time.Hour

// CartStorage covers the per-user shopping cart in Redis.
type CartStorage interface {
	// GetCart returns the stored cart, an empty slice when there is none.
	GetCart(ctx context.Context, userID string) ([]models.CartItem, error)
	SaveCart(ctx context.Context, userID string, items []models.CartItem) error
	DeleteCart(ctx context.Context, userID string) error
}

type cartRepository struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) CartStorage {
	return &cartRepository{client: client}
}

func cartKey(userID string) string {
	return fmt.Sprintf(cartKeyPattern, userID)
}

func (r *cartRepository) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return items, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, userID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(userID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
