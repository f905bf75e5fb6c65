package service_test

import (
	"context"
	"testing"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeCartRepo struct {
	carts map[string][]models.CartItem
}

var _ storage.CartStorage = (*fakeCartRepo)(nil)

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string][]models.CartItem)}
}

func (f *fakeCartRepo) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return f.carts[userID], nil
}

func (f *fakeCartRepo) SaveCart(ctx context.Context, userID string, items []models.CartItem) error {
	f.carts[userID] = items
	return nil
}

func (f *fakeCartRepo) DeleteCart(ctx context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

func TestCartAddItem_MergesQuantities(t *testing.T) {
	repo := newFakeCartRepo()
	svc := service.NewCartService(testLogger(), repo)
	ctx := context.Background()

	item := models.CartItem{ID: "p1", Name: "Brake Pads", Price: 89.99, Quantity: 1}

	cart, err := svc.AddItem(ctx, "user1", item)
	assert.NoError(t, err)
	assert.Len(t, cart, 1)

	cart, err = svc.AddItem(ctx, "user1", item)
	assert.NoError(t, err)
	assert.Len(t, cart, 1, "same item merges into one line")
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestCartAddItem_DefaultsQuantityToOne(t *testing.T) {
	repo := newFakeCartRepo()
	svc := service.NewCartService(testLogger(), repo)

	cart, err := svc.AddItem(context.Background(), "user1", models.CartItem{ID: "p1", Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestCartAddItem_GuestFallback(t *testing.T) {
	repo := newFakeCartRepo()
	svc := service.NewCartService(testLogger(), repo)

	_, err := svc.AddItem(context.Background(), "", models.CartItem{ID: "p1", Quantity: 1})
	assert.NoError(t, err)
	assert.Len(t, repo.carts["guest"], 1, "empty user id maps to the guest cart")
}

func TestCartUpdateItem_ZeroQuantityRemoves(t *testing.T) {
	repo := newFakeCartRepo()
	svc := service.NewCartService(testLogger(), repo)
	ctx := context.Background()

	repo.carts["user1"] = []models.CartItem{
		{ID: "p1", Quantity: 2},
		{ID: "p2", Quantity: 1},
	}

	cart, err := svc.UpdateItem(ctx, "user1", "p1", 5)
	assert.NoError(t, err)
	assert.Equal(t, 5, cart[0].Quantity)

	cart, err = svc.UpdateItem(ctx, "user1", "p1", 0)
	assert.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Equal(t, "p2", cart[0].ID)
}

func TestCartClear(t *testing.T) {
	repo := newFakeCartRepo()
	svc := service.NewCartService(testLogger(), repo)

	repo.carts["user1"] = []models.CartItem{{ID: "p1", Quantity: 1}}

	assert.NoError(t, svc.ClearCart(context.Background(), "user1"))

	cart, err := svc.GetCart(context.Background(), "user1")
	assert.NoError(t, err)
	assert.Empty(t, cart)
}
