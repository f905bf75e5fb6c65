package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User // key is email
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return nil, storage.ErrEmailTaken
	}
	f.users[user.Email] = user
	return user, nil
}

func newAuthService(userRepo storage.UserStorage, sellerRepo storage.SellerStorage) *service.AuthService {
	return service.NewAuthService(testLogger(), userRepo, sellerRepo, time.Hour)
}

func TestLogin_Buyer(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	passHash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userRepo.users["buyer@example.com"] = &models.User{
		ID: "user_1", Email: "buyer@example.com", Name: "Andre", PassHash: passHash, Role: "buyer",
	}
	svc := newAuthService(userRepo, newFakeSellerRepo())

	account, err := svc.Login(context.Background(), "buyer@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, account.Token)
	assert.NotNil(t, account.User)
	assert.Nil(t, account.Seller)

	_, err = svc.Login(context.Background(), "buyer@example.com", "wrongpass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_SellerFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	sellerRepo := newFakeSellerRepo()
	passHash, _ := bcrypt.GenerateFromPassword([]byte("sellerpass"), bcrypt.MinCost)
	sellerRepo.sellers["s1"] = &models.Seller{
		ID: "s1", Email: "seller@shop.jm", BusinessName: "Kingston Auto Parts", PassHash: passHash,
	}
	svc := newAuthService(newFakeUserRepo(), sellerRepo)

	account, err := svc.Login(context.Background(), "seller@shop.jm", "sellerpass")

	assert.NoError(t, err)
	assert.Nil(t, account.User)
	assert.NotNil(t, account.Seller)
	assert.Equal(t, "Kingston Auto Parts", account.Seller.BusinessName)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := newAuthService(newFakeUserRepo(), newFakeSellerRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	svc := newAuthService(userRepo, newFakeSellerRepo())

	account, err := svc.RegisterUser(context.Background(), service.RegisterUserInput{
		Email: "new@example.com", Password: "password123", Name: "Marcia",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, account.Token)
	assert.Equal(t, "buyer", account.User.Role)
	assert.NoError(t,
		bcrypt.CompareHashAndPassword(account.User.PassHash, []byte("password123")),
		"password is stored as a bcrypt hash")

	_, err = svc.RegisterUser(context.Background(), service.RegisterUserInput{
		Email: "new@example.com", Password: "password123", Name: "Dup",
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegisterSeller_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := newAuthService(newFakeUserRepo(), newFakeSellerRepo())

	account, err := svc.RegisterSeller(context.Background(), service.RegisterSellerInput{
		Email: "shop@example.com", Password: "password123", BusinessName: "Spanish Town Parts",
	})

	assert.NoError(t, err)
	assert.Equal(t, "basic", account.Seller.SubscriptionTier)
	assert.Equal(t, "Kingston", account.Seller.Location)
	assert.Equal(t, "auto-parts-store", account.Seller.BusinessType)
	assert.Equal(t, "active", account.Seller.SubscriptionStatus)
}

func TestRegisterSeller_InvalidTier(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := newAuthService(newFakeUserRepo(), newFakeSellerRepo())

	_, err := svc.RegisterSeller(context.Background(), service.RegisterSellerInput{
		Email: "shop@example.com", Password: "password123", BusinessName: "X", SubscriptionTier: "diamond",
	})
	assert.ErrorIs(t, err, service.ErrInvalidTier)
}
