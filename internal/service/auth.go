package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/partsfinda/partsfinda-api/internal/auth"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidTier        = errors.New("invalid subscription tier")
)

// Tiers offered at seller signup (the managed subscription plans in
// SubscriptionService use a separate basic/silver/gold naming, kept as-is
// from the original product).
var signupTiers = map[string]bool{
	"basic":        true,
	"professional": true,
	"enterprise":   true,
}

// Account is the union shape returned by login: exactly one of User or
// Seller is set.
type Account struct {
	Token  string
	User   *models.User
	Seller *models.Seller
}

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*Account, error)
	RegisterUser(ctx context.Context, input RegisterUserInput) (*Account, error)
	RegisterSeller(ctx context.Context, input RegisterSellerInput) (*Account, error)
}

type RegisterUserInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type RegisterSellerInput struct {
	Email            string
	Password         string
	BusinessName     string
	OwnerName        string
	Phone            string
	Location         string
	BusinessType     string
	SubscriptionTier string
}

type AuthService struct {
	log        *slog.Logger
	userRepo   storage.UserStorage
	sellerRepo storage.SellerStorage
	tokenTTL   time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, sellerRepo storage.SellerStorage, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:        log,
		userRepo:   userRepo,
		sellerRepo: sellerRepo,
		tokenTTL:   tokenTTL,
	}
}

// Login authenticates a buyer or a seller by email. Buyers are checked
// first, sellers second; either way the stored bcrypt hash must match.
func (a *AuthService) Login(ctx context.Context, email, password string) (*Account, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("checking account")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
			logger.Warn("invalid password")
			return nil, ErrInvalidCredentials
		}
		token, err := auth.NewToken(user.ID, user.Email, user.Role, a.tokenTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
		}
		logger.Info("buyer logged in", slog.String("userID", user.ID))
		return &Account{Token: token, User: user}, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	seller, err := a.sellerRepo.GetSellerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: failed to get seller: %w", op, err)
	}
	if err := bcrypt.CompareHashAndPassword(seller.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return nil, ErrInvalidCredentials
	}
	token, err := auth.NewToken(seller.ID, seller.Email, "seller", a.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}
	logger.Info("seller logged in", slog.String("sellerID", seller.ID))
	return &Account{Token: token, Seller: seller}, nil
}

// RegisterUser creates a buyer account; the password is hashed with
// bcrypt which salts automatically.
func (a *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*Account, error) {
	const op = "service.AuthService.RegisterUser"
	logger := a.log.With(slog.String("op", op), slog.String("email", input.Email))

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user := &models.User{
		ID:       "user_" + uuid.NewString(),
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		PassHash: passHash,
		Role:     "buyer",
	}
	user, err = a.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	token, err := auth.NewToken(user.ID, user.Email, user.Role, a.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}
	logger.Info("buyer registered", slog.String("userID", user.ID))
	return &Account{Token: token, User: user}, nil
}

// RegisterSeller creates a seller account with its signup tier.
func (a *AuthService) RegisterSeller(ctx context.Context, input RegisterSellerInput) (*Account, error) {
	const op = "service.AuthService.RegisterSeller"
	logger := a.log.With(slog.String("op", op), slog.String("email", input.Email))

	tier := input.SubscriptionTier
	if tier == "" {
		tier = "basic"
	}
	if !signupTiers[tier] {
		return nil, ErrInvalidTier
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	location := input.Location
	if location == "" {
		location = "Kingston"
	}
	businessType := input.BusinessType
	if businessType == "" {
		businessType = "auto-parts-store"
	}

	seller := &models.Seller{
		ID:                 "seller_" + uuid.NewString(),
		Email:              input.Email,
		BusinessName:       input.BusinessName,
		OwnerName:          input.OwnerName,
		Phone:              input.Phone,
		Location:           location,
		BusinessType:       businessType,
		SubscriptionTier:   tier,
		SubscriptionStatus: "active",
		PassHash:           passHash,
	}
	seller, err = a.sellerRepo.CreateSeller(ctx, seller)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: failed to create seller: %w", op, err)
	}

	token, err := auth.NewToken(seller.ID, seller.Email, "seller", a.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}
	logger.Info("seller registered", slog.String("sellerID", seller.ID))
	return &Account{Token: token, Seller: seller}, nil
}
