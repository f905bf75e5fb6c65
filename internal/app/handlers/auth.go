package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/partsfinda/partsfinda-api/internal/service"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
}

type SellerRegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	BusinessName     string `json:"businessName" validate:"required"`
	OwnerName        string `json:"ownerName" validate:"required"`
	Phone            string `json:"phone" validate:"required"`
	Location         string `json:"location"`
	BusinessType     string `json:"businessType"`
	SubscriptionTier string `json:"subscriptionTier"`
}

type userPayload struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
}

type sellerPayload struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	BusinessName     string `json:"businessName"`
	OwnerName        string `json:"ownerName"`
	Role             string `json:"role"`
	SubscriptionTier string `json:"subscriptionTier"`
	Verified         bool   `json:"verified"`
}

func accountUserPayload(account *service.Account) userPayload {
	if account.Seller != nil {
		return userPayload{
			ID:           account.Seller.ID,
			Email:        account.Seller.Email,
			Name:         account.Seller.OwnerName,
			Role:         "seller",
			Phone:        account.Seller.Phone,
			BusinessName: account.Seller.BusinessName,
		}
	}
	return userPayload{
		ID:    account.User.ID,
		Email: account.User.Email,
		Name:  account.User.Name,
		Role:  "buyer",
		Phone: account.User.Phone,
	}
}

// LoginHandler handles POST /api/auth/login for buyers and sellers.
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Email and password are required")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Email and password are required")
			return
		}

		account, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeError(w, logger, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			logger.Error("login failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Login failed. Please try again.")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Login successful",
			"authToken": account.Token,
			"user":      accountUserPayload(account),
		})
	}
}

// RegisterHandler handles POST /api/auth/register for buyer accounts.
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, validationMessage(err))
			return
		}

		account, err := authService.RegisterUser(r.Context(), service.RegisterUserInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Phone:    req.Phone,
		})
		if err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				writeError(w, logger, http.StatusConflict, "Email already registered")
				return
			}
			logger.Error("registration failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Registration failed. Please try again.")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Account created successfully",
			"authToken": account.Token,
			"user":      accountUserPayload(account),
		})
	}
}

// SellerRegisterHandler handles POST /api/auth/seller-register.
func SellerRegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SellerRegisterHandler"
		logger := log.With(slog.String("op", op))

		var req SellerRegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, validationMessage(err))
			return
		}

		account, err := authService.RegisterSeller(r.Context(), service.RegisterSellerInput{
			Email:            req.Email,
			Password:         req.Password,
			BusinessName:     req.BusinessName,
			OwnerName:        req.OwnerName,
			Phone:            req.Phone,
			Location:         req.Location,
			BusinessType:     req.BusinessType,
			SubscriptionTier: req.SubscriptionTier,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmailTaken):
				writeError(w, logger, http.StatusConflict, "Email already registered")
			case errors.Is(err, service.ErrInvalidTier):
				writeError(w, logger, http.StatusBadRequest, "Invalid subscription tier")
			default:
				logger.Error("seller registration failed", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Registration failed. Please try again.")
			}
			return
		}

		seller := account.Seller
		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Seller account created successfully",
			"authToken": account.Token,
			"seller": sellerPayload{
				ID:               seller.ID,
				Email:            seller.Email,
				BusinessName:     seller.BusinessName,
				OwnerName:        seller.OwnerName,
				Role:             "seller",
				SubscriptionTier: seller.SubscriptionTier,
				Verified:         seller.Verified,
			},
		})
	}
}

// validationMessage keeps the storefront's original wording for the two
// field errors it distinguishes.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			switch {
			case fe.Field() == "Email" && fe.Tag() == "email":
				return "Invalid email format"
			case fe.Field() == "Password" && fe.Tag() == "min":
				return "Password must be at least 6 characters"
			}
		}
	}
	return "Missing required fields"
}
