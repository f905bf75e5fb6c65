package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
)

var ErrSellerNotFound = errors.New("seller not found")

// SellerStorage covers seller accounts and their subscription state.
type SellerStorage interface {
	GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error)
	GetSellerByID(ctx context.Context, id string) (*models.Seller, error)
	CreateSeller(ctx context.Context, seller *models.Seller) (*models.Seller, error)
	SetStripeCustomerID(ctx context.Context, id, customerID string) error
	UpdateSubscription(ctx context.Context, seller *models.Seller) error
}

type sellerRepository struct {
	db *sql.DB
}

func NewSellerRepository(db *sql.DB) SellerStorage {
	return &sellerRepository{db: db}
}

const sellerColumns = `id, email, business_name, owner_name, phone, location, business_type,
	subscription_tier, subscription_status, stripe_customer_id, stripe_subscription_id,
	current_period_start, current_period_end, verified, rating, review_count, sales_count,
	pass_hash, created_at`

func scanSeller(row interface{ Scan(...any) error }) (*models.Seller, error) {
	s := &models.Seller{}
	var periodStart, periodEnd sql.NullTime
	err := row.Scan(&s.ID, &s.Email, &s.BusinessName, &s.OwnerName, &s.Phone, &s.Location,
		&s.BusinessType, &s.SubscriptionTier, &s.SubscriptionStatus, &s.StripeCustomerID,
		&s.StripeSubscriptionID, &periodStart, &periodEnd, &s.Verified, &s.Rating,
		&s.ReviewCount, &s.SalesCount, &s.PassHash, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if periodStart.Valid {
		s.CurrentPeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		s.CurrentPeriodEnd = &periodEnd.Time
	}
	return s, nil
}

func (r *sellerRepository) GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sellerColumns+" FROM sellers WHERE email = $1", email)
	seller, err := scanSeller(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (r *sellerRepository) GetSellerByID(ctx context.Context, id string) (*models.Seller, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sellerColumns+" FROM sellers WHERE id = $1", id)
	seller, err := scanSeller(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (r *sellerRepository) CreateSeller(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sellers (id, email, business_name, owner_name, phone, location, business_type,
			subscription_tier, subscription_status, pass_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()) RETURNING created_at`,
		seller.ID, seller.Email, seller.BusinessName, seller.OwnerName, seller.Phone,
		seller.Location, seller.BusinessType, seller.SubscriptionTier, seller.SubscriptionStatus,
		seller.PassHash,
	).Scan(&seller.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return seller, nil
}

func (r *sellerRepository) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sellers SET stripe_customer_id = $1 WHERE id = $2", customerID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSellerNotFound
	}
	return nil
}

func (r *sellerRepository) UpdateSubscription(ctx context.Context, seller *models.Seller) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sellers SET subscription_tier = $1, subscription_status = $2,
			stripe_customer_id = $3, stripe_subscription_id = $4,
			current_period_start = $5, current_period_end = $6
		 WHERE id = $7`,
		seller.SubscriptionTier, seller.SubscriptionStatus, seller.StripeCustomerID,
		seller.StripeSubscriptionID, seller.CurrentPeriodStart, seller.CurrentPeriodEnd, seller.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSellerNotFound
	}
	return nil
}
