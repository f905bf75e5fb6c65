package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
)

var ErrVerificationNotFound = errors.New("verification not found")

// VerificationStorage covers seller identity-check requests.
type VerificationStorage interface {
	CreateVerification(ctx context.Context, v *models.Verification) error
	// GetLatestBySellerEmail returns the most recent verification for the
	// seller, ErrVerificationNotFound when none was ever submitted.
	GetLatestBySellerEmail(ctx context.Context, sellerEmail string) (*models.Verification, error)
	UpdateVerificationStatus(ctx context.Context, id, status, notes string) error
}

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationStorage {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) CreateVerification(ctx context.Context, v *models.Verification) error {
	documents, err := json.Marshal(v.Documents)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	badge, err := json.Marshal(v.Badge)
	if err != nil {
		return fmt.Errorf("failed to encode badge: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO verifications (id, seller_email, business_name, business_type,
			tax_registration_number, business_registration_number, phone_number,
			business_address, parish, website_url, years_in_business, documents,
			verification_level, badge, status, verified_at, expires_at, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		v.ID, v.SellerEmail, v.BusinessName, v.BusinessType, v.TaxRegistrationNumber,
		v.BusinessRegistrationNumber, v.PhoneNumber, v.BusinessAddress, v.Parish,
		v.WebsiteURL, v.YearsInBusiness, documents, v.VerificationLevel, badge,
		v.Status, v.VerifiedAt, v.ExpiresAt, v.Notes, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}
	return nil
}

func (r *verificationRepository) GetLatestBySellerEmail(ctx context.Context, sellerEmail string) (*models.Verification, error) {
	v := &models.Verification{}
	var documents, badge []byte
	var verifiedAt, expiresAt sql.NullTime

	row := r.db.QueryRowContext(ctx,
		`SELECT id, seller_email, business_name, business_type, tax_registration_number,
			business_registration_number, phone_number, business_address, parish, website_url,
			years_in_business, documents, verification_level, badge, status, verified_at,
			expires_at, notes, created_at
		 FROM verifications
		 WHERE seller_email = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, sellerEmail)
	err := row.Scan(&v.ID, &v.SellerEmail, &v.BusinessName, &v.BusinessType,
		&v.TaxRegistrationNumber, &v.BusinessRegistrationNumber, &v.PhoneNumber,
		&v.BusinessAddress, &v.Parish, &v.WebsiteURL, &v.YearsInBusiness, &documents,
		&v.VerificationLevel, &badge, &v.Status, &verifiedAt, &expiresAt, &v.Notes, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(documents, &v.Documents); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	if err := json.Unmarshal(badge, &v.Badge); err != nil {
		return nil, fmt.Errorf("failed to decode badge: %w", err)
	}
	if verifiedAt.Valid {
		v.VerifiedAt = &verifiedAt.Time
	}
	if expiresAt.Valid {
		v.ExpiresAt = &expiresAt.Time
	}
	return v, nil
}

func (r *verificationRepository) UpdateVerificationStatus(ctx context.Context, id, status, notes string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE verifications SET status = $1, notes = $2,
			verified_at = CASE WHEN $1 = 'approved' THEN NOW() ELSE verified_at END
		 WHERE id = $3`, status, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVerificationNotFound
	}
	return nil
}
