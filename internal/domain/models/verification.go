package models

import "time"

// VerificationDocument is uploaded business paperwork metadata; files
// themselves go to object storage, only the descriptor is kept here.
type VerificationDocument struct {
	Type       string    `json:"type"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt"`
	URL        string    `json:"url,omitempty"`
}

// VerificationBadge is the public mark shown next to a verified seller
type VerificationBadge struct {
	Type  string `json:"type"` // verified, trusted, premium
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Verification levels
const (
	VerificationLevelBasic    = "basic"
	VerificationLevelStandard = "standard"
	VerificationLevelPremium  = "premium"
)

// Verification is a seller identity-check request and its outcome
type Verification struct {
	ID                         string                 `json:"id"`
	SellerEmail                string                 `json:"sellerEmail"`
	BusinessName               string                 `json:"businessName"`
	BusinessType               string                 `json:"businessType"` // individual, company, partnership
	TaxRegistrationNumber      string                 `json:"taxRegistrationNumber,omitempty"`
	BusinessRegistrationNumber string                 `json:"businessRegistrationNumber,omitempty"`
	PhoneNumber                string                 `json:"phoneNumber"`
	BusinessAddress            string                 `json:"businessAddress"`
	Parish                     string                 `json:"parish"`
	WebsiteURL                 string                 `json:"websiteUrl,omitempty"`
	YearsInBusiness            int                    `json:"yearsInBusiness"`
	Documents                  []VerificationDocument `json:"documents"`
	VerificationLevel          string                 `json:"verificationLevel"`
	Badge                      VerificationBadge      `json:"badge"`
	Status                     string                 `json:"status"` // pending, approved, rejected, expired
	VerifiedAt                 *time.Time             `json:"verifiedAt,omitempty"`
	ExpiresAt                  *time.Time             `json:"expiresAt,omitempty"`
	Notes                      string                 `json:"notes,omitempty"`
	CreatedAt                  time.Time              `json:"createdAt"`
}
