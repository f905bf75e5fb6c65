package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
)

var (
	ErrVerificationNotFound   = errors.New("verification not found")
	ErrMissingBusinessFields  = errors.New("missing required fields")
	ErrInvalidVerifyStatus    = errors.New("invalid status")
	ErrAdminRequired          = errors.New("admin access required")
	ErrDocumentValidation     = errors.New("document validation failed")
)

const (
	errInvalidDocumentType = "Invalid document type. Please upload PDF, JPG, PNG, or DOC files."
	errDocumentTooLarge    = "Document size must be less than 5MB"
	maxVerificationDocSize = int64(5 * 1024 * 1024)
	verificationValidity   = 365 * 24 * time.Hour
)

var allowedDocumentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// DocumentUpload is a multipart file from the verification form; the
// form field name (minus the document_ prefix) becomes the type.
type DocumentUpload struct {
	Type        string
	FileName    string
	ContentType string
	Size        int64
}

type SubmitVerificationInput struct {
	SellerEmail                string
	BusinessName               string
	BusinessType               string
	TaxRegistrationNumber      string
	BusinessRegistrationNumber string
	PhoneNumber                string
	BusinessAddress            string
	Parish                     string
	WebsiteURL                 string
	YearsInBusiness            int
	Documents                  []DocumentUpload
}

type SubmitVerificationResult struct {
	VerificationID      string
	Status              string
	VerificationLevel   string
	Badge               models.VerificationBadge
	Message             string
	EstimatedReviewTime string
	DocumentErrors      []string
}

type UpdateVerificationInput struct {
	VerificationID string
	Status         string
	Notes          string
	AdminEmail     string
}

type VerificationService interface {
	SubmitVerification(ctx context.Context, input SubmitVerificationInput) (*SubmitVerificationResult, error)
	VerificationStatus(ctx context.Context, sellerEmail string) (*models.Verification, error)
	UpdateVerification(ctx context.Context, input UpdateVerificationInput) error
}

type verificationService struct {
	log  *slog.Logger
	repo storage.VerificationStorage
}

func NewVerificationService(log *slog.Logger, repo storage.VerificationStorage) VerificationService {
	return &verificationService{log: log, repo: repo}
}

func validateDocument(doc DocumentUpload) string {
	if _, ok := allowedDocumentTypes[doc.ContentType]; !ok {
		return errInvalidDocumentType
	}
	if doc.Size > maxVerificationDocSize {
		return errDocumentTooLarge
	}
	return ""
}

func (s *verificationService) SubmitVerification(ctx context.Context, input SubmitVerificationInput) (*SubmitVerificationResult, error) {
	const op = "service.VerificationService.SubmitVerification"
	logger := s.log.With(slog.String("op", op), slog.String("sellerEmail", input.SellerEmail))

	if input.SellerEmail == "" || input.BusinessName == "" || input.BusinessType == "" ||
		input.PhoneNumber == "" || input.BusinessAddress == "" || input.Parish == "" {
		return nil, ErrMissingBusinessFields
	}

	var (
		documents []models.VerificationDocument
		docErrors []string
	)
	now := time.Now().UTC()
	for _, doc := range input.Documents {
		if msg := validateDocument(doc); msg != "" {
			docErrors = append(docErrors, fmt.Sprintf("%s: %s", doc.FileName, msg))
			continue
		}
		documents = append(documents, models.VerificationDocument{
			Type:       doc.Type,
			FileName:   doc.FileName,
			FileSize:   doc.Size,
			UploadedAt: now,
			URL:        fmt.Sprintf("/uploads/verification/%s/%s", input.SellerEmail, doc.FileName),
		})
	}
	if len(docErrors) > 0 {
		return &SubmitVerificationResult{DocumentErrors: docErrors}, ErrDocumentValidation
	}

	hasTRN := input.TaxRegistrationNumber != ""
	hasBRN := input.BusinessRegistrationNumber != ""

	level := models.VerificationLevelBasic
	badge := models.VerificationBadge{Type: "verified", Color: "blue", Icon: "check"}
	switch {
	case hasTRN && hasBRN && len(documents) >= 2:
		level = models.VerificationLevelPremium
		badge = models.VerificationBadge{Type: "premium", Color: "gold", Icon: "star"}
	case (hasTRN || hasBRN) && len(documents) >= 1:
		level = models.VerificationLevelStandard
		badge = models.VerificationBadge{Type: "trusted", Color: "green", Icon: "shield"}
	}

	autoApprove := len(documents) > 0 && (hasTRN || hasBRN)

	verification := &models.Verification{
		ID:                         "VER_" + strings.ToUpper(uuid.NewString()[:8]),
		SellerEmail:                input.SellerEmail,
		BusinessName:               input.BusinessName,
		BusinessType:               input.BusinessType,
		TaxRegistrationNumber:      input.TaxRegistrationNumber,
		BusinessRegistrationNumber: input.BusinessRegistrationNumber,
		PhoneNumber:                input.PhoneNumber,
		BusinessAddress:            input.BusinessAddress,
		Parish:                     input.Parish,
		WebsiteURL:                 input.WebsiteURL,
		YearsInBusiness:            input.YearsInBusiness,
		Documents:                  documents,
		VerificationLevel:          level,
		Badge:                      badge,
		Status:                     "pending",
		Notes:                      "Pending manual review",
		CreatedAt:                  now,
	}
	if autoApprove {
		expiresAt := now.Add(verificationValidity)
		verification.Status = "approved"
		verification.VerifiedAt = &now
		verification.ExpiresAt = &expiresAt
		verification.Notes = "Auto-approved based on document verification"
	}

	if err := s.repo.CreateVerification(ctx, verification); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("verification submitted",
		slog.String("verificationID", verification.ID),
		slog.String("level", level),
		slog.String("status", verification.Status),
	)

	result := &SubmitVerificationResult{
		VerificationID:    verification.ID,
		Status:            verification.Status,
		VerificationLevel: level,
		Badge:             badge,
	}
	if autoApprove {
		result.Message = "Verification approved! Your verified badge is now active."
	} else {
		result.Message = "Verification request submitted. We will review your documents within 24-48 hours."
		result.EstimatedReviewTime = "24-48 hours"
	}
	return result, nil
}

func (s *verificationService) VerificationStatus(ctx context.Context, sellerEmail string) (*models.Verification, error) {
	const op = "service.VerificationService.VerificationStatus"

	verification, err := s.repo.GetLatestBySellerEmail(ctx, sellerEmail)
	if err != nil {
		if errors.Is(err, storage.ErrVerificationNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return verification, nil
}

func (s *verificationService) UpdateVerification(ctx context.Context, input UpdateVerificationInput) error {
	const op = "service.VerificationService.UpdateVerification"
	logger := s.log.With(slog.String("op", op), slog.String("verificationID", input.VerificationID))

	if !strings.HasSuffix(input.AdminEmail, "@partsfinda.com") {
		return ErrAdminRequired
	}
	if input.VerificationID == "" || input.Status == "" {
		return ErrMissingBusinessFields
	}
	switch input.Status {
	case "approved", "rejected", "pending":
	default:
		return ErrInvalidVerifyStatus
	}

	if err := s.repo.UpdateVerificationStatus(ctx, input.VerificationID, input.Status, input.Notes); err != nil {
		if errors.Is(err, storage.ErrVerificationNotFound) {
			return ErrVerificationNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("verification updated",
		slog.String("status", input.Status),
		slog.String("updatedBy", input.AdminEmail),
	)
	return nil
}
