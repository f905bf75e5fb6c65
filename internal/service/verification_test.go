package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeVerificationRepo struct {
	verifications map[string]*models.Verification // key is verification id
}

var _ storage.VerificationStorage = (*fakeVerificationRepo)(nil)

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{verifications: make(map[string]*models.Verification)}
}

func (f *fakeVerificationRepo) CreateVerification(ctx context.Context, v *models.Verification) error {
	f.verifications[v.ID] = v
	return nil
}

func (f *fakeVerificationRepo) GetLatestBySellerEmail(ctx context.Context, sellerEmail string) (*models.Verification, error) {
	var latest *models.Verification
	for _, v := range f.verifications {
		if v.SellerEmail != sellerEmail {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, storage.ErrVerificationNotFound
	}
	return latest, nil
}

func (f *fakeVerificationRepo) UpdateVerificationStatus(ctx context.Context, id, status, notes string) error {
	v, ok := f.verifications[id]
	if !ok {
		return storage.ErrVerificationNotFound
	}
	v.Status = status
	if notes != "" {
		v.Notes = notes
	}
	return nil
}

func pdfDoc(docType, name string) service.DocumentUpload {
	return service.DocumentUpload{
		Type: docType, FileName: name, ContentType: "application/pdf", Size: 1024,
	}
}

func baseVerificationInput() service.SubmitVerificationInput {
	return service.SubmitVerificationInput{
		SellerEmail:     "seller@shop.jm",
		BusinessName:    "Kingston Auto Parts",
		BusinessType:    "company",
		PhoneNumber:     "876-555-0123",
		BusinessAddress: "12 Hope Road",
		Parish:          "Kingston",
	}
}

func TestSubmitVerification_PremiumAutoApproved(t *testing.T) {
	repo := newFakeVerificationRepo()
	svc := service.NewVerificationService(testLogger(), repo)

	input := baseVerificationInput()
	input.TaxRegistrationNumber = "123-456-789"
	input.BusinessRegistrationNumber = "BRN-0001"
	input.Documents = []service.DocumentUpload{
		pdfDoc("trn", "trn.pdf"),
		pdfDoc("brn", "brn.pdf"),
	}

	result, err := svc.SubmitVerification(context.Background(), input)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.VerificationID, "VER_"))
	assert.Equal(t, "approved", result.Status)
	assert.Equal(t, models.VerificationLevelPremium, result.VerificationLevel)
	assert.Equal(t, "gold", result.Badge.Color)
	assert.Equal(t, "star", result.Badge.Icon)
	assert.Equal(t, "Verification approved! Your verified badge is now active.", result.Message)

	stored := repo.verifications[result.VerificationID]
	assert.NotNil(t, stored.VerifiedAt)
	assert.NotNil(t, stored.ExpiresAt)
}

func TestSubmitVerification_StandardLevel(t *testing.T) {
	svc := service.NewVerificationService(testLogger(), newFakeVerificationRepo())

	input := baseVerificationInput()
	input.TaxRegistrationNumber = "123-456-789"
	input.Documents = []service.DocumentUpload{pdfDoc("trn", "trn.pdf")}

	result, err := svc.SubmitVerification(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationLevelStandard, result.VerificationLevel)
	assert.Equal(t, "green", result.Badge.Color)
	assert.Equal(t, "approved", result.Status, "documents plus a registration number auto-approve")
}

func TestSubmitVerification_BasicPendingReview(t *testing.T) {
	svc := service.NewVerificationService(testLogger(), newFakeVerificationRepo())

	result, err := svc.SubmitVerification(context.Background(), baseVerificationInput())

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationLevelBasic, result.VerificationLevel)
	assert.Equal(t, "blue", result.Badge.Color)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "24-48 hours", result.EstimatedReviewTime)
}

func TestSubmitVerification_MissingFields(t *testing.T) {
	svc := service.NewVerificationService(testLogger(), newFakeVerificationRepo())

	input := baseVerificationInput()
	input.Parish = ""

	_, err := svc.SubmitVerification(context.Background(), input)
	assert.ErrorIs(t, err, service.ErrMissingBusinessFields)
}

func TestSubmitVerification_DocumentValidation(t *testing.T) {
	svc := service.NewVerificationService(testLogger(), newFakeVerificationRepo())

	input := baseVerificationInput()
	input.Documents = []service.DocumentUpload{
		{Type: "trn", FileName: "trn.exe", ContentType: "application/octet-stream", Size: 100},
		{Type: "brn", FileName: "brn.pdf", ContentType: "application/pdf", Size: 6 * 1024 * 1024},
	}

	result, err := svc.SubmitVerification(context.Background(), input)

	assert.ErrorIs(t, err, service.ErrDocumentValidation)
	assert.Len(t, result.DocumentErrors, 2)
	assert.Contains(t, result.DocumentErrors[0], "trn.exe")
	assert.Contains(t, result.DocumentErrors[1], "less than 5MB")
}

func TestUpdateVerification_AdminOnly(t *testing.T) {
	repo := newFakeVerificationRepo()
	repo.verifications["VER_ABC"] = &models.Verification{ID: "VER_ABC", Status: "pending"}
	svc := service.NewVerificationService(testLogger(), repo)
	ctx := context.Background()

	err := svc.UpdateVerification(ctx, service.UpdateVerificationInput{
		VerificationID: "VER_ABC", Status: "approved", AdminEmail: "someone@gmail.com",
	})
	assert.ErrorIs(t, err, service.ErrAdminRequired)

	err = svc.UpdateVerification(ctx, service.UpdateVerificationInput{
		VerificationID: "VER_ABC", Status: "archived", AdminEmail: "admin@partsfinda.com",
	})
	assert.ErrorIs(t, err, service.ErrInvalidVerifyStatus)

	err = svc.UpdateVerification(ctx, service.UpdateVerificationInput{
		VerificationID: "VER_ABC", Status: "rejected", AdminEmail: "admin@partsfinda.com", Notes: "blurry documents",
	})
	assert.NoError(t, err)
	assert.Equal(t, "rejected", repo.verifications["VER_ABC"].Status)
	assert.Equal(t, "blurry documents", repo.verifications["VER_ABC"].Notes)

	err = svc.UpdateVerification(ctx, service.UpdateVerificationInput{
		VerificationID: "missing", Status: "approved", AdminEmail: "admin@partsfinda.com",
	})
	assert.ErrorIs(t, err, service.ErrVerificationNotFound)
}

func TestVerificationStatus_NotFound(t *testing.T) {
	svc := service.NewVerificationService(testLogger(), newFakeVerificationRepo())

	_, err := svc.VerificationStatus(context.Background(), "nobody@shop.jm")
	assert.ErrorIs(t, err, service.ErrVerificationNotFound)
}
