package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakePartRepo struct {
	mu    sync.Mutex
	parts []*models.Part
}

var _ storage.PartStorage = (*fakePartRepo)(nil)

func (f *fakePartRepo) ListParts(ctx context.Context, filter models.PartFilter) ([]*models.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parts, nil
}

func (f *fakePartRepo) CreatePart(ctx context.Context, part *models.Part) (*models.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parts = append(f.parts, part)
	return part, nil
}

func (f *fakePartRepo) CreateParts(ctx context.Context, parts []*models.Part) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parts = append(f.parts, parts...)
	return nil
}

func TestProcessUpload_TemplateImportsClean(t *testing.T) {
	repo := &fakePartRepo{}
	svc := service.NewBulkUploadService(testLogger(), repo)

	result, err := svc.ProcessUpload(context.Background(), "seller@shop.jm", "inventory.csv", []byte(service.CSVTemplate))

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Summary.TotalRows)
	assert.Equal(t, 3, result.Summary.SuccessfulImports)
	assert.Equal(t, 0, result.Summary.FailedImports)
	assert.Len(t, repo.parts, 3)
	assert.Equal(t, "Successfully imported 3 parts", result.Message)
	assert.NotNil(t, result.InvalidParts, "marshals as [] rather than null")

	first := repo.parts[0]
	assert.Equal(t, "Brake Pads Ceramic", first.Name)
	assert.Equal(t, "seller@shop.jm", first.SellerEmail)
	assert.Equal(t, "active", first.Status)
	assert.NotEmpty(t, first.ID)
}

func TestProcessUpload_InvalidRowsReported(t *testing.T) {
	repo := &fakePartRepo{}
	svc := service.NewBulkUploadService(testLogger(), repo)

	csv := "Name,Price,Stock,Condition\n" +
		"Good Part,100,5,new\n" +
		"AB,50,3,new\n" + // name too short
		"Negative Stock,80,-1,used\n"

	result, err := svc.ProcessUpload(context.Background(), "seller@shop.jm", "parts.csv", []byte(csv))

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Summary.SuccessfulImports)
	assert.Equal(t, 2, result.Summary.FailedImports)
	assert.Len(t, result.InvalidParts, 2)

	// Row numbers match what the seller sees in a spreadsheet.
	assert.Equal(t, 3, result.InvalidParts[0].Row)
	assert.Contains(t, result.InvalidParts[0].Errors, "Part name must be at least 3 characters")
	assert.Equal(t, 4, result.InvalidParts[1].Row)
	assert.Contains(t, result.InvalidParts[1].Errors, "Stock cannot be negative")
}

func TestProcessUpload_RejectsExcel(t *testing.T) {
	svc := service.NewBulkUploadService(testLogger(), &fakePartRepo{})

	_, err := svc.ProcessUpload(context.Background(), "seller@shop.jm", "inventory.xlsx", []byte("fake"))
	assert.ErrorIs(t, err, service.ErrExcelNotSupported)

	_, err = svc.ProcessUpload(context.Background(), "seller@shop.jm", "inventory.txt", []byte("fake"))
	assert.ErrorIs(t, err, service.ErrUnsupportedFormat)
}

func TestProcessUpload_RejectsOversizedFile(t *testing.T) {
	svc := service.NewBulkUploadService(testLogger(), &fakePartRepo{})

	big := make([]byte, 5*1024*1024+1)
	_, err := svc.ProcessUpload(context.Background(), "seller@shop.jm", "inventory.csv", big)
	assert.ErrorIs(t, err, service.ErrUploadFileTooLarge)
}

func TestParseCSV_HeaderAliases(t *testing.T) {
	csv := "Part Name,Part_Number,Price,Quantity,Condition\n" +
		"Oil Filter,OF-1,\"J$1,299.00\",20,excellent\n"

	parts, err := service.ParseCSV(csv)
	assert.NoError(t, err)
	assert.Len(t, parts, 1)
	assert.Equal(t, "Oil Filter", parts[0].Name)
	assert.Equal(t, "OF-1", parts[0].PartNumber)
	assert.Equal(t, 1299.0, parts[0].Price)
	assert.Equal(t, 20, parts[0].Stock)
	assert.Equal(t, "used", parts[0].Condition, "unknown conditions fall back to used")
}

func TestParseCSV_DropsIncompleteRows(t *testing.T) {
	csv := "Name,Price,Stock\n" +
		"Complete Part,100,5\n" +
		",100,5\n" + // no name
		"No Price,,5\n"

	parts, err := service.ParseCSV(csv)
	assert.NoError(t, err)
	assert.Len(t, parts, 1)
	assert.Equal(t, "Complete Part", parts[0].Name)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, err := service.ParseCSV("Name,Price,Stock\n")
	assert.ErrorIs(t, err, service.ErrEmptyCSV)
}

func TestValidatePart(t *testing.T) {
	errs := service.ValidatePart(&models.Part{Name: "OK Part", Price: 100, Stock: 1, Condition: "new"})
	assert.Empty(t, errs)

	errs = service.ValidatePart(&models.Part{Name: "X", Price: 0, Stock: -2, Condition: "mint"})
	assert.Contains(t, errs, "Part name must be at least 3 characters")
	assert.Contains(t, errs, "Price must be greater than 0")
	assert.Contains(t, errs, "Stock cannot be negative")
	assert.Contains(t, errs, "Condition must be new, used, or refurbished")
}
