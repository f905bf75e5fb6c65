package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
)

var (
	ErrEmptyCSV           = errors.New("CSV file must have headers and at least one data row")
	ErrUnsupportedFormat  = errors.New("only CSV and Excel files are supported")
	ErrExcelNotSupported  = errors.New("excel file processing requires additional setup")
	ErrUploadFileTooLarge = errors.New("file size must be less than 5MB")
)

const (
	maxUploadSize = 5 * 1024 * 1024

	savedPartsPreview   = 5
	invalidPartsPreview = 10
)

// CSVTemplate is served on GET /api/parts/bulk-upload as a download.
const CSVTemplate = `Name,Part Number,Price,Stock,Condition,Make,Model,Year,Description,Category,Warranty,Shipping,Location
Brake Pads Ceramic,BP-12345,8999,15,new,Toyota,Camry,2020,High-performance ceramic brake pads,Brakes,6 months,Island-wide,Kingston
Oil Filter Premium,OF-54321,1299,50,new,Honda,Civic,2019,OEM quality oil filter,Filters,3 months,Pickup only,Montego Bay
Alternator Remanufactured,ALT-98765,18999,8,refurbished,Nissan,Altima,2018,Factory remanufactured with warranty,Electrical,1 year,Island-wide,Spanish Town`

// headerAliases maps lowercased CSV headers onto part fields. Sellers
// export from several inventory tools, so common variants are accepted.
var headerAliases = map[string]string{
	"part name":   "name",
	"name":        "name",
	"part number": "partNumber",
	"part_number": "partNumber",
	"partnumber":  "partNumber",
	"price":       "price",
	"stock":       "stock",
	"quantity":    "stock",
	"condition":   "condition",
	"make":        "make",
	"model":       "model",
	"year":        "year",
	"description": "description",
	"category":    "category",
	"warranty":    "warranty",
	"shipping":    "shipping",
	"location":    "location",
}

type InvalidPart struct {
	Row    int          `json:"row"`
	Part   *models.Part `json:"part"`
	Errors []string     `json:"errors"`
}

type UploadSummary struct {
	TotalRows         int `json:"totalRows"`
	SuccessfulImports int `json:"successfulImports"`
	FailedImports     int `json:"failedImports"`
}

type UploadResult struct {
	Summary      UploadSummary  `json:"summary"`
	SavedParts   []*models.Part `json:"savedParts"`
	InvalidParts []InvalidPart  `json:"invalidParts"`
	Message      string         `json:"message"`
}

type BulkUploadService interface {
	ProcessUpload(ctx context.Context, sellerEmail, fileName string, content []byte) (*UploadResult, error)
}

type bulkUploadService struct {
	log      *slog.Logger
	partRepo storage.PartStorage
}

func NewBulkUploadService(log *slog.Logger, partRepo storage.PartStorage) BulkUploadService {
	return &bulkUploadService{log: log, partRepo: partRepo}
}

func (s *bulkUploadService) ProcessUpload(ctx context.Context, sellerEmail, fileName string, content []byte) (*UploadResult, error) {
	const op = "service.BulkUploadService.ProcessUpload"
	logger := s.log.With(slog.String("op", op), slog.String("seller", sellerEmail))

	if len(content) > maxUploadSize {
		return nil, ErrUploadFileTooLarge
	}

	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".csv"):
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return nil, ErrExcelNotSupported
	default:
		return nil, ErrUnsupportedFormat
	}

	parsed, err := ParseCSV(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		validParts   []*models.Part
		invalidParts []InvalidPart
	)
	for i, part := range parsed {
		if errs := ValidatePart(part); len(errs) > 0 {
			// +2 accounts for the header row and 0-based index.
			invalidParts = append(invalidParts, InvalidPart{Row: i + 2, Part: part, Errors: errs})
			continue
		}
		part.ID = "part_" + uuid.NewString()
		part.SellerEmail = sellerEmail
		part.Status = "active"
		part.CreatedAt = time.Now().UTC()
		validParts = append(validParts, part)
	}

	if len(validParts) > 0 {
		if err := s.partRepo.CreateParts(ctx, validParts); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	logger.Info("bulk upload processed",
		slog.Int("saved", len(validParts)),
		slog.Int("failed", len(invalidParts)),
	)

	saved := validParts
	if saved == nil {
		saved = []*models.Part{}
	}
	if len(saved) > savedPartsPreview {
		saved = saved[:savedPartsPreview]
	}
	invalid := invalidParts
	if invalid == nil {
		invalid = []InvalidPart{}
	}
	if len(invalid) > invalidPartsPreview {
		invalid = invalid[:invalidPartsPreview]
	}

	return &UploadResult{
		Summary: UploadSummary{
			TotalRows:         len(parsed),
			SuccessfulImports: len(validParts),
			FailedImports:     len(invalidParts),
		},
		SavedParts:   saved,
		InvalidParts: invalid,
		Message:      fmt.Sprintf("Successfully imported %d parts", len(validParts)),
	}, nil
}

// ParseCSV reads seller inventory rows. Rows missing a name or price
// are dropped silently, matching the row count sellers see in a sheet.
func ParseCSV(content string) ([]*models.Part, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV parsing error: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyCSV
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var parts []*models.Part
	for _, row := range records[1:] {
		part := &models.Part{}
		hasName, hasPrice, hasStock := false, false, false

		for i, header := range headers {
			if i >= len(row) {
				break
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			switch headerAliases[header] {
			case "name":
				part.Name = value
				hasName = true
			case "partNumber":
				part.PartNumber = value
			case "price":
				part.Price = parseNumeric(value)
				hasPrice = part.Price != 0
			case "stock":
				part.Stock = int(parseNumeric(value))
				hasStock = true
			case "condition":
				cond := strings.ToLower(value)
				if cond != "new" && cond != "used" && cond != "refurbished" {
					cond = "used"
				}
				part.Condition = cond
			case "make":
				part.Make = value
			case "model":
				part.Model = value
			case "year":
				part.Year = value
			case "description":
				part.Description = value
			case "category":
				part.Category = value
			case "warranty":
				part.Warranty = value
			case "shipping":
				part.Shipping = value
			case "location":
				part.Location = value
			}
		}

		if hasName && hasPrice && hasStock {
			parts = append(parts, part)
		}
	}

	return parts, nil
}

// parseNumeric strips currency symbols and separators before parsing.
// A leading minus survives so negative quantities fail validation.
func parseNumeric(value string) float64 {
	var b strings.Builder
	for i, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || (r == '-' && i == 0) {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

func ValidatePart(part *models.Part) []string {
	var errs []string

	if len(part.Name) < 3 {
		errs = append(errs, "Part name must be at least 3 characters")
	}
	if part.Price <= 0 {
		errs = append(errs, "Price must be greater than 0")
	}
	if part.Stock < 0 {
		errs = append(errs, "Stock cannot be negative")
	}
	switch part.Condition {
	case "new", "used", "refurbished":
	default:
		errs = append(errs, "Condition must be new, used, or refurbished")
	}

	return errs
}
