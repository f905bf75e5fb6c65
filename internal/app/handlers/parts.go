package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
)

// ListPartsHandler handles GET /api/parts with catalog filters.
func ListPartsHandler(log *slog.Logger, partService service.PartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListPartsHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()
		filter := models.PartFilter{
			Category:  q.Get("category"),
			Condition: q.Get("condition"),
			Brand:     q.Get("brand"),
			Make:      q.Get("make"),
			Search:    q.Get("search"),
		}
		if raw := q.Get("minPrice"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				filter.MinPrice = &v
			}
		}
		if raw := q.Get("maxPrice"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				filter.MaxPrice = &v
			}
		}

		parts, err := partService.ListParts(r.Context(), filter)
		if err != nil {
			logger.Error("failed to fetch parts", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch parts")
			return
		}
		if parts == nil {
			parts = []*models.Part{}
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"parts": parts})
	}
}

// CreatePartHandler handles POST /api/parts (JWT protected).
func CreatePartHandler(log *slog.Logger, partService service.PartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreatePartHandler"
		logger := log.With(slog.String("op", op))

		var part models.Part
		if err := json.NewDecoder(r.Body).Decode(&part); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if part.Name == "" || part.Price <= 0 {
			writeError(w, logger, http.StatusBadRequest, "name and price are required")
			return
		}

		created, err := partService.CreatePart(r.Context(), &part)
		if err != nil {
			logger.Error("failed to create part", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to create part")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"part": created})
	}
}

// BulkUploadHandler handles POST /api/parts/bulk-upload (multipart CSV).
func BulkUploadHandler(log *slog.Logger, uploadService service.BulkUploadService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.BulkUploadHandler"
		logger := log.With(slog.String("op", op))

		if err := r.ParseMultipartForm(6 << 20); err != nil {
			logger.Error("invalid multipart form", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "No file uploaded")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close()

		sellerEmail := r.FormValue("sellerEmail")
		if sellerEmail == "" {
			writeError(w, logger, http.StatusBadRequest, "Seller email is required")
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			logger.Error("failed to read upload", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to process bulk upload")
			return
		}

		result, err := uploadService.ProcessUpload(r.Context(), sellerEmail, header.Filename, content)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUploadFileTooLarge):
				writeError(w, logger, http.StatusBadRequest, "File size must be less than 5MB")
			case errors.Is(err, service.ErrExcelNotSupported):
				writeJSON(w, logger, http.StatusBadRequest, map[string]any{
					"error":       "Excel file processing requires additional setup. Please use CSV format for now.",
					"csvTemplate": "Name,Part Number,Price,Stock,Condition,Make,Model,Year,Description",
				})
			case errors.Is(err, service.ErrUnsupportedFormat):
				writeError(w, logger, http.StatusBadRequest, "Only CSV and Excel files are supported")
			case errors.Is(err, service.ErrEmptyCSV):
				writeError(w, logger, http.StatusBadRequest, "CSV parsing error: CSV file must have headers and at least one data row")
			default:
				logger.Error("bulk upload failed", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to process bulk upload")
			}
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":      true,
			"summary":      result.Summary,
			"savedParts":   result.SavedParts,
			"invalidParts": result.InvalidParts,
			"message":      result.Message,
		})
	}
}

// BulkUploadTemplateHandler handles GET /api/parts/bulk-upload, serving
// the CSV template download.
func BulkUploadTemplateHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="partsfinda_bulk_upload_template.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(service.CSVTemplate)); err != nil {
			log.Error("failed to write template", slog.Any("error", err))
		}
	}
}
