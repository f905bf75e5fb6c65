package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/partsfinda/partsfinda-api/internal/service"
)

const verificationMaxMemory = 6 << 20

type UpdateVerificationRequest struct {
	VerificationID string `json:"verificationId"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
	AdminEmail     string `json:"adminEmail"`
}

// SubmitVerificationHandler handles POST /api/seller/verification. The
// multipart form carries business details plus files under document_*
// field names.
func SubmitVerificationHandler(log *slog.Logger, verificationService service.VerificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubmitVerificationHandler"
		logger := log.With(slog.String("op", op))

		if err := r.ParseMultipartForm(verificationMaxMemory); err != nil {
			logger.Error("invalid request: multipart parse error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			return
		}

		years := 0
		if raw := r.FormValue("yearsInBusiness"); raw != "" {
			if n, convErr := strconv.Atoi(raw); convErr == nil {
				years = n
			}
		}

		input := service.SubmitVerificationInput{
			SellerEmail:                r.FormValue("sellerEmail"),
			BusinessName:               r.FormValue("businessName"),
			BusinessType:               r.FormValue("businessType"),
			TaxRegistrationNumber:      r.FormValue("taxRegistrationNumber"),
			BusinessRegistrationNumber: r.FormValue("businessRegistrationNumber"),
			PhoneNumber:                r.FormValue("phoneNumber"),
			BusinessAddress:            r.FormValue("businessAddress"),
			Parish:                     r.FormValue("parish"),
			WebsiteURL:                 r.FormValue("websiteUrl"),
			YearsInBusiness:            years,
		}

		if r.MultipartForm != nil {
			for field, headers := range r.MultipartForm.File {
				if !strings.HasPrefix(field, "document_") {
					continue
				}
				docType := strings.TrimPrefix(field, "document_")
				for _, header := range headers {
					input.Documents = append(input.Documents, service.DocumentUpload{
						Type:        docType,
						FileName:    header.Filename,
						ContentType: header.Header.Get("Content-Type"),
						Size:        header.Size,
					})
				}
			}
		}

		result, err := verificationService.SubmitVerification(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrDocumentValidation):
				writeJSON(w, logger, http.StatusBadRequest, map[string]any{
					"error":  "Document validation failed",
					"errors": result.DocumentErrors,
				})
			case errors.Is(err, service.ErrMissingBusinessFields):
				writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			default:
				logger.Error("failed to submit verification", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to submit verification")
			}
			return
		}

		resp := map[string]any{
			"success":           true,
			"verificationId":    result.VerificationID,
			"status":            result.Status,
			"verificationLevel": result.VerificationLevel,
			"badge":             result.Badge,
			"message":           result.Message,
		}
		if result.EstimatedReviewTime != "" {
			resp["estimatedReviewTime"] = result.EstimatedReviewTime
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// VerificationStatusHandler handles GET /api/seller/verification?sellerEmail=.
func VerificationStatusHandler(log *slog.Logger, verificationService service.VerificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.VerificationStatusHandler"
		logger := log.With(slog.String("op", op))

		sellerEmail := r.URL.Query().Get("sellerEmail")
		if sellerEmail == "" {
			writeError(w, logger, http.StatusBadRequest, "Seller email is required")
			return
		}

		verification, err := verificationService.VerificationStatus(r.Context(), sellerEmail)
		if err != nil {
			if errors.Is(err, service.ErrVerificationNotFound) {
				writeJSON(w, logger, http.StatusOK, map[string]any{
					"success":  true,
					"verified": false,
					"status":   nil,
					"message":  "No verification found for this seller",
				})
				return
			}
			logger.Error("failed to load verification", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to load verification")
			return
		}

		verified := verification.Status == "approved"
		resp := map[string]any{
			"success":           true,
			"verified":          verified,
			"status":            verification.Status,
			"verificationLevel": verification.VerificationLevel,
			"badge":             verification.Badge,
		}
		if verification.ExpiresAt != nil {
			days := int(time.Until(*verification.ExpiresAt).Hours() / 24)
			if days < 0 {
				days = 0
			}
			resp["daysUntilExpiry"] = days
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// UpdateVerificationHandler handles PUT /api/seller/verification, the
// admin review endpoint.
func UpdateVerificationHandler(log *slog.Logger, verificationService service.VerificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateVerificationHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateVerificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			return
		}

		err := verificationService.UpdateVerification(r.Context(), service.UpdateVerificationInput{
			VerificationID: req.VerificationID,
			Status:         req.Status,
			Notes:          req.Notes,
			AdminEmail:     req.AdminEmail,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAdminRequired):
				writeError(w, logger, http.StatusForbidden, "Unauthorized. Admin access required.")
			case errors.Is(err, service.ErrMissingBusinessFields):
				writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			case errors.Is(err, service.ErrInvalidVerifyStatus):
				writeError(w, logger, http.StatusBadRequest, "Invalid status")
			case errors.Is(err, service.ErrVerificationNotFound):
				writeError(w, logger, http.StatusNotFound, "Verification not found")
			default:
				logger.Error("failed to update verification", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Failed to update verification")
			}
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":        true,
			"message":        "Verification " + req.Status,
			"verificationId": req.VerificationID,
			"status":         req.Status,
		})
	}
}
