package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
)

type CreatePartRequestRequest struct {
	PartName               string   `json:"partName" validate:"required"`
	PartNumber             string   `json:"partNumber"`
	VehicleMake            string   `json:"vehicleMake" validate:"required"`
	VehicleModel           string   `json:"vehicleModel" validate:"required"`
	VehicleYear            int      `json:"vehicleYear" validate:"required"`
	VehicleTrim            string   `json:"vehicleTrim"`
	OEMNumber              string   `json:"oemNumber"`
	Condition              string   `json:"condition"`
	Description            string   `json:"description" validate:"required"`
	Budget                 *float64 `json:"budget"`
	Urgency                string   `json:"urgency"`
	BuyerName              string   `json:"buyerName" validate:"required"`
	BuyerEmail             string   `json:"buyerEmail" validate:"required,email"`
	BuyerPhone             string   `json:"buyerPhone"`
	Location               string   `json:"location"`
	PreferredContactMethod string   `json:"preferredContactMethod"`
	Deadline               string   `json:"deadline"`
}

type UpdatePartRequestRequest struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	ResponsesCount *int   `json:"responses_count"`
}

// CreatePartRequestHandler handles POST /api/part-requests.
func CreatePartRequestHandler(log *slog.Logger, reqService service.PartRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreatePartRequestHandler"
		logger := log.With(slog.String("op", op))

		var req CreatePartRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, partRequestValidationMessage(err))
			return
		}

		input := service.CreatePartRequestInput{
			PartName:               req.PartName,
			PartNumber:             req.PartNumber,
			VehicleMake:            req.VehicleMake,
			VehicleModel:           req.VehicleModel,
			VehicleYear:            req.VehicleYear,
			VehicleTrim:            req.VehicleTrim,
			OEMNumber:              req.OEMNumber,
			Condition:              req.Condition,
			Description:            req.Description,
			Budget:                 req.Budget,
			Urgency:                req.Urgency,
			BuyerName:              req.BuyerName,
			BuyerEmail:             req.BuyerEmail,
			BuyerPhone:             req.BuyerPhone,
			Location:               req.Location,
			PreferredContactMethod: req.PreferredContactMethod,
		}
		if req.Deadline != "" {
			if t, err := time.Parse(time.RFC3339, req.Deadline); err == nil {
				input.Deadline = &t
			}
		}

		created, err := reqService.CreatePartRequest(r.Context(), input)
		if err != nil {
			if errors.Is(err, service.ErrInvalidVehicleYear) {
				writeError(w, logger, http.StatusBadRequest, "Invalid vehicle year")
				return
			}
			logger.Error("failed to create part request", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to create part request")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"message": "Part request submitted successfully",
			"data": map[string]any{
				"id":         created.ID,
				"status":     created.Status,
				"created_at": created.CreatedAt,
				"expires_at": created.ExpiresAt,
			},
		})
	}
}

// ListPartRequestsHandler handles GET /api/part-requests with filters.
func ListPartRequestsHandler(log *slog.Logger, reqService service.PartRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListPartRequestsHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()
		filter := models.PartRequestFilter{
			Status:       q.Get("status"),
			VehicleMake:  q.Get("make"),
			VehicleModel: q.Get("model"),
			Urgency:      q.Get("urgency"),
		}
		limit := queryInt(q.Get("limit"), 20)
		offset := queryInt(q.Get("offset"), 0)

		list, err := reqService.ListPartRequests(r.Context(), filter, limit, offset)
		if err != nil {
			logger.Error("failed to fetch part requests", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch part requests")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":    true,
			"data":       list.Requests,
			"pagination": list.Pagination,
			"stats":      list.Stats,
		})
	}
}

// UpdatePartRequestHandler handles PUT /api/part-requests.
func UpdatePartRequestHandler(log *slog.Logger, reqService service.PartRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdatePartRequestHandler"
		logger := log.With(slog.String("op", op))

		var req UpdatePartRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Part request ID is required")
			return
		}
		if req.ID == "" {
			writeError(w, logger, http.StatusBadRequest, "Part request ID is required")
			return
		}

		updated, err := reqService.UpdatePartRequest(r.Context(), service.UpdatePartRequestInput{
			ID:             req.ID,
			Status:         req.Status,
			ResponsesCount: req.ResponsesCount,
		})
		if err != nil {
			if errors.Is(err, service.ErrPartRequestNotFound) {
				writeError(w, logger, http.StatusNotFound, "Part request not found")
				return
			}
			logger.Error("failed to update part request", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to update part request")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"message": "Part request updated successfully",
			"data":    updated,
		})
	}
}

// DeletePartRequestHandler handles DELETE /api/part-requests?id=.
func DeletePartRequestHandler(log *slog.Logger, reqService service.PartRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeletePartRequestHandler"
		logger := log.With(slog.String("op", op))

		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, logger, http.StatusBadRequest, "Part request ID is required")
			return
		}

		if err := reqService.DeletePartRequest(r.Context(), id); err != nil {
			if errors.Is(err, service.ErrPartRequestNotFound) {
				writeError(w, logger, http.StatusNotFound, "Part request not found")
				return
			}
			logger.Error("failed to delete part request", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to delete part request")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"message": "Part request deleted successfully",
		})
	}
}

func partRequestValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "BuyerEmail" && fe.Tag() == "email" {
				return "Invalid email format"
			}
			if fe.Tag() == "required" {
				return "Missing required field: " + jsonFieldName(fe.Field())
			}
		}
	}
	return "invalid request"
}

// jsonFieldName lower-cases the first rune to match the wire field names.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return string(field[0]|0x20) + field[1:]
}
