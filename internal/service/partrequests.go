package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
)

var (
	ErrPartRequestNotFound = errors.New("part request not found")
	ErrInvalidVehicleYear  = errors.New("invalid vehicle year")
)

// Requests stay open for two weeks before expiring.
const partRequestLifetime = 14 * 24 * time.Hour

// PartRequestStats aggregates the filtered (pre-pagination) set per status.
type PartRequestStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	InProgress int `json:"in_progress"`
	Fulfilled  int `json:"fulfilled"`
	Expired    int `json:"expired"`
}

type PartRequestList struct {
	Requests   []*models.PartRequest
	Pagination Pagination
	Stats      PartRequestStats
}

type CreatePartRequestInput struct {
	PartName               string
	PartNumber             string
	VehicleMake            string
	VehicleModel           string
	VehicleYear            int
	VehicleTrim            string
	OEMNumber              string
	Condition              string
	Description            string
	Budget                 *float64
	Urgency                string
	BuyerName              string
	BuyerEmail             string
	BuyerPhone             string
	Location               string
	PreferredContactMethod string
	Deadline               *time.Time
}

type UpdatePartRequestInput struct {
	ID             string
	Status         string
	ResponsesCount *int
}

type PartRequestService interface {
	CreatePartRequest(ctx context.Context, input CreatePartRequestInput) (*models.PartRequest, error)
	ListPartRequests(ctx context.Context, filter models.PartRequestFilter, limit, offset int) (*PartRequestList, error)
	UpdatePartRequest(ctx context.Context, input UpdatePartRequestInput) (*models.PartRequest, error)
	DeletePartRequest(ctx context.Context, id string) error
}

type partRequestService struct {
	log      *slog.Logger
	reqRepo  storage.PartRequestStorage
	notifier Notifier
}

func NewPartRequestService(log *slog.Logger, reqRepo storage.PartRequestStorage, notifier Notifier) PartRequestService {
	return &partRequestService{log: log, reqRepo: reqRepo, notifier: notifier}
}

func (s *partRequestService) CreatePartRequest(ctx context.Context, input CreatePartRequestInput) (*models.PartRequest, error) {
	const op = "service.PartRequestService.CreatePartRequest"
	logger := s.log.With(slog.String("op", op), slog.String("buyerEmail", input.BuyerEmail))

	currentYear := time.Now().Year()
	if input.VehicleYear < 1900 || input.VehicleYear > currentYear+1 {
		return nil, ErrInvalidVehicleYear
	}

	condition := input.Condition
	if condition == "" {
		condition = "any"
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = "medium"
	}
	contactMethod := input.PreferredContactMethod
	if contactMethod == "" {
		contactMethod = "email"
	}

	now := time.Now().UTC()
	req := &models.PartRequest{
		ID:                     uuid.NewString(),
		PartName:               input.PartName,
		PartNumber:             input.PartNumber,
		VehicleMake:            input.VehicleMake,
		VehicleModel:           input.VehicleModel,
		VehicleYear:            input.VehicleYear,
		VehicleTrim:            input.VehicleTrim,
		OEMNumber:              input.OEMNumber,
		Condition:              condition,
		Description:            input.Description,
		Budget:                 input.Budget,
		Urgency:                urgency,
		BuyerName:              input.BuyerName,
		BuyerEmail:             input.BuyerEmail,
		BuyerPhone:             input.BuyerPhone,
		Location:               input.Location,
		PreferredContactMethod: contactMethod,
		Status:                 models.RequestStatusActive,
		ResponsesCount:         0,
		ExpiresAt:              now.Add(partRequestLifetime),
		Deadline:               input.Deadline,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.reqRepo.CreatePartRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Seller alerts happen off the request path.
	if s.notifier != nil {
		go s.notifier.PartRequestCreated(context.WithoutCancel(ctx), req)
	}

	logger.Info("part request created", slog.String("requestID", req.ID))
	return req, nil
}

func (s *partRequestService) ListPartRequests(ctx context.Context, filter models.PartRequestFilter, limit, offset int) (*PartRequestList, error) {
	const op = "service.PartRequestService.ListPartRequests"

	filtered, err := s.reqRepo.ListPartRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := PartRequestStats{Total: len(filtered)}
	for _, req := range filtered {
		switch req.Status {
		case models.RequestStatusActive:
			stats.Active++
		case models.RequestStatusInProgress:
			stats.InProgress++
		case models.RequestStatusFulfilled:
			stats.Fulfilled++
		case models.RequestStatusExpired:
			stats.Expired++
		}
	}

	page, pagination := paginate(filtered, limit, offset)
	return &PartRequestList{Requests: page, Pagination: pagination, Stats: stats}, nil
}

func (s *partRequestService) UpdatePartRequest(ctx context.Context, input UpdatePartRequestInput) (*models.PartRequest, error) {
	const op = "service.PartRequestService.UpdatePartRequest"

	req, err := s.reqRepo.GetPartRequestByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, storage.ErrPartRequestNotFound) {
			return nil, ErrPartRequestNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if input.Status != "" {
		req.Status = input.Status
	}
	if input.ResponsesCount != nil {
		req.ResponsesCount = *input.ResponsesCount
	}
	req.UpdatedAt = time.Now().UTC()

	if err := s.reqRepo.UpdatePartRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

func (s *partRequestService) DeletePartRequest(ctx context.Context, id string) error {
	const op = "service.PartRequestService.DeletePartRequest"

	if err := s.reqRepo.DeletePartRequest(ctx, id); err != nil {
		if errors.Is(err, storage.ErrPartRequestNotFound) {
			return ErrPartRequestNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("part request deleted", slog.String("op", op), slog.String("requestID", id))
	return nil
}
