package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
)

type PartService interface {
	ListParts(ctx context.Context, filter models.PartFilter) ([]*models.Part, error)
	CreatePart(ctx context.Context, part *models.Part) (*models.Part, error)
}

type partService struct {
	log      *slog.Logger
	partRepo storage.PartStorage
}

func NewPartService(log *slog.Logger, partRepo storage.PartStorage) PartService {
	return &partService{log: log, partRepo: partRepo}
}

func (s *partService) ListParts(ctx context.Context, filter models.PartFilter) ([]*models.Part, error) {
	const op = "service.PartService.ListParts"

	parts, err := s.partRepo.ListParts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return parts, nil
}

func (s *partService) CreatePart(ctx context.Context, part *models.Part) (*models.Part, error) {
	const op = "service.PartService.CreatePart"
	logger := s.log.With(slog.String("op", op), slog.String("seller", part.SellerEmail))

	if part.ID == "" {
		part.ID = "part_" + uuid.NewString()
	}
	if part.Status == "" {
		part.Status = "active"
	}
	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now().UTC()
	}

	created, err := s.partRepo.CreatePart(ctx, part)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("part created", slog.String("partID", created.ID))
	return created, nil
}
