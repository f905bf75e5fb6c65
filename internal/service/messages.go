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

var ErrMissingMessageFields = errors.New("sender, receiver and content are required")

const messageListLimit = 50

type MessageService interface {
	ListMessages(ctx context.Context, userID string) ([]*models.Message, error)
	SendMessage(ctx context.Context, senderID, receiverID, content string) (*models.Message, error)
}

type messageService struct {
	log     *slog.Logger
	msgRepo storage.MessageStorage
}

func NewMessageService(log *slog.Logger, msgRepo storage.MessageStorage) MessageService {
	return &messageService{log: log, msgRepo: msgRepo}
}

func (s *messageService) ListMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	const op = "service.MessageService.ListMessages"

	messages, err := s.msgRepo.ListMessagesByUser(ctx, userID, messageListLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	return messages, nil
}

func (s *messageService) SendMessage(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	const op = "service.MessageService.SendMessage"
	logger := s.log.With(slog.String("op", op), slog.String("senderID", senderID))

	if senderID == "" || receiverID == "" || content == "" {
		return nil, ErrMissingMessageFields
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.msgRepo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("message sent", slog.String("messageID", msg.ID))
	return msg, nil
}
