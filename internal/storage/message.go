package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
)

// MessageStorage covers buyer/seller conversations.
type MessageStorage interface {
	// ListMessagesByUser returns the latest messages the user sent or
	// received, newest first.
	ListMessagesByUser(ctx context.Context, userID string, limit int) ([]*models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
}

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageStorage {
	return &messageRepository{db: db}
}

func (r *messageRepository) ListMessagesByUser(ctx context.Context, userID string, limit int) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, content, read, created_at
		 FROM messages
		 WHERE sender_id = $1 OR receiver_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, content, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Content, msg.Read, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}
