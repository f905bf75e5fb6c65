package service_test

import (
	"context"
	"testing"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeMessageRepo struct {
	messages []*models.Message
}

var _ storage.MessageStorage = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) ListMessagesByUser(ctx context.Context, userID string, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

func TestSendMessage(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := service.NewMessageService(testLogger(), repo)

	msg, err := svc.SendMessage(context.Background(), "user_1", "seller_1", "Is the alternator still available?")

	assert.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Read)
	assert.False(t, msg.CreatedAt.IsZero())
	assert.Len(t, repo.messages, 1)
}

func TestSendMessage_MissingFields(t *testing.T) {
	svc := service.NewMessageService(testLogger(), &fakeMessageRepo{})

	for _, tc := range []struct{ sender, receiver, content string }{
		{"", "seller_1", "hi"},
		{"user_1", "", "hi"},
		{"user_1", "seller_1", ""},
	} {
		_, err := svc.SendMessage(context.Background(), tc.sender, tc.receiver, tc.content)
		assert.ErrorIs(t, err, service.ErrMissingMessageFields)
	}
}

func TestListMessages(t *testing.T) {
	repo := &fakeMessageRepo{messages: []*models.Message{
		{ID: "m1", SenderID: "user_1", ReceiverID: "seller_1", Content: "hello"},
		{ID: "m2", SenderID: "seller_1", ReceiverID: "user_1", Content: "hi"},
		{ID: "m3", SenderID: "user_2", ReceiverID: "seller_1", Content: "other thread"},
	}}
	svc := service.NewMessageService(testLogger(), repo)

	messages, err := svc.ListMessages(context.Background(), "user_1")

	assert.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestListMessages_EmptyIsNotNil(t *testing.T) {
	svc := service.NewMessageService(testLogger(), &fakeMessageRepo{})

	messages, err := svc.ListMessages(context.Background(), "user_nobody")

	assert.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}
