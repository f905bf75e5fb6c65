package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/partsfinda/partsfinda-api/internal/service"
)

type SendMessageRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// ListMessagesHandler handles GET /api/messages?userId=.
func ListMessagesHandler(log *slog.Logger, messageService service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListMessagesHandler"
		logger := log.With(slog.String("op", op))

		userID := r.URL.Query().Get("userId")
		if userID == "" {
			writeError(w, logger, http.StatusBadRequest, "User ID is required")
			return
		}

		messages, err := messageService.ListMessages(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list messages", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to load messages")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"messages": messages})
	}
}

// SendMessageHandler handles POST /api/messages.
func SendMessageHandler(log *slog.Logger, messageService service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SendMessageHandler"
		logger := log.With(slog.String("op", op))

		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Missing required fields")
			return
		}

		msg, err := messageService.SendMessage(r.Context(), req.SenderID, req.ReceiverID, req.Content)
		if err != nil {
			if errors.Is(err, service.ErrMissingMessageFields) {
				writeError(w, logger, http.StatusBadRequest, "Missing required fields")
				return
			}
			logger.Error("failed to send message", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Failed to send message")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{"success": true, "message": msg})
	}
}
