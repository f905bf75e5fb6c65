package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/partsfinda/partsfinda-api/internal/service"
)

type SendNotificationRequest struct {
	Type    string         `json:"type"`
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Data    map[string]any `json:"data"`
}

// SendNotificationHandler handles POST /api/notifications.
func SendNotificationHandler(log *slog.Logger, notificationService service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SendNotificationHandler"
		logger := log.With(slog.String("op", op))

		var req SendNotificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(w, logger, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Invalid notification type",
			})
			return
		}

		emailID, err := notificationService.Send(r.Context(), service.SendNotificationInput{
			Type:    req.Type,
			To:      req.To,
			Subject: req.Subject,
			Data:    req.Data,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidNotificationType) {
				writeJSON(w, logger, http.StatusBadRequest, map[string]any{
					"success": false,
					"message": "Invalid notification type",
				})
				return
			}
			logger.Error("failed to send notification", slog.Any("error", err))
			writeJSON(w, logger, http.StatusBadGateway, map[string]any{
				"success": false,
				"message": "Failed to send notification",
			})
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success": true,
			"message": "Notification sent successfully",
			"emailId": emailID,
		})
	}
}
