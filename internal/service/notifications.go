package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/resend/resend-go/v2"
)

var ErrInvalidNotificationType = errors.New("invalid notification type")

const (
	NotificationTypePartRequest = "part_request"
	NotificationTypeQuoteSent   = "quote_sent"

	notificationFrom = "PartsFinda <notifications@partsfinda.com>"
	fallbackTo       = "support@partsfinda.com"
)

// Notifier receives domain events that should reach users by email.
// Callers fire it on a detached goroutine; implementations must not panic.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order)
	PartRequestCreated(ctx context.Context, req *models.PartRequest)
}

type SendNotificationInput struct {
	Type    string
	To      string
	Subject string
	Data    map[string]any
}

type NotificationService interface {
	Notifier
	Send(ctx context.Context, input SendNotificationInput) (emailID string, err error)
}

// EmailSender is the slice of the Resend client the service needs.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type notificationService struct {
	log     *slog.Logger
	emails  EmailSender
	siteURL string
}

func NewNotificationService(log *slog.Logger, emails EmailSender, siteURL string) NotificationService {
	if siteURL == "" {
		siteURL = "https://partsfinda.com"
	}
	return &notificationService{log: log, emails: emails, siteURL: siteURL}
}

func (s *notificationService) Send(ctx context.Context, input SendNotificationInput) (string, error) {
	const op = "service.NotificationService.Send"
	logger := s.log.With(slog.String("op", op), slog.String("type", input.Type))

	var (
		htmlBody string
		subject  string
		to       string
	)

	switch input.Type {
	case NotificationTypePartRequest:
		htmlBody = s.partRequestHTML(input.Data)
		subject = input.Subject
		if subject == "" {
			subject = fmt.Sprintf("New Part Request: %v", input.Data["partName"])
		}
		to = input.To
		if to == "" {
			to = fallbackTo
		}
	case NotificationTypeQuoteSent:
		htmlBody = s.quoteSentHTML(input.Data)
		subject = input.Subject
		if subject == "" {
			subject = fmt.Sprintf("Quote Received: %v", input.Data["partName"])
		}
		to = input.To
	default:
		return "", ErrInvalidNotificationType
	}

	resp, err := s.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    notificationFrom,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		logger.Error("email provider failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("notification sent", slog.String("emailID", resp.Id))
	return resp.Id, nil
}

func (s *notificationService) OrderCreated(ctx context.Context, order *models.Order) {
	const op = "service.NotificationService.OrderCreated"

	data := map[string]any{
		"partName":     fmt.Sprintf("Order %s", order.ID),
		"quoteAmount":  fmt.Sprintf("%.2f", order.Total),
		"sellerName":   "PartsFinda",
		"availability": "Confirmed",
		"deliveryTime": "5-7 business days",
		"message":      fmt.Sprintf("Your order of %d item(s) has been received.", len(order.Items)),
	}
	_, err := s.Send(ctx, SendNotificationInput{
		Type:    NotificationTypeQuoteSent,
		To:      order.CustomerInfo.Email,
		Subject: fmt.Sprintf("Order Confirmed: %s", order.ID),
		Data:    data,
	})
	if err != nil {
		s.log.Warn("order confirmation email failed",
			slog.String("op", op),
			slog.String("orderID", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *notificationService) OrderStatusChanged(ctx context.Context, order *models.Order) {
	const op = "service.NotificationService.OrderStatusChanged"

	data := map[string]any{
		"partName":     fmt.Sprintf("Order %s", order.ID),
		"quoteAmount":  fmt.Sprintf("%.2f", order.Total),
		"sellerName":   "PartsFinda",
		"availability": order.Status,
		"deliveryTime": "5-7 business days",
		"message":      fmt.Sprintf("Your order is now %s.", order.Status),
	}
	_, err := s.Send(ctx, SendNotificationInput{
		Type:    NotificationTypeQuoteSent,
		To:      order.CustomerInfo.Email,
		Subject: fmt.Sprintf("Order Update: %s", order.ID),
		Data:    data,
	})
	if err != nil {
		s.log.Warn("order status email failed",
			slog.String("op", op),
			slog.String("orderID", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *notificationService) PartRequestCreated(ctx context.Context, req *models.PartRequest) {
	const op = "service.NotificationService.PartRequestCreated"

	budget := "negotiable"
	if req.Budget != nil {
		budget = fmt.Sprintf("%.2f", *req.Budget)
	}
	data := map[string]any{
		"partName":     req.PartName,
		"vehicle":      fmt.Sprintf("%d %s %s", req.VehicleYear, req.VehicleMake, req.VehicleModel),
		"customerName": req.BuyerName,
		"location":     req.Location,
		"budget":       budget,
		"description":  req.Description,
	}
	_, err := s.Send(ctx, SendNotificationInput{
		Type: NotificationTypePartRequest,
		Data: data,
	})
	if err != nil {
		s.log.Warn("part request alert failed",
			slog.String("op", op),
			slog.String("requestID", req.ID),
			slog.String("error", err.Error()),
		)
	}
}

func esc(v any) string {
	if v == nil {
		return ""
	}
	return html.EscapeString(fmt.Sprintf("%v", v))
}

func (s *notificationService) partRequestHTML(data map[string]any) string {
	quantity := data["quantity"]
	if quantity == nil {
		quantity = 1
	}
	description := ""
	if d := esc(data["description"]); d != "" {
		description = fmt.Sprintf(`
      <div class="detail-row">
        <span class="detail-label">Additional Info:</span>
        <span class="detail-value">%s</span>
      </div>`, d)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px; }
    .container { max-width: 600px; margin: 0 auto; background: white; border-radius: 10px; padding: 30px; }
    .header { background: linear-gradient(135deg, #3b82f6 0%%, #10b981 100%%); color: white; padding: 20px; border-radius: 10px 10px 0 0; margin: -30px -30px 20px; text-align: center; }
    .badge { display: inline-block; background: #fbbf24; color: #92400e; padding: 5px 10px; border-radius: 5px; font-weight: bold; margin-bottom: 15px; }
    .details { background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .detail-row { margin: 10px 0; display: flex; justify-content: space-between; }
    .detail-label { font-weight: bold; color: #4b5563; }
    .detail-value { color: #1f2937; }
    .button { background: #3b82f6; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 20px; }
    .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>PartsFinda</h1>
      <p>New Part Request Alert!</p>
    </div>
    <div class="badge">URGENT REQUEST</div>
    <h2>A customer is looking for: %s</h2>
    <div class="details">
      <div class="detail-row">
        <span class="detail-label">Vehicle:</span>
        <span class="detail-value">%s</span>
      </div>
      <div class="detail-row">
        <span class="detail-label">Customer:</span>
        <span class="detail-value">%s</span>
      </div>
      <div class="detail-row">
        <span class="detail-label">Location:</span>
        <span class="detail-value">%s</span>
      </div>
      <div class="detail-row">
        <span class="detail-label">Budget:</span>
        <span class="detail-value">$%s</span>
      </div>
      <div class="detail-row">
        <span class="detail-label">Quantity:</span>
        <span class="detail-value">%s</span>
      </div>%s
    </div>
    <p><strong>Respond quickly to increase your chances of making this sale!</strong></p>
    <center>
      <a href="%s/seller/dashboard" class="button">View Request &amp; Send Quote</a>
    </center>
    <div class="footer">
      <p>You're receiving this because you're a verified seller on PartsFinda</p>
      <p>&copy; 2024 PartsFinda Inc. | Kingston, Jamaica</p>
      <p>Questions? Email us at support@partsfinda.com</p>
    </div>
  </div>
</body>
</html>`,
		esc(data["partName"]), esc(data["vehicle"]), esc(data["customerName"]),
		esc(data["location"]), esc(data["budget"]), esc(quantity), description, s.siteURL)
}

func (s *notificationService) quoteSentHTML(data map[string]any) string {
	message := ""
	if m := esc(data["message"]); m != "" {
		message = fmt.Sprintf(`<p><strong>Message:</strong> %s</p>`, m)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px; }
    .container { max-width: 600px; margin: 0 auto; background: white; border-radius: 10px; padding: 30px; }
    .header { background: linear-gradient(135deg, #10b981 0%%, #3b82f6 100%%); color: white; padding: 20px; border-radius: 10px 10px 0 0; margin: -30px -30px 20px; text-align: center; }
    .quote-box { background: #ecfdf5; border: 2px solid #10b981; padding: 20px; border-radius: 8px; margin: 20px 0; text-align: center; }
    .price { font-size: 36px; font-weight: bold; color: #059669; }
    .details { background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .button { background: #10b981; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>PartsFinda</h1>
      <p>You've Received a Quote!</p>
    </div>
    <h2>Quote for: %s</h2>
    <div class="quote-box">
      <p>Quote Amount:</p>
      <div class="price">$%s</div>
    </div>
    <div class="details">
      <p><strong>Seller:</strong> %s</p>
      <p><strong>Availability:</strong> %s</p>
      <p><strong>Delivery:</strong> %s</p>
      %s
    </div>
    <center>
      <a href="%s/messages" class="button">View Quote &amp; Message Seller</a>
    </center>
  </div>
</body>
</html>`,
		esc(data["partName"]), esc(data["quoteAmount"]), esc(data["sellerName"]),
		esc(data["availability"]), esc(data["deliveryTime"]), message, s.siteURL)
}
