package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/partsfinda/partsfinda-api/internal/app"
	"github.com/partsfinda/partsfinda-api/internal/app/handlers"
	"github.com/partsfinda/partsfinda-api/internal/auth/authmw"
	"github.com/partsfinda/partsfinda-api/internal/clients/vin"
	"github.com/partsfinda/partsfinda-api/internal/config"
	"github.com/partsfinda/partsfinda-api/internal/lib/logger"
	"github.com/partsfinda/partsfinda-api/internal/lib/logger/handlers/urllog"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	userRepo := storage.NewUserRepository(application.DB)
	sellerRepo := storage.NewSellerRepository(application.DB)
	partRepo := storage.NewPartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	partRequestRepo := storage.NewPartRequestRepository(application.DB)
	messageRepo := storage.NewMessageRepository(application.DB)
	verificationRepo := storage.NewVerificationRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.Redis)

	notificationService := service.NewNotificationService(
		application.Logger,
		resend.NewClient(cfg.Resend.APIKey).Emails,
		cfg.SiteURL,
	)

	authService := service.NewAuthService(application.Logger, userRepo, sellerRepo, time.Duration(cfg.JWT.TokenTTL)*time.Minute)
	cartService := service.NewCartService(application.Logger, cartRepo)
	orderService := service.NewOrderService(application.Logger, orderRepo, notificationService)
	partRequestService := service.NewPartRequestService(application.Logger, partRequestRepo, notificationService)
	partService := service.NewPartService(application.Logger, partRepo)
	bulkUploadService := service.NewBulkUploadService(application.Logger, partRepo)
	paymentService := service.NewPaymentService(application.Logger, cfg.Stripe.SecretKey)
	subscriptionService := service.NewSubscriptionService(application.Logger, sellerRepo, cfg.SiteURL, cfg.Stripe.SecretKey)
	visualSearchService := service.NewVisualSearchService(application.Logger, nil)
	messageService := service.NewMessageService(application.Logger, messageRepo)
	verificationService := service.NewVerificationService(application.Logger, verificationRepo)
	vinClient := vin.New(cfg.VIN.BaseURL, cfg.VIN.Timeout)

	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/seller-register", handlers.SellerRegisterHandler(application.Logger, authService))

	router.Get("/api/cart", handlers.GetCartHandler(application.Logger, cartService))
	router.Post("/api/cart", handlers.AddCartItemHandler(application.Logger, cartService))
	router.Put("/api/cart", handlers.UpdateCartItemHandler(application.Logger, cartService))
	router.Delete("/api/cart", handlers.ClearCartHandler(application.Logger, cartService))

	router.Post("/api/orders", handlers.CreateOrderHandler(application.Logger, orderService))
	router.Get("/api/orders", handlers.ListOrdersHandler(application.Logger, orderService))
	router.Put("/api/orders", handlers.UpdateOrderHandler(application.Logger, orderService))
	router.Delete("/api/orders", handlers.CancelOrderHandler(application.Logger, orderService))

	router.Post("/api/part-requests", handlers.CreatePartRequestHandler(application.Logger, partRequestService))
	router.Get("/api/part-requests", handlers.ListPartRequestsHandler(application.Logger, partRequestService))
	router.Put("/api/part-requests", handlers.UpdatePartRequestHandler(application.Logger, partRequestService))
	router.Delete("/api/part-requests", handlers.DeletePartRequestHandler(application.Logger, partRequestService))

	router.Get("/api/parts", handlers.ListPartsHandler(application.Logger, partService))
	router.Get("/api/parts/bulk-upload", handlers.BulkUploadTemplateHandler(application.Logger))

	router.Post("/api/payments/create-intent", handlers.CreateIntentHandler(application.Logger, paymentService))
	router.Post("/api/payments/stripe", handlers.StripePaymentHandler(application.Logger, paymentService, cfg.Stripe.PublishableKey))
	router.Put("/api/payments/stripe", handlers.StripeWebhookHandler(application.Logger))
	router.Post("/api/payments/paypal", handlers.PayPalCreateHandler(application.Logger, paymentService))
	router.Put("/api/payments/paypal", handlers.PayPalCaptureHandler(application.Logger, paymentService))
	router.Get("/api/payments/paypal", handlers.PayPalGetHandler(application.Logger, paymentService))

	router.Get("/api/subscriptions", handlers.GetSubscriptionsHandler(application.Logger, subscriptionService))
	router.Post("/api/subscriptions", handlers.PostSubscriptionsHandler(application.Logger, subscriptionService))
	router.Delete("/api/subscriptions", handlers.CancelSubscriptionHandler(application.Logger, subscriptionService))
	router.Put("/api/subscriptions", handlers.SubscriptionWebhookHandler(application.Logger, subscriptionService))

	router.Get("/api/vin", handlers.DecodeVINHandler(application.Logger, vinClient))

	router.Post("/api/visual-search", handlers.VisualSearchHandler(application.Logger, visualSearchService))
	router.Get("/api/visual-search", handlers.VisualSearchCapabilitiesHandler(application.Logger, visualSearchService))

	router.Post("/api/notifications", handlers.SendNotificationHandler(application.Logger, notificationService))

	router.Get("/api/messages", handlers.ListMessagesHandler(application.Logger, messageService))
	router.Post("/api/messages", handlers.SendMessageHandler(application.Logger, messageService))

	router.Get("/api/seller/verification", handlers.VerificationStatusHandler(application.Logger, verificationService))

	// Seller-only routes require a valid bearer token.
	router.Group(func(r chi.Router) {
		jwtMW := authmw.NewJWTMiddleware()
		r.Use(jwtMW)
		r.Post("/api/parts", handlers.CreatePartHandler(application.Logger, partService))
		r.Post("/api/parts/bulk-upload", handlers.BulkUploadHandler(application.Logger, bulkUploadService))
		r.Post("/api/seller/verification", handlers.SubmitVerificationHandler(application.Logger, verificationService))
		r.Put("/api/seller/verification", handlers.UpdateVerificationHandler(application.Logger, verificationService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
