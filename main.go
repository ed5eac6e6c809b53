package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hallbook/config"
	"hallbook/cron"
	"hallbook/database"
	bookingRepoPkg "hallbook/database/repository/booking"
	hallRepoPkg "hallbook/database/repository/hall"
	notificationRepoPkg "hallbook/database/repository/notification"
	paymentRepoPkg "hallbook/database/repository/payment"
	"hallbook/handlers"
	"hallbook/routes"
	bookingSvc "hallbook/services/booking"
	hallSvc "hallbook/services/hall"
	"hallbook/services/mailer"
	"hallbook/services/notification"
	paymentSvc "hallbook/services/payment"
	"hallbook/services/payment/gateway"
	"hallbook/services/ratelimit"
	"hallbook/services/storage"
	"hallbook/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	storageService, err := storage.NewCloudinaryStorage()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize storage service: %v", err)
	}
	smtpMailer, err := mailer.NewSMTPMailer()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize mailer: %v", err)
	}

	// Repositories.
	hallRepo := hallRepoPkg.NewMongoHallRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// Rate limiting: shared Redis window when configured, token buckets
	// in process memory otherwise.
	attemptWindow := time.Duration(config.AppConfig.PaymentAttemptWindow) * time.Minute
	var attemptLimiter ratelimit.Limiter
	var requestLimiter ratelimit.Limiter
	if config.AppConfig.RateLimiterBackend == "redis" {
		utils.InitLimiterCache()
		attemptLimiter = ratelimit.NewRedisLimiter(utils.GetLimiterClient(), config.AppConfig.PaymentAttemptLimit, attemptWindow)
		requestLimiter = ratelimit.NewRedisLimiter(utils.GetLimiterClient(), 200, time.Minute)
	} else {
		attemptLimiter = ratelimit.NewMemoryLimiter(config.AppConfig.PaymentAttemptLimit, attemptWindow)
		requestLimiter = ratelimit.NewMemoryLimiter(200, time.Minute)
	}

	// Services.
	notifier := notification.NewNotifier(notificationRepo, smtpMailer)
	halls := hallSvc.NewHallService(hallRepo, storageService)
	bookings := bookingSvc.NewBookingService(hallRepo, bookingRepo, paymentRepo, notifier)
	payments := paymentSvc.NewPaymentService(paymentRepo, bookingRepo, gateway.NewPaystackClient(), storageService, attemptLimiter, notifier)

	// Background jobs.
	cron.InitWorker(bookings)
	cron.InitScheduler()

	handlerBundle := handlers.NewHandlerBundle(halls, bookings, payments, notifier)
	router := routes.SetupRouter(handlerBundle, requestLimiter)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
