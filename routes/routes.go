package routes

import (
	"time"

	"hallbook/config"
	"hallbook/handlers"
	"hallbook/middleware"
	"hallbook/services/ratelimit"
	"hallbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the full HTTP surface: public catalogue and gateway
// endpoints, authenticated customer endpoints, and the admin group.
func SetupRouter(hb *handlers.HandlerBundle, limiter ratelimit.Limiter) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware(limiter))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", hb.HealthHandler)
	registerHallRoutes(router, hb)
	registerBookingRoutes(router, hb)
	registerPaymentRoutes(router, hb)
	registerNotificationRoutes(router, hb)
	return router
}

func registerHallRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/halls")
	{
		api.GET("", hb.ListHallsHandler)
		api.GET("/:id", hb.GetHallHandler)
	}

	admin := r.Group("/api/halls")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnly())
	{
		admin.POST("", hb.CreateHallHandler)
		admin.PUT("/:id", hb.UpdateHallHandler)
		admin.POST("/:id/images", hb.UploadHallImageHandler)
	}
}

func registerBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.POST("/check-availability", hb.CheckAvailabilityHandler)

	auth := api.Group("")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.POST("", hb.CreateBookingHandler)
		auth.GET("/my", hb.MyBookingsHandler)
		auth.GET("/:id", hb.GetBookingHandler)
		auth.PUT("/:id/cancel", hb.CancelBookingHandler)
	}

	admin := api.Group("")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnly())
	{
		admin.POST("/offline", hb.CreateOfflineBookingHandler)
		admin.GET("/admin/all", hb.ListBookingsHandler)
		admin.PUT("/:id/admin-cancel", hb.AdminCancelBookingHandler)
		admin.PUT("/:id/status", hb.UpdateBookingStatusHandler)
	}
}

func registerPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		// Gateway-facing endpoints carry their own verification.
		api.POST("/webhook", hb.PaystackWebhookHandler)
		api.GET("/callback", hb.PaymentCallbackHandler)
	}

	auth := api.Group("")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.POST("/process", hb.ProcessPaymentHandler)
		auth.GET("/my", hb.MyPaymentsHandler)
		auth.GET("/verify/:transactionId", hb.VerifyPaymentHandler)
		auth.GET("/reference/:reference", hb.GetPaymentByReferenceHandler)
		auth.GET("/receipt/:transactionId", hb.ReceiptHandler)
		auth.POST("/transfer-proof/:transactionId", hb.UploadTransferProofHandler)
	}

	admin := api.Group("")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnly())
	{
		admin.PUT("/verify-transfer/:transactionId", hb.ReviewTransferProofHandler)
		admin.POST("/offline", hb.RecordOfflinePaymentHandler)
		admin.GET("/admin/all", hb.ListPaymentsHandler)
		admin.GET("/admin/pending-transfers", hb.PendingTransferProofsHandler)
		admin.GET("/admin/stats", hb.PaymentStatsHandler)
		admin.POST("/caution-refund/process/:transactionId", hb.ProcessCautionRefundHandler)
		admin.PUT("/caution-refund/update/:transactionId", hb.UpdateCautionRefundHandler)
		admin.GET("/caution-refund/history/:transactionId", hb.CautionRefundHistoryHandler)
		admin.GET("/caution-refund/eligible", hb.EligibleCautionRefundsHandler)
	}
}

func registerNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("", hb.MyNotificationsHandler)
		api.PATCH("/:id/read", hb.MarkNotificationReadHandler)
	}
}
