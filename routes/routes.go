package routes

import (
	"net/http"
	"time"

	"bookwala/handlers"
	"bookwala/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Register)
		api.POST("/login", hb.Login)
		api.POST("/login/phone", hb.LoginWithPhone)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/change-password", hb.ChangePassword)
		api.POST("/set-password", hb.SetPassword)
		api.GET("/me", hb.Me)
	}
}

// RegisterVendorRoutes registers the public catalog and the vendor dashboard.
func RegisterVendorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vendors")
	{
		api.GET("", hb.ListVendors)
		api.GET("/:id", hb.GetVendor)
		api.GET("/:id/availability", hb.VendorAvailability)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireVendor())
		protected.GET("/:id/schedule", hb.VendorSchedule)
	}
}

// RegisterSlotRoutes registers the reservation protocol endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/:id/lock", hb.LockSlot)
		api.POST("/:id/release", hb.ReleaseSlot)
		api.POST("/:id/cancel", hb.CancelSlot)

		// Vendor-side transitions.
		vendor := api.Group("")
		vendor.Use(middleware.RequireVendor())
		vendor.POST("/:id/confirm", hb.ConfirmSlot)
		vendor.POST("/:id/reject", hb.RejectSlot)
		vendor.POST("/:id/complete", hb.CompleteSlot)
		vendor.POST("/:id/block", hb.BlockSlot)
		vendor.POST("/:id/unblock", hb.UnblockSlot)
		vendor.POST("/:id/manual-booking", hb.ManualBooking)
	}
}

// RegisterBookingRoutes registers payment submission and the caller's booking list.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/payments", hb.SubmitPayment)
		api.GET("/bookings", hb.ListBookings)
	}
}

// RegisterWebhookRoutes registers the chat provider's entry points.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/webhook/chat", hb.VerifyWebhook)
	r.POST("/webhook/chat", hb.ReceiveWebhook)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Bookwala"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterAuthRoutes(r, hb)
	RegisterVendorRoutes(r, hb)
	RegisterSlotRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)
}
