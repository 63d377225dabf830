// File: bookwala/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookwala/config"
	"bookwala/cron"
	"bookwala/database"
	paymentRepoPkg "bookwala/database/repository/payment"
	slotRepoPkg "bookwala/database/repository/slot"
	userRepoPkg "bookwala/database/repository/user"
	vendorRepoPkg "bookwala/database/repository/vendor"
	"bookwala/handlers"
	"bookwala/routes"
	"bookwala/services/agent"
	"bookwala/services/availability"
	"bookwala/services/auth"
	"bookwala/services/convo"
	"bookwala/services/nlu"
	"bookwala/services/slot"
	"bookwala/services/whatsapp"
	"bookwala/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitConvoCache()
	utils.InitDedupCache()

	loc, err := time.LoadLocation(config.AppConfig.VendorTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid VENDOR_TIMEZONE %q: %v", config.AppConfig.VendorTimezone, err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	vendorRepo := vendorRepoPkg.NewMongoVendorRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()

	if err := slotRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: slot indexes: %v", err)
	}
	if err := userRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: user indexes: %v", err)
	}

	// services.
	slotService := &slot.DefaultSlotService{
		Repo:    slotRepo,
		HoldFor: time.Duration(config.AppConfig.HoldTTLMinutes) * time.Minute,
	}
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:  slotRepo,
		Slots: slotService,
	}
	authService := &auth.DefaultAuthService{
		Repo: userRepo,
	}

	nluEngine, err := nlu.NewGeminiEngine(config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize NLU engine: %v", err)
	}

	convoStore := convo.NewRedisStore(utils.GetConvoCacheClient())
	deduper := whatsapp.NewRedisDeduper(utils.GetDedupCacheClient(), 15*time.Minute)
	waClient := whatsapp.NewClient(config.AppConfig.WhatsAppToken, config.AppConfig.WhatsAppPhoneID)

	bookingAgent := &agent.Agent{
		NLU:             nluEngine,
		Convo:           convoStore,
		Availability:    availabilityService,
		Slots:           slotService,
		Vendors:         vendorRepo,
		Users:           userRepo,
		DefaultVendorID: config.AppConfig.DefaultVendorID,
		Location:        loc,
	}

	// Background halves: async chat worker and the lock sweeper.
	rootCtx, stopBackground := context.WithCancel(context.Background())
	cron.InitChatWorker(bookingAgent, waClient)
	cron.StartSweeper(rootCtx, slotService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:         authService,
		Slots:        slotService,
		Availability: availabilityService,
		Vendors:      vendorRepo,
		Payments:     paymentRepo,
		Deduper:      deduper,
		Queue:        cron.NewChatEnqueuer(),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
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

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopBackground()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
