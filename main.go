package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bottega/cache"
	"bottega/config"
	"bottega/cron"
	"bottega/handlers"
	"bottega/middleware"
	"bottega/remote"
	"bottega/routes"
	"bottega/services/booking"
	"bottega/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	utils.InitRedis()

	// Remote data service with its cooperative outbound rate limit.
	limiter := remote.NewSlidingLimiter(
		cfg.RemoteMaxRequests,
		time.Duration(cfg.RemoteWindowSec)*time.Second,
	)
	dataClient := remote.NewClient(cfg.DataAPIBaseURL, limiter, logger)

	var checkout remote.CheckoutClient
	switch cfg.CheckoutDriver {
	case "stripe":
		checkout = remote.NewStripeCheckout(cfg.StripeKey, cfg.CheckoutCurrency, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	default:
		checkout = remote.NewRemoteCheckout(dataClient, cfg.CheckoutPath, logger)
	}

	cron.InitFollowupWorker(logger)
	followups := cron.NewEnqueuer(logger)

	widgetService := booking.NewWidgetService(
		dataClient,
		checkout,
		followups,
		cache.NewRedisCache(utils.GetCacheClient()),
		cache.NewRedisCache(utils.GetSessionCacheClient()),
		booking.WidgetConfig{
			SlotCacheTTL:     time.Duration(cfg.SlotCacheTTLSec) * time.Second,
			BookingsCacheTTL: time.Duration(cfg.BookingsCacheTTLSec) * time.Second,
			ServiceCacheTTL:  time.Duration(cfg.ServiceCacheTTLSec) * time.Second,
			SessionTTL:       time.Duration(cfg.SessionTTLSec) * time.Second,
			MinQuorum:        cfg.MinQuorum,
			QuoteDebounce:    time.Duration(cfg.QuoteDebounceMS) * time.Millisecond,
			DiscountMinGroup: cfg.DiscountMinGroup,
		},
		logger,
	)
	widgetHandler := handlers.NewWidgetHandler(widgetService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, widgetHandler)

	port := cfg.AppPort
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
