package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadbridge/leadbridge-api/config"
	"github.com/leadbridge/leadbridge-api/internal/handlers"
	"github.com/leadbridge/leadbridge-api/internal/mapping"
	"github.com/leadbridge/leadbridge-api/internal/middleware"
	"github.com/leadbridge/leadbridge-api/internal/services"
	"github.com/leadbridge/leadbridge-api/pkg/calendly"
	"github.com/leadbridge/leadbridge-api/pkg/crm"
	"github.com/leadbridge/leadbridge-api/pkg/httpclient"
	"github.com/leadbridge/leadbridge-api/pkg/logger"
	"github.com/leadbridge/leadbridge-api/pkg/metrics"
	"github.com/leadbridge/leadbridge-api/pkg/profiling"
	"github.com/leadbridge/leadbridge-api/pkg/signature"
	"github.com/leadbridge/leadbridge-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting LeadBridge API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.AlloyEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	if cfg.Profiling.Enabled {
		profilerStop, profErr := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if profErr != nil {
			logger.Error("Failed to initialize profiler", zap.Error(profErr))
		} else {
			defer profilerStop()
		}
	}

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Outbound HTTP clients. The CRM client gets its own timeout so a slow
	// lead-intake API cannot hold webhook deliveries beyond the configured
	// bound.
	calendlyHTTPClient := httpclient.NewStandardClient()
	crmHTTPClient := httpclient.NewClientWithTimeout(time.Duration(cfg.CRM.TimeoutSeconds) * time.Second)

	calendlyClient := calendly.NewClient(
		cfg.Calendly.APIBaseURL,
		cfg.Calendly.APIToken,
		time.Duration(cfg.Calendly.EventTypeCacheTTLSec)*time.Second,
		calendlyHTTPClient,
	)
	crmClient := crm.NewClient(cfg.CRM.APIURL, crmHTTPClient)

	// Segment routing and lead mapping tables
	segments := mapping.NewSegmentTable(cfg.Segments)
	mapperCfg := mapping.NewMapperConfig(cfg)

	// Initialize services
	webhookService := services.NewWebhookService(segments, mapperCfg, calendlyClient, crmClient)
	registrationService := services.NewRegistrationService(calendlyClient)

	// Initialize handlers
	verifier := signature.NewVerifier(cfg.Webhook.SigningKey)
	webhookHandler := handlers.NewWebhookHandler(webhookService, verifier, cfg.Webhook.SignatureRequired)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	healthHandler := handlers.NewHealthHandler()

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Calendly-Webhook-Signature", "X-Request-ID", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// Rate limiters per endpoint type
	generalRateLimiter := middleware.NewRateLimiter(100, 200)        // 100 req/sec, burst of 200
	webhookRateLimiter := middleware.NewRateLimiter(50, 100)         // 50 req/sec, burst of 100
	registrationRateLimiter := middleware.NewRateLimiter(0.00667, 3) // 2 req/5min, burst of 3

	// Routes
	router.GET("/health", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	router.GET("/register-webhook", registrationRateLimiter.Middleware(), registrationHandler.RegisterWebhook)

	api := router.Group("/api")
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))
	api.POST("/webhook", webhookRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(1*1024*1024), webhookHandler.HandleWebhook)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
