package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/config"
	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/handlers"
	"github.com/SAP-F-2025/marktrack-service/internal/migrations"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/marktrack-service/internal/services"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
	"github.com/SAP-F-2025/marktrack-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.RunMigrations {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get database instance: %v", err)
		}
		if err := migrations.Run(sqlDB); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		if version, dirty, err := migrations.Version(sqlDB); err == nil {
			logger.Info("Database schema ready", "version", version, "dirty", dirty)
		}
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, subject cache disabled", "error", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Events: Kafka when brokers are configured, in-process otherwise
	pubSub, err := events.NewPubSub(cfg.Events, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize events: %v", err)
	}
	publisher := events.NewWatermillPublisher(pubSub.Publisher, cfg.Events.TopicPrefix, slogLogger)

	issuer := auth.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	// Initialize services
	serviceManager := services.NewServiceManager(repoManager.GetRepository(), slogLogger, validator.New(), services.ServiceManagerConfig{
		RoleCodes: cfg.RoleCodes,
		Issuer:    issuer,
		Publisher: publisher,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Notification subscriber
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := events.NewConsumer(pubSub, cfg.Events.TopicPrefix, slogLogger)
	consumer.Handle(events.EventMarkRecorded, serviceManager.Notification().HandleMarkRecorded)
	consumer.Handle(events.EventAbsenceRecorded, serviceManager.Notification().HandleAbsenceRecorded)
	if err := consumer.Start(consumerCtx); err != nil {
		log.Fatalf("Failed to start event consumer: %v", err)
	}
	logger.Info("Event transport ready", "transport", pubSub.Transport)

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, issuer, cfg, logger)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.CORSAllowedOrigins)
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop consuming before the transport closes
	stopConsumer()
	consumer.Wait()

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}
	if err := pubSub.Close(); err != nil {
		logger.Error("Failed to close event transport", "error", err)
	}

	// Closes the database and Redis connections
	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close repositories", "error", err)
	}

	logger.Info("Server exited")
}
