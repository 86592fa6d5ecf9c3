package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quiz-platform/backend/internal/data"
	"github.com/quiz-platform/backend/internal/handler"
	"github.com/quiz-platform/backend/internal/infrastructure"
	"github.com/quiz-platform/backend/internal/middleware"
	"github.com/quiz-platform/backend/internal/repository"
	"github.com/quiz-platform/backend/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	config := infrastructure.LoadConfig()

	// Initialize logger
	logger, err := infrastructure.NewLogger(config.Server.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.SyncLogger(logger)

	logger.Info("Starting Quiz Platform API",
		zap.String("environment", config.Server.Environment),
		zap.Int("port", config.Server.Port),
	)

	// Initialize context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize telemetry
	telemetry, err := infrastructure.NewTelemetry(ctx, &config.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	// Create metrics
	metrics, err := telemetry.CreateMetrics()
	if err != nil {
		logger.Error("Failed to create metrics", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	database, err := infrastructure.NewDatabase(&config.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	// Seed bootstrap data
	seeder := data.NewSeeder(database.DB, logger)
	if err := seeder.SeedAdmin(&config.Admin); err != nil {
		logger.Error("Failed to seed admin account", zap.Error(err))
		os.Exit(1)
	}
	if err := seeder.SeedSampleCompetition(config.Server.Environment); err != nil {
		logger.Error("Failed to seed sample competition", zap.Error(err))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	competitionRepo := repository.NewCompetitionRepository(database.DB)
	questionRepo := repository.NewQuestionRepository(database.DB)
	attemptRepo := repository.NewAttemptRepository(database.DB)
	notificationRepo := repository.NewNotificationRepository(database.DB)

	// Initialize services
	userService := service.NewUserService(userRepo, &config.JWT, telemetry.Tracer, logger)
	competitionService := service.NewCompetitionService(competitionRepo, attemptRepo, notificationRepo, telemetry.Tracer, logger)
	questionService := service.NewQuestionService(questionRepo, competitionRepo, telemetry.Tracer, logger)
	attemptService := service.NewAttemptService(attemptRepo, competitionRepo, questionRepo, metrics, telemetry.Tracer, logger)
	dashboardService := service.NewDashboardService(attemptRepo, userRepo, competitionRepo, telemetry.Tracer, logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, telemetry.Tracer, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService, dashboardService)
	competitionHandler := handler.NewCompetitionHandler(competitionService)
	questionHandler := handler.NewQuestionHandler(questionService)
	attemptHandler := handler.NewAttemptHandler(attemptService, dashboardService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	adminHandler := handler.NewAdminHandler(dashboardService)

	// Setup Gin router
	if config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	corsConfig := middleware.DefaultCORSConfig()
	if config.Server.Environment == "production" {
		if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
			corsConfig = middleware.ProductionCORSConfig(strings.Split(origins, ","))
		}
	}

	// Add global middleware
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(corsConfig))
	router.Use(middleware.TracingMiddleware(telemetry.Tracer))
	router.Use(middleware.MetricsMiddleware(metrics))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": config.Telemetry.ServiceVersion,
		})
	})

	// Metrics endpoint for Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Competition routes (public browsing)
		competitions := api.Group("/competitions")
		{
			competitions.GET("", competitionHandler.ListOpen)
			competitions.GET("/:id", competitionHandler.GetByID)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(userService))
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/me", userHandler.GetCurrentUser)
				users.GET("/me/stats", userHandler.GetStats)
			}

			protected.POST("/competitions/:id/attempts", attemptHandler.StartAttempt)

			// Attempt routes
			attempts := protected.Group("/attempts")
			{
				attempts.GET("/ongoing", attemptHandler.GetOngoingAttempts)
				attempts.GET("/completed", attemptHandler.GetCompletedAttempts)
				attempts.GET("/:id", attemptHandler.GetAttempt)
				attempts.GET("/:id/questions", attemptHandler.GetAttemptQuestions)
				attempts.PATCH("/:id/progress", attemptHandler.SaveProgress)
				attempts.POST("/:id/submit", attemptHandler.SubmitAttempt)
				attempts.POST("/:id/abandon", attemptHandler.AbandonAttempt)
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.GET("/unread-count", notificationHandler.UnreadCount)
				notifications.POST("/read-all", notificationHandler.MarkAllRead)
				notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdminMiddleware())
			{
				admin.GET("/stats", adminHandler.GetStats)

				admin.GET("/competitions", competitionHandler.ListAll)
				admin.POST("/competitions", competitionHandler.Create)
				admin.PUT("/competitions/:id", competitionHandler.Update)
				admin.DELETE("/competitions/:id", competitionHandler.Delete)
				admin.POST("/competitions/:id/publish", competitionHandler.Publish)
				admin.POST("/competitions/:id/activate", competitionHandler.Activate)
				admin.POST("/competitions/:id/complete", competitionHandler.Complete)
				admin.POST("/competitions/:id/cancel", competitionHandler.Cancel)
				admin.POST("/competitions/:id/declare-results", competitionHandler.DeclareResults)

				admin.GET("/competitions/:id/questions", questionHandler.List)
				admin.POST("/competitions/:id/questions", questionHandler.Create)
				admin.GET("/questions/:id", questionHandler.GetByID)
				admin.PUT("/questions/:id", questionHandler.Update)
				admin.DELETE("/questions/:id", questionHandler.Delete)

				admin.POST("/notifications", notificationHandler.Create)
				admin.POST("/notifications/broadcast", notificationHandler.Broadcast)
			}
		}
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server starting",
			zap.String("address", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
