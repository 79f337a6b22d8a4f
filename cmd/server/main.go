package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/condoverde/recicla/api/internal/config"
	"github.com/condoverde/recicla/api/internal/database"
	"github.com/condoverde/recicla/api/internal/handlers"
	"github.com/condoverde/recicla/api/internal/logger"
	"github.com/condoverde/recicla/api/internal/middleware"
	"github.com/condoverde/recicla/api/internal/repository"
	"github.com/condoverde/recicla/api/internal/seed"
	"github.com/condoverde/recicla/api/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Recicla API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Seed default categories and parameters when requested
	if cfg.Seed.Defaults {
		if err := seed.Defaults(ctx, db, log); err != nil {
			log.Fatal("Failed to seed default data", err, nil)
		}
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository and service layers
	buildingRepo := repository.NewBuildingRepository(db.Pool)
	categoryRepo := repository.NewWasteCategoryRepository(db.Pool)
	paramRepo := repository.NewParameterRepository(db.Pool)
	recordRepo := repository.NewCollectionRecordRepository(db.Pool)

	catalogService := services.NewCatalogService(buildingRepo, categoryRepo, paramRepo, log)
	recordService := services.NewCollectionRecordService(db, recordRepo, buildingRepo, categoryRepo, paramRepo, log)
	reportService := services.NewReportService(recordRepo, buildingRepo, log)

	// Initialize handlers
	buildingHandler := handlers.NewBuildingHandler(catalogService)
	categoryHandler := handlers.NewWasteCategoryHandler(catalogService)
	recordHandler := handlers.NewCollectionRecordHandler(recordService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Register API v1 routes behind bearer auth
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Auth.JWTSecret))
	{
		buildings := v1.Group("/buildings")
		{
			buildings.POST("", buildingHandler.Create)
			buildings.GET("", buildingHandler.List)
			buildings.GET("/:id", buildingHandler.Get)
			buildings.PUT("/:id", buildingHandler.Update)
			buildings.DELETE("/:id", buildingHandler.Delete)
		}

		categories := v1.Group("/waste-categories")
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
			categories.GET("/:id/parameters", categoryHandler.GetParameters)
			categories.PUT("/:id/parameters", categoryHandler.PutParameters)
		}

		records := v1.Group("/collection-records")
		{
			records.POST("", recordHandler.Create)
			records.GET("", recordHandler.List)
			records.GET("/:id", recordHandler.Get)
			records.PATCH("/:id", recordHandler.Update)
			records.PUT("/:id", recordHandler.Update)
			records.DELETE("/:id", recordHandler.Delete)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/savings", reportHandler.Savings)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
