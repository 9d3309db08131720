package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/minhnd/parklot/internal/delivery/http"
	"github.com/minhnd/parklot/internal/pkg/config"
	"github.com/minhnd/parklot/internal/pkg/database"
	"github.com/minhnd/parklot/internal/pkg/jwt"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/pkg/redis"
	"github.com/minhnd/parklot/internal/repository/cached"
	"github.com/minhnd/parklot/internal/repository/postgres"
	"github.com/minhnd/parklot/internal/usecase/auth"
	"github.com/minhnd/parklot/internal/usecase/inventory"
	"github.com/minhnd/parklot/internal/usecase/owner"
	"github.com/minhnd/parklot/internal/usecase/stats"
	"github.com/minhnd/parklot/internal/usecase/status"
)

func main() {
	// =========================================================================
	// Load configuration
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Initialize logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting parklot API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Connect to PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Connect to Redis
	// =========================================================================

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redisClient.Close()

	log.Info("Connected to Redis", map[string]interface{}{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	})

	// =========================================================================
	// Create repositories
	// =========================================================================

	ownerRepo := cached.NewOwnerRepository(
		postgres.NewOwnerRepository(db),
		redisClient,
		cfg.Redis.OwnerTTL,
	)
	vehicleRepo := postgres.NewVehicleRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	staffRepo := postgres.NewStaffRepository(db)

	log.Info("Repositories initialized")

	// =========================================================================
	// Create JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Create use case services
	// =========================================================================

	authService := auth.NewService(staffRepo, tokenService, log)
	ownerService := owner.NewService(ownerRepo, vehicleRepo, transactionRepo, log)
	statusService := status.NewService(vehicleRepo, transactionRepo, log)
	inventoryService := inventory.NewService(inventoryRepo, vehicleRepo, log)
	statsService := stats.NewService(ownerRepo, vehicleRepo, transactionRepo, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Create HTTP handlers
	// =========================================================================

	gateHandler := deliveryHTTP.NewGateHandler(ownerService, statusService, inventoryService, log)
	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	adminHandler := deliveryHTTP.NewAdminHandler(ownerService, statsService, log)
	inventoryHandler := deliveryHTTP.NewInventoryHandler(inventoryService, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Create and set up HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		gateHandler,
		authHandler,
		adminHandler,
		inventoryHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Create HTTP server
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Start server in a goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
