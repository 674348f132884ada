// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/auth"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
	v1 "github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/http/v1"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

const version = "0.1.0"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting inventory server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Selling context ---
	// TAX_RATE is a percent: 18 means 18%.
	taxID := getEnv("TAX_ID", "IGV")
	taxRate, err := types.NewMoneyFromString(getEnv("TAX_RATE", "18"))
	if err != nil {
		log.Fatalw("invalid TAX_RATE", "error", err)
	}
	taxMode := tax.Mode(getEnv("TAX_MODE", "inclusive"))
	if !taxMode.Valid() {
		log.Fatalw("invalid TAX_MODE", "value", string(taxMode))
	}
	rates := tax.StaticRateTable{
		taxID:    taxRate,
		"EXEMPT": types.Zero(),
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Logger:       log,
		JWTValidator: jwtService,
		Version:      version,
		Rates:        rates,
		TaxID:        taxID,
		TaxMode:      taxMode,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
