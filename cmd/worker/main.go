// Package main is the entry point for the fiscal submission worker.
// It relays posted-document events from the outbox to the tax
// authority gateway.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/fiscal"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The relay logs through the context; give it this process's
	// logger instead of the global default.
	ctx = logger.WithLogger(ctx, log.WithComponent("fiscal-worker"))

	log.Info("starting fiscal worker")

	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	poolCfg.MaxConns = 5
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	client := fiscal.NewClient(fiscal.ClientConfig{
		BaseURL: mustEnv("FISCAL_GATEWAY_URL"),
		APIKey:  mustEnv("FISCAL_API_KEY"),
		Timeout: getEnvDuration("FISCAL_TIMEOUT", 15*time.Second),
	})

	relay := postgres.NewOutboxRelay(pool.Unwrap(), getEnvInt("OUTBOX_BATCH_SIZE", 100), client)
	worker := newWorker(relay, pool.Unwrap(), log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

type worker struct {
	relay *postgres.OutboxRelay
	pool  *pgxpool.Pool
	log   *logger.Logger
}

func newWorker(relay *postgres.OutboxRelay, pool *pgxpool.Pool, log *logger.Logger) *worker {
	return &worker{
		relay: relay,
		pool:  pool,
		log:   log.WithComponent("fiscal-worker"),
	}
}

func (w *worker) run(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	dlqTicker := time.NewTicker(1 * time.Hour)
	defer dlqTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processed, err := w.relay.ProcessBatch(ctx)
			if err != nil {
				w.log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if processed > 0 {
				w.log.Infow("relayed fiscal submissions", "count", processed)
			}
		case <-dlqTicker.C:
			postgres.LogPoolStats(ctx, w.pool)

			moved, err := w.relay.MoveToDLQ(ctx)
			if err != nil {
				w.log.Errorw("dead letter sweep failed", "error", err)
				continue
			}
			if moved > 0 {
				w.log.Warnw("moved exhausted submissions to dead letter queue", "count", moved)
			}
		}
	}
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
