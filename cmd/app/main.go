package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"orderflow/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs := getConfigs()
	logger := newLogger(configs.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to release resources", "error", err)
		}
	}()

	e, err := app.CreateHTTPRouter(ctx)
	if err != nil {
		log.Fatalf("Error building HTTP router: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(ctx); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	if err := run(ctx, app, e, configs.HTTPPort); err != nil {
		logger.Error("Application stopped with error", "error", err)
		return
	}

	logger.Info("Application stopped")
}

func run(ctx context.Context, app *cmd.CompositionRoot, e *echo.Echo, port string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.Engine().Run(gctx)
	})

	g.Go(func() error {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort: envString("HTTP_PORT", "8000"),
		LogLevel: envString("LOG_LEVEL", "info"),

		StoreDriver: envString("STORE_DRIVER", cmd.StoreDriverPostgres),
		DBHost:      envString("DB_HOST", "localhost"),
		DBPort:      envString("DB_PORT", "5432"),
		DBUser:      envString("DB_USER", "postgres"),
		DBPassword:  envString("DB_PASSWORD", ""),
		DBName:      envString("DB_NAME", "orderflow"),
		DBSslMode:   envString("DB_SSLMODE", "disable"),

		WorkerPoolSize:     envInt("WORKER_POOL_SIZE", 100),
		QueueCapacity:      envInt("QUEUE_CAPACITY", 0),
		AcquisitionDelay:   envDuration("ACQUISITION_DELAY", 2*time.Second),
		ProcessingDelayMin: envDuration("PROCESSING_DELAY_MIN", 3*time.Second),
		ProcessingDelayMax: envDuration("PROCESSING_DELAY_MAX", 7*time.Second),

		RecoverPendingOnStart:   envBool("RECOVER_PENDING_ON_START", false),
		PendingRecoverySchedule: envString("PENDING_RECOVERY_SCHEDULE", ""),
		MetricsReportSchedule:   envString("METRICS_REPORT_SCHEDULE", "*/30 * * * * *"),

		KafkaHost:              envString("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: envString("KAFKA_ORDER_CHANGED_TOPIC", "order.status_changed"),

		RedisAddr:      envString("REDIS_ADDR", ""),
		StatusCacheTTL: envDuration("STATUS_CACHE_TTL", 5*time.Minute),
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return d
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
