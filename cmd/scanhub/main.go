package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	batchrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/repository"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest"
	manifestHttp "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/delivery/http"
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	manifestrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/repository"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan"
	scanHttp "github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/delivery/http"
	scanrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/repository"
	whrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/repository"
	"github.com/sarar-git/ecomops-mobile-app-backend/kafka"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/database"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/logger"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/metrics"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "scanhub-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting scan hub service")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "scanhubdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	migrators := []interface{ AutoMigrate() error }{
		whrepository.NewGormWarehouseRepository(db),
		manifestrepository.NewGormManifestRepository(db),
		scanrepository.NewGormScanRepository(db),
		batchrepository.NewGormBatchRepository(db),
	}
	for _, m := range migrators {
		if err := m.AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Optional Redis cache for batch status polling
	var rdb *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Logger.Warn().Err(err).Str("addr", addr).Msg("Redis unavailable, batch status cache disabled")
			rdb = nil
		}
		cancel()
		if rdb != nil {
			defer rdb.Close()
		}
	}

	// Optional Kafka publisher for domain events
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, event publishing disabled")
			publisher = nil
		} else {
			defer publisher.Close()
			logger.Logger.Info().Str("brokers", brokers).Msg("Kafka publisher initialized")
		}
	}

	// Defaults applied when auto-mode ingestion has to open a manifest
	defaults := manifestdomain.ManifestDefaults{
		Shift:       manifestdomain.Shift(getEnv("MANIFEST_DEFAULT_SHIFT", string(manifestdomain.ShiftMorning))),
		Marketplace: manifestdomain.Marketplace(getEnv("MANIFEST_DEFAULT_MARKETPLACE", string(manifestdomain.MarketplaceAmazon))),
		Carrier:     manifestdomain.Carrier(getEnv("MANIFEST_DEFAULT_CARRIER", string(manifestdomain.CarrierDelhivery))),
	}
	if err := defaults.Validate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid manifest defaults configuration")
	}

	// Initialize handlers with Wire DI
	manifestHandler, err := manifest.InitializeHTTPHandler(db, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize manifest handler")
	}

	scanHandler, err := scan.InitializeHTTPHandler(db, rdb, defaults, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize scan handler")
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8085")
	go startHTTPServer(manifestHandler, scanHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(manifestHandler *manifestHttp.ManifestHandler, scanHandler *scanHttp.ScanHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	scanHandler.RegisterRoutes(router)
	manifestHandler.RegisterRoutes(router)

	// Health check endpoint
	manifestHandler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	handler := tracing.Middleware("scanhub-http", c.Handler(metrics.HTTPMiddleware(router)))
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
