package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sarar-git/ecomops-mobile-app-backend/kafka"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/logger"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/tracing"
)

// The bridge consumer relays scan hub events to downstream order
// matching. It is intentionally stateless: offsets live in Kafka, so
// any number of instances can share the consumer group.
func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "scanhub-bridge-consumer")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

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

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	groupID := getEnv("KAFKA_GROUP_ID", "scanhub-bridge")

	consumer, err := kafka.NewConsumer(brokers, groupID, []string{
		kafka.TopicBatchCompleted,
		kafka.TopicManifestClosed,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeBatchCompleted, handleBatchCompleted)
	consumer.RegisterHandler(kafka.EventTypeManifestClosed, handleManifestClosed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down bridge consumer...")
}

func handleBatchCompleted(ctx context.Context, payload []byte) error {
	event, err := kafka.DecodeBatchCompleted(payload)
	if err != nil {
		return err
	}

	logger.Info(ctx).
		Str("batch_id", event.BatchID).
		Str("tenant_id", event.TenantID).
		Str("manifest_id", event.ManifestID).
		Int("inserted_scans", event.InsertedScans).
		Int("matched_orders", event.MatchedOrders).
		Msg("Batch completed event relayed")
	return nil
}

func handleManifestClosed(ctx context.Context, payload []byte) error {
	event, err := kafka.DecodeManifestClosed(payload)
	if err != nil {
		return err
	}

	logger.Info(ctx).
		Str("manifest_id", event.ManifestID).
		Str("tenant_id", event.TenantID).
		Str("warehouse_id", event.WarehouseID).
		Int("total_packets", event.TotalPackets).
		Msg("Manifest closed event relayed")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
