package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"innkeep/internal/notifications/service"
	"innkeep/internal/reservations/events"
	"innkeep/pkg/config"
	"innkeep/pkg/kafka"
	kafka_config "innkeep/pkg/kafka/config"
	kafka_middleware "innkeep/pkg/kafka/middleware"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "notifier"
)

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Notifier service")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	notificationService := service.NewNotificationService(
		service.NewLogSender(cfg.Log),
		cfg.Log,
	)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		events.Topic,
		consumerGroup,
		events.DLQTopic,
		notificationService.HandleMessage,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Consuming reservation events",
		"topic", events.Topic,
		"group", consumerGroup,
		"brokers", kafkaCfg.Brokers,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}

	cfg.Log.Info("Notifier service stopped")
}
