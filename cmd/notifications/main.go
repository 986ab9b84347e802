package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"pujari/internal/events"
	"pujari/internal/notifications"
	"pujari/pkg/kafka"
	kafka_config "pujari/pkg/kafka/config"
	kafka_middleware "pujari/pkg/kafka/middleware"
	"pujari/pkg/logger"
)

const ServiceName = "notifications"

func main() {
	log := logger.New(logger.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(log.Info)

	notifier := notifications.NewNotifier(&notifications.LogDispatcher{Log: log}, log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		events.Topic,
		notifications.ConsumerGroup,
		events.DLQTopic,
		notifier.Handle,
	)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware())
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting notifications consumer", "topic", events.Topic, "group", notifications.ConsumerGroup)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped with error", "error", err)
	}

	log.Info("Shutting down notifications consumer")
	if err := consumer.Close(); err != nil {
		log.Error("Consumer close failed", "error", err)
	}
}
