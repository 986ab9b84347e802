package events

import (
	"context"
	"time"

	"pujari/pkg/kafka"
	"pujari/pkg/logger"
)

// Topic carries all booking lifecycle events, keyed by booking ID so one
// booking's events stay ordered within a partition.
const Topic = "booking-events"

// DLQTopic receives events that could not be delivered after retries.
const DLQTopic = "booking-events-dlq"

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish event",
			"type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
		return err
	}

	p.log.Debug("Event published",
		"type", event.Type,
		"booking_id", event.BookingID,
	)
	return nil
}
