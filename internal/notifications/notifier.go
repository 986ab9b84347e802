package notifications

import (
	"context"
	"fmt"

	"pujari/internal/events"
	"pujari/pkg/kafka"
	"pujari/pkg/logger"
)

// ConsumerGroup identifies this service to the broker so each event is
// dispatched once across replicas.
const ConsumerGroup = "notifications"

// Notifier consumes booking lifecycle events and dispatches notifications.
// Delivery channels (SMS, WhatsApp) plug in behind Dispatcher; the default
// dispatcher logs the message, which is enough for development.
type Notifier struct {
	dispatcher Dispatcher
	log        *logger.Logger
}

// Dispatcher delivers one rendered notification to a recipient user ID.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipientID, message string) error
}

// LogDispatcher writes notifications to the service log instead of sending
// them.
type LogDispatcher struct {
	Log *logger.Logger
}

func (d *LogDispatcher) Dispatch(ctx context.Context, recipientID, message string) error {
	d.Log.Info("Notification dispatched",
		"recipient_id", recipientID,
		"message", message,
	)
	return nil
}

func NewNotifier(dispatcher Dispatcher, log *logger.Logger) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		log:        log,
	}
}

// Handle is the Kafka message handler. Undecodable payloads are permanent
// failures; unknown event types are skipped so new producers can roll out
// ahead of this consumer.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.Event
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode event payload", err)
	}

	notices := noticesFor(event)
	if len(notices) == 0 {
		n.log.Debug("No notification for event type", "type", event.Type)
		return nil
	}

	for _, notice := range notices {
		if notice.recipientID == "" {
			continue
		}
		if err := n.dispatcher.Dispatch(ctx, notice.recipientID, notice.message); err != nil {
			return err
		}
	}

	return nil
}

type notice struct {
	recipientID string
	message     string
}

func noticesFor(event events.Event) []notice {
	switch event.Type {
	case events.BookingCreated:
		return []notice{{
			recipientID: event.PriestID,
			message: fmt.Sprintf("New booking request: %s on %s at %s",
				event.CeremonyType, event.Date, event.StartTime),
		}}

	case events.BookingConfirmed:
		return []notice{
			{
				recipientID: event.DevoteeID,
				message: fmt.Sprintf("Your booking for %s on %s is confirmed",
					event.CeremonyType, event.Date),
			},
			{
				recipientID: event.PriestID,
				message: fmt.Sprintf("Booking confirmed: %s on %s at %s",
					event.CeremonyType, event.Date, event.StartTime),
			},
		}

	case events.BookingCancelled:
		message := fmt.Sprintf("Booking for %s on %s was cancelled", event.CeremonyType, event.Date)
		if event.Reason != "" {
			message += ": " + event.Reason
		}
		return []notice{
			{recipientID: event.DevoteeID, message: message},
			{recipientID: event.PriestID, message: message},
		}

	case events.BookingCompleted:
		return []notice{{
			recipientID: event.DevoteeID,
			message: fmt.Sprintf("Your %s ceremony is complete. You can now rate your experience.",
				event.CeremonyType),
		}}

	case events.PaymentRefunded:
		return []notice{{
			recipientID: event.DevoteeID,
			message:     fmt.Sprintf("A refund of %d has been initiated for your cancelled booking", event.Amount),
		}}

	default:
		return nil
	}
}
