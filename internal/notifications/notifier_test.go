package notifications

import (
	"context"
	"testing"

	"pujari/internal/events"
	"pujari/pkg/kafka"
	"pujari/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

type recordingDispatcher struct {
	recipients []string
	messages   []string
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, recipientID, message string) error {
	d.recipients = append(d.recipients, recipientID)
	d.messages = append(d.messages, message)
	return nil
}

func eventMessage(t *testing.T, event events.Event) kafka.Message {
	t.Helper()
	return kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(event.Type)).
		Build()
}

func TestHandle_BookingConfirmedNotifiesBothParties(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	notifier := NewNotifier(dispatcher, testLogger())

	msg := eventMessage(t, events.Event{
		Type:         events.BookingConfirmed,
		BookingID:    "662f000000000000000000dd",
		PriestID:     "662f000000000000000000aa",
		DevoteeID:    "662f000000000000000000cc",
		CeremonyType: "griha pravesh",
		Date:         "2025-06-02",
		StartTime:    "10:00",
	})

	if err := notifier.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(dispatcher.recipients) != 2 {
		t.Fatalf("dispatched %d notifications, want 2", len(dispatcher.recipients))
	}
	if dispatcher.recipients[0] != "662f000000000000000000cc" {
		t.Errorf("first recipient = %s, want devotee", dispatcher.recipients[0])
	}
	if dispatcher.recipients[1] != "662f000000000000000000aa" {
		t.Errorf("second recipient = %s, want priest", dispatcher.recipients[1])
	}
}

func TestHandle_CancellationIncludesReason(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	notifier := NewNotifier(dispatcher, testLogger())

	msg := eventMessage(t, events.Event{
		Type:         events.BookingCancelled,
		BookingID:    "662f000000000000000000dd",
		PriestID:     "662f000000000000000000aa",
		DevoteeID:    "662f000000000000000000cc",
		CeremonyType: "satyanarayan puja",
		Date:         "2025-06-02",
		Reason:       "family emergency",
	})

	if err := notifier.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(dispatcher.messages) != 2 {
		t.Fatalf("dispatched %d notifications, want 2", len(dispatcher.messages))
	}
	want := "Booking for satyanarayan puja on 2025-06-02 was cancelled: family emergency"
	if dispatcher.messages[0] != want {
		t.Errorf("message = %q, want %q", dispatcher.messages[0], want)
	}
}

func TestHandle_UnknownEventTypeSkipped(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	notifier := NewNotifier(dispatcher, testLogger())

	msg := eventMessage(t, events.Event{
		Type:      events.RatingSubmitted,
		BookingID: "662f000000000000000000dd",
	})

	if err := notifier.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(dispatcher.recipients) != 0 {
		t.Errorf("dispatched %d notifications, want 0", len(dispatcher.recipients))
	}
}

func TestHandle_UndecodablePayloadIsPermanent(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	notifier := NewNotifier(dispatcher, testLogger())

	msg := kafka.NewMessage().
		WithKey("662f000000000000000000dd").
		WithRawValue([]byte("not json")).
		Build()

	err := notifier.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("Handle() expected error for bad payload")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("error classified as %v, want permanent", kafka.ClassifyError(err))
	}
}

func TestHandle_MissingRecipientSkipped(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	notifier := NewNotifier(dispatcher, testLogger())

	msg := eventMessage(t, events.Event{
		Type:         events.BookingCreated,
		BookingID:    "662f000000000000000000dd",
		CeremonyType: "upanayana",
		Date:         "2025-06-02",
	})

	if err := notifier.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(dispatcher.recipients) != 0 {
		t.Errorf("dispatched %d notifications, want 0", len(dispatcher.recipients))
	}
}
