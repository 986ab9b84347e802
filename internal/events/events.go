package events

import (
	"context"
	"time"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingConfirmed Type = "booking.confirmed"
	BookingCancelled Type = "booking.cancelled"
	BookingCompleted Type = "booking.completed"
	PaymentRecorded  Type = "payment.recorded"
	PaymentRefunded  Type = "payment.refunded"
	RatingSubmitted  Type = "rating.submitted"
)

// Event is one booking lifecycle fact, published after the owning write has
// committed. Consumers must tolerate duplicates.
type Event struct {
	Type         Type      `json:"type"`
	BookingID    string    `json:"booking_id"`
	PriestID     string    `json:"priest_id,omitempty"`
	DevoteeID    string    `json:"devotee_id,omitempty"`
	CeremonyType string    `json:"ceremony_type,omitempty"`
	Date         string    `json:"date,omitempty"`
	StartTime    string    `json:"start_time,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops events. Used by tests and by deployments without a
// broker.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
