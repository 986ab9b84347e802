package model

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"

	MethodUPI   = "upi"
	MethodCard  = "card"
	MethodOther = "other"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// Minimum notice before the ceremony for a devotee-side cancellation to
	// be considered free. Advisory only: exposed through CanCancel, never
	// enforced as a hard block.
	CancellationNotice = 24 * time.Hour
)

type Location struct {
	Address string `json:"address" bson:"address" validate:"required,min=2,max=200"`
	City    string `json:"city" bson:"city" validate:"required,min=2,max=50"`
}

type Booking struct {
	ID           string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DevoteeID    string   `json:"devotee_id" bson:"devotee_id" validate:"required,mongodb"`
	PriestID     string   `json:"priest_id" bson:"priest_id" validate:"required,mongodb"`
	CeremonyType string   `json:"ceremony_type" bson:"ceremony_type" validate:"required,min=2,max=100"`
	Date         string   `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime    string   `json:"start_time" bson:"start_time" validate:"required,wallclock"`
	EndTime      string   `json:"end_time" bson:"end_time" validate:"required,wallclock"`
	Location     Location `json:"location" bson:"location"`
	ContactPhone string   `json:"contact_phone,omitempty" bson:"contact_phone,omitempty" validate:"omitempty,e164"`
	Notes        string   `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`

	// IANA zone snapshotted from the priest profile at creation; all
	// wall-clock fields on this record are interpreted in it.
	TimeZone string `json:"time_zone" bson:"time_zone" validate:"omitempty,timezone"`

	Status        string `json:"status" bson:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	PaymentStatus string `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending completed refunded"`

	// Pricing snapshot, frozen at creation. Later price list edits never
	// touch an existing booking.
	BasePrice   int64 `json:"base_price" bson:"base_price" validate:"required,gt=0"`
	PlatformFee int64 `json:"platform_fee" bson:"platform_fee" validate:"gte=0"`
	TotalAmount int64 `json:"total_amount" bson:"total_amount" validate:"required,gt=0"`

	PaymentID     string `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty" bson:"payment_method,omitempty" validate:"omitempty,oneof=upi card other"`

	CancellationReason string     `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// StartsAt resolves the booking's date and start time into an instant in the
// booking's snapshotted zone.
func (b *Booking) StartsAt() (time.Time, error) {
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, b.Date+" "+b.StartTime, loc)
}

func (b *Booking) IsUpcoming(now time.Time) bool {
	if b.Status != StatusConfirmed {
		return false
	}
	start, err := b.StartsAt()
	if err != nil {
		return false
	}
	return start.After(now)
}

func (b *Booking) CanCancel(now time.Time) bool {
	if b.Status != StatusConfirmed {
		return false
	}
	start, err := b.StartsAt()
	if err != nil {
		return false
	}
	return start.Sub(now) > CancellationNotice
}

// BookingView is the serialization shape: the stored record plus facts
// derived at read time, never persisted.
type BookingView struct {
	Booking
	IsUpcoming bool `json:"is_upcoming"`
	CanCancel  bool `json:"can_cancel"`
}

func NewBookingView(b *Booking, now time.Time) *BookingView {
	return &BookingView{
		Booking:    *b,
		IsUpcoming: b.IsUpcoming(now),
		CanCancel:  b.CanCancel(now),
	}
}
