package model

import "time"

const (
	TransactionPayment = "payment"
	TransactionRefund  = "refund"
)

// Transaction is one durable payment event per booking, kept for audit and
// for the idempotence lookup on the external payment reference.
type Transaction struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID string `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	PriestID  string `json:"priest_id" bson:"priest_id" validate:"required,mongodb"`
	DevoteeID string `json:"devotee_id" bson:"devotee_id" validate:"required,mongodb"`

	Amount int64  `json:"amount" bson:"amount" validate:"required,gt=0"`
	Type   string `json:"type" bson:"type" validate:"required,oneof=payment refund"`
	Method string `json:"method,omitempty" bson:"method,omitempty" validate:"omitempty,oneof=upi card other"`

	// External payment provider reference, unique across payment events.
	PaymentID string `json:"payment_id,omitempty" bson:"payment_id,omitempty"`

	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=200"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
