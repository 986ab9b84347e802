package validator

import (
	"testing"
	"time"

	"pujari/pkg/logger"
	"pujari/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func validBooking() *model.Booking {
	return &model.Booking{
		DevoteeID:    "662f000000000000000000cc",
		PriestID:     "662f000000000000000000aa",
		CeremonyType: "griha pravesh",
		Date:         "2025-06-02",
		StartTime:    "10:00",
		EndTime:      "12:00",
		Location: model.Location{
			Address: "12 Assi Ghat Road",
			City:    "Varanasi",
		},
		ContactPhone:  "+919876543210",
		TimeZone:      "Asia/Kolkata",
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentPending,
		BasePrice:     15000,
		PlatformFee:   750,
		TotalAmount:   15750,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := NewBookingValidator(testLogger())

	if err := v.Validate(validBooking()); err != nil {
		t.Errorf("expected valid booking, got: %v", err)
	}
}

func TestValidate_FieldRules(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{
			name:   "missing devotee",
			mutate: func(b *model.Booking) { b.DevoteeID = "" },
		},
		{
			name:   "priest id not an object id",
			mutate: func(b *model.Booking) { b.PriestID = "abc" },
		},
		{
			name:   "date wrong layout",
			mutate: func(b *model.Booking) { b.Date = "02-06-2025" },
		},
		{
			name:   "date not a real day",
			mutate: func(b *model.Booking) { b.Date = "2025-02-30" },
		},
		{
			name:   "start time with seconds",
			mutate: func(b *model.Booking) { b.StartTime = "10:00:00" },
		},
		{
			name:   "phone not e164",
			mutate: func(b *model.Booking) { b.ContactPhone = "98765-43210" },
		},
		{
			name:   "unknown status",
			mutate: func(b *model.Booking) { b.Status = "archived" },
		},
		{
			name:   "unknown payment status",
			mutate: func(b *model.Booking) { b.PaymentStatus = "chargeback" },
		},
		{
			name:   "zero base price",
			mutate: func(b *model.Booking) { b.BasePrice = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)
			if err := v.Validate(booking); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidate_EndBeforeStart(t *testing.T) {
	v := NewBookingValidator(testLogger())

	booking := validBooking()
	booking.StartTime = "12:00"
	booking.EndTime = "10:00"
	if err := v.Validate(booking); err == nil {
		t.Error("expected error for end before start")
	}

	booking.EndTime = "12:00"
	if err := v.Validate(booking); err == nil {
		t.Error("expected error for zero-length booking")
	}
}

func TestValidateNotPast(t *testing.T) {
	v := NewBookingValidator(testLogger())
	booking := validBooking()

	past := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	if err := v.ValidateNotPast(booking, past); err == nil {
		t.Error("expected error for a booking already started")
	}

	before := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	if err := v.ValidateNotPast(booking, before); err != nil {
		t.Errorf("expected future booking to pass, got: %v", err)
	}
}
