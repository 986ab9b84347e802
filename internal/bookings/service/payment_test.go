package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "pujari/internal/bookings/errors"
	"pujari/internal/events"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/model"
)

func newPaymentFixture() (*fixture, PaymentService) {
	f := newFixture()
	svc := NewPaymentService(f.repo, f.txns, f.publisher, testConfig())
	return f, svc
}

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
		CeremonyType: "griha pravesh",
		Status:       model.StatusPending, PaymentStatus: model.PaymentPending,
		BasePrice: 15000, PlatformFee: 750, TotalAmount: 15750,
	}
}

func paymentRequest() *PaymentRequest {
	return &PaymentRequest{
		PaymentID: "pay_9f8e7d",
		Amount:    15750,
		Method:    model.MethodUPI,
	}
}

func TestRecordPayment_ConfirmsBooking(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return pendingBooking(), nil
	}
	var inserted *model.Transaction
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		inserted = txn
		return nil
	}
	var set bson.M
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, s bson.M) error {
		set = s
		return nil
	}

	if err := svc.RecordPayment(context.Background(), bookingID, paymentRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted == nil || inserted.Type != model.TransactionPayment || inserted.Amount != 15750 {
		t.Errorf("payment transaction = %+v", inserted)
	}
	if inserted != nil && inserted.PaymentID != "pay_9f8e7d" {
		t.Errorf("payment_id = %q", inserted.PaymentID)
	}
	if set["status"] != model.StatusConfirmed || set["payment_status"] != model.PaymentCompleted {
		t.Errorf("booking update = %v", set)
	}
	types := f.publisher.types()
	if len(types) != 2 || types[0] != events.PaymentRecorded || types[1] != events.BookingConfirmed {
		t.Errorf("published events = %v", types)
	}
}

func TestRecordPayment_ReplayIsNoOp(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		booking := pendingBooking()
		booking.Status = model.StatusConfirmed
		booking.PaymentStatus = model.PaymentCompleted
		return booking, nil
	}
	f.txns.findByPaymentIDFunc = func(ctx context.Context, paymentID string) (*model.Transaction, error) {
		return &model.Transaction{
			BookingID: bookingID,
			Amount:    15750,
			Type:      model.TransactionPayment,
			PaymentID: paymentID,
		}, nil
	}
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		t.Error("replay must not insert a second transaction")
		return nil
	}
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		t.Error("replay must not touch the booking")
		return nil
	}

	if err := svc.RecordPayment(context.Background(), bookingID, paymentRequest()); err != nil {
		t.Fatalf("replay must succeed, got: %v", err)
	}
	if len(f.publisher.events) != 0 {
		t.Errorf("replay must not publish events, got %v", f.publisher.types())
	}
}

func TestRecordPayment_SameReferenceDifferentDetails(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return pendingBooking(), nil
	}
	f.txns.findByPaymentIDFunc = func(ctx context.Context, paymentID string) (*model.Transaction, error) {
		return &model.Transaction{
			BookingID: "662f000000000000000000ee",
			Amount:    9999,
			Type:      model.TransactionPayment,
			PaymentID: paymentID,
		}, nil
	}

	err := svc.RecordPayment(context.Background(), bookingID, paymentRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got: %v", err)
	}
}

func TestRecordPayment_AmountMismatch(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return pendingBooking(), nil
	}
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		t.Error("mismatched payment must not be recorded")
		return nil
	}

	req := paymentRequest()
	req.Amount = 15000

	err := svc.RecordPayment(context.Background(), bookingID, req)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeAmountMismatch {
		t.Fatalf("expected amount mismatch, got: %v", err)
	}
	if appErr.Details["expected"] != int64(15750) || appErr.Details["got"] != int64(15000) {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestRecordPayment_CancelledBooking(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		booking := pendingBooking()
		booking.Status = model.StatusCancelled
		return booking, nil
	}

	err := svc.RecordPayment(context.Background(), bookingID, paymentRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidTransition {
		t.Errorf("expected invalid transition, got: %v", err)
	}
}

func TestRecordPayment_ConfirmedUnpaidBooking(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		booking := pendingBooking()
		booking.Status = model.StatusConfirmed
		return booking, nil
	}
	var inserted *model.Transaction
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		inserted = txn
		return nil
	}
	var gotFrom []string
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		gotFrom = from
		return nil
	}

	if err := svc.RecordPayment(context.Background(), bookingID, paymentRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted == nil || inserted.Type != model.TransactionPayment {
		t.Errorf("payment transaction = %+v", inserted)
	}
	if len(gotFrom) != 2 {
		t.Errorf("transition guard = %v, want [pending confirmed]", gotFrom)
	}
}

func TestRecordPayment_SecondReferenceForPaidBooking(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		booking := pendingBooking()
		booking.Status = model.StatusConfirmed
		booking.PaymentStatus = model.PaymentCompleted
		booking.PaymentID = "pay_earlier"
		return booking, nil
	}
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		t.Error("paid booking must not record a second payment")
		return nil
	}

	err := svc.RecordPayment(context.Background(), bookingID, paymentRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got: %v", err)
	}
}

func TestRecordPayment_InputRules(t *testing.T) {
	_, svc := newPaymentFixture()

	tests := []struct {
		name   string
		mutate func(req *PaymentRequest)
	}{
		{
			name:   "empty payment id",
			mutate: func(req *PaymentRequest) { req.PaymentID = "  " },
		},
		{
			name:   "zero amount",
			mutate: func(req *PaymentRequest) { req.Amount = 0 },
		},
		{
			name:   "negative amount",
			mutate: func(req *PaymentRequest) { req.Amount = -100 },
		},
		{
			name:   "unknown method",
			mutate: func(req *PaymentRequest) { req.Method = "cheque" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := paymentRequest()
			tt.mutate(req)
			err := svc.RecordPayment(context.Background(), bookingID, req)
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeInvalidInput {
				t.Errorf("expected invalid input, got: %v", err)
			}
		})
	}
}

func TestRefund_CancelledPaidBooking(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
			Status: model.StatusCancelled, PaymentStatus: model.PaymentCompleted,
			PaymentMethod: model.MethodCard, TotalAmount: 15750,
		}, nil
	}
	refunded := false
	f.repo.markRefundedFunc = func(ctx context.Context, id string) error {
		refunded = true
		return nil
	}
	var refund *model.Transaction
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		refund = txn
		return nil
	}

	if err := svc.Refund(context.Background(), bookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !refunded {
		t.Error("expected MarkRefunded to be called")
	}
	if refund == nil || refund.Type != model.TransactionRefund || refund.Amount != 15750 {
		t.Errorf("refund transaction = %+v", refund)
	}
}

func TestRefund_AlreadyRefundedIsNoOp(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, Status: model.StatusCancelled, PaymentStatus: model.PaymentRefunded,
		}, nil
	}
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		t.Error("second refund must not write a transaction")
		return nil
	}

	if err := svc.Refund(context.Background(), bookingID); err != nil {
		t.Fatalf("repeat refund must succeed, got: %v", err)
	}
}

func TestRefund_ActiveBookingRejected(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, Status: model.StatusConfirmed, PaymentStatus: model.PaymentCompleted,
		}, nil
	}

	err := svc.Refund(context.Background(), bookingID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got: %v", err)
	}
}

func TestRecordPayment_ConcurrentDuplicateInsert(t *testing.T) {
	f, svc := newPaymentFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return pendingBooking(), nil
	}
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		// The unique index wins the race this mock simulates.
		return bookingserrors.ErrDuplicatePayment
	}

	err := svc.RecordPayment(context.Background(), bookingID, paymentRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got: %v", err)
	}
}
