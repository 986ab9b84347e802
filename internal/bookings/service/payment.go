package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "pujari/internal/bookings/errors"
	"pujari/internal/bookings/repository"
	"pujari/internal/events"
	"pujari/pkg/config"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/model"
	"pujari/pkg/sanitizer"
)

// errAlreadyRecorded signals an exact replay of a previously recorded
// payment. It never leaves the service: replays answer success.
var errAlreadyRecorded = errors.New("payment already recorded")

// PaymentRequest is the provider callback payload for a completed payment.
type PaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

type PaymentService interface {
	RecordPayment(ctx context.Context, bookingID string, req *PaymentRequest) error
	Refund(ctx context.Context, bookingID string) error
	ListTransactions(ctx context.Context, bookingID string) ([]*model.Transaction, error)
}

type paymentService struct {
	repo      repository.BookingRepository
	txns      repository.TransactionRepository
	publisher events.Publisher
	cfg       *config.Config
}

func NewPaymentService(
	repo repository.BookingRepository,
	txns repository.TransactionRepository,
	publisher events.Publisher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		repo:      repo,
		txns:      txns,
		publisher: publisher,
		cfg:       cfg,
	}
}

// RecordPayment applies a provider callback exactly once. Replays of the same
// payment reference succeed without a second write; the same reference with
// different facts, or a second reference for an already paid booking, is
// rejected.
func (s *paymentService) RecordPayment(ctx context.Context, bookingID string, req *PaymentRequest) error {
	if bookingID == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	req.PaymentID = sanitizer.TrimAndNormalize(req.PaymentID)
	if req.PaymentID == "" {
		return apperrors.InvalidInput("Payment ID cannot be empty")
	}
	if req.Amount <= 0 {
		return apperrors.InvalidInput("Payment amount must be positive")
	}
	if req.Method == "" {
		req.Method = model.MethodOther
	}
	if !validMethod(req.Method) {
		return apperrors.InvalidInput("Unknown payment method: " + req.Method)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		existing, err := s.txns.FindByPaymentID(sessCtx, req.PaymentID)
		if err == nil {
			if existing.BookingID == bookingID &&
				existing.Amount == req.Amount &&
				existing.Type == model.TransactionPayment {
				return errAlreadyRecorded
			}
			return apperrors.Conflict("Payment reference already used with different details")
		}
		if !errors.Is(err, bookingserrors.ErrNotFound) {
			return err
		}

		if booking.Status != model.StatusPending && booking.Status != model.StatusConfirmed {
			return apperrors.InvalidTransition(booking.Status, model.StatusConfirmed)
		}
		if booking.PaymentStatus != model.PaymentPending {
			return apperrors.Conflict("Booking already has a recorded payment")
		}
		if req.Amount != booking.TotalAmount {
			return apperrors.AmountMismatch(booking.TotalAmount, req.Amount)
		}

		if err := s.txns.Insert(sessCtx, &model.Transaction{
			BookingID:   bookingID,
			PriestID:    booking.PriestID,
			DevoteeID:   booking.DevoteeID,
			Amount:      req.Amount,
			Type:        model.TransactionPayment,
			Method:      req.Method,
			PaymentID:   req.PaymentID,
			Description: "Payment for " + booking.CeremonyType,
		}); err != nil {
			if errors.Is(err, bookingserrors.ErrDuplicatePayment) {
				return apperrors.Conflict("Payment reference already used with different details")
			}
			return err
		}

		return s.repo.TransitionStatus(sessCtx, bookingID, []string{model.StatusPending, model.StatusConfirmed}, bson.M{
			"status":         model.StatusConfirmed,
			"payment_status": model.PaymentCompleted,
			"payment_id":     req.PaymentID,
			"payment_method": req.Method,
		})
	})

	if errors.Is(err, errAlreadyRecorded) {
		s.cfg.Log.Info("Payment replay ignored",
			"booking_id", bookingID,
			"payment_id", req.PaymentID,
		)
		return nil
	}
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		if errors.Is(err, bookingserrors.ErrNoTransition) {
			return apperrors.InvalidTransition(booking.Status, model.StatusConfirmed)
		}
		s.cfg.Log.Error("Failed to record payment",
			"booking_id", bookingID,
			"payment_id", req.PaymentID,
			"error", err,
		)
		return apperrors.Internal("Failed to record payment", err)
	}

	s.cfg.Log.Info("Payment recorded",
		"booking_id", bookingID,
		"payment_id", req.PaymentID,
		"amount", req.Amount,
		"method", req.Method,
	)

	s.publish(ctx, events.Event{
		Type:      events.PaymentRecorded,
		BookingID: bookingID,
		PriestID:  booking.PriestID,
		DevoteeID: booking.DevoteeID,
		Amount:    req.Amount,
	})
	s.publish(ctx, events.Event{
		Type:      events.BookingConfirmed,
		BookingID: bookingID,
		PriestID:  booking.PriestID,
		DevoteeID: booking.DevoteeID,
	})
	return nil
}

// Refund covers the manual path for cancelled bookings whose payment is
// still marked completed. Repeated refunds are answered with success.
func (s *paymentService) Refund(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.PaymentStatus == model.PaymentRefunded {
		return nil
	}
	if booking.PaymentStatus != model.PaymentCompleted {
		return apperrors.Conflict("Booking has no completed payment to refund")
	}
	if booking.Status != model.StatusCancelled {
		return apperrors.Conflict("Only cancelled bookings can be refunded")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		if err := s.repo.MarkRefunded(sessCtx, bookingID); err != nil {
			return err
		}
		return s.txns.Insert(sessCtx, &model.Transaction{
			BookingID:   bookingID,
			PriestID:    booking.PriestID,
			DevoteeID:   booking.DevoteeID,
			Amount:      booking.TotalAmount,
			Type:        model.TransactionRefund,
			Method:      booking.PaymentMethod,
			Description: "Refund on cancellation",
		})
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNoTransition) {
			// Another refund landed first.
			return nil
		}
		s.cfg.Log.Error("Failed to refund booking",
			"booking_id", bookingID,
			"error", err,
		)
		return apperrors.Internal("Failed to refund booking", err)
	}

	s.cfg.Log.Info("Payment refunded",
		"booking_id", bookingID,
		"amount", booking.TotalAmount,
	)

	s.publish(ctx, events.Event{
		Type:      events.PaymentRefunded,
		BookingID: bookingID,
		DevoteeID: booking.DevoteeID,
		Amount:    booking.TotalAmount,
	})
	return nil
}

func (s *paymentService) ListTransactions(ctx context.Context, bookingID string) ([]*model.Transaction, error) {
	if _, err := s.findBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	txns, err := s.txns.FindByBooking(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to list transactions",
			"booking_id", bookingID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to list transactions", err)
	}
	return txns, nil
}

func (s *paymentService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *paymentService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(context.WithoutCancel(ctx), event)
}

func validMethod(method string) bool {
	switch method {
	case model.MethodUPI, model.MethodCard, model.MethodOther:
		return true
	}
	return false
}
