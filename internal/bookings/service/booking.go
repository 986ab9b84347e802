package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "pujari/internal/bookings/errors"
	"pujari/internal/bookings/repository"
	"pujari/internal/bookings/validator"
	"pujari/internal/events"
	"pujari/internal/pricing"
	priesterrors "pujari/internal/priests/errors"
	"pujari/pkg/config"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/model"
	"pujari/pkg/sanitizer"
)

// PriestCatalog is the slice of the priest repository the booking flow needs.
type PriestCatalog interface {
	FindByID(ctx context.Context, id string) (*model.PriestProfile, error)
	IncrementCeremonyCount(ctx context.Context, id string) error
}

// SlotChecker answers whether a requested slot is inside the priest's working
// windows and clear of other bookings.
type SlotChecker interface {
	IsSlotFree(ctx context.Context, priestID, date, startTime, endTime string) (bool, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.BookingView, error)
	ListByDevotee(ctx context.Context, devoteeID, status string, page, limit int) ([]*model.BookingView, int64, error)
	ListByPriest(ctx context.Context, priestID, status string, page, limit int) ([]*model.BookingView, int64, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id, reason string) error
	Complete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	txns      repository.TransactionRepository
	locks     repository.SlotLockRepository
	priests   PriestCatalog
	slots     SlotChecker
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	txns repository.TransactionRepository,
	locks repository.SlotLockRepository,
	priests PriestCatalog,
	slots SlotChecker,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		txns:      txns,
		locks:     locks,
		priests:   priests,
		slots:     slots,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create books a slot. The flow is check, lock, re-check inside a
// transaction, insert: the advisory lock serializes writers racing for the
// same slot and the in-transaction re-check closes the window between the
// first check and the lock.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)

	booking.Status = model.StatusPending
	booking.PaymentStatus = model.PaymentPending
	booking.PaymentID = ""
	booking.PaymentMethod = ""
	booking.CancellationReason = ""
	booking.CancelledAt = nil
	booking.CompletedAt = nil

	priest, err := s.priests.FindByID(ctx, booking.PriestID)
	if err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Priest", booking.PriestID)
		}
		if errors.Is(err, priesterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid priest ID format")
		}
		s.cfg.Log.Error("Failed to load priest profile",
			"priest_id", booking.PriestID,
			"error", err,
		)
		return apperrors.Internal("Failed to load priest profile", err)
	}

	if !priest.Offers(booking.CeremonyType) {
		return apperrors.Validation("Priest does not offer this ceremony", map[string]any{
			"ceremony_type": booking.CeremonyType,
		})
	}

	basePrice, ok := priest.PriceFor(booking.CeremonyType)
	if !ok {
		return apperrors.Validation("No price is listed for this ceremony", map[string]any{
			"ceremony_type": booking.CeremonyType,
		})
	}

	quote, err := pricing.Compute(basePrice)
	if err != nil {
		s.cfg.Log.Error("Priest price list produced an invalid quote",
			"priest_id", booking.PriestID,
			"ceremony_type", booking.CeremonyType,
			"base_price", basePrice,
			"error", err,
		)
		return apperrors.Internal("Failed to price the booking", err)
	}
	booking.BasePrice = quote.BasePrice
	booking.PlatformFee = quote.PlatformFee
	booking.TotalAmount = quote.TotalAmount

	booking.TimeZone = priest.TimeZone
	if booking.TimeZone == "" {
		booking.TimeZone = s.cfg.DefaultTimeZone
	}

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"priest_id", booking.PriestID,
			"devotee_id", booking.DevoteeID,
			"error", err,
		)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	if err := s.validator.ValidateNotPast(booking, s.now()); err != nil {
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	free, err := s.slots.IsSlotFree(ctx, booking.PriestID, booking.Date, booking.StartTime, booking.EndTime)
	if err != nil {
		return err
	}
	if !free {
		return apperrors.SlotConflict("Requested slot is not available")
	}

	lockKey := repository.LockKey(booking.PriestID, booking.Date)
	if err := s.locks.Acquire(ctx, lockKey, s.cfg.SlotLockTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return apperrors.SlotConflict("Another booking for this slot is in progress")
		}
		return apperrors.Internal("Failed to lock the slot", err)
	}
	defer func() {
		if releaseErr := s.locks.Release(context.WithoutCancel(ctx), lockKey); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock",
				"lock_key", lockKey,
				"error", releaseErr,
			)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		free, err := s.slots.IsSlotFree(sessCtx, booking.PriestID, booking.Date, booking.StartTime, booking.EndTime)
		if err != nil {
			return err
		}
		if !free {
			return apperrors.SlotConflict("Requested slot is not available")
		}
		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			s.cfg.Log.Error("Failed to create booking",
				"priest_id", booking.PriestID,
				"devotee_id", booking.DevoteeID,
				"date", booking.Date,
				"error", err,
			)
			return apperrors.Internal("Failed to create booking", err)
		}
		return err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"priest_id", booking.PriestID,
		"devotee_id", booking.DevoteeID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"total_amount", booking.TotalAmount,
	)

	s.publish(ctx, events.Event{
		Type:         events.BookingCreated,
		BookingID:    booking.ID,
		PriestID:     booking.PriestID,
		DevoteeID:    booking.DevoteeID,
		CeremonyType: booking.CeremonyType,
		Date:         booking.Date,
		StartTime:    booking.StartTime,
		Amount:       booking.TotalAmount,
	})

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.BookingView, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.NewBookingView(booking, s.now()), nil
}

func (s *bookingService) ListByDevotee(ctx context.Context, devoteeID, status string, page, limit int) ([]*model.BookingView, int64, error) {
	if devoteeID == "" {
		return nil, 0, apperrors.InvalidInput("Devotee ID cannot be empty")
	}
	return s.list(ctx, status, page, limit,
		func(ctx context.Context, limit int, skip int64) ([]*model.Booking, error) {
			return s.repo.FindByDevotee(ctx, devoteeID, status, limit, skip)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByDevotee(ctx, devoteeID, status)
		},
	)
}

func (s *bookingService) ListByPriest(ctx context.Context, priestID, status string, page, limit int) ([]*model.BookingView, int64, error) {
	if priestID == "" {
		return nil, 0, apperrors.InvalidInput("Priest ID cannot be empty")
	}
	return s.list(ctx, status, page, limit,
		func(ctx context.Context, limit int, skip int64) ([]*model.Booking, error) {
			return s.repo.FindByPriest(ctx, priestID, status, limit, skip)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByPriest(ctx, priestID, status)
		},
	)
}

func (s *bookingService) list(
	ctx context.Context,
	status string,
	page, limit int,
	find func(ctx context.Context, limit int, skip int64) ([]*model.Booking, error),
	count func(ctx context.Context) (int64, error),
) ([]*model.BookingView, int64, error) {
	if status != "" && !validStatus(status) {
		return nil, 0, apperrors.InvalidInput("Unknown status filter: " + status)
	}
	if page < 1 {
		page = 1
	}
	limit = config.NormalizePaginationLimit(limit)
	skip := int64(page-1) * int64(limit)

	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		total, err = count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		bookings, err = find(ctx, limit, skip)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", err)
			errFind = apperrors.Internal("Failed to list bookings", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	now := s.now()
	views := make([]*model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, model.NewBookingView(b, now))
	}
	return views, total, nil
}

// Confirm moves pending to confirmed. Payment must already be recorded; the
// usual path is automatic confirmation inside RecordPayment, this endpoint
// covers manual reconciliation.
func (s *bookingService) Confirm(ctx context.Context, id string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if booking.PaymentStatus != model.PaymentCompleted {
		return apperrors.Conflict("Booking cannot be confirmed before payment is completed")
	}

	err = s.repo.TransitionStatus(ctx, id, []string{model.StatusPending}, bson.M{
		"status": model.StatusConfirmed,
	})
	if err != nil {
		return s.mapTransitionError(ctx, id, err, model.StatusConfirmed)
	}

	s.cfg.Log.Info("Booking confirmed", "id", id)

	s.publish(ctx, events.Event{
		Type:      events.BookingConfirmed,
		BookingID: id,
		PriestID:  booking.PriestID,
		DevoteeID: booking.DevoteeID,
	})
	return nil
}

// Cancel releases the slot from either pending or confirmed. A completed
// payment is refunded in the same transaction that records the cancellation.
func (s *bookingService) Cancel(ctx context.Context, id, reason string) error {
	reason = sanitizer.TrimAndNormalize(reason)

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	cancelledAt := s.now().UTC().Truncate(time.Millisecond)

	// The refund decision is made from a read inside the transaction. A
	// payment callback can land between the caller's read and this point;
	// deciding on the stale copy would cancel the booking and keep the money.
	var refund bool
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		current, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return err
		}
		booking = current
		refund = current.PaymentStatus == model.PaymentCompleted

		set := bson.M{
			"status":              model.StatusCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        cancelledAt,
		}
		if refund {
			set["payment_status"] = model.PaymentRefunded
		}

		if err := s.repo.TransitionStatus(sessCtx, id, []string{model.StatusPending, model.StatusConfirmed}, set); err != nil {
			return err
		}

		if refund {
			return s.txns.Insert(sessCtx, &model.Transaction{
				BookingID:   id,
				PriestID:    current.PriestID,
				DevoteeID:   current.DevoteeID,
				Amount:      current.TotalAmount,
				Type:        model.TransactionRefund,
				Method:      current.PaymentMethod,
				Description: "Refund on cancellation",
			})
		}
		return nil
	})
	if err != nil {
		return s.mapTransitionError(ctx, id, err, model.StatusCancelled)
	}

	s.cfg.Log.Info("Booking cancelled",
		"id", id,
		"reason", reason,
		"refunded", refund,
	)

	s.publish(ctx, events.Event{
		Type:      events.BookingCancelled,
		BookingID: id,
		PriestID:  booking.PriestID,
		DevoteeID: booking.DevoteeID,
		Reason:    reason,
	})
	if refund {
		s.publish(ctx, events.Event{
			Type:      events.PaymentRefunded,
			BookingID: id,
			DevoteeID: booking.DevoteeID,
			Amount:    booking.TotalAmount,
		})
	}
	return nil
}

// Complete moves confirmed to completed and credits the priest's ceremony
// tally in the same transaction.
func (s *bookingService) Complete(ctx context.Context, id string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	completedAt := s.now().UTC().Truncate(time.Millisecond)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		if err := s.repo.TransitionStatus(sessCtx, id, []string{model.StatusConfirmed}, bson.M{
			"status":       model.StatusCompleted,
			"completed_at": completedAt,
		}); err != nil {
			return err
		}
		return s.priests.IncrementCeremonyCount(sessCtx, booking.PriestID)
	})
	if err != nil {
		return s.mapTransitionError(ctx, id, err, model.StatusCompleted)
	}

	s.cfg.Log.Info("Booking completed", "id", id, "priest_id", booking.PriestID)

	s.publish(ctx, events.Event{
		Type:         events.BookingCompleted,
		BookingID:    id,
		PriestID:     booking.PriestID,
		DevoteeID:    booking.DevoteeID,
		CeremonyType: booking.CeremonyType,
	})
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
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
		s.cfg.Log.Error("Failed to find booking",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// mapTransitionError distinguishes a vanished booking from a booking sitting
// in the wrong state after a compare-and-swap missed.
func (s *bookingService) mapTransitionError(ctx context.Context, id string, err error, target string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, bookingserrors.ErrNoTransition) {
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.InvalidTransition(current.Status, target)
	}
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error("Failed to transition booking",
		"id", id,
		"target", target,
		"error", err,
	)
	return apperrors.Internal("Failed to update booking", err)
}

func (s *bookingService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	// Best effort: delivery failures are logged by the publisher and never
	// fail the request.
	_ = s.publisher.Publish(context.WithoutCancel(ctx), event)
}

func (s *bookingService) sanitize(booking *model.Booking) {
	booking.CeremonyType = sanitizer.NormalizeCeremony(booking.CeremonyType)
	booking.Date = sanitizer.TrimAndNormalize(booking.Date)
	booking.StartTime = sanitizer.TrimAndNormalize(booking.StartTime)
	booking.EndTime = sanitizer.TrimAndNormalize(booking.EndTime)
	booking.Location.Address = sanitizer.TrimAndNormalize(booking.Location.Address)
	booking.Location.City = sanitizer.TrimAndNormalize(booking.Location.City)
	booking.ContactPhone = sanitizer.NormalizePhone(booking.ContactPhone)
	booking.Notes = sanitizer.TrimAndNormalize(booking.Notes)
}

func validStatus(status string) bool {
	switch status {
	case model.StatusPending, model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled:
		return true
	}
	return false
}
