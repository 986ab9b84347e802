package service

import (
	"context"
	"errors"
	"sync"

	bookingserrors "pujari/internal/bookings/errors"
	"pujari/internal/events"
	ratingserrors "pujari/internal/ratings/errors"
	"pujari/internal/ratings/repository"
	"pujari/internal/ratings/validator"
	"pujari/pkg/config"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/model"
	"pujari/pkg/sanitizer"
)

// BookingLookup is the slice of the booking repository the rating flow needs.
type BookingLookup interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
}

// PriestRater folds submitted ratings into the priest's running aggregate.
type PriestRater interface {
	ApplyRating(ctx context.Context, id string, overall int) error
}

type RatingService interface {
	Submit(ctx context.Context, rating *model.Rating) error
	GetByBooking(ctx context.Context, bookingID string) (*model.Rating, error)
	ListByPriest(ctx context.Context, priestID string, page, limit int) ([]*model.Rating, int64, error)
}

type ratingService struct {
	repo      repository.RatingRepository
	bookings  BookingLookup
	priests   PriestRater
	validator *validator.RatingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewRatingService(
	repo repository.RatingRepository,
	bookings BookingLookup,
	priests PriestRater,
	validator *validator.RatingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) RatingService {
	return &ratingService{
		repo:      repo,
		bookings:  bookings,
		priests:   priests,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Submit records one rating for a completed booking and folds it into the
// priest's aggregate in the same transaction. The unique index on booking_id
// makes a second submission for the same booking fail cleanly.
func (s *ratingService) Submit(ctx context.Context, rating *model.Rating) error {
	rating.Review = sanitizer.TrimAndNormalize(rating.Review)

	booking, err := s.bookings.FindByID(ctx, rating.BookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", rating.BookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to load booking for rating",
			"booking_id", rating.BookingID,
			"error", err,
		)
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.Status != model.StatusCompleted {
		return apperrors.BookingNotCompleted(rating.BookingID)
	}
	if rating.DevoteeID != booking.DevoteeID {
		return apperrors.Forbidden("Only the booking's devotee may rate it")
	}

	// The priest is derived from the booking, never trusted from the caller.
	rating.PriestID = booking.PriestID

	if err := s.validator.Validate(rating); err != nil {
		s.cfg.Log.Warn("Rating validation failed",
			"booking_id", rating.BookingID,
			"error", err,
		)
		return apperrors.Validation("Rating validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		if err := s.repo.Insert(sessCtx, rating); err != nil {
			return err
		}
		return s.priests.ApplyRating(sessCtx, rating.PriestID, rating.Overall)
	})
	if err != nil {
		if errors.Is(err, ratingserrors.ErrDuplicate) {
			return apperrors.DuplicateRating(rating.BookingID)
		}
		s.cfg.Log.Error("Failed to submit rating",
			"booking_id", rating.BookingID,
			"priest_id", rating.PriestID,
			"error", err,
		)
		return apperrors.Internal("Failed to submit rating", err)
	}

	s.cfg.Log.Info("Rating submitted",
		"booking_id", rating.BookingID,
		"priest_id", rating.PriestID,
		"overall", rating.Overall,
	)

	if s.publisher != nil {
		_ = s.publisher.Publish(context.WithoutCancel(ctx), events.Event{
			Type:      events.RatingSubmitted,
			BookingID: rating.BookingID,
			PriestID:  rating.PriestID,
			DevoteeID: rating.DevoteeID,
		})
	}
	return nil
}

func (s *ratingService) GetByBooking(ctx context.Context, bookingID string) (*model.Rating, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	rating, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ratingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("No rating exists for this booking")
		}
		s.cfg.Log.Error("Failed to find rating",
			"booking_id", bookingID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve rating", err)
	}
	return rating, nil
}

func (s *ratingService) ListByPriest(ctx context.Context, priestID string, page, limit int) ([]*model.Rating, int64, error) {
	if priestID == "" {
		return nil, 0, apperrors.InvalidInput("Priest ID cannot be empty")
	}
	if page < 1 {
		page = 1
	}
	limit = config.NormalizePaginationLimit(limit)
	skip := int64(page-1) * int64(limit)

	var total int64
	var ratings []*model.Rating
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		total, err = s.repo.CountByPriest(ctx, priestID)
		if err != nil {
			s.cfg.Log.Error("Failed to count ratings", "priest_id", priestID, "error", err)
			errCount = apperrors.Internal("Failed to count ratings", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		ratings, err = s.repo.FindByPriest(ctx, priestID, limit, skip)
		if err != nil {
			s.cfg.Log.Error("Failed to list ratings", "priest_id", priestID, "error", err)
			errFind = apperrors.Internal("Failed to list ratings", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return ratings, total, nil
}
