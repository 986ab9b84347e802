package service

import (
	"context"
	"errors"
	"sync"

	priesterrors "pujari/internal/priests/errors"
	"pujari/internal/priests/repository"
	"pujari/internal/priests/validator"
	"pujari/pkg/config"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/model"
	"pujari/pkg/sanitizer"
)

type PriestService interface {
	UpsertProfile(ctx context.Context, userID string, updates *model.PriestProfileUpdate) (*model.PriestProfile, error)
	GetByID(ctx context.Context, id string) (*model.PriestProfile, error)
	GetByUserID(ctx context.Context, userID string) (*model.PriestProfile, error)
	Search(ctx context.Context, ceremony, city string, page, limit int) ([]*model.PriestProfile, int64, error)
	SetAvailability(ctx context.Context, userID string, availability map[model.Weekday][]model.TimeWindow) error
	SetVerification(ctx context.Context, id string, governmentID, certification bool) error
}

type priestService struct {
	repo      repository.PriestRepository
	validator *validator.PriestValidator
	cfg       *config.Config
}

func NewPriestService(
	repo repository.PriestRepository,
	validator *validator.PriestValidator,
	cfg *config.Config,
) PriestService {
	return &priestService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// UpsertProfile creates the profile on first write and merges field updates
// afterwards. Verification flags and rating aggregates are never writable
// through this path.
func (s *priestService) UpsertProfile(ctx context.Context, userID string, updates *model.PriestProfileUpdate) (*model.PriestProfile, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	s.sanitizeUpdate(updates)

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Priest profile validation failed",
			"user_id", userID,
			"error", err,
		)
		return nil, apperrors.Validation("Priest profile validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, priesterrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to look up priest profile",
			"user_id", userID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to look up priest profile", err)
	}

	if existing == nil {
		profile := s.newProfileFromUpdate(userID, updates)
		if err := s.validator.Validate(profile); err != nil {
			return nil, apperrors.Validation("Priest profile validation failed", map[string]any{
				"error": err.Error(),
			})
		}

		if err := s.repo.Create(ctx, profile); err != nil {
			if errors.Is(err, priesterrors.ErrDuplicateProfile) {
				return nil, apperrors.Conflict("Priest profile already exists for this user")
			}
			s.cfg.Log.Error("Failed to create priest profile",
				"user_id", userID,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to create priest profile", err)
		}

		s.cfg.Log.Info("Priest profile created",
			"id", profile.ID,
			"user_id", userID,
			"city", profile.City,
		)
		return profile, nil
	}

	merged := s.mergeProfileUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Priest profile validation failed",
			"user_id", userID,
			"id", existing.ID,
			"error", err,
		)
		return nil, apperrors.Validation("Priest profile validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, existing.ID, merged); err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Priest", existing.ID)
		}
		s.cfg.Log.Error("Failed to update priest profile",
			"id", existing.ID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update priest profile", err)
	}

	s.cfg.Log.Info("Priest profile updated",
		"id", existing.ID,
		"user_id", userID,
	)
	return merged, nil
}

func (s *priestService) GetByID(ctx context.Context, id string) (*model.PriestProfile, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Priest ID cannot be empty")
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Priest", id)
		}
		if errors.Is(err, priesterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid priest ID format")
		}
		s.cfg.Log.Error("Failed to get priest profile",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve priest profile", err)
	}

	return profile, nil
}

func (s *priestService) GetByUserID(ctx context.Context, userID string) (*model.PriestProfile, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return nil, apperrors.NotFound("Priest profile not found for this user")
		}
		s.cfg.Log.Error("Failed to get priest profile by user",
			"user_id", userID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve priest profile", err)
	}

	return profile, nil
}

func (s *priestService) Search(ctx context.Context, ceremony, city string, page, limit int) ([]*model.PriestProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	limit = config.NormalizePaginationLimit(limit)

	ceremony = sanitizer.TrimAndNormalize(ceremony)
	city = sanitizer.TrimAndNormalize(city)
	skip := int64(page-1) * int64(limit)

	var count int64
	var profiles []*model.PriestProfile
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountSearch(ctx, ceremony, city)
		if err != nil {
			s.cfg.Log.Error("Failed to count priest search results",
				"ceremony", ceremony,
				"city", city,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count priests", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		profiles, err = s.repo.Search(ctx, ceremony, city, limit, skip)
		if err != nil {
			s.cfg.Log.Error("Failed to search priests",
				"ceremony", ceremony,
				"city", city,
				"page", page,
				"limit", limit,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search priests", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Priest search completed",
		"ceremony", ceremony,
		"city", city,
		"results_count", len(profiles),
		"total_count", count,
	)

	return profiles, count, nil
}

func (s *priestService) SetAvailability(ctx context.Context, userID string, availability map[model.Weekday][]model.TimeWindow) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.validator.ValidateAvailability(availability); err != nil {
		s.cfg.Log.Warn("Availability validation failed",
			"user_id", userID,
			"error", err,
		)
		return apperrors.Validation("Availability validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return apperrors.NotFound("Priest profile not found for this user")
		}
		return apperrors.Internal("Failed to look up priest profile", err)
	}

	if err := s.repo.SetAvailability(ctx, profile.ID, availability); err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Priest", profile.ID)
		}
		s.cfg.Log.Error("Failed to update availability",
			"id", profile.ID,
			"error", err,
		)
		return apperrors.Internal("Failed to update availability", err)
	}

	s.cfg.Log.Info("Availability updated",
		"id", profile.ID,
		"user_id", userID,
		"days", len(availability),
	)
	return nil
}

func (s *priestService) SetVerification(ctx context.Context, id string, governmentID, certification bool) error {
	if id == "" {
		return apperrors.InvalidInput("Priest ID cannot be empty")
	}

	if err := s.repo.SetVerification(ctx, id, governmentID, certification); err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Priest", id)
		}
		if errors.Is(err, priesterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid priest ID format")
		}
		s.cfg.Log.Error("Failed to update verification",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update verification", err)
	}

	s.cfg.Log.Info("Verification flags updated",
		"id", id,
		"government_id_verified", governmentID,
		"certification_verified", certification,
		"verified", governmentID && certification,
	)
	return nil
}

func (s *priestService) sanitizeUpdate(updates *model.PriestProfileUpdate) {
	if updates.ReligiousTradition != "" {
		updates.ReligiousTradition = sanitizer.TrimAndNormalize(updates.ReligiousTradition)
	}
	if updates.Description != nil {
		normalized := sanitizer.TrimAndNormalize(*updates.Description)
		updates.Description = &normalized
	}
	if updates.Ceremonies != nil {
		updates.Ceremonies = sanitizer.NormalizeCeremonies(updates.Ceremonies)
	}
	if updates.City != "" {
		updates.City = sanitizer.TrimAndNormalize(updates.City)
	}
	if updates.TimeZone != "" {
		updates.TimeZone = sanitizer.TrimAndNormalize(updates.TimeZone)
	}
}

func (s *priestService) newProfileFromUpdate(userID string, updates *model.PriestProfileUpdate) *model.PriestProfile {
	profile := &model.PriestProfile{
		UserID:   userID,
		TimeZone: s.cfg.DefaultTimeZone,
		Ratings:  model.RatingSummary{},
	}
	return s.mergeProfileUpdates(profile, updates)
}

func (s *priestService) mergeProfileUpdates(existing *model.PriestProfile, updates *model.PriestProfileUpdate) *model.PriestProfile {
	merged := *existing

	if updates.Experience != nil {
		merged.Experience = *updates.Experience
	}
	if updates.ReligiousTradition != "" {
		merged.ReligiousTradition = updates.ReligiousTradition
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.ProfilePicture != nil {
		merged.ProfilePicture = *updates.ProfilePicture
	}
	if updates.TemplesAffiliated != nil {
		merged.TemplesAffiliated = *updates.TemplesAffiliated
	}
	if updates.Ceremonies != nil {
		merged.Ceremonies = updates.Ceremonies
	}
	if updates.PriceList != nil {
		merged.PriceList = updates.PriceList
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	return &merged
}
