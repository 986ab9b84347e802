package service

import (
	"context"
	"testing"

	priesterrors "pujari/internal/priests/errors"
	"pujari/internal/priests/validator"
	"pujari/pkg/config"
	mongotx "pujari/pkg/db/mongo"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/logger"
	"pujari/pkg/model"
)

type mockPriestRepository struct {
	createFunc          func(ctx context.Context, profile *model.PriestProfile) error
	findByIDFunc        func(ctx context.Context, id string) (*model.PriestProfile, error)
	findByUserIDFunc    func(ctx context.Context, userID string) (*model.PriestProfile, error)
	updateFunc          func(ctx context.Context, id string, profile *model.PriestProfile) error
	setAvailabilityFunc func(ctx context.Context, id string, availability map[model.Weekday][]model.TimeWindow) error
	setVerificationFunc func(ctx context.Context, id string, governmentID, certification bool) error
	applyRatingFunc     func(ctx context.Context, id string, overall int) error
	incrementFunc       func(ctx context.Context, id string) error
	searchFunc          func(ctx context.Context, ceremony, city string, limit int, skip int64) ([]*model.PriestProfile, error)
	countSearchFunc     func(ctx context.Context, ceremony, city string) (int64, error)
}

func (m *mockPriestRepository) Create(ctx context.Context, profile *model.PriestProfile) error {
	return m.createFunc(ctx, profile)
}

func (m *mockPriestRepository) FindByID(ctx context.Context, id string) (*model.PriestProfile, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockPriestRepository) FindByUserID(ctx context.Context, userID string) (*model.PriestProfile, error) {
	return m.findByUserIDFunc(ctx, userID)
}

func (m *mockPriestRepository) Update(ctx context.Context, id string, profile *model.PriestProfile) error {
	return m.updateFunc(ctx, id, profile)
}

func (m *mockPriestRepository) SetAvailability(ctx context.Context, id string, availability map[model.Weekday][]model.TimeWindow) error {
	return m.setAvailabilityFunc(ctx, id, availability)
}

func (m *mockPriestRepository) SetVerification(ctx context.Context, id string, governmentID, certification bool) error {
	return m.setVerificationFunc(ctx, id, governmentID, certification)
}

func (m *mockPriestRepository) ApplyRating(ctx context.Context, id string, overall int) error {
	return m.applyRatingFunc(ctx, id, overall)
}

func (m *mockPriestRepository) IncrementCeremonyCount(ctx context.Context, id string) error {
	return m.incrementFunc(ctx, id)
}

func (m *mockPriestRepository) Search(ctx context.Context, ceremony, city string, limit int, skip int64) ([]*model.PriestProfile, error) {
	return m.searchFunc(ctx, ceremony, city, limit, skip)
}

func (m *mockPriestRepository) CountSearch(ctx context.Context, ceremony, city string) (int64, error) {
	return m.countSearchFunc(ctx, ceremony, city)
}

func (m *mockPriestRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultTimeZone: "Asia/Kolkata",
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newService(repo *mockPriestRepository) PriestService {
	cfg := testConfig()
	return NewPriestService(repo, validator.NewPriestValidator(cfg.Log), cfg)
}

func fullUpdate() *model.PriestProfileUpdate {
	exp := 12
	return &model.PriestProfileUpdate{
		Experience:         &exp,
		ReligiousTradition: "Shaiva",
		Ceremonies:         []string{"griha pravesh"},
		PriceList:          map[string]int64{"griha pravesh": 15000},
		City:               "Varanasi",
		TimeZone:           "Asia/Kolkata",
	}
}

func TestUpsertProfile_CreatesOnFirstWrite(t *testing.T) {
	var created *model.PriestProfile
	repo := &mockPriestRepository{
		findByUserIDFunc: func(ctx context.Context, userID string) (*model.PriestProfile, error) {
			return nil, priesterrors.ErrNotFound
		},
		createFunc: func(ctx context.Context, profile *model.PriestProfile) error {
			profile.ID = "662f000000000000000000aa"
			created = profile
			return nil
		},
	}
	svc := newService(repo)

	profile, err := svc.UpsertProfile(context.Background(), "662f000000000000000000bb", fullUpdate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if profile.UserID != "662f000000000000000000bb" {
		t.Errorf("user_id = %q", profile.UserID)
	}
	if profile.Verified {
		t.Error("new profiles must start unverified")
	}
	if profile.TimeZone != "Asia/Kolkata" {
		t.Errorf("time_zone = %q, want default", profile.TimeZone)
	}
}

func TestUpsertProfile_MergesOnSecondWrite(t *testing.T) {
	existing := &model.PriestProfile{
		ID:                 "662f000000000000000000aa",
		UserID:             "662f000000000000000000bb",
		Experience:         5,
		ReligiousTradition: "Vaishnava",
		Ceremonies:         []string{"griha pravesh"},
		PriceList:          map[string]int64{"griha pravesh": 10000},
		TimeZone:           "Asia/Kolkata",
		Verified:           true,
	}
	var updated *model.PriestProfile
	repo := &mockPriestRepository{
		findByUserIDFunc: func(ctx context.Context, userID string) (*model.PriestProfile, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, profile *model.PriestProfile) error {
			updated = profile
			return nil
		},
	}
	svc := newService(repo)

	newExp := 9
	_, err := svc.UpsertProfile(context.Background(), "662f000000000000000000bb", &model.PriestProfileUpdate{
		Experience: &newExp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected Update to be called")
	}
	if updated.Experience != 9 {
		t.Errorf("experience = %d, want 9", updated.Experience)
	}
	if updated.ReligiousTradition != "Vaishnava" {
		t.Error("untouched fields must survive the merge")
	}
	if !updated.Verified {
		t.Error("verification flags must survive a profile update")
	}
}

func TestUpsertProfile_InvalidCreateRejected(t *testing.T) {
	repo := &mockPriestRepository{
		findByUserIDFunc: func(ctx context.Context, userID string) (*model.PriestProfile, error) {
			return nil, priesterrors.ErrNotFound
		},
		createFunc: func(ctx context.Context, profile *model.PriestProfile) error {
			t.Error("Create must not be called for an invalid profile")
			return nil
		},
	}
	svc := newService(repo)

	// No ceremonies or prices yet, so the first write is incomplete.
	exp := 3
	_, err := svc.UpsertProfile(context.Background(), "662f000000000000000000bb", &model.PriestProfileUpdate{
		Experience: &exp,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got: %v", err)
	}
}

func TestSearch_ReturnsItemsAndCount(t *testing.T) {
	repo := &mockPriestRepository{
		searchFunc: func(ctx context.Context, ceremony, city string, limit int, skip int64) ([]*model.PriestProfile, error) {
			if ceremony != "griha pravesh" || city != "Varanasi" {
				t.Errorf("filters not forwarded: %q %q", ceremony, city)
			}
			if skip != 20 {
				t.Errorf("skip = %d, want 20 for page 2 limit 20", skip)
			}
			return []*model.PriestProfile{{ID: "662f000000000000000000aa"}}, nil
		},
		countSearchFunc: func(ctx context.Context, ceremony, city string) (int64, error) {
			return 41, nil
		},
	}
	svc := newService(repo)

	profiles, count, err := svc.Search(context.Background(), "griha pravesh", "Varanasi", 2, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("got %d profiles", len(profiles))
	}
	if count != 41 {
		t.Errorf("count = %d, want 41", count)
	}
}

func TestSetAvailability_RejectsOverlap(t *testing.T) {
	repo := &mockPriestRepository{
		findByUserIDFunc: func(ctx context.Context, userID string) (*model.PriestProfile, error) {
			t.Error("lookup must not run for invalid availability")
			return nil, nil
		},
	}
	svc := newService(repo)

	err := svc.SetAvailability(context.Background(), "662f000000000000000000bb", map[model.Weekday][]model.TimeWindow{
		model.Monday: {
			{StartTime: "09:00", EndTime: "12:00"},
			{StartTime: "11:00", EndTime: "14:00"},
		},
	})
	if err == nil {
		t.Fatal("expected validation error for overlapping windows")
	}
}

func TestSetVerification_NotFound(t *testing.T) {
	repo := &mockPriestRepository{
		setVerificationFunc: func(ctx context.Context, id string, governmentID, certification bool) error {
			return priesterrors.ErrNotFound
		},
	}
	svc := newService(repo)

	err := svc.SetVerification(context.Background(), "662f000000000000000000aa", true, true)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got: %v", err)
	}
}
