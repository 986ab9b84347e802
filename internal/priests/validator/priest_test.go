package validator

import (
	"testing"

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

func validProfile() *model.PriestProfile {
	return &model.PriestProfile{
		UserID:             "662f000000000000000000bb",
		Experience:         12,
		ReligiousTradition: "Shaiva",
		Ceremonies:         []string{"griha pravesh", "satyanarayan puja"},
		PriceList: map[string]int64{
			"griha pravesh":     15000,
			"satyanarayan puja": 8000,
		},
		Availability: map[model.Weekday][]model.TimeWindow{
			model.Monday: {
				{StartTime: "09:00", EndTime: "13:00"},
				{StartTime: "15:00", EndTime: "18:00"},
			},
		},
		TimeZone: "Asia/Kolkata",
		City:     "Varanasi",
	}
}

func TestValidate_ValidProfile(t *testing.T) {
	v := NewPriestValidator(testLogger())

	if err := v.Validate(validProfile()); err != nil {
		t.Errorf("expected valid profile, got: %v", err)
	}
}

func TestValidate_ZeroExperienceAllowed(t *testing.T) {
	v := NewPriestValidator(testLogger())

	// A newly trained priest has zero years of experience; that is a
	// legitimate profile, not a missing field.
	profile := validProfile()
	profile.Experience = 0
	if err := v.Validate(profile); err != nil {
		t.Errorf("expected zero experience to validate, got: %v", err)
	}

	profile.Experience = -1
	if err := v.Validate(profile); err == nil {
		t.Error("expected error for negative experience")
	}

	profile.Experience = 81
	if err := v.Validate(profile); err == nil {
		t.Error("expected error for experience above 80")
	}
}

func TestValidate_StructRules(t *testing.T) {
	v := NewPriestValidator(testLogger())

	tests := []struct {
		name   string
		mutate func(p *model.PriestProfile)
	}{
		{
			name:   "missing user id",
			mutate: func(p *model.PriestProfile) { p.UserID = "" },
		},
		{
			name:   "user id not an object id",
			mutate: func(p *model.PriestProfile) { p.UserID = "not-hex" },
		},
		{
			name:   "no ceremonies",
			mutate: func(p *model.PriestProfile) { p.Ceremonies = nil },
		},
		{
			name:   "empty price list",
			mutate: func(p *model.PriestProfile) { p.PriceList = map[string]int64{} },
		},
		{
			name: "non-positive price",
			mutate: func(p *model.PriestProfile) {
				p.PriceList["griha pravesh"] = 0
			},
		},
		{
			name:   "bogus time zone",
			mutate: func(p *model.PriestProfile) { p.TimeZone = "Mars/Olympus" },
		},
		{
			name: "bad wall clock in window",
			mutate: func(p *model.PriestProfile) {
				p.Availability[model.Monday] = []model.TimeWindow{
					{StartTime: "9am", EndTime: "13:00"},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := validProfile()
			tt.mutate(profile)
			if err := v.Validate(profile); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidate_UnpricedCeremony(t *testing.T) {
	v := NewPriestValidator(testLogger())

	profile := validProfile()
	delete(profile.PriceList, "satyanarayan puja")

	if err := v.Validate(profile); err == nil {
		t.Error("expected error for offered ceremony without a price")
	}

	// A default entry covers any unpriced ceremony.
	profile.PriceList[model.DefaultPriceKey] = 5000
	if err := v.Validate(profile); err != nil {
		t.Errorf("default price should cover unpriced ceremonies, got: %v", err)
	}
}

func TestValidateAvailability_WindowRules(t *testing.T) {
	v := NewPriestValidator(testLogger())

	tests := []struct {
		name    string
		windows []model.TimeWindow
		wantErr bool
	}{
		{
			name: "ordered non-overlapping windows",
			windows: []model.TimeWindow{
				{StartTime: "09:00", EndTime: "12:00"},
				{StartTime: "14:00", EndTime: "18:00"},
			},
		},
		{
			name: "touching windows allowed",
			windows: []model.TimeWindow{
				{StartTime: "09:00", EndTime: "12:00"},
				{StartTime: "12:00", EndTime: "15:00"},
			},
		},
		{
			name: "window ends before it starts",
			windows: []model.TimeWindow{
				{StartTime: "13:00", EndTime: "09:00"},
			},
			wantErr: true,
		},
		{
			name: "zero length window",
			windows: []model.TimeWindow{
				{StartTime: "09:00", EndTime: "09:00"},
			},
			wantErr: true,
		},
		{
			name: "overlapping windows",
			windows: []model.TimeWindow{
				{StartTime: "09:00", EndTime: "12:00"},
				{StartTime: "11:00", EndTime: "14:00"},
			},
			wantErr: true,
		},
		{
			name: "unordered input still validated",
			windows: []model.TimeWindow{
				{StartTime: "14:00", EndTime: "18:00"},
				{StartTime: "09:00", EndTime: "15:00"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAvailability(map[model.Weekday][]model.TimeWindow{
				model.Friday: tt.windows,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAvailability() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewPriestValidator(testLogger())

	exp := 5
	if err := v.ValidateUpdate(&model.PriestProfileUpdate{Experience: &exp}); err != nil {
		t.Errorf("expected valid update, got: %v", err)
	}

	bad := -1
	if err := v.ValidateUpdate(&model.PriestProfileUpdate{Experience: &bad}); err == nil {
		t.Error("expected error for negative experience")
	}

	update := &model.PriestProfileUpdate{
		Ceremonies: []string{"upanayana"},
		PriceList:  map[string]int64{"griha pravesh": 15000},
	}
	if err := v.ValidateUpdate(update); err == nil {
		t.Error("expected error when updated ceremonies lack prices")
	}
}
