package model

import (
	"time"
)

type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// WeekdayOf maps a time.Weekday onto the schema's weekday keys.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Sunday:
		return Sunday
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	default:
		return Saturday
	}
}

// TimeWindow is a wall-clock interval within a single day, half-open:
// a window ending at 10:00 does not touch one starting at 10:00.
type TimeWindow struct {
	StartTime string `json:"start_time" bson:"start_time" validate:"required,wallclock"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"required,wallclock"`
}

type TempleAffiliation struct {
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" bson:"address" validate:"required,min=2,max=200"`
}

type RatingSummary struct {
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}

// DefaultPriceKey is the optional fallback entry in a price list, used when
// an offered ceremony has no dedicated price.
const DefaultPriceKey = "default"

type PriestProfile struct {
	ID     string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID string `json:"user_id" bson:"user_id" validate:"required,mongodb"`

	Experience         int                 `json:"experience" bson:"experience" validate:"min=0,max=80"`
	ReligiousTradition string              `json:"religious_tradition" bson:"religious_tradition" validate:"required,min=2,max=100"`
	Description        string              `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	ProfilePicture     string              `json:"profile_picture,omitempty" bson:"profile_picture,omitempty" validate:"omitempty,max=500"`
	TemplesAffiliated  []TempleAffiliation `json:"temples_affiliated,omitempty" bson:"temples_affiliated,omitempty" validate:"omitempty,dive"`

	Ceremonies []string         `json:"ceremonies" bson:"ceremonies" validate:"required,min=1,dive,min=2,max=100"`
	PriceList  map[string]int64 `json:"price_list" bson:"price_list" validate:"required,price_list"`

	Availability map[Weekday][]TimeWindow `json:"availability,omitempty" bson:"availability,omitempty" validate:"omitempty,availability_map"`
	TimeZone     string                   `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	City         string                   `json:"city,omitempty" bson:"city,omitempty" validate:"omitempty,min=2,max=50"`

	GovernmentIDVerified  bool `json:"government_id_verified" bson:"government_id_verified"`
	CertificationVerified bool `json:"certification_verified" bson:"certification_verified"`
	Verified              bool `json:"verified" bson:"verified"`

	Ratings       RatingSummary `json:"ratings" bson:"ratings"`
	CeremonyCount int64         `json:"ceremony_count" bson:"ceremony_count"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Offers reports whether the priest lists the ceremony type.
func (p *PriestProfile) Offers(ceremonyType string) bool {
	for _, c := range p.Ceremonies {
		if c == ceremonyType {
			return true
		}
	}
	return false
}

// PriceFor resolves the price for a ceremony, falling back to the default
// entry when no dedicated one exists.
func (p *PriestProfile) PriceFor(ceremonyType string) (int64, bool) {
	if price, ok := p.PriceList[ceremonyType]; ok {
		return price, true
	}
	price, ok := p.PriceList[DefaultPriceKey]
	return price, ok
}

type PriestProfileUpdate struct {
	Experience         *int                 `json:"experience,omitempty" validate:"omitempty,min=0,max=80"`
	ReligiousTradition string               `json:"religious_tradition,omitempty" validate:"omitempty,min=2,max=100"`
	Description        *string              `json:"description,omitempty" validate:"omitempty,max=2000"`
	ProfilePicture     *string              `json:"profile_picture,omitempty" validate:"omitempty,max=500"`
	TemplesAffiliated  *[]TempleAffiliation `json:"temples_affiliated,omitempty" validate:"omitempty,dive"`
	Ceremonies         []string             `json:"ceremonies,omitempty" validate:"omitempty,min=1,dive,min=2,max=100"`
	PriceList          map[string]int64     `json:"price_list,omitempty" validate:"omitempty,price_list"`
	City               string               `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	TimeZone           string               `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}
