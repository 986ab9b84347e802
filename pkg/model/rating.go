package model

import "time"

// Rating is a devotee's review of one completed booking. At most one rating
// may exist per booking; the Ratings collection enforces this with a unique
// index on booking_id.
type Rating struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID string `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	PriestID  string `json:"priest_id" bson:"priest_id" validate:"required,mongodb"`
	DevoteeID string `json:"devotee_id" bson:"devotee_id" validate:"required,mongodb"`

	Overall    int            `json:"overall" bson:"overall" validate:"required,min=1,max=5"`
	Categories map[string]int `json:"categories,omitempty" bson:"categories,omitempty" validate:"omitempty,category_ratings"`
	Review     string         `json:"review,omitempty" bson:"review,omitempty" validate:"omitempty,max=1000"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
