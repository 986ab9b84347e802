package model

import "time"

// SlotLock is an advisory lock document guarding booking creation for one
// (priest, date) key. Its _id is the lock key; a duplicate-key error on
// insert means another request holds the slot.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
