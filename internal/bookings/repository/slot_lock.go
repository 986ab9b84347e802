package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "pujari/internal/bookings/errors"
	"pujari/pkg/config"
	"pujari/pkg/model"
)

const LockCollectionName = "Booking_locks"

// SlotLockRepository provides advisory locks keyed by priest and date. A TTL
// index on expires_at reaps locks abandoned by crashed writers.
type SlotLockRepository interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// LockKey builds the lock identity for a slot request. The key spans the
// whole priest-day, not the start time: bookings are variable-length
// intervals, so two overlapping requests with different start times must
// contend for the same lock.
func LockKey(priestID, date string) string {
	return priestID + ":" + date
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	now := time.Now().UTC()
	lock := &model.SlotLock{
		ID:        key,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}
