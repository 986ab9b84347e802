package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "pujari/internal/bookings/errors"
	"pujari/pkg/config"
	mongotx "pujari/pkg/db/mongo"
	"pujari/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindActiveByPriestAndDate(ctx context.Context, priestID, date string) ([]*model.Booking, error)
	FindByDevotee(ctx context.Context, devoteeID, status string, limit int, skip int64) ([]*model.Booking, error)
	CountByDevotee(ctx context.Context, devoteeID, status string) (int64, error)
	FindByPriest(ctx context.Context, priestID, status string, limit int, skip int64) ([]*model.Booking, error)
	CountByPriest(ctx context.Context, priestID, status string) (int64, error)
	TransitionStatus(ctx context.Context, id string, from []string, set bson.M) error
	MarkRefunded(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// it is returned unchanged with a no-op cancel.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindActiveByPriestAndDate returns every booking still occupying time on the
// priest's calendar for the given date. Cancelled bookings release their slot.
func (r *mongoBookingRepository) FindActiveByPriestAndDate(ctx context.Context, priestID, date string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"priest_id": priestID,
		"date":      date,
		"status":    bson.M{"$ne": model.StatusCancelled},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for date: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindByDevotee(ctx context.Context, devoteeID, status string, limit int, skip int64) ([]*model.Booking, error) {
	return r.findByParty(ctx, "devotee_id", devoteeID, status, limit, skip)
}

func (r *mongoBookingRepository) CountByDevotee(ctx context.Context, devoteeID, status string) (int64, error) {
	return r.countByParty(ctx, "devotee_id", devoteeID, status)
}

func (r *mongoBookingRepository) FindByPriest(ctx context.Context, priestID, status string, limit int, skip int64) ([]*model.Booking, error) {
	return r.findByParty(ctx, "priest_id", priestID, status, limit, skip)
}

func (r *mongoBookingRepository) CountByPriest(ctx context.Context, priestID, status string) (int64, error) {
	return r.countByParty(ctx, "priest_id", priestID, status)
}

func (r *mongoBookingRepository) findByParty(ctx context.Context, field, id, status string, limit int, skip int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start_time", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(skip)

	cursor, err := r.collection.Find(ctx, buildPartyFilter(field, id, status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) countByParty(ctx context.Context, field, id, status string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildPartyFilter(field, id, status))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func buildPartyFilter(field, id, status string) bson.M {
	filter := bson.M{field: id}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

// TransitionStatus applies set only if the booking is currently in one of the
// from statuses. The status guard in the filter makes the transition a
// compare-and-swap: a concurrent transition that lands first leaves this one
// matching nothing.
func (r *mongoBookingRepository) TransitionStatus(ctx context.Context, id string, from []string, set bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$in": from},
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to transition booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNoTransition
	}
	return nil
}

// MarkRefunded flips payment_status from completed to refunded. The guard on
// the current payment status makes repeated refunds a no-op at this layer.
func (r *mongoBookingRepository) MarkRefunded(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":            objectID,
		"payment_status": model.PaymentCompleted,
	}
	update := bson.M{
		"$set": bson.M{
			"payment_status": model.PaymentRefunded,
			"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking refunded: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNoTransition
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
