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

	ratingserrors "pujari/internal/ratings/errors"
	"pujari/pkg/config"
	mongotx "pujari/pkg/db/mongo"
	"pujari/pkg/model"
)

const (
	CollectionName = "Ratings"
)

type RatingRepository interface {
	Insert(ctx context.Context, rating *model.Rating) error
	FindByBooking(ctx context.Context, bookingID string) (*model.Rating, error)
	FindByPriest(ctx context.Context, priestID string, limit int, skip int64) ([]*model.Rating, error)
	CountByPriest(ctx context.Context, priestID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoRatingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRatingRepository(cfg *config.Config) RatingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRatingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoRatingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRatingRepository) Insert(ctx context.Context, rating *model.Rating) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rating.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, rating)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ratingserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert rating: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rating.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRatingRepository) FindByBooking(ctx context.Context, bookingID string) (*model.Rating, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var rating model.Rating
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&rating)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ratingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rating: %w", err)
	}

	return &rating, nil
}

func (r *mongoRatingRepository) FindByPriest(ctx context.Context, priestID string, limit int, skip int64) ([]*model.Rating, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(skip)

	cursor, err := r.collection.Find(ctx, bson.M{"priest_id": priestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []*model.Rating
	if err = cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	return ratings, nil
}

func (r *mongoRatingRepository) CountByPriest(ctx context.Context, priestID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"priest_id": priestID})
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}

func (r *mongoRatingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
