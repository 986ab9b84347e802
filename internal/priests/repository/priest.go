package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	priesterrors "pujari/internal/priests/errors"
	"pujari/pkg/config"
	mongotx "pujari/pkg/db/mongo"
	"pujari/pkg/model"
)

const (
	CollectionName = "Priest_profiles"
)

type PriestRepository interface {
	Create(ctx context.Context, profile *model.PriestProfile) error
	FindByID(ctx context.Context, id string) (*model.PriestProfile, error)
	FindByUserID(ctx context.Context, userID string) (*model.PriestProfile, error)
	Update(ctx context.Context, id string, profile *model.PriestProfile) error
	SetAvailability(ctx context.Context, id string, availability map[model.Weekday][]model.TimeWindow) error
	SetVerification(ctx context.Context, id string, governmentID, certification bool) error
	ApplyRating(ctx context.Context, id string, overall int) error
	IncrementCeremonyCount(ctx context.Context, id string) error
	Search(ctx context.Context, ceremony, city string, limit int, skip int64) ([]*model.PriestProfile, error)
	CountSearch(ctx context.Context, ceremony, city string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoPriestRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoPriestRepository(cfg *config.Config) PriestRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPriestRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds standalone reads and writes. Inside a transaction the
// session context is returned untouched so transaction semantics survive.
func (r *mongoPriestRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPriestRepository) Create(ctx context.Context, profile *model.PriestProfile) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return priesterrors.ErrDuplicateProfile
		}
		return fmt.Errorf("failed to create priest profile: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		profile.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPriestRepository) FindByID(ctx context.Context, id string) (*model.PriestProfile, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", priesterrors.ErrInvalidID, id)
	}

	var profile model.PriestProfile
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, priesterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find priest profile: %w", err)
	}

	return &profile, nil
}

func (r *mongoPriestRepository) FindByUserID(ctx context.Context, userID string) (*model.PriestProfile, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var profile model.PriestProfile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, priesterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find priest profile by user: %w", err)
	}

	return &profile, nil
}

func (r *mongoPriestRepository) Update(ctx context.Context, id string, profile *model.PriestProfile) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", priesterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"experience":          profile.Experience,
			"religious_tradition": profile.ReligiousTradition,
			"description":         profile.Description,
			"profile_picture":     profile.ProfilePicture,
			"temples_affiliated":  profile.TemplesAffiliated,
			"ceremonies":          profile.Ceremonies,
			"price_list":          profile.PriceList,
			"city":                profile.City,
			"time_zone":           profile.TimeZone,
			"updated_at":          time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update priest profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return priesterrors.ErrNotFound
	}
	return nil
}

func (r *mongoPriestRepository) SetAvailability(ctx context.Context, id string, availability map[model.Weekday][]model.TimeWindow) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", priesterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"availability": availability,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return priesterrors.ErrNotFound
	}
	return nil
}

func (r *mongoPriestRepository) SetVerification(ctx context.Context, id string, governmentID, certification bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", priesterrors.ErrInvalidID, id)
	}

	// Overall verification requires both sub-flags.
	update := bson.M{
		"$set": bson.M{
			"government_id_verified": governmentID,
			"certification_verified": certification,
			"verified":               governmentID && certification,
			"updated_at":             time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update verification flags: %w", err)
	}
	if result.MatchedCount == 0 {
		return priesterrors.ErrNotFound
	}
	return nil
}

// ApplyRating folds one overall rating into the running average and count in
// a single pipeline update, so concurrent submissions cannot lose each
// other's fold.
func (r *mongoPriestRepository) ApplyRating(ctx context.Context, id string, overall int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", priesterrors.ErrInvalidID, id)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"ratings.average": bson.M{"$round": bson.A{
				bson.M{"$divide": bson.A{
					bson.M{"$add": bson.A{
						bson.M{"$multiply": bson.A{"$ratings.average", "$ratings.count"}},
						overall,
					}},
					bson.M{"$add": bson.A{"$ratings.count", 1}},
				}},
				1,
			}},
			"ratings.count": bson.M{"$add": bson.A{"$ratings.count", 1}},
			"updated_at":    "$$NOW",
		}}},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return priesterrors.ErrNotFound
	}
	return nil
}

func (r *mongoPriestRepository) IncrementCeremonyCount(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", priesterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$inc": bson.M{"ceremony_count": 1},
		"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to increment ceremony count: %w", err)
	}
	if result.MatchedCount == 0 {
		return priesterrors.ErrNotFound
	}
	return nil
}

func (r *mongoPriestRepository) Search(ctx context.Context, ceremony, city string, limit int, skip int64) ([]*model.PriestProfile, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "ratings.average", Value: -1}, {Key: "ratings.count", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(skip)

	cursor, err := r.collection.Find(ctx, buildSearchFilter(ceremony, city), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search priest profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*model.PriestProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode priest profiles: %w", err)
	}

	return profiles, nil
}

func (r *mongoPriestRepository) CountSearch(ctx context.Context, ceremony, city string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(ceremony, city))
	if err != nil {
		return 0, fmt.Errorf("failed to count priest profiles: %w", err)
	}
	return count, nil
}

func buildSearchFilter(ceremony, city string) bson.M {
	// Unverified priests never appear in search results.
	filter := bson.M{"verified": true}

	if ceremony != "" {
		filter["ceremonies"] = bson.M{"$in": bson.A{ceremony}}
	}
	if city != "" {
		// QuoteMeta keeps caller input from being interpreted as a pattern.
		filter["city"] = bson.M{"$regex": regexp.QuoteMeta(city), "$options": "i"}
	}
	return filter
}

func (r *mongoPriestRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
