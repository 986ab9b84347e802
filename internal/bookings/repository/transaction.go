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
	"pujari/pkg/model"
)

const TransactionCollectionName = "Transactions"

// TransactionRepository is the append-only ledger of payment events. A unique
// sparse index on payment_id backs idempotent recording.
type TransactionRepository interface {
	Insert(ctx context.Context, txn *model.Transaction) error
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Transaction, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.Transaction, error)
}

type mongoTransactionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTransactionRepository(cfg *config.Config) TransactionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTransactionRepository{
		cfg:        cfg,
		collection: db.Collection(TransactionCollectionName),
	}
}

func (r *mongoTransactionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTransactionRepository) Insert(ctx context.Context, txn *model.Transaction) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	txn.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, txn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrDuplicatePayment
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		txn.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTransactionRepository) FindByPaymentID(ctx context.Context, paymentID string) (*model.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var txn model.Transaction
	err := r.collection.FindOne(ctx, bson.M{"payment_id": paymentID}).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	return &txn, nil
}

func (r *mongoTransactionRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []*model.Transaction
	if err = cursor.All(ctx, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	return txns, nil
}
