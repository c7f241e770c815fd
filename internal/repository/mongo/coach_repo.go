package mongo

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const coachCollectionName = "coaches"

// mongoCoachRepository implements repository.CoachRepository using MongoDB.
type mongoCoachRepository struct {
	collection *mongo.Collection
}

// NewMongoCoachRepository creates a new coach repository backed by the given
// connected database.
func NewMongoCoachRepository(db *mongo.Database) repository.CoachRepository {
	return &mongoCoachRepository{
		collection: db.Collection(coachCollectionName),
	}
}

// Create inserts a new coach record.
func (r *mongoCoachRepository) Create(ctx context.Context, coach *domain.Coach) (primitive.ObjectID, error) {
	if coach.Email == "" || coach.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("coach email and password hash are required")
	}

	coach.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	coach.CreatedAt = now
	coach.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, coach)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a coach by ObjectID.
func (r *mongoCoachRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Coach, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a coach by email address.
func (r *mongoCoachRepository) GetByEmail(ctx context.Context, email string) (*domain.Coach, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByBillingCustomerID retrieves the coach linked to a billing-provider
// customer identifier. Used by the webhook processor.
func (r *mongoCoachRepository) GetByBillingCustomerID(ctx context.Context, customerID string) (*domain.Coach, error) {
	return r.findOne(ctx, bson.M{"billingCustomerId": customerID})
}

func (r *mongoCoachRepository) findOne(ctx context.Context, filter bson.M) (*domain.Coach, error) {
	var coach domain.Coach
	err := r.collection.FindOne(ctx, filter).Decode(&coach)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &coach, nil
}

// UpdateProfile updates the coach's editable profile fields.
func (r *mongoCoachRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string, plans []string) error {
	update := bson.M{"$set": bson.M{
		"name":      name,
		"phone":     phone,
		"plans":     plans,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetBillingCustomerID persists the billing-provider customer identifier the
// first time one is provisioned for the coach.
func (r *mongoCoachRepository) SetBillingCustomerID(ctx context.Context, id primitive.ObjectID, customerID string) error {
	update := bson.M{"$set": bson.M{
		"billingCustomerId": customerID,
		"updatedAt":         time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ActivateSubscription flips the coach to the subscribed tier. The write is
// an absolute $set, so a replayed billing event converges to the same state.
func (r *mongoCoachRepository) ActivateSubscription(ctx context.Context, id primitive.ObjectID, subscriptionID, planName string) error {
	update := bson.M{"$set": bson.M{
		"isSubscribed":          true,
		"billingSubscriptionId": subscriptionID,
		"subscriptionPlan":      planName,
		"updatedAt":             time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementClientCountIfBelow performs the guarded compare-and-increment on
// clientCount. The limit check and the increment are a single atomic update,
// so concurrent client creation cannot overshoot the tier ceiling.
func (r *mongoCoachRepository) IncrementClientCountIfBelow(ctx context.Context, id primitive.ObjectID, limit int) error {
	filter := bson.M{"_id": id, "clientCount": bson.M{"$lt": limit}}
	update := bson.M{
		"$inc": bson.M{"clientCount": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the coach does not exist or the ceiling was hit; callers
		// have already resolved the coach, so report the limit.
		return repository.ErrLimitReached
	}
	return nil
}

// DecrementClientCount undoes one increment, used on client deletion and on
// rollback of a failed creation.
func (r *mongoCoachRepository) DecrementClientCount(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "clientCount": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"clientCount": -1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a coach record.
func (r *mongoCoachRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCoachIndexes creates the indexes for the coaches collection. Call
// once during application startup.
func EnsureCoachIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "billingCustomerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
