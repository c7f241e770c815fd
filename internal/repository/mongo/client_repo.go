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

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository using MongoDB.
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new client repository backed by the
// given connected database.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client record.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.CoachID == primitive.NilObjectID || client.Email == "" {
		return primitive.NilObjectID, errors.New("client coach reference and email are required")
	}

	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
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

// GetByID retrieves a client by ObjectID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByEmail retrieves a client by email address. Used by login.
func (r *mongoClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByCoachID lists all clients owned by a coach.
func (r *mongoClientRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []domain.Client{}
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// CountByPlan counts the coach's clients currently assigned a plan label.
// Used to refuse removing a label still in use.
func (r *mongoClientRepository) CountByPlan(ctx context.Context, coachID primitive.ObjectID, planName string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"coachId": coachID, "planAssigned": planName})
}

// Update overwrites the client's mutable profile fields.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	update := bson.M{"$set": bson.M{
		"name":          client.Name,
		"phone":         client.Phone,
		"gender":        client.Gender,
		"goal":          client.Goal,
		"currentWeight": client.CurrentWeight,
		"planAssigned":  client.PlanAssigned,
		"planExpiry":    client.PlanExpiry,
		"updatedAt":     time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": client.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetScheduleIDs links the two provisioned schedules back onto the client.
func (r *mongoClientRepository) SetScheduleIDs(ctx context.Context, id, workoutScheduleID, nutritionScheduleID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"workoutScheduleId":   workoutScheduleID,
		"nutritionScheduleId": nutritionScheduleID,
		"updatedAt":           time.Now().UTC(),
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

// Delete removes a client record.
func (r *mongoClientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureClientIndexes creates the indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
