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

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository using
// MongoDB. Records are append-only; there is no update path.
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new workout log repository backed by
// the given connected database.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// Create inserts a new adherence log.
func (r *mongoWorkoutLogRepository) Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	if log.ClientID == primitive.NilObjectID || log.ScheduleID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("log client and schedule references are required")
	}

	log.ID = primitive.NewObjectID()
	if log.LoggedAt.IsZero() {
		log.LoggedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves one log entry.
func (r *mongoWorkoutLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetByClientID lists a client's logs, newest first.
func (r *mongoWorkoutLogRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

// GetByCoachID lists the logs of every client owned by a coach, newest first.
func (r *mongoWorkoutLogRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	return r.find(ctx, bson.M{"coachId": coachID})
}

func (r *mongoWorkoutLogRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "loggedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.WorkoutLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Delete removes one log entry.
func (r *mongoWorkoutLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByClientID removes all of a client's logs as part of the
// client-deletion cascade.
func (r *mongoWorkoutLogRepository) DeleteByClientID(ctx context.Context, clientID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"clientId": clientID})
	return err
}

// EnsureWorkoutLogIndexes creates the indexes for the workout_logs
// collection.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "loggedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "loggedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
