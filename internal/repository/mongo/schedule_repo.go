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

const (
	workoutScheduleCollectionName   = "workout_schedules"
	nutritionScheduleCollectionName = "nutrition_schedules"

	// Both item kinds persist their identifying key under this field; pull
	// matching filters on it.
	itemKeyField = "name"
)

// mongoScheduleRepository implements repository.ScheduleRepository for one of
// the two schedule collections. The weekly shape and all three day-scoped
// update semantics are shared; only the item type differs.
type mongoScheduleRepository[T domain.ScheduleItem] struct {
	collection *mongo.Collection
}

// NewMongoWorkoutScheduleRepository creates the workout schedule store.
func NewMongoWorkoutScheduleRepository(db *mongo.Database) repository.ScheduleRepository[domain.WorkoutItem] {
	return &mongoScheduleRepository[domain.WorkoutItem]{
		collection: db.Collection(workoutScheduleCollectionName),
	}
}

// NewMongoNutritionScheduleRepository creates the nutrition schedule store.
func NewMongoNutritionScheduleRepository(db *mongo.Database) repository.ScheduleRepository[domain.Meal] {
	return &mongoScheduleRepository[domain.Meal]{
		collection: db.Collection(nutritionScheduleCollectionName),
	}
}

// CreateEmpty inserts a schedule with all seven weekday buckets present and
// empty.
func (r *mongoScheduleRepository[T]) CreateEmpty(ctx context.Context, clientID, coachID primitive.ObjectID) (primitive.ObjectID, error) {
	if clientID == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client and coach references are required")
	}

	now := time.Now().UTC()
	schedule := domain.WeeklySchedule[T]{
		ID:        primitive.NewObjectID(),
		ClientID:  clientID,
		CoachID:   coachID,
		Days:      domain.EmptyWeek[T](),
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a schedule by ObjectID.
func (r *mongoScheduleRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklySchedule[T], error) {
	var schedule domain.WeeklySchedule[T]
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// ApplyDayOperation mutates a single weekday bucket with one atomic
// FindOneAndUpdate. Because the update targets only the "days.<weekday>"
// path, concurrent edits to different weekdays of the same schedule both
// succeed; concurrent edits to the same weekday remain last-writer-wins.
// A bucket missing from the document is created by the operators themselves
// ($push and $set materialize the path).
func (r *mongoScheduleRepository[T]) ApplyDayOperation(ctx context.Context, id primitive.ObjectID, day domain.Weekday, op domain.DayOperation, items []T) (*domain.WeeklySchedule[T], error) {
	if _, err := domain.ParseWeekday(string(day)); err != nil {
		return nil, err
	}

	dayPath := "days." + string(day)
	var update bson.M

	switch op {
	case domain.OpPush:
		update = bson.M{
			"$push": bson.M{dayPath: bson.M{"$each": items}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		}
	case domain.OpPull:
		keys := make([]string, 0, len(items))
		for _, it := range items {
			keys = append(keys, it.ItemKey())
		}
		update = bson.M{
			"$pull": bson.M{dayPath: bson.M{itemKeyField: bson.M{"$in": keys}}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		}
	case domain.OpReplace:
		if items == nil {
			items = []T{}
		}
		update = bson.M{
			"$set": bson.M{dayPath: items, "updatedAt": time.Now().UTC()},
		}
	default:
		return nil, domain.ErrInvalidDayOperation
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var schedule domain.WeeklySchedule[T]
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// ReplaceDays overwrites the whole bucket map in one write. This is the
// escape hatch for bulk "save changes" flows: it bypasses day-scoped
// validation entirely, so the caller is responsible for well-formed data.
func (r *mongoScheduleRepository[T]) ReplaceDays(ctx context.Context, id primitive.ObjectID, days map[domain.Weekday][]T) (*domain.WeeklySchedule[T], error) {
	update := bson.M{"$set": bson.M{
		"days":      days,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var schedule domain.WeeklySchedule[T]
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// Delete removes a schedule document.
func (r *mongoScheduleRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureScheduleIndexes creates the indexes shared by both schedule
// collections.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
