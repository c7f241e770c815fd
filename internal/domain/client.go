package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client represents a coach's trainee. Each client owns exactly one workout
// schedule and one nutrition schedule, provisioned together with the client
// and destroyed with it.
type Client struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"` // Should be unique
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	Phone         string             `bson:"phone" json:"phone"`
	Gender        string             `bson:"gender" json:"gender"`
	Goal          string             `bson:"goal" json:"goal"`                   // e.g. "fat loss", "muscle gain"
	CurrentWeight float64            `bson:"currentWeight" json:"currentWeight"` // kg

	// PlanAssigned must be one of the owning coach's plan labels at
	// assignment time.
	PlanAssigned string     `bson:"planAssigned" json:"planAssigned"`
	PlanExpiry   *time.Time `bson:"planExpiry,omitempty" json:"planExpiry,omitempty"`

	WorkoutScheduleID   primitive.ObjectID `bson:"workoutScheduleId" json:"workoutScheduleId"`
	NutritionScheduleID primitive.ObjectID `bson:"nutritionScheduleId" json:"nutritionScheduleId"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
