package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog is an append-only record of a client marking a scheduled day as
// done. Logs are only ever created or deleted, never updated. The store does
// not enforce one-log-per-calendar-day; duplicates are kept and left to the
// UI to present.
type WorkoutLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID    primitive.ObjectID `bson:"coachId" json:"coachId"` // denormalized for coach queries
	ScheduleID primitive.ObjectID `bson:"scheduleId" json:"scheduleId"`
	WeekDay    Weekday            `bson:"weekDay" json:"weekDay"`
	LoggedAt   time.Time          `bson:"loggedAt" json:"loggedAt"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
}
