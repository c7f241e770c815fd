package repository

import (
	"coachhub/coaching-app/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrLimitReached = RepositoryError("counter limit reached")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CoachRepository defines the interface for interacting with coach records.
type CoachRepository interface {
	Create(ctx context.Context, coach *domain.Coach) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Coach, error)
	GetByEmail(ctx context.Context, email string) (*domain.Coach, error)
	GetByBillingCustomerID(ctx context.Context, customerID string) (*domain.Coach, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string, plans []string) error
	SetBillingCustomerID(ctx context.Context, id primitive.ObjectID, customerID string) error
	// ActivateSubscription sets isSubscribed plus the billing identifiers as
	// one absolute write, so replays of the same billing event converge.
	ActivateSubscription(ctx context.Context, id primitive.ObjectID, subscriptionID, planName string) error
	// IncrementClientCountIfBelow atomically increments clientCount only
	// while it is strictly below limit; returns ErrLimitReached otherwise.
	IncrementClientCountIfBelow(ctx context.Context, id primitive.ObjectID, limit int) error
	DecrementClientCount(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ClientRepository defines the interface for interacting with client records.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error)
	CountByPlan(ctx context.Context, coachID primitive.ObjectID, planName string) (int64, error)
	Update(ctx context.Context, client *domain.Client) error
	SetScheduleIDs(ctx context.Context, id, workoutScheduleID, nutritionScheduleID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ScheduleRepository is the day-bucketed schedule store, shared by the
// workout and nutrition domains through the item type parameter.
type ScheduleRepository[T domain.ScheduleItem] interface {
	// CreateEmpty creates a schedule with all seven weekday buckets present
	// and empty. Called exactly once per client per schedule kind.
	CreateEmpty(ctx context.Context, clientID, coachID primitive.ObjectID) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklySchedule[T], error)
	// ApplyDayOperation performs a single atomic sub-document update on one
	// weekday bucket and returns the updated schedule.
	ApplyDayOperation(ctx context.Context, id primitive.ObjectID, day domain.Weekday, op domain.DayOperation, items []T) (*domain.WeeklySchedule[T], error)
	// ReplaceDays overwrites the whole bucket map verbatim, bypassing
	// day-scoped semantics. Callers own the well-formedness of days.
	ReplaceDays(ctx context.Context, id primitive.ObjectID, days map[domain.Weekday][]T) (*domain.WeeklySchedule[T], error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutLogRepository defines the interface for the append-only adherence
// log store.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutLog, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutLog, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByClientID(ctx context.Context, clientID primitive.ObjectID) error
}
