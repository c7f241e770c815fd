package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/storage"
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
)

// ScheduleService exposes the day-bucketed schedule store with ownership
// checks applied. One instance serves the workout domain, another the
// nutrition domain; the semantics are identical.
type ScheduleService[T domain.ScheduleItem] interface {
	// Get returns a schedule readable by its owning coach or owning client.
	Get(ctx context.Context, actor Identity, scheduleID primitive.ObjectID) (*domain.WeeklySchedule[T], error)
	// ApplyDayOperation edits one weekday bucket; only the owning coach may
	// edit.
	ApplyDayOperation(ctx context.Context, actor Identity, scheduleID primitive.ObjectID, day domain.Weekday, op domain.DayOperation, items []T) (*domain.WeeklySchedule[T], error)
	// ReplaceDays is the whole-document escape hatch for bulk saves; it
	// bypasses day-scoped validation, so the caller supplies well-formed
	// data.
	ReplaceDays(ctx context.Context, actor Identity, scheduleID primitive.ObjectID, days map[domain.Weekday][]T) (*domain.WeeklySchedule[T], error)
}

// itemDecorator post-processes items on read, e.g. resolving image keys to
// presigned URLs. May be nil.
type itemDecorator[T domain.ScheduleItem] func(ctx context.Context, items []T) []T

// scheduleService implements ScheduleService over a ScheduleRepository.
type scheduleService[T domain.ScheduleItem] struct {
	schedules repository.ScheduleRepository[T]
	decorate  itemDecorator[T]
}

// NewWorkoutScheduleService creates the workout-domain schedule service.
// When media storage is configured, image keys on workout items are resolved
// to presigned download URLs on every read.
func NewWorkoutScheduleService(schedules repository.ScheduleRepository[domain.WorkoutItem], media storage.MediaStorage) ScheduleService[domain.WorkoutItem] {
	var decorate itemDecorator[domain.WorkoutItem]
	if media != nil {
		decorate = func(ctx context.Context, items []domain.WorkoutItem) []domain.WorkoutItem {
			for i := range items {
				items[i].ImageURLs = items[i].ImageURLs[:0]
				for _, key := range items[i].ImageKeys {
					url, err := media.PresignDownload(ctx, key, storage.DefaultPresignedURLExpiry)
					if err != nil {
						log.Printf("WARN: could not presign image %q: %v", key, err)
						continue
					}
					items[i].ImageURLs = append(items[i].ImageURLs, url)
				}
			}
			return items
		}
	}
	return &scheduleService[domain.WorkoutItem]{schedules: schedules, decorate: decorate}
}

// NewNutritionScheduleService creates the nutrition-domain schedule service.
func NewNutritionScheduleService(schedules repository.ScheduleRepository[domain.Meal]) ScheduleService[domain.Meal] {
	return &scheduleService[domain.Meal]{schedules: schedules}
}

func (s *scheduleService[T]) Get(ctx context.Context, actor Identity, scheduleID primitive.ObjectID) (*domain.WeeklySchedule[T], error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if err := authorizeScheduleRead(actor, schedule.CoachID, schedule.ClientID); err != nil {
		return nil, err
	}
	s.decorateDays(ctx, schedule)
	return schedule, nil
}

func (s *scheduleService[T]) ApplyDayOperation(ctx context.Context, actor Identity, scheduleID primitive.ObjectID, day domain.Weekday, op domain.DayOperation, items []T) (*domain.WeeklySchedule[T], error) {
	if _, err := domain.ParseWeekday(string(day)); err != nil {
		return nil, err
	}
	if _, err := domain.ParseDayOperation(string(op)); err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(ctx, actor, scheduleID); err != nil {
		return nil, err
	}

	schedule, err := s.schedules.ApplyDayOperation(ctx, scheduleID, day, op, items)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	s.decorateDays(ctx, schedule)
	return schedule, nil
}

func (s *scheduleService[T]) ReplaceDays(ctx context.Context, actor Identity, scheduleID primitive.ObjectID, days map[domain.Weekday][]T) (*domain.WeeklySchedule[T], error) {
	if err := s.authorizeWrite(ctx, actor, scheduleID); err != nil {
		return nil, err
	}

	schedule, err := s.schedules.ReplaceDays(ctx, scheduleID, days)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	s.decorateDays(ctx, schedule)
	return schedule, nil
}

// authorizeWrite loads the schedule and verifies the actor is its owning
// coach. The subsequent update is a separate write; see the concurrency note
// on the repository.
func (s *scheduleService[T]) authorizeWrite(ctx context.Context, actor Identity, scheduleID primitive.ObjectID) error {
	if actor.Role != domain.RoleCoach {
		return ErrAccessDenied
	}
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	if schedule.CoachID.Hex() != actor.ID {
		return ErrAccessDenied
	}
	return nil
}

func authorizeScheduleRead(actor Identity, coachID, clientID primitive.ObjectID) error {
	switch actor.Role {
	case domain.RoleCoach:
		if coachID.Hex() == actor.ID {
			return nil
		}
	case domain.RoleClient:
		if clientID.Hex() == actor.ID {
			return nil
		}
	}
	return ErrAccessDenied
}

func (s *scheduleService[T]) decorateDays(ctx context.Context, schedule *domain.WeeklySchedule[T]) {
	if s.decorate == nil {
		return
	}
	for day, items := range schedule.Days {
		schedule.Days[day] = s.decorate(ctx, items)
	}
}
