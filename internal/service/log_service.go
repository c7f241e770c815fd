package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrLogNotFound = errors.New("workout log not found")
)

// WorkoutLogService is the log recorder: clients append completion records
// for their own schedule, coaches review and prune them. Records are never
// updated. Logging the same weekday twice on one calendar date is allowed;
// the store stays append-only and duplicates are a presentation concern.
type WorkoutLogService interface {
	// CreateLog appends a log. Only the client owning the schedule may log
	// against it.
	CreateLog(ctx context.Context, actor Identity, scheduleID primitive.ObjectID, day domain.Weekday, comment string) (*domain.WorkoutLog, error)
	// ListLogs returns the actor's own logs (client) or the logs of every
	// owned client (coach).
	ListLogs(ctx context.Context, actor Identity) ([]domain.WorkoutLog, error)
	// ListLogsForClient returns one client's logs to their owning coach.
	ListLogsForClient(ctx context.Context, coachID, clientID primitive.ObjectID) ([]domain.WorkoutLog, error)
	// DeleteLog removes one log; coach-only.
	DeleteLog(ctx context.Context, coachID, logID primitive.ObjectID) error
}

type workoutLogService struct {
	logRepo          repository.WorkoutLogRepository
	clientRepo       repository.ClientRepository
	workoutSchedules repository.ScheduleRepository[domain.WorkoutItem]
}

// NewWorkoutLogService creates a new instance of workoutLogService.
func NewWorkoutLogService(
	logRepo repository.WorkoutLogRepository,
	clientRepo repository.ClientRepository,
	workoutSchedules repository.ScheduleRepository[domain.WorkoutItem],
) WorkoutLogService {
	return &workoutLogService{
		logRepo:          logRepo,
		clientRepo:       clientRepo,
		workoutSchedules: workoutSchedules,
	}
}

// CreateLog validates the weekday, verifies schedule ownership, and appends
// the record.
func (s *workoutLogService) CreateLog(ctx context.Context, actor Identity, scheduleID primitive.ObjectID, day domain.Weekday, comment string) (*domain.WorkoutLog, error) {
	if actor.Role != domain.RoleClient {
		return nil, ErrAccessDenied
	}
	if _, err := domain.ParseWeekday(string(day)); err != nil {
		return nil, err
	}

	schedule, err := s.workoutSchedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if schedule.ClientID.Hex() != actor.ID {
		return nil, ErrAccessDenied
	}

	logEntry := &domain.WorkoutLog{
		ClientID:   schedule.ClientID,
		CoachID:    schedule.CoachID,
		ScheduleID: scheduleID,
		WeekDay:    day,
		Comment:    comment,
	}
	logID, err := s.logRepo.Create(ctx, logEntry)
	if err != nil {
		return nil, err
	}
	logEntry.ID = logID
	return logEntry, nil
}

// ListLogs returns the logs visible to the actor.
func (s *workoutLogService) ListLogs(ctx context.Context, actor Identity) ([]domain.WorkoutLog, error) {
	id, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, ErrValidation
	}
	switch actor.Role {
	case domain.RoleClient:
		return s.logRepo.GetByClientID(ctx, id)
	case domain.RoleCoach:
		return s.logRepo.GetByCoachID(ctx, id)
	}
	return nil, ErrAccessDenied
}

// ListLogsForClient returns one owned client's logs to their coach.
func (s *workoutLogService) ListLogsForClient(ctx context.Context, coachID, clientID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.CoachID != coachID {
		return nil, ErrAccessDenied
	}
	return s.logRepo.GetByClientID(ctx, clientID)
}

// DeleteLog removes a log owned by one of the coach's clients.
func (s *workoutLogService) DeleteLog(ctx context.Context, coachID, logID primitive.ObjectID) error {
	logEntry, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	if logEntry.CoachID != coachID {
		return ErrAccessDenied
	}
	return s.logRepo.Delete(ctx, logID)
}
