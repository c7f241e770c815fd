package service_test

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository/memory"
	"coachhub/coaching-app/internal/service"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type logFixture struct {
	svc        service.WorkoutLogService
	coachID    primitive.ObjectID
	clientID   primitive.ObjectID
	scheduleID primitive.ObjectID
}

func newLogFixture(t *testing.T) *logFixture {
	t.Helper()
	ctx := context.Background()

	clientRepo := memory.NewClientRepository()
	workouts := memory.NewScheduleRepository[domain.WorkoutItem]()
	logs := memory.NewWorkoutLogRepository()

	coachID := primitive.NewObjectID()
	client := &domain.Client{CoachID: coachID, Name: "Casey", Email: "casey@example.test"}
	clientID, err := clientRepo.Create(ctx, client)
	require.NoError(t, err)

	scheduleID, err := workouts.CreateEmpty(ctx, clientID, coachID)
	require.NoError(t, err)
	require.NoError(t, clientRepo.SetScheduleIDs(ctx, clientID, scheduleID, primitive.NewObjectID()))

	return &logFixture{
		svc:        service.NewWorkoutLogService(logs, clientRepo, workouts),
		coachID:    coachID,
		clientID:   clientID,
		scheduleID: scheduleID,
	}
}

func (f *logFixture) asClient() service.Identity {
	return service.Identity{ID: f.clientID.Hex(), Role: domain.RoleClient}
}

func (f *logFixture) asCoach() service.Identity {
	return service.Identity{ID: f.coachID.Hex(), Role: domain.RoleCoach}
}

func TestCreateLog(t *testing.T) {
	t.Parallel()
	f := newLogFixture(t)
	ctx := context.Background()

	logEntry, err := f.svc.CreateLog(ctx, f.asClient(), f.scheduleID, domain.Monday, "felt strong")
	require.NoError(t, err)
	assert.Equal(t, f.clientID, logEntry.ClientID)
	assert.Equal(t, f.coachID, logEntry.CoachID)
	assert.Equal(t, domain.Monday, logEntry.WeekDay)
	assert.False(t, logEntry.LoggedAt.IsZero())

	// Logging the same day again is allowed; the store is append-only.
	_, err = f.svc.CreateLog(ctx, f.asClient(), f.scheduleID, domain.Monday, "")
	require.NoError(t, err)

	logs, err := f.svc.ListLogs(ctx, f.asClient())
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestCreateLog_Validation(t *testing.T) {
	t.Parallel()
	f := newLogFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateLog(ctx, f.asClient(), f.scheduleID, domain.Weekday("Someday"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidWeekday)

	_, err = f.svc.CreateLog(ctx, f.asCoach(), f.scheduleID, domain.Monday, "")
	assert.ErrorIs(t, err, service.ErrAccessDenied, "coaches do not log")

	other := service.Identity{ID: primitive.NewObjectID().Hex(), Role: domain.RoleClient}
	_, err = f.svc.CreateLog(ctx, other, f.scheduleID, domain.Monday, "")
	assert.ErrorIs(t, err, service.ErrAccessDenied, "only the owning client may log")

	_, err = f.svc.CreateLog(ctx, f.asClient(), primitive.NewObjectID(), domain.Monday, "")
	assert.ErrorIs(t, err, service.ErrScheduleNotFound)
}

func TestListLogsForClient(t *testing.T) {
	t.Parallel()
	f := newLogFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateLog(ctx, f.asClient(), f.scheduleID, domain.Tuesday, "")
	require.NoError(t, err)

	logs, err := f.svc.ListLogsForClient(ctx, f.coachID, f.clientID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = f.svc.ListLogsForClient(ctx, primitive.NewObjectID(), f.clientID)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	_, err = f.svc.ListLogsForClient(ctx, f.coachID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrClientNotFound)
}

func TestDeleteLog(t *testing.T) {
	t.Parallel()
	f := newLogFixture(t)
	ctx := context.Background()

	logEntry, err := f.svc.CreateLog(ctx, f.asClient(), f.scheduleID, domain.Friday, "")
	require.NoError(t, err)

	err = f.svc.DeleteLog(ctx, primitive.NewObjectID(), logEntry.ID)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	require.NoError(t, f.svc.DeleteLog(ctx, f.coachID, logEntry.ID))

	err = f.svc.DeleteLog(ctx, f.coachID, logEntry.ID)
	assert.ErrorIs(t, err, service.ErrLogNotFound)
}
