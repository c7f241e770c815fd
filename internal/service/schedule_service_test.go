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

type scheduleFixture struct {
	repo    *memory.ScheduleRepository[domain.WorkoutItem]
	svc     service.ScheduleService[domain.WorkoutItem]
	coachID primitive.ObjectID
	client  primitive.ObjectID
	id      primitive.ObjectID
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	repo := memory.NewScheduleRepository[domain.WorkoutItem]()
	coachID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	id, err := repo.CreateEmpty(context.Background(), clientID, coachID)
	require.NoError(t, err)
	return &scheduleFixture{
		repo:    repo,
		svc:     service.NewWorkoutScheduleService(repo, nil),
		coachID: coachID,
		client:  clientID,
		id:      id,
	}
}

func (f *scheduleFixture) coach() service.Identity {
	return service.Identity{ID: f.coachID.Hex(), Role: domain.RoleCoach}
}

func (f *scheduleFixture) owner() service.Identity {
	return service.Identity{ID: f.client.Hex(), Role: domain.RoleClient}
}

func TestScheduleService_Get(t *testing.T) {
	t.Parallel()
	f := newScheduleFixture(t)
	ctx := context.Background()

	schedule, err := f.svc.Get(ctx, f.coach(), f.id)
	require.NoError(t, err)
	assert.Len(t, schedule.Days, 7)

	_, err = f.svc.Get(ctx, f.owner(), f.id)
	require.NoError(t, err, "the owning client may read")

	stranger := service.Identity{ID: primitive.NewObjectID().Hex(), Role: domain.RoleCoach}
	_, err = f.svc.Get(ctx, stranger, f.id)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	strangerClient := service.Identity{ID: primitive.NewObjectID().Hex(), Role: domain.RoleClient}
	_, err = f.svc.Get(ctx, strangerClient, f.id)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	_, err = f.svc.Get(ctx, f.coach(), primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrScheduleNotFound)
}

func TestScheduleService_ApplyDayOperation(t *testing.T) {
	t.Parallel()
	f := newScheduleFixture(t)
	ctx := context.Background()

	squat := domain.WorkoutItem{Name: "Squat", Sets: 5, Reps: 5}
	bench := domain.WorkoutItem{Name: "Bench Press", Sets: 3, Reps: 8}

	schedule, err := f.svc.ApplyDayOperation(ctx, f.coach(), f.id, domain.Monday, domain.OpPush, []domain.WorkoutItem{squat, bench})
	require.NoError(t, err)
	require.Len(t, schedule.Days[domain.Monday], 2)

	schedule, err = f.svc.ApplyDayOperation(ctx, f.coach(), f.id, domain.Monday, domain.OpPull, []domain.WorkoutItem{{Name: "Squat"}})
	require.NoError(t, err)
	require.Len(t, schedule.Days[domain.Monday], 1)
	assert.Equal(t, "Bench Press", schedule.Days[domain.Monday][0].Name)

	schedule, err = f.svc.ApplyDayOperation(ctx, f.coach(), f.id, domain.Monday, domain.OpReplace, []domain.WorkoutItem{squat})
	require.NoError(t, err)
	require.Len(t, schedule.Days[domain.Monday], 1)
	assert.Equal(t, "Squat", schedule.Days[domain.Monday][0].Name)
}

func TestScheduleService_ApplyDayOperation_Validation(t *testing.T) {
	t.Parallel()
	f := newScheduleFixture(t)
	ctx := context.Background()

	_, err := f.svc.ApplyDayOperation(ctx, f.coach(), f.id, domain.Weekday("Someday"), domain.OpPush, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidWeekday)

	_, err = f.svc.ApplyDayOperation(ctx, f.coach(), f.id, domain.Monday, domain.DayOperation("merge"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDayOperation)

	// Neither rejected call may have touched the document.
	schedule, err := f.svc.Get(ctx, f.coach(), f.id)
	require.NoError(t, err)
	assert.Empty(t, schedule.Days[domain.Monday])
}

func TestScheduleService_WritesAreCoachOnly(t *testing.T) {
	t.Parallel()
	f := newScheduleFixture(t)
	ctx := context.Background()
	items := []domain.WorkoutItem{{Name: "Squat"}}

	_, err := f.svc.ApplyDayOperation(ctx, f.owner(), f.id, domain.Monday, domain.OpPush, items)
	assert.ErrorIs(t, err, service.ErrAccessDenied, "the owning client must not edit")

	otherCoach := service.Identity{ID: primitive.NewObjectID().Hex(), Role: domain.RoleCoach}
	_, err = f.svc.ApplyDayOperation(ctx, otherCoach, f.id, domain.Monday, domain.OpPush, items)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	_, err = f.svc.ReplaceDays(ctx, f.owner(), f.id, domain.EmptyWeek[domain.WorkoutItem]())
	assert.ErrorIs(t, err, service.ErrAccessDenied)
}

func TestScheduleService_ResolvesImageURLsOnRead(t *testing.T) {
	t.Parallel()
	f := newScheduleFixture(t)
	ctx := context.Background()
	svc := service.NewWorkoutScheduleService(f.repo, &fakeMediaStorage{})

	items := []domain.WorkoutItem{
		{Name: "Squat", ImageKeys: []string{"images/c1/a", "images/c1/b"}},
		{Name: "Bench Press"},
	}
	_, err := f.repo.ApplyDayOperation(ctx, f.id, domain.Monday, domain.OpPush, items)
	require.NoError(t, err)

	schedule, err := svc.Get(ctx, f.coach(), f.id)
	require.NoError(t, err)
	monday := schedule.Days[domain.Monday]
	require.Len(t, monday, 2)
	assert.Equal(t, []string{
		"https://media.test/get/images/c1/a",
		"https://media.test/get/images/c1/b",
	}, monday[0].ImageURLs)
	assert.Empty(t, monday[1].ImageURLs, "items without keys get no URLs")

	// Edits return decorated items too.
	schedule, err = svc.ApplyDayOperation(ctx, f.coach(), f.id, domain.Tuesday, domain.OpPush,
		[]domain.WorkoutItem{{Name: "Row", ImageKeys: []string{"images/c1/c"}}})
	require.NoError(t, err)
	require.Len(t, schedule.Days[domain.Tuesday], 1)
	assert.Equal(t, []string{"https://media.test/get/images/c1/c"}, schedule.Days[domain.Tuesday][0].ImageURLs)
}

func TestScheduleService_ReplaceDays(t *testing.T) {
	t.Parallel()
	f := newScheduleFixture(t)
	ctx := context.Background()

	days := domain.EmptyWeek[domain.WorkoutItem]()
	days[domain.Saturday] = []domain.WorkoutItem{{Name: "Hike"}}

	schedule, err := f.svc.ReplaceDays(ctx, f.coach(), f.id, days)
	require.NoError(t, err)
	require.Len(t, schedule.Days[domain.Saturday], 1)
	assert.Equal(t, "Hike", schedule.Days[domain.Saturday][0].Name)
}
