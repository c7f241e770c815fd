package service_test

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/repository/memory"
	"coachhub/coaching-app/internal/service"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMediaStorage is an in-memory storage.MediaStorage returning
// deterministic URLs.
type fakeMediaStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeMediaStorage) PresignUpload(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://media.test/upload/" + objectKey, nil
}

func (f *fakeMediaStorage) PresignDownload(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://media.test/get/" + objectKey, nil
}

func (f *fakeMediaStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return nil
}

type coachFixture struct {
	coachRepo  *memory.CoachRepository
	clientRepo *memory.ClientRepository
	provider   *fakeBillingProvider
	media      *fakeMediaStorage
	svc        service.CoachService
	coach      *domain.Coach
}

func newCoachFixture(t *testing.T) *coachFixture {
	t.Helper()

	f := &coachFixture{
		coachRepo:  memory.NewCoachRepository(),
		clientRepo: memory.NewClientRepository(),
		provider:   newFakeBillingProvider(),
		media:      &fakeMediaStorage{},
	}
	f.svc = service.NewCoachService(f.coachRepo, f.clientRepo, f.provider, f.media)

	coach := &domain.Coach{
		Name:  "Alex Trainer",
		Email: "alex@coachhub.test",
		Plans: []string{"Basic", "Premium"},
	}
	_, err := f.coachRepo.Create(context.Background(), coach)
	require.NoError(t, err)
	f.coach = coach
	return f
}

func (f *coachFixture) addClientOnPlan(t *testing.T, planName string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.clientRepo.Create(ctx, &domain.Client{
		CoachID:      f.coach.ID,
		Name:         "Casey",
		Email:        "casey+" + planName + "@example.test",
		PlanAssigned: planName,
	})
	require.NoError(t, err)
	require.NoError(t, f.coachRepo.IncrementClientCountIfBelow(ctx, f.coach.ID, 100))
}

func TestUpdateCoach_RefusesRemovingAssignedPlan(t *testing.T) {
	t.Parallel()
	f := newCoachFixture(t)
	ctx := context.Background()
	f.addClientOnPlan(t, "Basic")

	// Dropping "Basic" while a client is assigned to it must fail.
	_, err := f.svc.UpdateCoach(ctx, f.coach.ID, service.UpdateCoachInput{Plans: []string{"Premium"}})
	require.ErrorIs(t, err, service.ErrPlanInUse)

	stored, err := f.coachRepo.GetByID(ctx, f.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Basic", "Premium"}, stored.Plans, "refused update must not change the list")
}

func TestUpdateCoach_RemovesUnassignedPlan(t *testing.T) {
	t.Parallel()
	f := newCoachFixture(t)
	ctx := context.Background()
	f.addClientOnPlan(t, "Basic")

	// "Premium" has no clients, so it can go; renaming/adding is free.
	updated, err := f.svc.UpdateCoach(ctx, f.coach.ID, service.UpdateCoachInput{Plans: []string{"Basic", "Elite"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Basic", "Elite"}, updated.Plans)

	stored, err := f.coachRepo.GetByID(ctx, f.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Basic", "Elite"}, stored.Plans)
}

func TestUpdateCoach_Profile(t *testing.T) {
	t.Parallel()
	f := newCoachFixture(t)
	ctx := context.Background()

	updated, err := f.svc.UpdateCoach(ctx, f.coach.ID, service.UpdateCoachInput{Name: "Alexis", Phone: "+15550101"})
	require.NoError(t, err)
	assert.Equal(t, "Alexis", updated.Name)
	assert.Equal(t, "+15550101", updated.Phone)
	// Omitted Plans leaves the list alone.
	assert.Equal(t, []string{"Basic", "Premium"}, updated.Plans)
	assert.Empty(t, updated.PasswordHash)
}

func TestDeleteCoach_RefusedWhileClientsRemain(t *testing.T) {
	t.Parallel()
	f := newCoachFixture(t)
	ctx := context.Background()
	f.addClientOnPlan(t, "Basic")

	err := f.svc.DeleteCoach(ctx, f.coach.ID)
	require.ErrorIs(t, err, service.ErrCoachHasClients)

	_, err = f.coachRepo.GetByID(ctx, f.coach.ID)
	assert.NoError(t, err, "coach must survive a refused deletion")
}

func TestDeleteCoach_CancelsSubscriptionFirst(t *testing.T) {
	t.Parallel()
	f := newCoachFixture(t)
	ctx := context.Background()
	require.NoError(t, f.coachRepo.ActivateSubscription(ctx, f.coach.ID, "sub_001", "Pro"))

	require.NoError(t, f.svc.DeleteCoach(ctx, f.coach.ID))

	assert.Equal(t, []string{"sub_001"}, f.provider.cancelled)
	_, err := f.coachRepo.GetByID(ctx, f.coach.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteCoach_KeepsRecordWhenCancelFails(t *testing.T) {
	t.Parallel()
	f := newCoachFixture(t)
	ctx := context.Background()
	require.NoError(t, f.coachRepo.ActivateSubscription(ctx, f.coach.ID, "sub_001", "Pro"))
	f.provider.cancelErr = errors.New("provider down")

	err := f.svc.DeleteCoach(ctx, f.coach.ID)
	require.Error(t, err)

	// Cancellation runs before the record is removed, so a failed cancel
	// leaves the coach intact.
	_, err = f.coachRepo.GetByID(ctx, f.coach.ID)
	assert.NoError(t, err)
	assert.Empty(t, f.provider.cancelled)
}

func TestNewImageUploadURL(t *testing.T) {
	t.Parallel()
	f := newCoachFixture(t)
	ctx := context.Background()

	upload, err := f.svc.NewImageUploadURL(ctx, f.coach.ID, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "images/"+f.coach.ID.Hex()+"/"))
	assert.Equal(t, "https://media.test/upload/"+upload.ObjectKey, upload.UploadURL)

	_, err = f.svc.NewImageUploadURL(ctx, f.coach.ID, "")
	assert.ErrorIs(t, err, service.ErrValidation)
}
