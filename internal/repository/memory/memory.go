// Package memory provides map-backed implementations of the repository
// interfaces. They mirror the MongoDB semantics closely enough for service
// tests and local development without a database.
package memory

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachRepository is an in-memory repository.CoachRepository.
type CoachRepository struct {
	mu      sync.Mutex
	coaches map[primitive.ObjectID]*domain.Coach
}

// NewCoachRepository creates an empty in-memory coach store.
func NewCoachRepository() *CoachRepository {
	return &CoachRepository{coaches: make(map[primitive.ObjectID]*domain.Coach)}
}

func (r *CoachRepository) Create(_ context.Context, coach *domain.Coach) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.coaches {
		if existing.Email == coach.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	coach.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	coach.CreatedAt = now
	coach.UpdatedAt = now
	copied := *coach
	r.coaches[coach.ID] = &copied
	return coach.ID, nil
}

func (r *CoachRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Coach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.coaches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *coach
	return &copied, nil
}

func (r *CoachRepository) GetByEmail(_ context.Context, email string) (*domain.Coach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, coach := range r.coaches {
		if coach.Email == email {
			copied := *coach
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CoachRepository) GetByBillingCustomerID(_ context.Context, customerID string) (*domain.Coach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, coach := range r.coaches {
		if coach.BillingCustomerID != "" && coach.BillingCustomerID == customerID {
			copied := *coach
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CoachRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, name, phone string, plans []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.coaches[id]
	if !ok {
		return repository.ErrNotFound
	}
	coach.Name = name
	coach.Phone = phone
	coach.Plans = append([]string{}, plans...)
	coach.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CoachRepository) SetBillingCustomerID(_ context.Context, id primitive.ObjectID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.coaches[id]
	if !ok {
		return repository.ErrNotFound
	}
	coach.BillingCustomerID = customerID
	coach.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CoachRepository) ActivateSubscription(_ context.Context, id primitive.ObjectID, subscriptionID, planName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.coaches[id]
	if !ok {
		return repository.ErrNotFound
	}
	coach.IsSubscribed = true
	coach.BillingSubscriptionID = subscriptionID
	coach.SubscriptionPlan = planName
	coach.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CoachRepository) IncrementClientCountIfBelow(_ context.Context, id primitive.ObjectID, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.coaches[id]
	if !ok || coach.ClientCount >= limit {
		return repository.ErrLimitReached
	}
	coach.ClientCount++
	coach.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CoachRepository) DecrementClientCount(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.coaches[id]
	if !ok || coach.ClientCount == 0 {
		return repository.ErrNotFound
	}
	coach.ClientCount--
	coach.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CoachRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coaches[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.coaches, id)
	return nil
}

// ClientRepository is an in-memory repository.ClientRepository.
type ClientRepository struct {
	mu      sync.Mutex
	clients map[primitive.ObjectID]*domain.Client
}

// NewClientRepository creates an empty in-memory client store.
func NewClientRepository() *ClientRepository {
	return &ClientRepository{clients: make(map[primitive.ObjectID]*domain.Client)}
}

func (r *ClientRepository) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.clients {
		if existing.Email == client.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now
	copied := *client
	r.clients[client.ID] = &copied
	return client.ID, nil
}

func (r *ClientRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *ClientRepository) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, client := range r.clients {
		if client.Email == email {
			copied := *client
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ClientRepository) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients := []domain.Client{}
	for _, client := range r.clients {
		if client.CoachID == coachID {
			clients = append(clients, *client)
		}
	}
	return clients, nil
}

func (r *ClientRepository) CountByPlan(_ context.Context, coachID primitive.ObjectID, planName string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, client := range r.clients {
		if client.CoachID == coachID && client.PlanAssigned == planName {
			n++
		}
	}
	return n, nil
}

func (r *ClientRepository) Update(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.clients[client.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = client.Name
	existing.Phone = client.Phone
	existing.Gender = client.Gender
	existing.Goal = client.Goal
	existing.CurrentWeight = client.CurrentWeight
	existing.PlanAssigned = client.PlanAssigned
	existing.PlanExpiry = client.PlanExpiry
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ClientRepository) SetScheduleIDs(_ context.Context, id, workoutScheduleID, nutritionScheduleID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	client.WorkoutScheduleID = workoutScheduleID
	client.NutritionScheduleID = nutritionScheduleID
	client.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ClientRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

// ScheduleRepository is an in-memory repository.ScheduleRepository. Day
// operations share domain.ApplyDayOperation with the documented contract.
type ScheduleRepository[T domain.ScheduleItem] struct {
	mu        sync.Mutex
	schedules map[primitive.ObjectID]*domain.WeeklySchedule[T]
}

// NewScheduleRepository creates an empty in-memory schedule store.
func NewScheduleRepository[T domain.ScheduleItem]() *ScheduleRepository[T] {
	return &ScheduleRepository[T]{schedules: make(map[primitive.ObjectID]*domain.WeeklySchedule[T])}
}

func (r *ScheduleRepository[T]) CreateEmpty(_ context.Context, clientID, coachID primitive.ObjectID) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	schedule := &domain.WeeklySchedule[T]{
		ID:        primitive.NewObjectID(),
		ClientID:  clientID,
		CoachID:   coachID,
		Days:      domain.EmptyWeek[T](),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.schedules[schedule.ID] = schedule
	return schedule.ID, nil
}

func (r *ScheduleRepository[T]) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WeeklySchedule[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (r *ScheduleRepository[T]) ApplyDayOperation(_ context.Context, id primitive.ObjectID, day domain.Weekday, op domain.DayOperation, items []T) (*domain.WeeklySchedule[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	days, err := domain.ApplyDayOperation(schedule.Days, day, op, items)
	if err != nil {
		return nil, err
	}
	schedule.Days = days
	schedule.UpdatedAt = time.Now().UTC()
	copied := *schedule
	return &copied, nil
}

func (r *ScheduleRepository[T]) ReplaceDays(_ context.Context, id primitive.ObjectID, days map[domain.Weekday][]T) (*domain.WeeklySchedule[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	schedule.Days = days
	schedule.UpdatedAt = time.Now().UTC()
	copied := *schedule
	return &copied, nil
}

func (r *ScheduleRepository[T]) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.schedules, id)
	return nil
}

// WorkoutLogRepository is an in-memory repository.WorkoutLogRepository.
type WorkoutLogRepository struct {
	mu   sync.Mutex
	logs map[primitive.ObjectID]*domain.WorkoutLog
}

// NewWorkoutLogRepository creates an empty in-memory log store.
func NewWorkoutLogRepository() *WorkoutLogRepository {
	return &WorkoutLogRepository{logs: make(map[primitive.ObjectID]*domain.WorkoutLog)}
}

func (r *WorkoutLogRepository) Create(_ context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = primitive.NewObjectID()
	if log.LoggedAt.IsZero() {
		log.LoggedAt = time.Now().UTC()
	}
	copied := *log
	r.logs[log.ID] = &copied
	return log.ID, nil
}

func (r *WorkoutLogRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *log
	return &copied, nil
}

func (r *WorkoutLogRepository) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := []domain.WorkoutLog{}
	for _, log := range r.logs {
		if log.ClientID == clientID {
			logs = append(logs, *log)
		}
	}
	return logs, nil
}

func (r *WorkoutLogRepository) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := []domain.WorkoutLog{}
	for _, log := range r.logs {
		if log.CoachID == coachID {
			logs = append(logs, *log)
		}
	}
	return logs, nil
}

func (r *WorkoutLogRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.logs, id)
	return nil
}

func (r *WorkoutLogRepository) DeleteByClientID(_ context.Context, clientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, log := range r.logs {
		if log.ClientID == clientID {
			delete(r.logs, id)
		}
	}
	return nil
}
