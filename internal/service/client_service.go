package service

import (
	"coachhub/coaching-app/internal/billing"
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/mailer"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/storage"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCoachNotFound  = errors.New("coach not found")
	ErrClientNotFound = errors.New("client not found")
	ErrPlanNotFound   = errors.New("assigned plan is not one of the coach's plans")
	// ErrUpgradeRequired means the free-tier ceiling was hit and no active
	// subscription exists; the caller should offer checkout.
	ErrUpgradeRequired = errors.New("client limit reached: subscription upgrade required")
	// ErrPlanLimitReached means the paid-tier ceiling was hit; there is no
	// further upgrade path.
	ErrPlanLimitReached = errors.New("client limit reached for current subscription")
	ErrAccessDenied     = errors.New("access denied")
)

// CreateClientInput carries the fields required to provision a client. The
// optional day maps seed the paired schedules; absent days start empty.
type CreateClientInput struct {
	Name          string
	Email         string
	Password      string
	Phone         string
	Gender        string
	Goal          string
	CurrentWeight float64
	PlanAssigned  string
	PlanExpiry    *time.Time

	InitialWorkoutDays   map[domain.Weekday][]domain.WorkoutItem
	InitialNutritionDays map[domain.Weekday][]domain.Meal
}

// UpdateClientInput carries the mutable client profile fields.
type UpdateClientInput struct {
	Name          string
	Phone         string
	Gender        string
	Goal          string
	CurrentWeight float64
	PlanAssigned  string
	PlanExpiry    *time.Time
}

// ClientService is the client lifecycle manager: it creates and deletes
// clients, provisions their paired schedules, and enforces the coach's
// tier-dependent client ceiling.
type ClientService interface {
	CreateClient(ctx context.Context, coachID primitive.ObjectID, input CreateClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, actor Identity, clientID primitive.ObjectID) (*domain.Client, error)
	ListClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error)
	UpdateClient(ctx context.Context, coachID, clientID primitive.ObjectID, input UpdateClientInput) (*domain.Client, error)
	DeleteClient(ctx context.Context, coachID, clientID primitive.ObjectID) error
}

// clientService implements the ClientService interface.
type clientService struct {
	coachRepo          repository.CoachRepository
	clientRepo         repository.ClientRepository
	workoutSchedules   repository.ScheduleRepository[domain.WorkoutItem]
	nutritionSchedules repository.ScheduleRepository[domain.Meal]
	logRepo            repository.WorkoutLogRepository
	billingProvider    billing.Provider
	mail               mailer.Mailer
	media              storage.MediaStorage // may be nil
	freeLimit          int
	paidLimit          int
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	coachRepo repository.CoachRepository,
	clientRepo repository.ClientRepository,
	workoutSchedules repository.ScheduleRepository[domain.WorkoutItem],
	nutritionSchedules repository.ScheduleRepository[domain.Meal],
	logRepo repository.WorkoutLogRepository,
	billingProvider billing.Provider,
	mail mailer.Mailer,
	media storage.MediaStorage,
	freeLimit, paidLimit int,
) ClientService {
	return &clientService{
		coachRepo:          coachRepo,
		clientRepo:         clientRepo,
		workoutSchedules:   workoutSchedules,
		nutritionSchedules: nutritionSchedules,
		logRepo:            logRepo,
		billingProvider:    billingProvider,
		mail:               mail,
		media:              media,
		freeLimit:          freeLimit,
		paidLimit:          paidLimit,
	}
}

// CreateClient validates the payload, enforces the coach's tier ceiling, and
// provisions the client together with its two weekly schedules. No counter or
// record is mutated before every validation step has passed.
func (s *clientService) CreateClient(ctx context.Context, coachID primitive.ObjectID, input CreateClientInput) (*domain.Client, error) {
	// 1. Required fields.
	if coachID == primitive.NilObjectID ||
		input.Name == "" || input.Email == "" || input.Password == "" ||
		input.Phone == "" || input.Gender == "" || input.Goal == "" ||
		input.CurrentWeight <= 0 || input.PlanAssigned == "" {
		return nil, ErrValidation
	}

	// 2. Resolve coach and verify the assigned plan label exists.
	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if !coach.HasPlan(input.PlanAssigned) {
		return nil, ErrPlanNotFound
	}

	// 3. Tier check. An unsubscribed coach at the free ceiling gets one last
	// chance: the billing provider may already hold an active subscription
	// the webhook has not landed for yet.
	if !coach.IsSubscribed && coach.ClientCount >= s.freeLimit {
		customerID := coach.BillingCustomerID
		if customerID == "" {
			customerID, err = s.billingProvider.CreateCustomer(ctx, coach.Email, coach.ID.Hex())
			if err != nil {
				return nil, err
			}
			if err := s.coachRepo.SetBillingCustomerID(ctx, coach.ID, customerID); err != nil {
				return nil, err
			}
		}

		sub, err := s.billingProvider.ActiveSubscription(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if !sub.Active() {
			return nil, ErrUpgradeRequired
		}

		// Self-heal the state the webhook should have applied already.
		if err := s.coachRepo.ActivateSubscription(ctx, coach.ID, sub.ID, sub.PlanName); err != nil {
			return nil, err
		}
		coach.IsSubscribed = true
		log.Printf("Coach %s discovered active subscription %s during tier check", coach.ID.Hex(), sub.ID)
	}

	// 4. Guarded increment against the applicable ceiling. The limit check
	// and the increment are one atomic write, so concurrent creations
	// cannot overshoot.
	limit := s.freeLimit
	limitErr := error(ErrUpgradeRequired)
	if coach.IsSubscribed {
		limit = s.paidLimit
		limitErr = ErrPlanLimitReached
	}
	if err := s.coachRepo.IncrementClientCountIfBelow(ctx, coach.ID, limit); err != nil {
		if errors.Is(err, repository.ErrLimitReached) {
			return nil, limitErr
		}
		return nil, err
	}

	// Any failure past this point must release the reserved slot.
	rollback := func() {
		if derr := s.coachRepo.DecrementClientCount(ctx, coach.ID); derr != nil {
			log.Printf("ERROR: failed to roll back client count for coach %s: %v", coach.ID.Hex(), derr)
		}
	}

	// 5. Create the client record.
	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		rollback()
		return nil, err
	}
	client := &domain.Client{
		CoachID:       coachID,
		Name:          input.Name,
		Email:         input.Email,
		PasswordHash:  passwordHash,
		Phone:         input.Phone,
		Gender:        input.Gender,
		Goal:          input.Goal,
		CurrentWeight: input.CurrentWeight,
		PlanAssigned:  input.PlanAssigned,
		PlanExpiry:    input.PlanExpiry,
	}
	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		rollback()
		return nil, err
	}
	client.ID = clientID

	// 6. Provision the paired schedules and link them back.
	workoutID, err := s.provisionWorkoutSchedule(ctx, clientID, coachID, input.InitialWorkoutDays)
	if err == nil {
		client.WorkoutScheduleID = workoutID
		client.NutritionScheduleID, err = s.provisionNutritionSchedule(ctx, clientID, coachID, input.InitialNutritionDays)
	}
	if err == nil {
		err = s.clientRepo.SetScheduleIDs(ctx, clientID, client.WorkoutScheduleID, client.NutritionScheduleID)
	}
	if err != nil {
		// Undo what exists so a failed creation leaves nothing behind.
		if client.WorkoutScheduleID != primitive.NilObjectID {
			_ = s.workoutSchedules.Delete(ctx, client.WorkoutScheduleID)
		}
		if client.NutritionScheduleID != primitive.NilObjectID {
			_ = s.nutritionSchedules.Delete(ctx, client.NutritionScheduleID)
		}
		_ = s.clientRepo.Delete(ctx, clientID)
		rollback()
		return nil, err
	}

	if err := s.mail.SendClientWelcome(ctx, client.Email, client.Name, coach.Name, client.PlanAssigned); err != nil {
		log.Printf("WARN: welcome mail to %s failed: %v", client.Email, err)
	}

	client.PasswordHash = ""
	return client, nil
}

func (s *clientService) provisionWorkoutSchedule(ctx context.Context, clientID, coachID primitive.ObjectID, days map[domain.Weekday][]domain.WorkoutItem) (primitive.ObjectID, error) {
	id, err := s.workoutSchedules.CreateEmpty(ctx, clientID, coachID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if len(days) > 0 {
		if _, err := s.workoutSchedules.ReplaceDays(ctx, id, seedWeek(days)); err != nil {
			return primitive.NilObjectID, err
		}
	}
	return id, nil
}

func (s *clientService) provisionNutritionSchedule(ctx context.Context, clientID, coachID primitive.ObjectID, days map[domain.Weekday][]domain.Meal) (primitive.ObjectID, error) {
	id, err := s.nutritionSchedules.CreateEmpty(ctx, clientID, coachID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if len(days) > 0 {
		if _, err := s.nutritionSchedules.ReplaceDays(ctx, id, seedWeek(days)); err != nil {
			return primitive.NilObjectID, err
		}
	}
	return id, nil
}

// seedWeek overlays caller-supplied initial content onto a full empty week,
// so every bucket is present regardless of which days were supplied.
func seedWeek[T domain.ScheduleItem](days map[domain.Weekday][]T) map[domain.Weekday][]T {
	week := domain.EmptyWeek[T]()
	for day, items := range days {
		if _, err := domain.ParseWeekday(string(day)); err != nil {
			continue
		}
		week[day] = items
	}
	return week
}

// GetClient returns one client. Coaches may fetch clients they own; a client
// may fetch their own record.
func (s *clientService) GetClient(ctx context.Context, actor Identity, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	switch actor.Role {
	case domain.RoleCoach:
		if client.CoachID.Hex() != actor.ID {
			return nil, ErrAccessDenied
		}
	case domain.RoleClient:
		if client.ID.Hex() != actor.ID {
			return nil, ErrAccessDenied
		}
	default:
		return nil, ErrAccessDenied
	}

	client.PasswordHash = ""
	return client, nil
}

// ListClients returns all clients owned by the coach.
func (s *clientService) ListClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	clients, err := s.clientRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// UpdateClient edits a client's profile. A changed plan assignment is
// revalidated against the coach's plan list.
func (s *clientService) UpdateClient(ctx context.Context, coachID, clientID primitive.ObjectID, input UpdateClientInput) (*domain.Client, error) {
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

	if input.PlanAssigned != "" && input.PlanAssigned != client.PlanAssigned {
		coach, err := s.coachRepo.GetByID(ctx, coachID)
		if err != nil {
			return nil, err
		}
		if !coach.HasPlan(input.PlanAssigned) {
			return nil, ErrPlanNotFound
		}
		client.PlanAssigned = input.PlanAssigned
	}

	if input.Name != "" {
		client.Name = input.Name
	}
	if input.Phone != "" {
		client.Phone = input.Phone
	}
	if input.Gender != "" {
		client.Gender = input.Gender
	}
	if input.Goal != "" {
		client.Goal = input.Goal
	}
	if input.CurrentWeight > 0 {
		client.CurrentWeight = input.CurrentWeight
	}
	if input.PlanExpiry != nil {
		client.PlanExpiry = input.PlanExpiry
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	client.PasswordHash = ""
	return client, nil
}

// DeleteClient removes the client, then both schedules, then all logs. The
// cascade is not transactional: a failure mid-sequence leaves orphans, which
// are logged for reconciliation rather than rolled back.
func (s *clientService) DeleteClient(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.CoachID != coachID {
		return ErrAccessDenied
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		return err
	}
	if err := s.coachRepo.DecrementClientCount(ctx, coachID); err != nil {
		log.Printf("ERROR: client count not decremented for coach %s after deleting client %s: %v", coachID.Hex(), clientID.Hex(), err)
	}

	if client.WorkoutScheduleID != primitive.NilObjectID {
		s.deleteScheduleImages(ctx, client.WorkoutScheduleID)
		if err := s.workoutSchedules.Delete(ctx, client.WorkoutScheduleID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Printf("ERROR: orphaned workout schedule %s after deleting client %s: %v", client.WorkoutScheduleID.Hex(), clientID.Hex(), err)
		}
	}
	if client.NutritionScheduleID != primitive.NilObjectID {
		if err := s.nutritionSchedules.Delete(ctx, client.NutritionScheduleID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Printf("ERROR: orphaned nutrition schedule %s after deleting client %s: %v", client.NutritionScheduleID.Hex(), clientID.Hex(), err)
		}
	}
	if err := s.logRepo.DeleteByClientID(ctx, clientID); err != nil {
		log.Printf("ERROR: orphaned workout logs after deleting client %s: %v", clientID.Hex(), err)
	}

	return nil
}

// deleteScheduleImages removes the image objects referenced by a workout
// schedule before the schedule itself goes away. Best-effort; a leftover
// object costs storage, not correctness.
func (s *clientService) deleteScheduleImages(ctx context.Context, scheduleID primitive.ObjectID) {
	if s.media == nil {
		return
	}
	schedule, err := s.workoutSchedules.GetByID(ctx, scheduleID)
	if err != nil {
		return
	}
	for _, items := range schedule.Days {
		for _, item := range items {
			for _, key := range item.ImageKeys {
				if derr := s.media.DeleteObject(ctx, key); derr != nil {
					log.Printf("WARN: could not delete image object %q: %v", key, derr)
				}
			}
		}
	}
}
