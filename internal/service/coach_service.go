package service

import (
	"coachhub/coaching-app/internal/billing"
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/storage"
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPlanInUse       = errors.New("plan is still assigned to at least one client")
	ErrCoachHasClients = errors.New("coach still has clients; delete them first")
)

// UpdateCoachInput carries the coach's editable profile fields. Plans
// replaces the full plan-label list.
type UpdateCoachInput struct {
	Name  string
	Phone string
	Plans []string
}

// ImageUpload is a minted upload slot for an exercise image.
type ImageUpload struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// CoachService manages the coach's own profile and plan labels.
type CoachService interface {
	GetCoach(ctx context.Context, coachID primitive.ObjectID) (*domain.Coach, error)
	UpdateCoach(ctx context.Context, coachID primitive.ObjectID, input UpdateCoachInput) (*domain.Coach, error)
	// DeleteCoach removes the account. Any active external subscription is
	// cancelled first; a coach with remaining clients cannot be deleted.
	DeleteCoach(ctx context.Context, coachID primitive.ObjectID) error
	// NewImageUploadURL mints an object key and presigned PUT URL for an
	// exercise image the coach wants to attach to workout items.
	NewImageUploadURL(ctx context.Context, coachID primitive.ObjectID, contentType string) (*ImageUpload, error)
}

type coachService struct {
	coachRepo       repository.CoachRepository
	clientRepo      repository.ClientRepository
	billingProvider billing.Provider
	media           storage.MediaStorage
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(coachRepo repository.CoachRepository, clientRepo repository.ClientRepository, billingProvider billing.Provider, media storage.MediaStorage) CoachService {
	return &coachService{
		coachRepo:       coachRepo,
		clientRepo:      clientRepo,
		billingProvider: billingProvider,
		media:           media,
	}
}

// GetCoach returns the coach's own profile.
func (s *coachService) GetCoach(ctx context.Context, coachID primitive.ObjectID) (*domain.Coach, error) {
	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	coach.PasswordHash = ""
	return coach, nil
}

// UpdateCoach edits the profile. A plan label that is still assigned to a
// client cannot be dropped from the list.
func (s *coachService) UpdateCoach(ctx context.Context, coachID primitive.ObjectID, input UpdateCoachInput) (*domain.Coach, error) {
	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}

	name := coach.Name
	if input.Name != "" {
		name = input.Name
	}
	phone := coach.Phone
	if input.Phone != "" {
		phone = input.Phone
	}
	plans := coach.Plans
	if input.Plans != nil {
		for _, removed := range missingFrom(coach.Plans, input.Plans) {
			n, err := s.clientRepo.CountByPlan(ctx, coachID, removed)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				return nil, ErrPlanInUse
			}
		}
		plans = input.Plans
	}

	if err := s.coachRepo.UpdateProfile(ctx, coachID, name, phone, plans); err != nil {
		return nil, err
	}

	coach.Name = name
	coach.Phone = phone
	coach.Plans = plans
	coach.PasswordHash = ""
	return coach, nil
}

// missingFrom returns the elements of old absent from updated.
func missingFrom(old, updated []string) []string {
	keep := make(map[string]struct{}, len(updated))
	for _, p := range updated {
		keep[p] = struct{}{}
	}
	var removed []string
	for _, p := range old {
		if _, ok := keep[p]; !ok {
			removed = append(removed, p)
		}
	}
	return removed
}

// DeleteCoach removes the coach account after cancelling any external
// subscription. Client records are never deleted implicitly with their
// coach.
func (s *coachService) DeleteCoach(ctx context.Context, coachID primitive.ObjectID) error {
	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCoachNotFound
		}
		return err
	}
	if coach.ClientCount > 0 {
		return ErrCoachHasClients
	}

	if coach.BillingSubscriptionID != "" {
		if err := s.billingProvider.CancelSubscription(ctx, coach.BillingSubscriptionID); err != nil {
			return err
		}
		log.Printf("Cancelled subscription %s before deleting coach %s", coach.BillingSubscriptionID, coachID.Hex())
	}

	return s.coachRepo.Delete(ctx, coachID)
}

// NewImageUploadURL mints an upload slot in the coach's image namespace.
func (s *coachService) NewImageUploadURL(ctx context.Context, coachID primitive.ObjectID, contentType string) (*ImageUpload, error) {
	if s.media == nil {
		return nil, errors.New("media storage is not configured")
	}
	if contentType == "" {
		return nil, ErrValidation
	}

	key := storage.NewImageKey(coachID.Hex())
	url, err := s.media.PresignUpload(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &ImageUpload{ObjectKey: key, UploadURL: url}, nil
}
