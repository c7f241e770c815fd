package service

import (
	"coachhub/coaching-app/internal/billing"
	"coachhub/coaching-app/internal/mailer"
	"coachhub/coaching-app/internal/repository"
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillingEventService consumes verified billing-provider webhook events and
// transitions coach subscription state. Signature verification happens at
// the transport layer, before events reach this service.
type BillingEventService interface {
	// HandleEvent processes one event. Events that do not concern this
	// system, or reference no known coach, are logged and discarded without
	// error: the provider expects a 2xx acknowledgement regardless.
	HandleEvent(ctx context.Context, event *billing.Event) error
}

type billingEventService struct {
	coachRepo repository.CoachRepository
	mail      mailer.Mailer
}

// NewBillingEventService creates a new instance of billingEventService.
func NewBillingEventService(coachRepo repository.CoachRepository, mail mailer.Mailer) BillingEventService {
	return &billingEventService{coachRepo: coachRepo, mail: mail}
}

// HandleEvent routes events by type. Delivery is at-least-once; every branch
// must converge under replays.
func (s *billingEventService) HandleEvent(ctx context.Context, event *billing.Event) error {
	switch event.Type {
	case billing.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	default:
		log.Printf("Ignoring unhandled billing event type %q (id=%s)", event.Type, event.ID)
		return nil
	}
}

// handleCheckoutCompleted flips the coach to the subscribed tier. The write
// is an absolute set of the same values, so a duplicate delivery is a no-op
// beyond the first.
func (s *billingEventService) handleCheckoutCompleted(ctx context.Context, event *billing.Event) error {
	coach, err := s.coachRepo.GetByBillingCustomerID(ctx, event.Data.CustomerID)
	if errors.Is(err, repository.ErrNotFound) && event.CoachID() != "" {
		// Fall back to the coach id the checkout session was started with.
		if coachID, idErr := primitive.ObjectIDFromHex(event.CoachID()); idErr == nil {
			coach, err = s.coachRepo.GetByID(ctx, coachID)
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("Discarding billing event %s: no coach for customer %q", event.ID, event.Data.CustomerID)
			return nil
		}
		return err
	}

	alreadySubscribed := coach.IsSubscribed && coach.BillingSubscriptionID == event.Data.SubscriptionID

	if err := s.coachRepo.ActivateSubscription(ctx, coach.ID, event.Data.SubscriptionID, event.PlanName()); err != nil {
		return err
	}
	log.Printf("Coach %s subscribed via billing event %s (subscription=%s)", coach.ID.Hex(), event.ID, event.Data.SubscriptionID)

	// Notify only on the first effective state change, not on replays.
	if !alreadySubscribed {
		if err := s.mail.SendSubscriptionActivated(ctx, coach.Email, coach.Name, event.PlanName()); err != nil {
			log.Printf("WARN: subscription mail to %s failed: %v", coach.Email, err)
		}
	}
	return nil
}
