// Package billing specifies the external billing provider at its interface
// boundary: the provider calls the tier check depends on, the webhook event
// shape the provider emits, and the signature scheme protecting it.
package billing

import (
	"context"
	"errors"
)

// Provider errors. ErrProviderUnavailable wraps transport/5xx failures; the
// caller surfaces them without retrying.
var (
	ErrProviderUnavailable = errors.New("billing provider unavailable")
)

// Subscription is the provider-side subscription object, reduced to the
// fields this system reads.
type Subscription struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	PlanName   string `json:"planName"`
	Status     string `json:"status"` // "active", "canceled", ...
}

// Active reports whether the subscription entitles the coach to the paid
// tier.
func (s *Subscription) Active() bool {
	return s != nil && s.Status == "active"
}

// Provider is the outbound interface to the billing system.
type Provider interface {
	// CreateCustomer provisions a billing customer for a coach and returns
	// the provider-side customer identifier.
	CreateCustomer(ctx context.Context, email, coachID string) (string, error)
	// ActiveSubscription returns the customer's active subscription, or nil
	// if none exists.
	ActiveSubscription(ctx context.Context, customerID string) (*Subscription, error)
	// CancelSubscription cancels a subscription; required before a coach
	// account is deleted.
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// Webhook event types this system consumes.
const (
	EventCheckoutCompleted = "checkout.session.completed"
)

// Event is the inbound webhook payload. Metadata carries the coach identity
// this system attached when starting the checkout.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData is the resource section of a webhook event.
type EventData struct {
	CustomerID     string            `json:"customerId"`
	SubscriptionID string            `json:"subscriptionId"`
	Metadata       map[string]string `json:"metadata"`
}

// CoachID returns the coach identifier from event metadata, if present.
func (e *Event) CoachID() string {
	return e.Data.Metadata["coachId"]
}

// PlanName returns the subscribed plan name from event metadata, if present.
func (e *Event) PlanName() string {
	return e.Data.Metadata["planName"]
}
