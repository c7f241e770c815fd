// Package mailer specifies outbound email delivery at its interface
// boundary. All sends are best-effort notifications; callers log failures
// and never fail the originating request on them.
package mailer

import "context"

// Mailer delivers the system's notification emails.
type Mailer interface {
	// SendClientWelcome notifies a newly created client with their coach's
	// name and assigned plan.
	SendClientWelcome(ctx context.Context, to, clientName, coachName, planName string) error
	// SendSubscriptionActivated notifies a coach that their paid
	// subscription is active.
	SendSubscriptionActivated(ctx context.Context, to, coachName, planName string) error
}

// Noop is a Mailer that delivers nothing. Used when no mail API key is
// configured and in tests.
type Noop struct{}

func (Noop) SendClientWelcome(context.Context, string, string, string, string) error {
	return nil
}

func (Noop) SendSubscriptionActivated(context.Context, string, string, string) error {
	return nil
}
