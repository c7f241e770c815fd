package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// resendMailer sends notification emails via the Resend API.
type resendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a Mailer backed by Resend with the given API key
// and sender address.
func NewResendMailer(apiKey, from string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *resendMailer) SendClientWelcome(ctx context.Context, to, clientName, coachName, planName string) error {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s has set up your coaching account on the <strong>%s</strong> plan. "+
			"Your weekly workout and nutrition schedules are ready.</p>",
		clientName, coachName, planName,
	)
	return m.send(ctx, to, "Your coaching account is ready", html)
}

func (m *resendMailer) SendSubscriptionActivated(ctx context.Context, to, coachName, planName string) error {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your subscription (%s) is now active. Client limits for the paid tier apply.</p>",
		coachName, planName,
	)
	return m.send(ctx, to, "Subscription activated", html)
}

func (m *resendMailer) send(ctx context.Context, to, subject, html string) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return err
	}
	log.Printf("Mail sent via Resend: id=%s to=%s subject=%q", sent.Id, to, subject)
	return nil
}
