package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"ridepool-backend/internal/logger"
	"ridepool-backend/internal/service"
)

// SendGridNotifier delivers notification events as transactional emails.
// Delivery is best-effort: failures are logged and reported to the caller,
// who is expected to ignore them.
type SendGridNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
	profiles  service.ProfileProvider
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string, profiles service.ProfileProvider) *SendGridNotifier {
	return &SendGridNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		profiles:  profiles,
	}
}

var subjects = map[string]string{
	service.EventBookingRequested: "New booking request on your trip",
	service.EventBookingConfirmed: "Your booking was confirmed",
	service.EventBookingRejected:  "Your booking was declined",
	service.EventBookingCancelled: "A booking was cancelled",
	service.EventTripCancelled:    "A trip you booked was cancelled",
	service.EventMessageReceived:  "You have a new message",
}

func (n *SendGridNotifier) Notify(ctx context.Context, userID, event string, payload map[string]string) error {
	profile, err := n.profiles.GetProfile(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "notification skipped, no profile", "user_id", userID, "event", event, "error", err)
		return err
	}
	if profile.Email == "" {
		logger.WarnContext(ctx, "notification skipped, no email on file", "user_id", userID, "event", event)
		return nil
	}

	subject, ok := subjects[event]
	if !ok {
		subject = "Ridepool update"
	}

	body := fmt.Sprintf("Hello %s,\n\nThere is activity on your account: %s.\n", profile.Name, subject)
	for k, v := range payload {
		body += fmt.Sprintf("%s: %s\n", k, v)
	}

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(profile.Name, profile.Email)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(n.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		logger.ErrorContext(ctx, "notification delivery failed", "user_id", userID, "event", event, "error", err)
		return err
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d", resp.StatusCode)
		logger.ErrorContext(ctx, "notification delivery failed", "user_id", userID, "event", event, "error", err)
		return err
	}
	return nil
}

var _ service.Notifier = (*SendGridNotifier)(nil)
