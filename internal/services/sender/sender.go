// Package sender delivers confirmation mail for registered users consumed
// from the event queue.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/membership-service/internal/lib/sl"
	"github.com/magabrotheeeer/membership-service/internal/lib/smtp"
	"github.com/magabrotheeeer/membership-service/internal/rabbitmq"
)

// Transport describes the SMTP session factory the sender uses.
type Transport interface {
	Connect() (smtp.Client, error)
	User() string
}

// Service builds and sends confirmation mail.
type Service struct {
	transport           Transport
	confirmationBaseURL string
	log                 *slog.Logger
}

// New creates a sender Service. confirmationBaseURL prefixes the token in
// the confirmation link.
func New(transport Transport, confirmationBaseURL string, log *slog.Logger) *Service {
	return &Service{
		transport:           transport,
		confirmationBaseURL: confirmationBaseURL,
		log:                 log,
	}
}

// SendConfirmationEmail handles one user.registered event.
func (s *Service) SendConfirmationEmail(body []byte) error {
	var event rabbitmq.RegisteredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal registered event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	base := strings.TrimRight(s.confirmationBaseURL, "/")
	emailLink := fmt.Sprintf("%s/email/%s", base, event.EmailConfirmationToken)
	phoneLink := fmt.Sprintf("%s/phone/%s", base, event.PhoneConfirmationToken)
	subject := "Confirm your contact details"
	bodyText := fmt.Sprintf("Hello, %s!\n\nPlease confirm your email address by following the link: %s\n\nTo confirm your phone number, follow: %s\n\nIf you did not register, ignore this message.",
		event.FirstName, emailLink, phoneLink)

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.User(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.User()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("confirmation email sent", slog.Any("to", to))
	return nil
}
