package utils

import (
	"context"
	"errors"
	"fmt"
	"learnhub/logger"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridNotifier delivers Email through the SendGrid v3 mail API.
type SendgridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *logger.Logger
}

func NewSendgridNotifier(apiKey, fromEmail, fromName string, log *logger.Logger) (*SendgridNotifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(fromEmail) == "" {
		return nil, errors.New("missing SENDGRID_FROM_EMAIL")
	}
	return &SendgridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		log:       log.With("client", "SendGridClient"),
	}, nil
}

func (n *SendgridNotifier) Send(ctx context.Context, email Email) error {
	if strings.TrimSpace(email.ToEmail) == "" {
		return errors.New("sendgrid: recipient required")
	}
	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(email.ToName, email.ToEmail)
	message := mail.NewSingleEmail(from, email.Subject, to, email.Text, email.HTML)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid http %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	n.log.Debug("Email sent", "subject", email.Subject, "status", resp.StatusCode)
	return nil
}

// LogNotifier only logs outgoing mail. Used when SendGrid is not configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("client", "LogNotifier")}
}

func (n *LogNotifier) Send(ctx context.Context, email Email) error {
	n.log.Info("Email not sent, no mail provider configured", "subject", email.Subject)
	return nil
}
