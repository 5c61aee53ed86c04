// Package mail delivers outbound notification email through Mailgun.
package mail

import (
	"context"
	"log/slog"

	"chatter/config"
	"chatter/internal/domain/service"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/pkg/errors"
)

// mailgunSender implements service.MailSender on top of the Mailgun API.
type mailgunSender struct {
	mg     mailgun.Mailgun
	sender string
	logger *slog.Logger
}

// NewMailgunSender is the constructor for mailgunSender.
func NewMailgunSender(cfg *config.Config, logger *slog.Logger) (service.MailSender, error) {
	if cfg.Mailgun == nil || cfg.Mailgun.Domain == "" {
		return nil, errors.New("mailgun domain must be configured")
	}

	return &mailgunSender{
		mg:     mailgun.NewMailgun(cfg.Mailgun.Domain, cfg.Mailgun.APIKey),
		sender: cfg.Mailgun.Sender,
		logger: logger,
	}, nil
}

// Send delivers a plain-text message to a single recipient.
func (s *mailgunSender) Send(ctx context.Context, to, subject, body string) error {
	message := s.mg.NewMessage(s.sender, subject, body, to)

	_, id, err := s.mg.Send(ctx, message)
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	s.logger.Debug("Email queued for delivery",
		slog.String("to", to),
		slog.String("messageID", id),
	)

	return nil
}
