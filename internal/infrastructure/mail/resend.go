// Package mail sends transactional email through Resend.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"

	infraconfig "github.com/icepoint/backend/internal/infrastructure/config"
)

// Message is a single outbound email
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers outbound email
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender implements Sender on the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a Resend-backed sender
func NewResendSender(cfg *infraconfig.MailConfig) (*ResendSender, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("mail api key is required")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("mail from address is required")
	}

	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}

	return &ResendSender{
		client: resend.NewClient(cfg.APIKey),
		from:   from,
	}, nil
}

// Send delivers one email
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Ensure ResendSender implements Sender
var _ Sender = (*ResendSender)(nil)
