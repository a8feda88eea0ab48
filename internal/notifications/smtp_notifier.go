package notifications

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
}

// SMTPNotifier delivers account-creation mail to a fixed recipient. The
// sender identity is the configured mail account.
type SMTPNotifier struct {
	client    *mail.Client
	from      string
	recipient string
}

func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	client, err := mail.NewClient(
		cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)

	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPNotifier{
		client:    client,
		from:      cfg.Username,
		recipient: cfg.Recipient,
	}, nil
}

func (n *SMTPNotifier) SendAccountCreated(ctx context.Context, input AccountCreatedInput) error {
	msg := mail.NewMsg()

	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}

	if err := msg.To(n.recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	msg.Subject("New account created")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"A new account has been created for %s %s (%s).",
		input.FirstName, input.LastName, input.Email,
	))

	return n.client.DialAndSendWithContext(ctx, msg)
}
