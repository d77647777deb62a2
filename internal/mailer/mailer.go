package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"complytrack/internal/config"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ErrRecipientRequired is returned when Send is called without a recipient address.
var ErrRecipientRequired = errors.New("recipient is required")

// smtpSender implements Sender over SMTP, dialing a fresh connection per message.
type smtpSender struct {
	from string
	opts []mail.Option
	host string
}

// NewSMTP validates cfg and returns an SMTP-backed Sender.
func NewSMTP(cfg config.MailConfig) (Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail server is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("mail sender address is required")
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	// Options are validated here so misconfiguration fails at startup.
	if _, err := mail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	return &smtpSender{from: cfg.From, opts: opts, host: cfg.Host}, nil
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := buildMessage(s.from, to, subject, htmlBody)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host, s.opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) (*mail.Msg, error) {
	if to == "" {
		return nil, ErrRecipientRequired
	}
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}
