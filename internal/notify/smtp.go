package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure selects implicit TLS (usually port 465). Otherwise STARTTLS is
	// used when the server offers it.
	Secure  bool
	Timeout time.Duration
}

// SMTPMailer sends each message over a fresh SMTP connection.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrMailerNotConfigured
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := mail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTML)

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.cfg.Host, err)
	}
	return nil
}

func (m *SMTPMailer) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}
