package mail

import (
	"context"
	"fmt"
	"time"

	"horizonhomes/internal/config"

	"github.com/wneessen/go-mail"
)

// Sender delivers a single HTML message.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mailer is the SMTP transport. Dial and send are bounded by the configured
// timeout so a hung server cannot stall a request.
type Mailer struct {
	client  *mail.Client
	from    string
	timeout time.Duration
}

func NewMailer(cfg config.EmailConfig) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.SendTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.StartTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to create client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From, timeout: cfg.SendTimeout}, nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail: invalid from address %s: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: invalid to address %s: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	sendCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.client.DialAndSendWithContext(sendCtx, msg); err != nil {
		return fmt.Errorf("mail: failed to send message to %s: %w", to, err)
	}
	return nil
}
