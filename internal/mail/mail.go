// Package mail turns reply requests into outbound email. A Sender delivers a
// composed Message over the configured transport (Brevo HTTP API or SMTP relay).
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillxl/backend/internal/config"
)

// ErrDomainInvalid means the recipient's domain provably cannot receive mail.
var ErrDomainInvalid = errors.New("recipient email domain is invalid or has no mail server")

// Attachment is a decoded file to send along with a Message.
type Attachment struct {
	Name    string
	Content []byte
}

// Message is a fully composed email. Sender identity comes from the transport.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Sender delivers messages over one transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	// Transport names the transport for logs and metrics.
	Transport() string
}

// ConfigError reports a transport whose credentials are missing.
type ConfigError struct {
	Transport string
	Missing   []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mail: %s transport not configured: missing %s", e.Transport, strings.Join(e.Missing, ", "))
}

// UpstreamError wraps a rejection or network failure from the provider.
type UpstreamError struct {
	Transport string
	Err       error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("mail: %s send failed: %v", e.Transport, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewSender selects the transport named in cfg. When its credentials are
// missing, the OnMissingCredentials policy decides between a sender that
// always fails with *ConfigError and one that only logs.
func NewSender(cfg config.MailConfig, logger *slog.Logger) Sender {
	if logger == nil {
		logger = slog.Default()
	}

	var missing []string
	if cfg.SenderEmail == "" {
		missing = append(missing, "EMAIL_USER")
	}
	switch cfg.Transport {
	case config.TransportSMTP:
		if cfg.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if cfg.SMTPUser == "" {
			missing = append(missing, "SMTP_USER")
		}
		if cfg.SMTPPassword == "" {
			missing = append(missing, "SMTP_PASSWORD")
		}
	default:
		if cfg.BrevoAPIKey == "" {
			missing = append(missing, "BREVO_API_KEY")
		}
	}

	if len(missing) > 0 {
		if cfg.OnMissingCredentials == config.MissingCredentialsMock {
			logger.Warn("mail credentials missing, replies will be logged instead of sent",
				"transport", cfg.Transport, "missing", missing)
			return NewLogSender(logger)
		}
		logger.Warn("mail credentials missing, replies will fail", "transport", cfg.Transport, "missing", missing)
		return &unconfiguredSender{err: &ConfigError{Transport: cfg.Transport, Missing: missing}}
	}

	if cfg.Transport == config.TransportSMTP {
		return NewSMTPSender(cfg)
	}
	return NewBrevoSender(cfg)
}

// unconfiguredSender fails every send without touching the network.
type unconfiguredSender struct {
	err *ConfigError
}

func (s *unconfiguredSender) Send(context.Context, Message) error { return s.err }

func (s *unconfiguredSender) Transport() string { return s.err.Transport }
