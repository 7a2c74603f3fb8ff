package mail

import (
	"context"
	"encoding/base64"

	"github.com/skillxl/backend/internal/config"
	"github.com/skillxl/backend/pkg/brevo"
)

// BrevoSender sends through the Brevo transactional email API.
type BrevoSender struct {
	client brevo.Client
	from   brevo.Address
}

func NewBrevoSender(cfg config.MailConfig) *BrevoSender {
	return &BrevoSender{
		client: brevo.NewClient(cfg.BrevoAPIKey, cfg.BrevoBaseURL, cfg.SendTimeout),
		from:   brevo.Address{Name: cfg.SenderName, Email: cfg.SenderEmail},
	}
}

// NewBrevoSenderWithClient is used by tests and alternate wiring.
func NewBrevoSenderWithClient(client brevo.Client, from brevo.Address) *BrevoSender {
	return &BrevoSender{client: client, from: from}
}

func (s *BrevoSender) Send(ctx context.Context, msg Message) error {
	email := brevo.Email{
		Sender:      s.from,
		To:          []brevo.Address{{Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	}
	for _, a := range msg.Attachments {
		email.Attachments = append(email.Attachments, brevo.Attachment{
			Name:    a.Name,
			Content: base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	if _, err := s.client.SendTransactionalEmail(ctx, email); err != nil {
		return &UpstreamError{Transport: s.Transport(), Err: err}
	}
	return nil
}

func (s *BrevoSender) Transport() string { return config.TransportBrevo }
