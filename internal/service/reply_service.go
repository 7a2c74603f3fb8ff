package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillxl/backend/internal/mail"
	"github.com/skillxl/backend/internal/metrics"
	"github.com/skillxl/backend/internal/model"
	"github.com/skillxl/backend/internal/repository"
)

// ErrInvalidReply is returned for a reply missing its recipient, subject or
// message, or carrying an undecodable attachment.
var ErrInvalidReply = errors.New("invalid reply")

// ErrStatusNotRecorded means the email went out but the lead could not be
// marked contacted.
var ErrStatusNotRecorded = errors.New("reply sent but submission status was not updated")

// DomainValidator checks that a recipient address can receive mail.
type DomainValidator interface {
	Validate(ctx context.Context, address string) error
}

// ReplyService sends an admin's reply to a lead.
type ReplyService interface {
	// Reply validates the recipient, sends the email and marks the lead
	// contacted. On any failure the lead's status is left untouched.
	Reply(ctx context.Context, req *model.ReplyRequest) error
}

// ReplyOptions carries the sender identity shown in the reply signature.
type ReplyOptions struct {
	SenderName  string
	SenderEmail string
}

type replyServiceImpl struct {
	repo      repository.SubmissionRepository
	sender    mail.Sender
	validator DomainValidator
	opts      ReplyOptions
	metrics   *metrics.Metrics
}

// NewReplyService wires the reply flow. A nil validator skips the MX check.
func NewReplyService(
	repo repository.SubmissionRepository,
	sender mail.Sender,
	validator DomainValidator,
	opts ReplyOptions,
	m *metrics.Metrics,
) ReplyService {
	return &replyServiceImpl{repo: repo, sender: sender, validator: validator, opts: opts, metrics: m}
}

func (s *replyServiceImpl) Reply(ctx context.Context, req *model.ReplyRequest) error {
	to := strings.TrimSpace(req.To)
	subject := strings.TrimSpace(req.Subject)
	if to == "" || subject == "" || strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: to, subject and message are required", ErrInvalidReply)
	}
	if !strings.Contains(to, "@") {
		return fmt.Errorf("%w: recipient address is malformed", ErrInvalidReply)
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		return err
	}

	original := req.OriginalRequest
	if req.ID != "" {
		sub, err := s.repo.FindByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if original == nil {
			original = model.OriginalRequestFrom(sub)
		}
	}

	if s.validator != nil {
		if err := s.validator.Validate(ctx, to); err != nil {
			s.metrics.MXChecked("invalid")
			slog.Warn("reply rejected, recipient domain invalid", "id", req.ID, "domain", mail.Domain(to))
			return err
		}
		s.metrics.MXChecked("ok")
	}

	html, text, err := mail.Compose(mail.Content{
		Message:     req.Message,
		SenderName:  s.opts.SenderName,
		SenderEmail: s.opts.SenderEmail,
		Original:    original,
	})
	if err != nil {
		return err
	}

	transport := s.sender.Transport()
	if err := s.sender.Send(ctx, mail.Message{
		To:          to,
		Subject:     subject,
		HTML:        html,
		Text:        text,
		Attachments: attachments,
	}); err != nil {
		s.metrics.ReplyAttempt(transport, "failed")
		return err
	}
	s.metrics.ReplyAttempt(transport, "sent")
	slog.Info("reply sent", "id", req.ID, "transport", transport, "attachments", len(attachments))

	if req.ID == "" {
		return nil
	}
	if _, err := s.repo.UpdateStatus(ctx, req.ID, model.StatusContacted); err != nil {
		slog.Error("mark submission contacted failed", "id", req.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrStatusNotRecorded, err)
	}
	return nil
}

// decodeAttachments accepts plain base64 or a data URL.
func decodeAttachments(in []model.Attachment) ([]mail.Attachment, error) {
	out := make([]mail.Attachment, 0, len(in))
	for i, a := range in {
		content := a.Content
		if _, after, ok := strings.Cut(content, ";base64,"); ok {
			content = after
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
		if err != nil {
			return nil, fmt.Errorf("%w: attachment %d is not valid base64", ErrInvalidReply, i)
		}
		name := strings.TrimSpace(a.Name)
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}
		out = append(out, mail.Attachment{Name: name, Content: data})
	}
	return out, nil
}
