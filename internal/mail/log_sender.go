package mail

import (
	"context"
	"log/slog"
)

// LogSender records messages in the log and reports success. It backs the
// "mock" missing-credentials policy.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "mock email send",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
		"html_bytes", len(msg.HTML),
	)
	return nil
}

func (s *LogSender) Transport() string { return "log" }
