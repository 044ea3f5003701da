package mail

import (
	"context"

	logpkg "github.com/riztech/portfolio-api/internal/logger"
	"go.uber.org/zap"
)

// LogSender logs messages instead of delivering them. It is the fallback when
// no SMTP host is configured, so the contact endpoint stays functional in
// development.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("mail_logged_not_sent",
		zap.String("to", msg.To),
		zap.String("subject", logpkg.SanitizeString(msg.Subject, logpkg.MaxGeneralStringLength)),
		zap.String("reply_to", logpkg.SanitizeString(msg.ReplyToEmail, logpkg.MaxGeneralStringLength)),
		zap.Int("body_length", len(msg.HTMLBody)),
	)
	return nil
}
