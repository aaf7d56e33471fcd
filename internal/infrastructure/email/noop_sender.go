package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appinvoicing "github.com/factura/backend/internal/application/invoicing"
	infraconfig "github.com/factura/backend/internal/infrastructure/config"
)

// Ensure NoopSender implements the application port
var _ appinvoicing.EmailSender = (*NoopSender)(nil)

// NoopSender logs reminders instead of delivering them. Used in development
// so reminder runs can be exercised without an SES account.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a logging-only sender
func NewNoopSender(logger *zap.Logger) *NoopSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopSender{logger: logger}
}

// SendReminder logs the reminder and reports success
func (s *NoopSender) SendReminder(ctx context.Context, email appinvoicing.ReminderEmail) error {
	subject, _ := RenderReminder(email)
	s.logger.Info("reminder email suppressed (noop sender)",
		zap.String("to", email.To),
		zap.String("subject", subject),
	)
	return nil
}

// NewSender returns the sender matching the configured provider
func NewSender(cfg *infraconfig.EmailConfig, logger *zap.Logger) (appinvoicing.EmailSender, error) {
	if cfg == nil || cfg.Provider == "" || cfg.Provider == "noop" {
		return NewNoopSender(logger), nil
	}
	switch cfg.Provider {
	case "ses":
		return NewSESSender(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
