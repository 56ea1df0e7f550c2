package notifier

import (
	"context"
	"fmt"

	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/logging"
)

// NewTransport creates the mail transport selected by the configuration
func NewTransport(cfg config.MailConfig, logger *logging.Logger) (domain.MailTransport, error) {
	switch cfg.TransportKind() {
	case config.TransportSMTP:
		transport, err := NewSMTPTransport(cfg, logger)
		if err != nil {
			return nil, err
		}
		return transport, nil
	case config.TransportStdout:
		return NewStdoutTransport(), nil
	default:
		return nil, fmt.Errorf("unsupported mail transport: %s", cfg.Transport)
	}
}

// BaseTransport provides common functionality for all transports
type BaseTransport struct {
	kind string
}

// Kind returns the transport kind
func (b *BaseTransport) Kind() string {
	return b.kind
}

// Validate performs basic validation common to all transports
func (b *BaseTransport) Validate(message *domain.MailMessage) error {
	if message == nil {
		return fmt.Errorf("message is nil")
	}

	if message.From.Address == "" {
		return fmt.Errorf("message has no sender")
	}

	if len(message.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	for _, attachment := range message.Attachments {
		if attachment.Path == "" {
			return fmt.Errorf("attachment %q has no file", attachment.Name)
		}
	}

	return nil
}

// Close performs cleanup (default implementation does nothing)
func (b *BaseTransport) Close() error {
	return nil
}

// ValidateContext checks if the context is valid
func ValidateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is nil")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
