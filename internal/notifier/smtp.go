package notifier

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/logging"
	"gopkg.in/gomail.v2"
)

const charset = "UTF-8"

// SMTPTransport delivers messages to an SMTP server
type SMTPTransport struct {
	BaseTransport
	config   config.MailConfig
	authMode domain.AuthenticationMode
	logger   *logging.Logger
}

// NewSMTPTransport creates a transport for the configured SMTP server
func NewSMTPTransport(cfg config.MailConfig, logger *logging.Logger) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("SMTP port must be positive, got %d", cfg.Port)
	}

	authMode, err := cfg.AuthMode()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.Named("smtp")

	if authMode == domain.AuthUsernamePassword && (cfg.Username == "" || cfg.Password == "") {
		logger.Warnf("Authentication mode %s is configured without complete credentials", authMode)
	}

	return &SMTPTransport{
		BaseTransport: BaseTransport{
			kind: config.TransportSMTP,
		},
		config:   cfg,
		authMode: authMode,
		logger:   logger,
	}, nil
}

// Send delivers the message over a new SMTP connection
func (s *SMTPTransport) Send(ctx context.Context, message *domain.MailMessage) error {
	if err := ValidateContext(ctx); err != nil {
		return err
	}

	if err := s.Validate(message); err != nil {
		return err
	}

	dialer := s.dialer()
	s.logger.Debugf("Connecting to %s:%d (ssl=%t, starttls=%t, auth=%s)",
		dialer.Host, dialer.Port, dialer.SSL, s.config.StartTLS, s.authMode)

	if err := dialer.DialAndSend(buildMessage(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// dialer builds the connection settings for a single delivery, nothing is shared between calls
func (s *SMTPTransport) dialer() *gomail.Dialer {
	d := &gomail.Dialer{
		Host: s.config.Host,
		Port: s.config.Port,
		SSL:  s.config.SSL,
	}

	if s.authMode == domain.AuthUsernamePassword {
		d.Username = s.config.Username
		d.Password = s.config.Password
	}

	if s.config.SSL || s.config.StartTLS {
		d.TLSConfig = &tls.Config{ServerName: s.config.Host}
	}

	return d
}

// buildMessage converts a mail message into its MIME representation
func buildMessage(message *domain.MailMessage) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset(charset))

	m.SetAddressHeader("From", message.From.Address, message.From.Name)
	m.SetHeader("To", formatAddresses(m, message.To)...)
	if len(message.Cc) > 0 {
		m.SetHeader("Cc", formatAddresses(m, message.Cc)...)
	}
	m.SetHeader("Subject", message.Subject)
	m.SetBody("text/html", message.HTMLBody)

	for _, attachment := range message.Attachments {
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		disposition := attachment.Disposition
		if disposition == "" {
			disposition = domain.DispositionAttachment
		}

		m.Attach(attachment.Path,
			gomail.Rename(attachment.Name),
			gomail.SetHeader(map[string][]string{
				"Content-Type":        {fmt.Sprintf("%s; name=%q", contentType, attachment.Name)},
				"Content-Disposition": {fmt.Sprintf("%s; filename=%q", disposition, attachment.Name)},
			}),
		)
	}

	return m
}

func formatAddresses(m *gomail.Message, addresses []domain.Address) []string {
	formatted := make([]string, 0, len(addresses))
	for _, address := range addresses {
		formatted = append(formatted, m.FormatAddress(address.Address, address.Name))
	}
	return formatted
}
