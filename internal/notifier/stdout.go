package notifier

import (
	"context"
	"fmt"

	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/domain"
)

// StdoutTransport prints messages to stdout instead of delivering them (useful for dry runs)
type StdoutTransport struct {
	BaseTransport
}

// NewStdoutTransport creates a new stdout transport
func NewStdoutTransport() *StdoutTransport {
	return &StdoutTransport{
		BaseTransport: BaseTransport{
			kind: config.TransportStdout,
		},
	}
}

// Send prints the message to stdout
func (s *StdoutTransport) Send(ctx context.Context, message *domain.MailMessage) error {
	if err := ValidateContext(ctx); err != nil {
		return err
	}

	if err := s.Validate(message); err != nil {
		return err
	}

	fmt.Println("========================================")
	fmt.Printf("From: %s\n", message.From)
	fmt.Printf("To: %v\n", message.To)
	if len(message.Cc) > 0 {
		fmt.Printf("Cc: %v\n", message.Cc)
	}
	fmt.Printf("Subject: %s\n", message.Subject)
	for _, attachment := range message.Attachments {
		fmt.Printf("Attachment: %s (%s, %s)\n", attachment.Name, attachment.ContentType, attachment.Path)
	}
	fmt.Printf("Body:\n%s\n", message.HTMLBody)
	fmt.Println("========================================")

	return nil
}
