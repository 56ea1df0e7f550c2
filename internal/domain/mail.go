package domain

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

const (
	// ContentTypeZip is the media type of archived report attachments
	ContentTypeZip = "application/zip"

	// DispositionAttachment marks a part as a downloadable attachment
	DispositionAttachment = "attachment"
)

// Address is a mailbox with an optional display name
type Address struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// ParseAddress splits "Display Name <addr@example.com>" into its name and address.
// A bare address yields an empty name.
func ParseAddress(value string) (Address, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Address{}, fmt.Errorf("address is blank")
	}

	parsed, err := mail.ParseAddress(trimmed)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", value, err)
	}

	return Address{Name: parsed.Name, Address: parsed.Address}, nil
}

// ParseAddresses parses every value, failing on the first invalid one
func ParseAddresses(values []string) ([]Address, error) {
	addresses := make([]Address, 0, len(values))
	for _, value := range values {
		address, err := ParseAddress(value)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

// String renders the address in RFC 5322 form
func (a Address) String() string {
	return (&mail.Address{Name: a.Name, Address: a.Address}).String()
}

// Attachment is a file attached to a mail message
type Attachment struct {
	// Path is the location of the file on disk
	Path string `json:"path"`

	// Name is the file name presented to recipients
	Name string `json:"name"`

	// ContentType is the media type of the attachment
	ContentType string `json:"content_type"`

	// Disposition is the content disposition of the attachment part
	Disposition string `json:"disposition"`
}

// MailMessage is a fully assembled outgoing mail
type MailMessage struct {
	From        Address      `json:"from"`
	To          []Address    `json:"to"`
	Cc          []Address    `json:"cc,omitempty"`
	Subject     string       `json:"subject"`
	HTMLBody    string       `json:"html_body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// MailTransport delivers assembled messages to a mail server
type MailTransport interface {
	// Send delivers the message
	Send(ctx context.Context, message *MailMessage) error

	// Close releases resources held by the transport
	Close() error
}
