package notifier_test

import (
	"context"
	"net"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/notifier"
)

var _ = Describe("SMTPTransport", func() {
	var (
		server  *fakeSMTPServer
		cfg     config.MailConfig
		message *domain.MailMessage
	)

	BeforeEach(func() {
		var err error
		server, err = newFakeSMTPServer()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(server.Close)

		cfg = config.MailConfig{
			Enabled:            true,
			Status:             []string{"ALL"},
			Host:               "127.0.0.1",
			Port:               server.Port(),
			AuthenticationMode: string(domain.AuthPlain),
			From:               "Campaign Mailer <sender@example.com>",
			To:                 []string{"jane@example.com"},
		}

		message = &domain.MailMessage{
			From:     domain.Address{Name: "Campaign Mailer", Address: "sender@example.com"},
			To:       []domain.Address{{Name: "Jane Doe", Address: "jane@example.com"}, {Address: "john@example.com"}},
			Cc:       []domain.Address{{Address: "ops@example.com"}},
			Subject:  "campaign-1 SUCCESSFUL",
			HTMLBody: "<html><body>done</body></html>",
		}
	})

	It("should deliver the message to every recipient", func() {
		transport, err := notifier.NewSMTPTransport(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(transport.Send(context.Background(), message)).To(Succeed())

		mails := server.Mails()
		Expect(mails).To(HaveLen(1))
		Expect(mails[0].From).To(Equal("sender@example.com"))
		Expect(mails[0].Recipients).To(ConsistOf("jane@example.com", "john@example.com", "ops@example.com"))
		Expect(mails[0].Data).To(ContainSubstring(`From: "Campaign Mailer" <sender@example.com>`))
		Expect(mails[0].Data).To(ContainSubstring("Subject: campaign-1 SUCCESSFUL"))
		Expect(mails[0].Data).To(ContainSubstring("Cc: ops@example.com"))
		Expect(mails[0].Data).To(ContainSubstring("Content-Type: text/html; charset=UTF-8"))
	})

	It("should attach files with the declared content type and disposition", func() {
		path := filepath.Join(GinkgoT().TempDir(), "campaign-1-123.zip")
		Expect(os.WriteFile(path, []byte("PK fake archive"), 0o644)).To(Succeed())

		message.Attachments = []domain.Attachment{{
			Path:        path,
			Name:        "campaign-1-123.zip",
			ContentType: domain.ContentTypeZip,
			Disposition: domain.DispositionAttachment,
		}}

		transport, err := notifier.NewSMTPTransport(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(transport.Send(context.Background(), message)).To(Succeed())

		mails := server.Mails()
		Expect(mails).To(HaveLen(1))
		Expect(mails[0].Data).To(ContainSubstring(`Content-Type: application/zip; name="campaign-1-123.zip"`))
		Expect(mails[0].Data).To(ContainSubstring(`Content-Disposition: attachment; filename="campaign-1-123.zip"`))
		Expect(mails[0].Data).To(ContainSubstring("multipart/mixed"))
	})

	It("should wrap connection failures", func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		cfg.Port = listener.Addr().(*net.TCPAddr).Port
		Expect(listener.Close()).To(Succeed())

		transport, err := notifier.NewSMTPTransport(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(transport.Send(context.Background(), message)).To(MatchError(ContainSubstring("failed to send email")))
	})

	It("should reject a missing attachment file before connecting", func() {
		message.Attachments = []domain.Attachment{{Name: "reports.zip"}}

		transport, err := notifier.NewSMTPTransport(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(transport.Send(context.Background(), message)).To(MatchError(ContainSubstring("has no file")))
		Expect(server.Mails()).To(BeEmpty())
	})

	It("should require a host and a positive port", func() {
		cfg.Host = ""
		_, err := notifier.NewSMTPTransport(cfg, nil)
		Expect(err).To(MatchError(ContainSubstring("host is required")))

		cfg.Host = "127.0.0.1"
		cfg.Port = 0
		_, err = notifier.NewSMTPTransport(cfg, nil)
		Expect(err).To(MatchError(ContainSubstring("port must be positive")))
	})

	It("should reject an unknown authentication mode", func() {
		cfg.AuthenticationMode = "KERBEROS"
		_, err := notifier.NewSMTPTransport(cfg, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewTransport", func() {
	It("should select the transport from the configuration", func() {
		transport, err := notifier.NewTransport(config.MailConfig{Host: "localhost", Port: 25}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(transport).To(BeAssignableToTypeOf(&notifier.SMTPTransport{}))

		transport, err = notifier.NewTransport(config.MailConfig{Transport: "STDOUT"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(transport).To(BeAssignableToTypeOf(&notifier.StdoutTransport{}))
	})

	It("should reject unknown transports", func() {
		_, err := notifier.NewTransport(config.MailConfig{Transport: "pigeon"}, nil)
		Expect(err).To(MatchError(ContainSubstring("unsupported mail transport")))
	})
})
