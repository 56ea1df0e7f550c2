package notifier_test

import (
	"bytes"
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/notifier"
)

const expectedSubject = "campaign-1 SUCCESSFUL"

var (
	stdoutTransport *notifier.StdoutTransport
	buffer          *bytes.Buffer
	reader          *os.File
	writer          *os.File
	originalStdout  *os.File
)

var _ = Describe("StdoutTransport", func() {
	BeforeEach(func() {
		stdoutTransport = notifier.NewStdoutTransport()

		buffer = &bytes.Buffer{}
		var err error
		reader, writer, err = os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		originalStdout = os.Stdout
		os.Stdout = writer
	})

	AfterEach(func() {
		os.Stdout = originalStdout
	})

	It("should output the message to stdout", func() {
		message := &domain.MailMessage{
			From:     domain.Address{Address: "no-reply@example.com"},
			To:       []domain.Address{{Name: "Jane", Address: "jane@example.com"}},
			Cc:       []domain.Address{{Address: "ops@example.com"}},
			Subject:  expectedSubject,
			HTMLBody: "<html><body>report</body></html>",
			Attachments: []domain.Attachment{{
				Path:        "/tmp/campaign-1.zip",
				Name:        "campaign-1.zip",
				ContentType: domain.ContentTypeZip,
			}},
		}
		Expect(stdoutTransport.Send(context.Background(), message)).To(Succeed())
		resetStdout()

		_, _ = buffer.ReadFrom(reader)
		Expect(buffer.String()).To(ContainSubstring("Subject: " + expectedSubject))
		Expect(buffer.String()).To(ContainSubstring(`"Jane" <jane@example.com>`))
		Expect(buffer.String()).To(ContainSubstring("Cc: [<ops@example.com>]"))
		Expect(buffer.String()).To(ContainSubstring("Attachment: campaign-1.zip (application/zip, /tmp/campaign-1.zip)"))
		Expect(buffer.String()).To(ContainSubstring("<html><body>report</body></html>"))
	})

	It("should not output anything if the message has no recipient", func() {
		message := &domain.MailMessage{
			From:    domain.Address{Address: "no-reply@example.com"},
			Subject: expectedSubject,
		}
		Expect(stdoutTransport.Send(context.Background(), message)).To(MatchError(ContainSubstring("no recipients")))
		resetStdout()

		_, _ = buffer.ReadFrom(reader)
		Expect(buffer.String()).To(BeEmpty())
	})

	It("should refuse a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		message := &domain.MailMessage{
			From: domain.Address{Address: "no-reply@example.com"},
			To:   []domain.Address{{Address: "jane@example.com"}},
		}
		Expect(stdoutTransport.Send(ctx, message)).To(MatchError(context.Canceled))
		resetStdout()
	})
})

func resetStdout() {
	Expect(writer.Close()).To(Succeed())
	os.Stdout = originalStdout
}
