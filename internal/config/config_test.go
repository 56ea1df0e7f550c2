package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/domain"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  rest_port: 9090
logging:
  level: debug
queue:
  worker_count: 2
  local:
    buffer_size: 10
report:
  export:
    junit:
      folder: /var/lib/campaigns/junit
    mail:
      enabled: true
      status: [FAILED, ABORTED]
      username: mailer
      password: s3cret
      host: smtp.example.com
      port: 587
      authentication_mode: USERNAME_PASSWORD
      from: Campaign Mailer <no-reply@example.com>
      to:
        - Jane Doe <jane@example.com>
        - john@example.com
      cc: [ops@example.com]
      junit: true
      starttls: true
      exclude: ["**/*.tmp"]
`

func writeConfig(content string) string {
	path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("Config", func() {
	It("should load a configuration file", func() {
		path := writeConfig(sampleConfig)

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.ConfigFile).To(Equal(path))
		Expect(cfg.Server.Host).To(Equal("127.0.0.1"))
		Expect(cfg.Server.RESTPort).To(Equal(9090))
		Expect(cfg.Logging.Level).To(Equal("debug"))
		Expect(cfg.Queue.WorkerCount).To(Equal(2))
		Expect(cfg.Queue.Local).NotTo(BeNil())
		Expect(cfg.Queue.Local.BufferSize).To(Equal(10))
		Expect(cfg.Report.Export.JUnit.Folder).To(Equal("/var/lib/campaigns/junit"))

		mail := cfg.Report.Export.Mail
		Expect(mail.Enabled).To(BeTrue())
		Expect(mail.Status).To(Equal([]string{"FAILED", "ABORTED"}))
		Expect(mail.Host).To(Equal("smtp.example.com"))
		Expect(mail.Port).To(Equal(587))
		Expect(mail.To).To(Equal([]string{"Jane Doe <jane@example.com>", "john@example.com"}))
		Expect(mail.Cc).To(Equal([]string{"ops@example.com"}))
		Expect(mail.JUnit).To(BeTrue())
		Expect(mail.StartTLS).To(BeTrue())
		Expect(mail.SSL).To(BeFalse())
		Expect(mail.Exclude).To(Equal([]string{"**/*.tmp"}))

		mode, err := mail.AuthMode()
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(domain.AuthUsernamePassword))
	})

	It("should apply defaults for missing keys", func() {
		cfg := config.Default()

		Expect(cfg.Server.RESTPort).To(Equal(8080))
		Expect(cfg.Queue.WorkerCount).To(Equal(4))
		mail := cfg.Report.Export.Mail
		Expect(mail.Enabled).To(BeFalse())
		Expect(mail.Status).To(Equal([]string{"ALL"}))
		Expect(mail.Host).To(Equal("localhost"))
		Expect(mail.Port).To(Equal(25))
		Expect(mail.AuthenticationMode).To(Equal("PLAIN"))
		Expect(mail.From).To(Equal("no-reply@qalipsis.io"))
		Expect(mail.JUnit).To(BeFalse())
		Expect(mail.SSL).To(BeFalse())
		Expect(mail.StartTLS).To(BeFalse())
		Expect(mail.TransportKind()).To(Equal(config.TransportSMTP))
	})

	It("should let environment variables override the file", func() {
		path := writeConfig(sampleConfig)
		setenv("CAMPAIGN_MAILER_REPORT_EXPORT_MAIL_PORT", "2525")
		setenv("CAMPAIGN_MAILER_REPORT_EXPORT_MAIL_HOST", "relay.example.com")

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Report.Export.Mail.Port).To(Equal(2525))
		Expect(cfg.Report.Export.Mail.Host).To(Equal("relay.example.com"))
	})

	It("should fail when an explicit file is missing", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "absent.yaml"))
		Expect(err).To(MatchError(ContainSubstring("failed to read config")))
	})

	It("should not validate mail settings while mail is disabled", func() {
		path := writeConfig(`
report:
  export:
    mail:
      enabled: false
      status: [NEVER]
`)
		_, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should redact the password", func() {
		cfg, err := config.Load(writeConfig(sampleConfig))
		Expect(err).NotTo(HaveOccurred())

		sanitized := cfg.Sanitize()
		Expect(sanitized.Report.Export.Mail.Password).To(Equal("***REDACTED***"))
		Expect(cfg.Report.Export.Mail.Password).To(Equal("s3cret"))
	})
})

var _ = Describe("MailConfig validation", func() {
	var mail config.MailConfig

	BeforeEach(func() {
		mail = config.Default().Report.Export.Mail
		mail.Enabled = true
		mail.To = []string{"jane@example.com"}
	})

	It("should accept the defaults with a recipient", func() {
		Expect(mail.Validate()).To(Succeed())
	})

	DescribeTable("rejecting invalid settings",
		func(mutate func(*config.MailConfig), message string) {
			mutate(&mail)
			err := mail.Validate()
			Expect(err).To(MatchError(config.ErrInvalidConfig))
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("empty status", func(m *config.MailConfig) { m.Status = nil }, "status must not be empty"),
		Entry("unknown status", func(m *config.MailConfig) { m.Status = []string{"DONE"} }, "DONE"),
		Entry("lower case status", func(m *config.MailConfig) { m.Status = []string{"failed"} }, "failed"),
		Entry("blank host", func(m *config.MailConfig) { m.Host = " " }, "host must not be blank"),
		Entry("zero port", func(m *config.MailConfig) { m.Port = 0 }, "port must be positive"),
		Entry("unknown authentication", func(m *config.MailConfig) { m.AuthenticationMode = "OAUTH" }, "OAUTH"),
		Entry("blank sender", func(m *config.MailConfig) { m.From = "" }, "from must not be blank"),
		Entry("malformed sender", func(m *config.MailConfig) { m.From = "nobody" }, "mail from"),
		Entry("no recipient", func(m *config.MailConfig) { m.To = nil }, "at least one recipient"),
		Entry("malformed recipient", func(m *config.MailConfig) { m.To = []string{"jane"} }, "mail to"),
		Entry("malformed copy", func(m *config.MailConfig) { m.Cc = []string{"ops"} }, "mail cc"),
		Entry("unknown transport", func(m *config.MailConfig) { m.Transport = "carrier-pigeon" }, "unknown mail transport"),
	)
})
