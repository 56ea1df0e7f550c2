package logging_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/igodwin/campaign-mailer/internal/logging"
)

var _ = Describe("Logger", func() {
	var buffer *bytes.Buffer

	BeforeEach(func() {
		buffer = &bytes.Buffer{}
	})

	It("should drop messages below the configured level", func() {
		logger := logging.New(logging.WarnLevel, buffer)

		logger.Debugf("debug %d", 1)
		logger.Info("info")
		logger.Warnf("warn %s", "message")
		logger.Error("error message")

		Expect(buffer.String()).NotTo(ContainSubstring("debug 1"))
		Expect(buffer.String()).NotTo(ContainSubstring("[INFO]"))
		Expect(buffer.String()).To(ContainSubstring("[WARN] warn message"))
		Expect(buffer.String()).To(ContainSubstring("[ERROR] error message"))
	})

	It("should prefix messages with the component name", func() {
		logger := logging.New(logging.DebugLevel, buffer).Named("publisher").Named("mail")

		logger.Infof("Mail sent successfully")

		Expect(buffer.String()).To(MatchRegexp(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z \[INFO\] publisher\.mail: Mail sent successfully\n$`))
	})

	It("should discard everything", func() {
		logger := logging.Discard()
		logger.Errorf("lost")
		Expect(logger.Level()).To(BeNumerically(">", logging.ErrorLevel))
	})

	DescribeTable("parsing levels",
		func(value string, expected logging.LogLevel) {
			Expect(logging.ParseLevel(value)).To(Equal(expected))
		},
		Entry("debug", "DEBUG", logging.DebugLevel),
		Entry("info", "info", logging.InfoLevel),
		Entry("warning", " warning ", logging.WarnLevel),
		Entry("error", "error", logging.ErrorLevel),
		Entry("unknown falls back to info", "verbose", logging.InfoLevel),
	)

	It("should write to a log file", func() {
		path := GinkgoT().TempDir() + "/mailer.log"
		logger, err := logging.NewFromConfig("info", path)
		Expect(err).NotTo(HaveOccurred())
		logger.Info("to file")

		_, err = logging.NewFromConfig("info", GinkgoT().TempDir()+"/missing/dir/mailer.log")
		Expect(err).To(MatchError(ContainSubstring("failed to open log file")))
	})
})
