package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/igodwin/campaign-mailer/internal/domain"
)

var _ = Describe("Report statuses", func() {
	DescribeTable("matching the status of a report",
		func(status domain.ExecutionStatus, expected domain.ReportExecutionStatus, matched bool) {
			actual, ok := domain.MatchReportStatus(status)
			Expect(ok).To(Equal(matched))
			Expect(actual).To(Equal(expected))
		},
		Entry("successful", domain.ExecutionSuccessful, domain.ReportStatusSuccessful, true),
		Entry("warning", domain.ExecutionWarning, domain.ReportStatusWarning, true),
		Entry("failed", domain.ExecutionFailed, domain.ReportStatusFailed, true),
		Entry("aborted", domain.ExecutionAborted, domain.ReportStatusAborted, true),
		Entry("queued is not a report status", domain.ExecutionQueued, domain.ReportExecutionStatus(""), false),
		Entry("in progress is not a report status", domain.ExecutionInProgress, domain.ReportExecutionStatus(""), false),
		Entry("the wildcard never matches", domain.ExecutionStatus("ALL"), domain.ReportExecutionStatus(""), false),
		Entry("lower case does not match", domain.ExecutionStatus("successful"), domain.ReportExecutionStatus(""), false),
	)

	It("should parse configured status names", func() {
		set, err := domain.ParseStatusSet([]string{"FAILED", " ABORTED "})
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Names()).To(Equal([]string{"ABORTED", "FAILED"}))
		Expect(set.Accepts(domain.ReportStatusFailed)).To(BeTrue())
		Expect(set.Accepts(domain.ReportStatusSuccessful)).To(BeFalse())
	})

	It("should reject unknown status names", func() {
		_, err := domain.ParseStatusSet([]string{"SUCCESSFUL", "DONE"})
		Expect(err).To(MatchError(ContainSubstring(`unknown report status "DONE"`)))
	})

	It("should accept every matched status when subscribed to ALL", func() {
		set := domain.NewStatusSet(domain.ReportStatusAll)
		for _, status := range []domain.ReportExecutionStatus{
			domain.ReportStatusSuccessful,
			domain.ReportStatusWarning,
			domain.ReportStatusFailed,
			domain.ReportStatusAborted,
		} {
			Expect(set.Accepts(status)).To(BeTrue())
		}
	})

	It("should parse authentication modes by exact name", func() {
		mode, err := domain.ParseAuthenticationMode("USERNAME_PASSWORD")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(domain.AuthUsernamePassword))

		_, err = domain.ParseAuthenticationMode("plain")
		Expect(err).To(HaveOccurred())
	})
})
